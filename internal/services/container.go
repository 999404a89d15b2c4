package services

import (
	"context"
	"fmt"

	"github.com/localnerve/nutradaily/internal/config"
	"github.com/localnerve/nutradaily/internal/database"
	"github.com/localnerve/nutradaily/internal/store"
	"gorm.io/gorm"
)

// Container wires the services to the configured storage backend
type Container struct {
	Config   *config.Config
	DB       *gorm.DB // nil for the csv backend
	Tables   store.Tables
	Accounts *AccountStore
	Ledger   *ActivityLedger
	Progress *ProgressLog
	Sessions *SessionIssuer
}

// Open connects the configured backend and builds every service on top of it
func Open(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	switch cfg.StoreBackend {
	case config.BackendDatabase:
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			database.Close(db)
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		c.DB = db
		c.Tables = store.NewGormTables(db)

	case config.BackendCSV:
		tables, err := store.NewCSVTables(ctx, cfg.CSVDir)
		if err != nil {
			return nil, err
		}
		c.Tables = tables

	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.StoreBackend)
	}

	c.Accounts = NewAccountStore(c.Tables.Users, cfg.BcryptCost)
	c.Ledger = NewActivityLedger(c.Tables.Events)
	c.Progress = NewProgressLog(c.Tables.Progress)
	c.Sessions = NewSessionIssuer(cfg.SessionSecret, cfg.SessionTTL)

	return c, nil
}

// Close releases the database connection, if any
func (c *Container) Close() error {
	if c.DB == nil {
		return nil
	}
	return database.Close(c.DB)
}
