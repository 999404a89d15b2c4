package store

import (
	"context"
	"path/filepath"

	"github.com/localnerve/nutradaily/internal/models"
	"gorm.io/gorm"
)

// CSV file names inside the data directory
const (
	UsersFile    = "users.csv"
	ActivityFile = "activity.csv"
	ProgressFile = "progress.csv"
)

// Tables groups the tables of one backend
type Tables struct {
	Users    Table[models.User]
	Events   Table[models.ActivityEvent]
	Progress Table[models.ProgressEntry]
}

// NewGormTables opens every table in the database
func NewGormTables(db *gorm.DB) Tables {
	return Tables{
		Users:    NewGormTable[models.User](db, "created_at, email"),
		Events:   NewGormTable[models.ActivityEvent](db, "user_email, date"),
		Progress: NewGormTable[models.ProgressEntry](db, "id"),
	}
}

// NewCSVTables opens every table as a CSV file in dir, creating missing files
func NewCSVTables(ctx context.Context, dir string) (Tables, error) {
	users := NewCSVTable[models.User](filepath.Join(dir, UsersFile), UserCodec{})
	events := NewCSVTable[models.ActivityEvent](filepath.Join(dir, ActivityFile), ActivityCodec{})
	progress := NewCSVTable[models.ProgressEntry](filepath.Join(dir, ProgressFile), ProgressCodec{})

	for _, ensure := range []func(context.Context) error{users.Ensure, events.Ensure, progress.Ensure} {
		if err := ensure(ctx); err != nil {
			return Tables{}, err
		}
	}

	return Tables{Users: users, Events: events, Progress: progress}, nil
}

// Check loads every table once, surfacing unreadable or mismatched tables
func (t Tables) Check(ctx context.Context) error {
	if _, err := t.Users.LoadAll(ctx); err != nil {
		return err
	}
	if _, err := t.Events.LoadAll(ctx); err != nil {
		return err
	}
	if _, err := t.Progress.LoadAll(ctx); err != nil {
		return err
	}
	return nil
}
