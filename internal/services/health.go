package services

import (
	"context"
	"fmt"
	"log"

	"github.com/localnerve/nutradaily/internal/config"
	"github.com/localnerve/nutradaily/internal/store"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Storage      string            `json:"storage"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck checks that the storage backend is reachable and every table loads.
// db is nil for the csv backend.
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB, tables store.Tables) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Storage: "ok",
		Details: map[string]string{"store_backend": cfg.StoreBackend},
	}

	fail := func(state, key string, err error) {
		result.Status = "unhealthy"
		result.Storage = state
		result.Details[key] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Storage check failed: %v", err)
		log.Printf("Health check failed - %s: %v", key, err)
	}

	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			fail("error", "database_error", err)
			return result
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			fail("unreachable", "database_ping_error", err)
			return result
		}
		result.Details["database_type"] = cfg.DBType
		result.Details["database_name"] = cfg.DBDatabase
	} else {
		result.Details["csv_dir"] = cfg.CSVDir
	}

	if err := tables.Check(ctx); err != nil {
		fail("error", "table_error", err)
		return result
	}

	log.Println("Health check passed - storage operational")
	return result
}
