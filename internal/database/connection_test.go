package database_test

import (
	"path/filepath"
	"testing"

	"github.com/localnerve/nutradaily/internal/config"
	"github.com/localnerve/nutradaily/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialector(t *testing.T) {
	tests := []struct {
		dbType string
		want   string
	}{
		{"mysql", "mysql"},
		{"mariadb", "mysql"},
		{"postgres", "postgres"},
		{"postgresql", "postgres"},
		{"sqlite", "sqlite"},
		{"sqlite3", "sqlite"},
		{"sqlserver", "sqlserver"},
		{"mssql", "sqlserver"},
	}

	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			cfg := &config.Config{
				DBType:     tt.dbType,
				DBHost:     "localhost",
				DBPort:     "3306",
				DBDatabase: "nutradaily",
				DBUser:     "user",
				DBPassword: "password",
			}
			dialector, err := database.Dialector(cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, dialector.Name())
		})
	}

	_, err := database.Dialector(&config.Config{DBType: "oracle"})
	assert.Error(t, err)
}

func TestConnect_SQLite(t *testing.T) {
	cfg := &config.Config{
		DBType:            "sqlite",
		DBDatabase:        filepath.Join(t.TempDir(), "nutradaily.db"),
		DBConnectionLimit: 1,
		DBLogLevel:        "silent",
	}

	db, err := database.Connect(cfg)
	require.NoError(t, err)
	defer database.Close(db)

	require.NoError(t, database.AutoMigrate(db))
	// Running it twice is harmless
	require.NoError(t, database.AutoMigrate(db))

	for _, table := range []string{"users", "activity_events", "progress_entries"} {
		assert.True(t, db.Migrator().HasTable(table), "table %s", table)
	}
	assert.True(t, db.Migrator().HasColumn("users", "password"))
	assert.True(t, db.Migrator().HasColumn("users", "activity"))
}
