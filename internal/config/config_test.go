package config

import (
	"testing"
	"time"
)

var envKeys = []string{
	"PORT", "STORE_BACKEND", "CSV_DIR", "DB_TYPE", "DB_HOST", "DB_PORT", "DB_DATABASE",
	"DB_USER", "DB_PASSWORD", "DB_CONNECTION_LIMIT", "DB_LOG_LEVEL",
	"SESSION_SECRET", "SESSION_TTL_HOURS", "BCRYPT_COST",
}

// clearEnv blanks every variable Load reads, so the defaults apply
func clearEnv(t *testing.T) {
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "3000" {
		t.Errorf("Expected port 3000, got %s", cfg.Port)
	}
	if cfg.StoreBackend != BackendDatabase {
		t.Errorf("Expected backend %s, got %s", BackendDatabase, cfg.StoreBackend)
	}
	if cfg.DBType != "sqlite" || cfg.DBDatabase != "nutradaily.db" {
		t.Errorf("Expected sqlite nutradaily.db, got %s %s", cfg.DBType, cfg.DBDatabase)
	}
	if cfg.SessionTTL != 72*time.Hour {
		t.Errorf("Expected session TTL 72h, got %v", cfg.SessionTTL)
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("Expected bcrypt cost 10, got %d", cfg.BcryptCost)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "secret")
	t.Setenv("STORE_BACKEND", "csv")
	t.Setenv("CSV_DIR", "/var/lib/nutradaily")
	t.Setenv("SESSION_TTL_HOURS", "2")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("DB_CONNECTION_LIMIT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.StoreBackend != BackendCSV || cfg.CSVDir != "/var/lib/nutradaily" {
		t.Errorf("Expected csv backend in /var/lib/nutradaily, got %s %s", cfg.StoreBackend, cfg.CSVDir)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("Expected session TTL 2h, got %v", cfg.SessionTTL)
	}
	if cfg.BcryptCost != 4 {
		t.Errorf("Expected bcrypt cost 4, got %d", cfg.BcryptCost)
	}
	if cfg.DBConnectionLimit != 5 {
		t.Errorf("Expected the default connection limit for a bad value, got %d", cfg.DBConnectionLimit)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing session secret", map[string]string{}},
		{"unknown backend", map[string]string{"SESSION_SECRET": "s", "STORE_BACKEND": "redis"}},
		{"mysql without user", map[string]string{"SESSION_SECRET": "s", "DB_TYPE": "mysql"}},
		{"bcrypt cost too low", map[string]string{"SESSION_SECRET": "s", "BCRYPT_COST": "2"}},
		{"bcrypt cost too high", map[string]string{"SESSION_SECRET": "s", "BCRYPT_COST": "40"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Errorf("Expected an error")
			}
		})
	}
}
