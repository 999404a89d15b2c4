package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/localnerve/nutradaily/internal/config"
	"github.com/localnerve/nutradaily/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func exerciseContainer(t *testing.T, sc *Container) {
	t.Helper()
	ctx := context.Background()

	result := HealthCheck(ctx, sc.Config, sc.DB, sc.Tables)
	require.Equal(t, "healthy", result.Status, result.ErrorMessage)

	_, err := sc.Accounts.CreateUser(ctx, NewUser{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "analytical",
		HeightCM: 170,
		WeightKG: 70,
	})
	require.NoError(t, err)

	user, err := sc.Accounts.Authenticate(ctx, "ada@example.com", "analytical")
	require.NoError(t, err)
	require.NotNil(t, user)

	// Emails differing only in case are distinct accounts with their own marks
	_, err = sc.Accounts.CreateUser(ctx, NewUser{
		Name:     "Ada Capitalized",
		Email:    "Ada@example.com",
		Password: "difference",
		HeightCM: 165,
		WeightKG: 60,
	})
	require.NoError(t, err)
	other, err := sc.Accounts.GetByEmail(ctx, "Ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, other)
	assert.Equal(t, "Ada Capitalized", other.Name)

	for _, email := range []string{user.Email, other.Email} {
		result, err := sc.Ledger.MarkToday(ctx, email, time.Now())
		require.NoError(t, err)
		assert.False(t, result.AlreadyMarked, email)
	}
	stats, err := sc.Ledger.ComputeStreaks(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Current)

	user, err = sc.Accounts.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Ada Lovelace", user.Name)

	_, err = sc.Progress.LogWater(ctx, user.Email, time.Now(), 1.5, user.WeightKG)
	require.NoError(t, err)
	entries, err := sc.Progress.Recent(ctx, user.Email, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestOpen_CSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	cfg := &config.Config{
		StoreBackend:  config.BackendCSV,
		CSVDir:        dir,
		SessionSecret: "secret",
		SessionTTL:    time.Hour,
		BcryptCost:    bcrypt.MinCost,
	}

	sc, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer sc.Close()

	assert.Nil(t, sc.DB)
	for _, name := range []string{"users.csv", "activity.csv", "progress.csv"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	exerciseContainer(t, sc)
}

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{
		StoreBackend:      config.BackendDatabase,
		DBType:            "sqlite",
		DBDatabase:        filepath.Join(t.TempDir(), "nutradaily.db"),
		DBConnectionLimit: 1,
		DBLogLevel:        "silent",
		SessionSecret:     "secret",
		SessionTTL:        time.Hour,
		BcryptCost:        bcrypt.MinCost,
	}

	sc, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer sc.Close()

	require.NotNil(t, sc.DB)
	exerciseContainer(t, sc)
}

// TestOpen_DatabaseContainer runs against a real server.
// Set DB_TYPE and DB_IMAGE, e.g. DB_TYPE=postgres DB_IMAGE=postgres:16-alpine
func TestOpen_DatabaseContainer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	dbType, image := os.Getenv("DB_TYPE"), os.Getenv("DB_IMAGE")
	if dbType == "" || image == "" {
		t.Skip("DB_TYPE and DB_IMAGE not set")
	}

	dc, err := testutil.StartDatabase(t, dbType, image)
	require.NoError(t, err)
	defer dc.Terminate(t)

	sc, err := Open(context.Background(), dc.Config())
	require.NoError(t, err)
	defer sc.Close()

	exerciseContainer(t, sc)
}
