package services

import (
	"context"
	"testing"
	"time"

	"github.com/localnerve/nutradaily/internal/store"
	"github.com/localnerve/nutradaily/internal/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// backends returns one set of tables per storage backend
func backends(t *testing.T) map[string]store.Tables {
	t.Helper()

	csvTables, err := store.NewCSVTables(context.Background(), t.TempDir())
	require.NoError(t, err)

	return map[string]store.Tables{
		"csv":    csvTables,
		"sqlite": store.NewGormTables(testutil.OpenTestDB(t)),
	}
}

// forEachBackend runs fn as a subtest against every backend
func forEachBackend(t *testing.T, fn func(t *testing.T, tables store.Tables)) {
	for name, tables := range backends(t) {
		t.Run(name, func(t *testing.T) {
			fn(t, tables)
		})
	}
}

func newTestAccounts(tables store.Tables) *AccountStore {
	accounts := NewAccountStore(tables.Users, bcrypt.MinCost)
	accounts.now = func() time.Time {
		return time.Date(2024, 1, 15, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	}
	return accounts
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}
