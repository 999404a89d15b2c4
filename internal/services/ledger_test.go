package services

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/localnerve/nutradaily/internal/models"
	"github.com/localnerve/nutradaily/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreaks(t *testing.T) {
	tests := []struct {
		name string
		days []string
		want StreakStats
	}{
		{"no events", nil, StreakStats{Current: 0, Best: 0}},
		{"single day", []string{"2024-01-01"}, StreakStats{Current: 1, Best: 1}},
		{"three in a row", []string{"2024-01-01", "2024-01-02", "2024-01-03"}, StreakStats{Current: 3, Best: 3}},
		{"gap resets current", []string{"2024-01-01", "2024-01-02", "2024-01-05"}, StreakStats{Current: 1, Best: 2}},
		{"unsorted input", []string{"2024-01-03", "2024-01-01", "2024-01-02"}, StreakStats{Current: 3, Best: 3}},
		{"later run shorter", []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-10", "2024-01-11"}, StreakStats{Current: 2, Best: 3}},
		{"across month end", []string{"2024-02-28", "2024-02-29", "2024-03-01"}, StreakStats{Current: 3, Best: 3}},
		{"across year end", []string{"2023-12-31", "2024-01-01"}, StreakStats{Current: 2, Best: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates := make([]time.Time, 0, len(tt.days))
			for _, d := range tt.days {
				dates = append(dates, day(d))
			}
			assert.Equal(t, tt.want, Streaks(dates))
		})
	}
}

func TestStreaks_BestNeverBelowCurrent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	start := day("2024-01-01")

	for i := 0; i < 200; i++ {
		seen := map[int]bool{}
		var dates []time.Time
		for j := rng.Intn(30); j > 0; j-- {
			offset := rng.Intn(40)
			if seen[offset] {
				continue
			}
			seen[offset] = true
			dates = append(dates, start.AddDate(0, 0, offset))
		}

		stats := Streaks(dates)
		assert.GreaterOrEqual(t, stats.Best, stats.Current)
		if len(dates) > 0 {
			assert.GreaterOrEqual(t, stats.Current, 1)
		}
	}
}

func TestMarkToday_Idempotent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, tables store.Tables) {
		ctx := context.Background()
		ledger := NewActivityLedger(tables.Events)
		today := time.Date(2024, 1, 2, 18, 30, 0, 0, time.UTC)

		result, err := ledger.MarkToday(ctx, "ada@example.com", today)
		require.NoError(t, err)
		assert.False(t, result.AlreadyMarked)

		// Same day, different time
		result, err = ledger.MarkToday(ctx, "ada@example.com", today.Add(2*time.Hour))
		require.NoError(t, err)
		assert.True(t, result.AlreadyMarked)

		events, err := tables.Events.LoadAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.ActivityEvent{{UserEmail: "ada@example.com", Date: "2024-01-02"}}, events)
	})
}

func TestMarkToday_RejectsControlCharacters(t *testing.T) {
	forEachBackend(t, func(t *testing.T, tables store.Tables) {
		ctx := context.Background()
		ledger := NewActivityLedger(tables.Events)
		date := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

		for i := 0; i < 2; i++ {
			_, err := ledger.MarkToday(ctx, "x\r\ny@example.com", date)
			assert.ErrorIs(t, err, ErrValidation)
		}

		events, err := tables.Events.LoadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}

func TestComputeStreaks(t *testing.T) {
	forEachBackend(t, func(t *testing.T, tables store.Tables) {
		ctx := context.Background()
		ledger := NewActivityLedger(tables.Events)

		stats, err := ledger.ComputeStreaks(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, StreakStats{}, stats)

		for _, d := range []string{"2024-01-05", "2024-01-01", "2024-01-02"} {
			_, err := ledger.MarkToday(ctx, "ada@example.com", day(d))
			require.NoError(t, err)
		}
		// Another user's marks never count
		for _, d := range []string{"2024-01-03", "2024-01-04"} {
			_, err := ledger.MarkToday(ctx, "lin@example.com", day(d))
			require.NoError(t, err)
		}

		stats, err = ledger.ComputeStreaks(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, StreakStats{Current: 1, Best: 2}, stats)

		days, err := ledger.Days(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-05"}, days)
	})
}

func TestComputeStreaks_StaleRunIsKept(t *testing.T) {
	forEachBackend(t, func(t *testing.T, tables store.Tables) {
		ctx := context.Background()
		ledger := NewActivityLedger(tables.Events)

		// A run that ended long ago still reports as the current streak
		for _, d := range []string{"2020-06-01", "2020-06-02", "2020-06-03"} {
			_, err := ledger.MarkToday(ctx, "ada@example.com", day(d))
			require.NoError(t, err)
		}

		stats, err := ledger.ComputeStreaks(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, StreakStats{Current: 3, Best: 3}, stats)
	})
}

func TestComputeStreaks_StorageError(t *testing.T) {
	dir := t.TempDir()
	tables, err := store.NewCSVTables(context.Background(), dir)
	require.NoError(t, err)

	ledger := NewActivityLedger(tables.Events)
	_, err = ledger.MarkToday(context.Background(), "ada@example.com", day("2024-01-01"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ledger.ComputeStreaks(ctx, "ada@example.com")

	var storageErr *store.StorageError
	assert.ErrorAs(t, err, &storageErr)
}
