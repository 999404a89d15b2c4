// ledger.go
//
// NuTraDaily, a nutrition and daily activity tracking service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of nutradaily.
// nutradaily is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// nutradaily is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with nutradaily.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/localnerve/nutradaily/internal/models"
	"github.com/localnerve/nutradaily/internal/store"
)

// MarkResult reports whether the day had been marked before the call
type MarkResult struct {
	AlreadyMarked bool `json:"alreadyMarked"`
}

// StreakStats holds the streak lengths in days
type StreakStats struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

// ActivityLedger owns the append-only day marks. It treats the email as an opaque
// key and never looks at the account table.
type ActivityLedger struct {
	mu     sync.Mutex
	events store.Table[models.ActivityEvent]
}

// NewActivityLedger creates a ledger over the given table
func NewActivityLedger(events store.Table[models.ActivityEvent]) *ActivityLedger {
	return &ActivityLedger{events: events}
}

// MarkToday records that email was active on the calendar day of date.
// Marking a day twice writes nothing the second time.
func (l *ActivityLedger) MarkToday(ctx context.Context, email string, date time.Time) (MarkResult, error) {
	if err := checkPrintable("email", email); err != nil {
		return MarkResult{}, err
	}
	event := models.ActivityEvent{UserEmail: email, Date: models.Day(date)}

	l.mu.Lock()
	defer l.mu.Unlock()

	events, err := l.events.LoadAll(ctx)
	if err != nil {
		return MarkResult{}, err
	}
	if slices.Contains(events, event) {
		return MarkResult{AlreadyMarked: true}, nil
	}

	if err := l.events.ReplaceAll(ctx, append(events, event)); err != nil {
		return MarkResult{}, err
	}
	return MarkResult{AlreadyMarked: false}, nil
}

// Days returns the days email marked, oldest first
func (l *ActivityLedger) Days(ctx context.Context, email string) ([]string, error) {
	l.mu.Lock()
	events, err := l.events.LoadAll(ctx)
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}

	var days []string
	for _, e := range events {
		if e.UserEmail == email {
			days = append(days, e.Date)
		}
	}
	slices.Sort(days)
	return days, nil
}

// ComputeStreaks derives the streaks of email from its marked days.
// Current is the run ending at the latest marked day, even when that day is long past.
func (l *ActivityLedger) ComputeStreaks(ctx context.Context, email string) (StreakStats, error) {
	days, err := l.Days(ctx, email)
	if err != nil {
		return StreakStats{}, err
	}

	dates := make([]time.Time, 0, len(days))
	for _, d := range days {
		t, err := time.Parse(models.DayLayout, d)
		if err != nil {
			return StreakStats{}, fmt.Errorf("activity date %q for %s: %w", d, email, err)
		}
		dates = append(dates, t)
	}

	return Streaks(dates), nil
}

// Streaks scans calendar days (midnight UTC, any order) for consecutive runs
func Streaks(dates []time.Time) StreakStats {
	if len(dates) == 0 {
		return StreakStats{}
	}

	sorted := slices.Clone(dates)
	slices.SortFunc(sorted, func(a, b time.Time) int {
		return a.Compare(b)
	})

	stats := StreakStats{Current: 1, Best: 1}
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Sub(sorted[i-1]) == 24*time.Hour {
			stats.Current++
			stats.Best = max(stats.Best, stats.Current)
		} else {
			stats.Current = 1
		}
	}

	return stats
}
