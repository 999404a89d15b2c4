package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/localnerve/nutradaily/internal/models"
	"github.com/localnerve/nutradaily/internal/store"
	"gorm.io/datatypes"
)

// DefaultReportSize is the number of entries shown by the progress report
const DefaultReportSize = 14

// ProgressLog owns the append-only calorie and water entries
type ProgressLog struct {
	mu      sync.Mutex
	entries store.Table[models.ProgressEntry]
	now     func() time.Time
}

// NewProgressLog creates a progress log over the given table
func NewProgressLog(entries store.Table[models.ProgressEntry]) *ProgressLog {
	return &ProgressLog{entries: entries, now: time.Now}
}

// LogCalories appends a daily calorie baseline
func (p *ProgressLog) LogCalories(ctx context.Context, email string, date time.Time, kcal int, goalWeightKG float64) (*models.ProgressEntry, error) {
	if kcal < 0 {
		return nil, fmt.Errorf("%w: calories cannot be negative", ErrValidation)
	}
	return p.append(ctx, models.ProgressEntry{
		UserEmail:    email,
		Calories:     &kcal,
		GoalWeightKG: goalWeightKG,
	}, date)
}

// LogWater appends a water intake entry
func (p *ProgressLog) LogWater(ctx context.Context, email string, date time.Time, liters, goalWeightKG float64) (*models.ProgressEntry, error) {
	if liters < 0 {
		return nil, fmt.Errorf("%w: water intake cannot be negative", ErrValidation)
	}
	return p.append(ctx, models.ProgressEntry{
		UserEmail:    email,
		WaterLiters:  liters,
		GoalWeightKG: goalWeightKG,
	}, date)
}

// Recent returns the last limit entries of email ordered by date. Entries of the
// same day keep the order they were logged in.
func (p *ProgressLog) Recent(ctx context.Context, email string, limit int) ([]models.ProgressEntry, error) {
	if limit <= 0 {
		limit = DefaultReportSize
	}

	p.mu.Lock()
	all, err := p.entries.LoadAll(ctx)
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}

	var mine []models.ProgressEntry
	for _, e := range all {
		if e.UserEmail == email {
			mine = append(mine, e)
		}
	}
	slices.SortStableFunc(mine, func(a, b models.ProgressEntry) int {
		return strings.Compare(models.Day(time.Time(a.Date)), models.Day(time.Time(b.Date)))
	})

	if len(mine) > limit {
		mine = mine[len(mine)-limit:]
	}
	return mine, nil
}

func (p *ProgressLog) append(ctx context.Context, entry models.ProgressEntry, date time.Time) (*models.ProgressEntry, error) {
	if strings.TrimSpace(entry.UserEmail) == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if err := checkPrintable("email", entry.UserEmail); err != nil {
		return nil, err
	}
	entry.Date = datatypes.Date(dayStart(date))
	entry.CreatedAt = p.now().UTC()

	p.mu.Lock()
	defer p.mu.Unlock()

	entries, err := p.entries.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	var lastID uint64
	for _, e := range entries {
		lastID = max(lastID, e.ID)
	}
	for i := range entries {
		// rows read from CSV carry no ID
		if entries[i].ID == 0 {
			lastID++
			entries[i].ID = lastID
		}
	}
	entry.ID = lastID + 1

	if err := p.entries.ReplaceAll(ctx, append(entries, entry)); err != nil {
		return nil, err
	}
	return &entry, nil
}

// dayStart keeps the calendar day of t as midnight UTC
func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
