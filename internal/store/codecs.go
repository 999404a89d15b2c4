package store

import (
	"fmt"
	"strconv"
	"time"

	"github.com/localnerve/nutradaily/internal/models"
	"gorm.io/datatypes"
)

// legacyTimeLayout is the naive ISO timestamp written by the first version of the
// users file (no zone, UTC implied)
const legacyTimeLayout = "2006-01-02T15:04:05.999999"

// UserCodec maps users.csv records
type UserCodec struct{}

// Header returns the canonical users.csv columns
func (UserCodec) Header() []string {
	return []string{"name", "email", "password", "height_cm", "weight_kg", "gender", "activity", "goal", "created_at"}
}

// Encode formats a user as a users.csv record
func (UserCodec) Encode(u models.User) []string {
	return []string{
		u.Name,
		u.Email,
		u.PasswordHash,
		formatFloat(u.HeightCM),
		formatFloat(u.WeightKG),
		string(u.Gender),
		string(u.ActivityLevel),
		string(u.Goal),
		u.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// Decode parses a users.csv record
func (UserCodec) Decode(record []string) (models.User, error) {
	var u models.User
	var err error

	u.Name = record[0]
	u.Email = record[1]
	u.PasswordHash = record[2]
	if u.HeightCM, err = parseFloat("height_cm", record[3]); err != nil {
		return u, err
	}
	if u.WeightKG, err = parseFloat("weight_kg", record[4]); err != nil {
		return u, err
	}
	if u.Gender, err = models.ParseGender(record[5]); err != nil {
		return u, err
	}
	if u.ActivityLevel, err = models.ParseActivityLevel(record[6]); err != nil {
		return u, err
	}
	if u.Goal, err = models.ParseGoal(record[7]); err != nil {
		return u, err
	}
	if u.CreatedAt, err = parseTimestamp(record[8]); err != nil {
		return u, err
	}

	return u, nil
}

// ActivityCodec maps activity.csv records
type ActivityCodec struct{}

// Header returns the canonical activity.csv columns
func (ActivityCodec) Header() []string {
	return []string{"user_email", "date"}
}

// Encode formats an event as an activity.csv record
func (ActivityCodec) Encode(e models.ActivityEvent) []string {
	return []string{e.UserEmail, e.Date}
}

// Decode parses an activity.csv record
func (ActivityCodec) Decode(record []string) (models.ActivityEvent, error) {
	if _, err := time.Parse(models.DayLayout, record[1]); err != nil {
		return models.ActivityEvent{}, fmt.Errorf("date: %w", err)
	}
	return models.ActivityEvent{UserEmail: record[0], Date: record[1]}, nil
}

// ProgressCodec maps progress.csv records
type ProgressCodec struct{}

// Header returns the canonical progress.csv columns
func (ProgressCodec) Header() []string {
	return []string{"user_email", "date", "calories", "water_liters", "goal_weight_kg", "created_at"}
}

// Encode formats an entry as a progress.csv record
func (ProgressCodec) Encode(p models.ProgressEntry) []string {
	calories := ""
	if p.Calories != nil {
		calories = strconv.Itoa(*p.Calories)
	}
	return []string{
		p.UserEmail,
		models.Day(time.Time(p.Date)),
		calories,
		formatFloat(p.WaterLiters),
		formatFloat(p.GoalWeightKG),
		p.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// Decode parses a progress.csv record
func (ProgressCodec) Decode(record []string) (models.ProgressEntry, error) {
	p := models.ProgressEntry{UserEmail: record[0]}

	day, err := time.Parse(models.DayLayout, record[1])
	if err != nil {
		return p, fmt.Errorf("date: %w", err)
	}
	p.Date = datatypes.Date(day)

	if record[2] != "" {
		kcal, err := strconv.Atoi(record[2])
		if err != nil {
			return p, fmt.Errorf("calories: %w", err)
		}
		p.Calories = &kcal
	}
	if p.WaterLiters, err = parseFloat("water_liters", record[3]); err != nil {
		return p, err
	}
	if p.GoalWeightKG, err = parseFloat("goal_weight_kg", record[4]); err != nil {
		return p, err
	}
	if p.CreatedAt, err = parseTimestamp(record[5]); err != nil {
		return p, err
	}

	return p, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func parseFloat(column, s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", column, err)
	}
	return f, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(legacyTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("created_at: %w", err)
	}
	return t, nil
}
