package models

import (
	"time"

	"gorm.io/datatypes"
)

// DayLayout is the calendar day format used for every stored date
const DayLayout = "2006-01-02"

// Day formats t as a calendar day in its own location
func Day(t time.Time) string {
	return t.Format(DayLayout)
}

// ActivityEvent records that a user was active on a calendar day.
// The composite key keeps a single event per user and day.
type ActivityEvent struct {
	UserEmail string `gorm:"primaryKey;size:255" json:"user_email"`
	Date      string `gorm:"primaryKey;size:10" json:"date"`
}

// TableName overrides the table name for ActivityEvent
func (ActivityEvent) TableName() string {
	return "activity_events"
}

// ProgressEntry is one calorie or water log line
type ProgressEntry struct {
	ID           uint64         `gorm:"primaryKey;autoIncrement:false" json:"-"`
	UserEmail    string         `gorm:"size:255;not null;index" json:"user_email"`
	Date         datatypes.Date `gorm:"not null" json:"date"`
	Calories     *int           `json:"calories,omitempty"`
	WaterLiters  float64        `gorm:"not null" json:"water_liters"`
	GoalWeightKG float64        `json:"goal_weight_kg"`
	CreatedAt    time.Time      `gorm:"autoCreateTime:false" json:"created_at"`
}

// TableName overrides the table name for ProgressEntry
func (ProgressEntry) TableName() string {
	return "progress_entries"
}
