package models

import (
	"fmt"
	"strings"
	"time"
)

// Gender of a registered user
type Gender string

const (
	GenderMale           Gender = "Male"
	GenderFemale         Gender = "Female"
	GenderOther          Gender = "Other"
	GenderPreferNotToSay Gender = "PreferNotToSay"
)

// ActivityLevel drives the calorie activity factor
type ActivityLevel string

const (
	ActivityLow      ActivityLevel = "Low"
	ActivityModerate ActivityLevel = "Moderate"
	ActivityHigh     ActivityLevel = "High"
)

// Goal is the user's stated body goal
type Goal string

const (
	GoalWeightLoss  Goal = "WeightLoss"
	GoalWeightGain  Goal = "WeightGain"
	GoalMaintenance Goal = "Maintenance"
	GoalBuildMuscle Goal = "BuildMuscle"
)

// User represents one registered person.
// Email is the identity and never changes once the record exists.
type User struct {
	Email         string        `gorm:"primaryKey;size:255" json:"email"`
	Name          string        `gorm:"size:255;not null" json:"name"`
	PasswordHash  string        `gorm:"column:password;size:255;not null" json:"-"`
	HeightCM      float64       `gorm:"not null" json:"height_cm"`
	WeightKG      float64       `gorm:"not null" json:"weight_kg"`
	Gender        Gender        `gorm:"size:32;not null" json:"gender"`
	ActivityLevel ActivityLevel `gorm:"column:activity;size:32;not null" json:"activity_level"`
	Goal          Goal          `gorm:"size:32;not null" json:"goal"`
	CreatedAt     time.Time     `gorm:"autoCreateTime:false" json:"created_at"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// normalizeLabel folds the display labels of the signup form ("Prefer not to say")
// onto the enum spelling ("prefernottosay").
func normalizeLabel(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// ParseGender accepts the enum value or its display label
func ParseGender(s string) (Gender, error) {
	switch normalizeLabel(s) {
	case "male":
		return GenderMale, nil
	case "female":
		return GenderFemale, nil
	case "other":
		return GenderOther, nil
	case "prefernottosay", "":
		return GenderPreferNotToSay, nil
	}
	return "", fmt.Errorf("unknown gender %q", s)
}

// ParseActivityLevel accepts the enum value or its display label
func ParseActivityLevel(s string) (ActivityLevel, error) {
	switch normalizeLabel(s) {
	case "low", "":
		return ActivityLow, nil
	case "moderate":
		return ActivityModerate, nil
	case "high":
		return ActivityHigh, nil
	}
	return "", fmt.Errorf("unknown activity level %q", s)
}

// ParseGoal accepts the enum value or its display label
func ParseGoal(s string) (Goal, error) {
	switch normalizeLabel(s) {
	case "weightloss":
		return GoalWeightLoss, nil
	case "weightgain":
		return GoalWeightGain, nil
	case "maintenance", "maintainweight", "":
		return GoalMaintenance, nil
	case "buildmuscle":
		return GoalBuildMuscle, nil
	}
	return "", fmt.Errorf("unknown goal %q", s)
}
