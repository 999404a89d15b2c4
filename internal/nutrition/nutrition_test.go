package nutrition

import (
	"testing"

	"github.com/localnerve/nutradaily/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyCalories(t *testing.T) {
	tests := []struct {
		name     string
		gender   models.Gender
		weightKG float64
		heightCM float64
		age      int
		level    models.ActivityLevel
		wantBMR  float64
		want     int
	}{
		{"male low", models.GenderMale, 70, 175, 30, models.ActivityLow, 1695.36, 2034},
		{"female moderate", models.GenderFemale, 60, 165, 25, models.ActivityModerate, 1403.6, 2176},
		{"other high", models.GenderOther, 70, 170, 40, models.ActivityHigh, 1700, 3230},
		{"undisclosed uses the average", models.GenderPreferNotToSay, 70, 170, 40, models.ActivityLow, 1700, 2040},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.wantBMR, BMR(tt.gender, tt.weightKG, tt.heightCM, tt.age), 1e-9)
			assert.Equal(t, tt.want, DailyCalories(tt.gender, tt.weightKG, tt.heightCM, tt.age, tt.level))
		})
	}
}

func TestActivityFactor(t *testing.T) {
	assert.Equal(t, 1.2, ActivityFactor(models.ActivityLow))
	assert.Equal(t, 1.55, ActivityFactor(models.ActivityModerate))
	assert.Equal(t, 1.9, ActivityFactor(models.ActivityHigh))
	assert.Equal(t, 1.2, ActivityFactor(""))
}

func TestWater(t *testing.T) {
	assert.Equal(t, 2.45, WaterGoalLiters(70))
	assert.Equal(t, 2.8, WaterGoalLiters(80))

	assert.InDelta(t, 0.5, WaterProgress(1.225, 2.45), 1e-9)
	assert.Equal(t, 1.0, WaterProgress(3, 2.45))
	assert.Equal(t, 0.0, WaterProgress(1, 0))
}

func TestWeeksToGoal(t *testing.T) {
	assert.Equal(t, 20.0, WeeksToGoal(80, 70, 0.5))
	assert.Equal(t, 20.0, WeeksToGoal(70, 80, 0.5))
	assert.Equal(t, 0.0, WeeksToGoal(80, 70, 0))
}

func TestBMI(t *testing.T) {
	bmi, err := BMI(180, 81)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, bmi, 1e-9)

	_, err = BMI(170, 0)
	assert.Error(t, err)
	_, err = BMI(300, 70)
	assert.Error(t, err)
}

func TestBMICategory(t *testing.T) {
	tests := []struct {
		bmi  float64
		want string
	}{
		{17, "Underweight"},
		{18.5, "Normal weight"},
		{24.9, "Normal weight"},
		{25, "Overweight"},
		{32, "Obesity class I"},
		{37, "Obesity class II"},
		{45, "Obesity class III"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BMICategory(tt.bmi), "bmi %v", tt.bmi)
	}
}
