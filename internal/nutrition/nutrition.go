// Package nutrition holds the daily calorie, water and body metric calculators.
package nutrition

import (
	"errors"
	"math"

	"github.com/localnerve/nutradaily/internal/models"
)

// waterMLPerKG is the daily water need per kilogram of body weight
const waterMLPerKG = 35

// BMR estimates the basal metabolic rate in kcal/day (revised Harris-Benedict).
// Other and undisclosed genders use an average of both equations.
func BMR(gender models.Gender, weightKG, heightCM float64, age int) float64 {
	a := float64(age)
	switch gender {
	case models.GenderMale:
		return 88.36 + 13.4*weightKG + 4.8*heightCM - 5.7*a
	case models.GenderFemale:
		return 447.6 + 9.2*weightKG + 3.1*heightCM - 4.3*a
	default:
		return 450 + 11*weightKG + 4*heightCM - 5.0*a
	}
}

// ActivityFactor multiplies BMR into total daily energy expenditure
func ActivityFactor(level models.ActivityLevel) float64 {
	switch level {
	case models.ActivityModerate:
		return 1.55
	case models.ActivityHigh:
		return 1.9
	default:
		return 1.2
	}
}

// DailyCalories estimates the daily calorie need, rounded half to even
func DailyCalories(gender models.Gender, weightKG, heightCM float64, age int, level models.ActivityLevel) int {
	return int(math.RoundToEven(BMR(gender, weightKG, heightCM, age) * ActivityFactor(level)))
}

// WaterGoalLiters is the daily water goal, rounded to centiliters
func WaterGoalLiters(weightKG float64) float64 {
	return roundTo(weightKG*waterMLPerKG/1000, 2)
}

// WaterProgress is the fraction of the goal drunk, capped at 1
func WaterProgress(intakeLiters, goalLiters float64) float64 {
	if goalLiters <= 0 {
		return 0
	}
	return math.Min(intakeLiters/goalLiters, 1)
}

// WeeksToGoal estimates how long reaching goalKG takes at weeklyChangeKG per week
func WeeksToGoal(currentKG, goalKG, weeklyChangeKG float64) float64 {
	if weeklyChangeKG == 0 {
		return 0
	}
	return math.Abs(currentKG-goalKG) / weeklyChangeKG
}

// BMI expects height in centimeters and weight in kilograms.
func BMI(heightCM, weightKG float64) (float64, error) {
	if heightCM <= 0 || weightKG <= 0 {
		return 0, errors.New("height and weight must be positive")
	}
	// Sanity checks to avoid garbage input
	if heightCM < 50 || heightCM > 250 || weightKG < 10 || weightKG > 400 {
		return 0, errors.New("height/weight out of plausible range")
	}

	h := heightCM / 100.0
	return weightKG / (h * h), nil
}

// BMICategory labels a BMI value
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25.0:
		return "Normal weight"
	case bmi < 30.0:
		return "Overweight"
	case bmi < 35.0:
		return "Obesity class I"
	case bmi < 40.0:
		return "Obesity class II"
	default:
		return "Obesity class III"
	}
}

func roundTo(f float64, places int) float64 {
	p := math.Pow10(places)
	return math.RoundToEven(f*p) / p
}
