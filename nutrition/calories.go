// Package nutrition estimates daily calorie needs with the Harris-Benedict
// equation.
package nutrition

import (
	"errors"
	"math"
	"strings"
)

var ErrInvalidMetrics = errors.New("age, weight and height must be positive and within human range")

// Upper bounds of the accepted metrics
const (
	MaxAge    = 150 // years
	MaxWeight = 650 // kg
	MaxHeight = 300 // cm
)

type Activity string

const (
	Sedentary  Activity = "sedentary"
	Light      Activity = "light"
	Moderate   Activity = "moderate"
	Active     Activity = "active"
	VeryActive Activity = "very-active"
)

var multipliers = map[Activity]float64{
	Sedentary:  1.2,
	Light:      1.375,
	Moderate:   1.55,
	Active:     1.725,
	VeryActive: 1.9,
}

// Multiplier of an activity level; unknown levels count as sedentary
func (a Activity) Multiplier() float64 {
	if m, ok := multipliers[a]; ok {
		return m
	}
	return multipliers[Sedentary]
}

// Metrics of a person. Weight in kg, height in cm, age in years.
type Metrics struct {
	Gender   string   `json:"gender"`
	Age      float64  `json:"age"`
	Weight   float64  `json:"weight"`
	Height   float64  `json:"height"`
	Activity Activity `json:"activityLevel"`
}

// BMR is the basal metabolic rate. Any gender other than "male" uses the
// female equation.
func BMR(m Metrics) float64 {
	if strings.EqualFold(m.Gender, "male") {
		return 88.362 + 13.397*m.Weight + 4.799*m.Height - 5.677*m.Age
	}
	return 447.593 + 9.247*m.Weight + 3.098*m.Height - 4.33*m.Age
}

func within(v, max float64) bool {
	return v > 0 && v <= max
}

// DailyCalories is BMR × activity multiplier, rounded to whole calories
func DailyCalories(m Metrics) (int, error) {
	if !within(m.Age, MaxAge) || !within(m.Weight, MaxWeight) || !within(m.Height, MaxHeight) {
		return 0, ErrInvalidMetrics
	}
	return int(math.Round(BMR(m) * m.Activity.Multiplier())), nil
}
