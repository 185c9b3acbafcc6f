package controllers

import (
	"net/http"

	"livwell/nutrition"
)

// Calories estimates daily calorie needs
func Calories(w http.ResponseWriter, r *http.Request) {
	var m nutrition.Metrics
	if err := decode(r, &m); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	kcal, err := nutrition.DailyCalories(m)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"calories": kcal})
}
