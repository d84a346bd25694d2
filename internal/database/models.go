package database

import "time"

// MealEntry is a user-owned meal row. Nutrition fields mirror the
// FoodRecord the user accepted; Corrected marks values the user edited by
// hand after accepting.
type MealEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Calories  float64   `json:"calories"`
	Protein   float64   `json:"protein"`
	Fat       float64   `json:"fat"`
	Carbs     float64   `json:"carbs"`
	Unit      string    `json:"unit"`
	Source    string    `json:"source"`
	Corrected bool      `json:"corrected"`
	EatenAt   time.Time `json:"eaten_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExerciseEntry is a user-owned exercise row.
type ExerciseEntry struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Name            string    `json:"name"`
	CaloriesBurned  float64   `json:"calories_burned"`
	DurationMinutes float64   `json:"duration_minutes"`
	Type            string    `json:"type"`
	Notes           string    `json:"notes"`
	PerformedAt     time.Time `json:"performed_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DailySummary is a derived row holding one day's intake totals. It is
// recomputed by summing that day's meal rows whenever a meal changes.
type DailySummary struct {
	UserID        string    `json:"user_id"`
	Day           time.Time `json:"day"`
	TotalCalories float64   `json:"total_calories"`
	TotalProtein  float64   `json:"total_protein"`
	TotalFat      float64   `json:"total_fat"`
	TotalCarbs    float64   `json:"total_carbs"`
	MealCount     int       `json:"meal_count"`
	UpdatedAt     time.Time `json:"updated_at"`
}
