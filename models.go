package main

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"lg/healthoria-go-api/internal/energy"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns (OID 1082) into DateOnly. NULL values zero the time and return nil
// so that *DateOnly pointer fields can be set to nil by pgx's NULL handling.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// userProfile maps to user_profiles: the last accepted onboarding submission
// plus the calorie goal derived from it. One row per user.
type userProfile struct {
	UserID           int        `json:"user_id"            db:"user_id"`
	Age              int        `json:"age"                db:"age"`
	Gender           string     `json:"gender"             db:"gender"`
	HeightCM         float64    `json:"height_cm"          db:"height_cm"`
	WeightKG         float64    `json:"weight_kg"          db:"weight_kg"`
	ActivityLevel    string     `json:"activity_level"     db:"activity_level"`
	Goal             string     `json:"goal"               db:"goal"`
	DailyCalorieGoal int        `json:"daily_calorie_goal" db:"daily_calorie_goal"`
	UpdatedAt        *time.Time `json:"updated_at"         db:"updated_at"`
}

// biometrics converts a stored row back into the estimator's input type.
func (p userProfile) biometrics() energy.BiometricProfile {
	return energy.BiometricProfile{
		Age:           p.Age,
		Gender:        energy.Gender(p.Gender),
		HeightCM:      p.HeightCM,
		WeightKG:      p.WeightKG,
		ActivityLevel: energy.ActivityLevel(p.ActivityLevel),
		Goal:          energy.Goal(p.Goal),
	}
}

// mealItem maps to meal_items. Macro fields are grams.
type mealItem struct {
	ID        int        `json:"id"         db:"id"`
	UserID    int        `json:"user_id"    db:"user_id"`
	Date      DateOnly   `json:"date"       db:"date"`
	Meal      string     `json:"meal"       db:"meal"`
	Name      string     `json:"name"       db:"name"`
	Calories  int        `json:"calories"   db:"calories"`
	CarbsG    float64    `json:"carbs_g"    db:"carbs_g"`
	ProteinG  float64    `json:"protein_g"  db:"protein_g"`
	FatG      float64    `json:"fat_g"      db:"fat_g"`
	EatenAt   *time.Time `json:"eaten_at"   db:"eaten_at"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// weightEntry maps to weight_log.
type weightEntry struct {
	ID        int        `json:"id"         db:"id"`
	UserID    int        `json:"user_id"    db:"user_id"`
	Date      DateOnly   `json:"date"       db:"date"`
	WeightKG  float64    `json:"weight_kg"  db:"weight_kg"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// appSettings maps to app_settings. One row per user, created by create-user.
type appSettings struct {
	UserID             int      `json:"user_id"             db:"user_id"`
	DarkMode           bool     `json:"dark_mode"           db:"dark_mode"`
	Notifications      bool     `json:"notifications"       db:"notifications"`
	MealReminders      bool     `json:"meal_reminders"      db:"meal_reminders"`
	WaterReminders     bool     `json:"water_reminders"     db:"water_reminders"`
	WearableSync       bool     `json:"wearable_sync"       db:"wearable_sync"`
	Language           string   `json:"language"            db:"language"`
	DietaryPreferences []string `json:"dietary_preferences" db:"dietary_preferences"`
}

// dayTotalsDBRow is the shape of each row returned by the per-day GROUP BY query.
type dayTotalsDBRow struct {
	Date     DateOnly `db:"date"`
	Calories int      `db:"calories"`
	CarbsG   float64  `db:"carbs_g"`
	ProteinG float64  `db:"protein_g"`
	FatG     float64  `db:"fat_g"`
}

/* ─── Response shapes ────────────────────────────────────────────────── */

// macroSplit is calories contributed by each macronutrient.
type macroSplit struct {
	CarbsCalories   float64 `json:"carbs_calories"`
	ProteinCalories float64 `json:"protein_calories"`
	FatCalories     float64 `json:"fat_calories"`
}

// dailyMeals is the response shape for GET /api/meals/daily.
type dailyMeals struct {
	Date              string     `json:"date"`
	DailyCalorieGoal  int        `json:"daily_calorie_goal"`
	CurrentCalories   int        `json:"current_calories"`
	CaloriesRemaining int        `json:"calories_remaining"`
	ProgressPercent   float64    `json:"progress_percent"`
	CarbsG            float64    `json:"carbs_g"`
	ProteinG          float64    `json:"protein_g"`
	FatG              float64    `json:"fat_g"`
	Macros            macroSplit `json:"macros"`
	Breakfast         []mealItem `json:"breakfast"`
	Lunch             []mealItem `json:"lunch"`
	Dinner            []mealItem `json:"dinner"`
	Snacks            []mealItem `json:"snacks"`
}

// daySummary is one day in the weekly analytics response.
type daySummary struct {
	Date     DateOnly `json:"date"`
	Day      string   `json:"day"`
	Calories int      `json:"calories"`
	Goal     int      `json:"goal"`
	CarbsG   float64  `json:"carbs_g"`
	ProteinG float64  `json:"protein_g"`
	FatG     float64  `json:"fat_g"`
	HasData  bool     `json:"has_data"`
}

// weekInsights summarizes a week of daySummary rows.
type weekInsights struct {
	DaysTracked     int     `json:"days_tracked"`
	DaysOnGoal      int     `json:"days_on_goal"`
	AverageCalories int     `json:"average_calories"`
	PeakDay         *string `json:"peak_day"`
	PeakCalories    int     `json:"peak_calories"`
}

type weekResponse struct {
	Days     []daySummary `json:"days"`
	Insights weekInsights `json:"insights"`
}

// weekAverage is one bucket of the monthly analytics response.
type weekAverage struct {
	Week        string   `json:"week"`
	Start       DateOnly `json:"start"`
	Calories    int      `json:"calories"`
	Goal        int      `json:"goal"`
	DaysTracked int      `json:"days_tracked"`
}

// streakSummary is the response shape for GET /api/analytics/streak.
type streakSummary struct {
	Current     int      `json:"current"`
	LongestEver int      `json:"longest_ever"`
	Points      int      `json:"points"`
	Level       int      `json:"level"`
	Badges      []string `json:"badges"`
}

/* ─── Request bodies ─────────────────────────────────────────────────── */

// createMealRequest is the request body for POST /api/meals.
type createMealRequest struct {
	Date     string   `json:"date"`
	Meal     string   `json:"meal"`
	Name     string   `json:"name"`
	Calories int      `json:"calories"`
	CarbsG   *float64 `json:"carbs_g"`
	ProteinG *float64 `json:"protein_g"`
	FatG     *float64 `json:"fat_g"`
}

// patchSettingsRequest is the request body for PATCH /api/settings.
// All fields are pointers; only non-nil fields get written to the database.
type patchSettingsRequest struct {
	DarkMode       *bool   `json:"dark_mode"`
	Notifications  *bool   `json:"notifications"`
	MealReminders  *bool   `json:"meal_reminders"`
	WaterReminders *bool   `json:"water_reminders"`
	WearableSync   *bool   `json:"wearable_sync"`
	Language       *string `json:"language"`
}
