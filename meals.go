package main

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// validMeals is the set of allowed values for the meal_type enum.
// Reject unknown values with 400 rather than letting the DB return a cryptic 500.
var validMeals = map[string]bool{
	"breakfast": true,
	"lunch":     true,
	"dinner":    true,
	"snack":     true,
}

// Calories per gram of each macronutrient.
const (
	kcalPerGramCarbs   = 4
	kcalPerGramProtein = 4
	kcalPerGramFat     = 9
)

// defaultCalorieGoal is used before the user has completed onboarding.
const defaultCalorieGoal = 2000

// summarizeDay groups a day's items by meal and computes the totals shown on
// the tracker: calories eaten, remaining, progress toward goal, and the
// calorie split by macronutrient.
func summarizeDay(date string, goal int, items []mealItem) dailyMeals {
	s := dailyMeals{
		Date:             date,
		DailyCalorieGoal: goal,
		Breakfast:        []mealItem{},
		Lunch:            []mealItem{},
		Dinner:           []mealItem{},
		Snacks:           []mealItem{},
	}
	for _, item := range items {
		s.CurrentCalories += item.Calories
		s.CarbsG += item.CarbsG
		s.ProteinG += item.ProteinG
		s.FatG += item.FatG

		switch item.Meal {
		case "breakfast":
			s.Breakfast = append(s.Breakfast, item)
		case "lunch":
			s.Lunch = append(s.Lunch, item)
		case "dinner":
			s.Dinner = append(s.Dinner, item)
		default:
			s.Snacks = append(s.Snacks, item)
		}
	}

	s.CaloriesRemaining = goal - s.CurrentCalories
	if goal > 0 {
		s.ProgressPercent = math.Round(float64(s.CurrentCalories)/float64(goal)*1000) / 10
	}
	s.Macros = macroSplit{
		CarbsCalories:   s.CarbsG * kcalPerGramCarbs,
		ProteinCalories: s.ProteinG * kcalPerGramProtein,
		FatCalories:     s.FatG * kcalPerGramFat,
	}
	return s
}

// loadCalorieGoal returns the user's daily goal from their profile, or
// defaultCalorieGoal if they have not onboarded yet.
func (h *Handler) loadCalorieGoal(c *gin.Context, userID int) (int, error) {
	var goal int
	err := h.db.QueryRow(c,
		"SELECT daily_calorie_goal FROM user_profiles WHERE user_id = $1", userID).Scan(&goal)
	if errors.Is(err, pgx.ErrNoRows) {
		return defaultCalorieGoal, nil
	}
	return goal, err
}

// getDailyMeals returns the day's meals and totals against the calorie goal.
// GET /api/meals/daily?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getDailyMeals(c *gin.Context) {
	userID := c.GetInt("user_id")
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))

	// Validate date format before querying; an invalid value silently returns no rows.
	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	items, err := queryMany[mealItem](h.db, c,
		`SELECT * FROM meal_items
		 WHERE user_id = @userID AND date = @date
		 ORDER BY eaten_at, created_at`,
		pgx.NamedArgs{"userID": userID, "date": date})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch meals")
		return
	}

	goal, err := h.loadCalorieGoal(c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch calorie goal")
		return
	}

	c.JSON(http.StatusOK, summarizeDay(date, goal, items))
}

// createMeal inserts a meal item.
// POST /api/meals. Defaults date to today if omitted.
func (h *Handler) createMeal(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body createMealRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Name == "" {
		apiError(c, http.StatusBadRequest, "Please enter what you ate.")
		return
	}
	if !validMeals[body.Meal] {
		apiError(c, http.StatusBadRequest, "meal must be one of: breakfast, lunch, dinner, snack")
		return
	}
	if body.Calories < 0 {
		apiError(c, http.StatusBadRequest, "calories must not be negative")
		return
	}
	if body.Date == "" {
		body.Date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", body.Date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	item, err := queryOne[mealItem](h.db, c,
		`INSERT INTO meal_items (user_id, date, meal, name, calories, carbs_g, protein_g, fat_g)
		 VALUES (@userID, @date, @meal, @name, @calories,
		         COALESCE(@carbsG, 0), COALESCE(@proteinG, 0), COALESCE(@fatG, 0))
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "date": body.Date, "meal": body.Meal, "name": body.Name,
			"calories": body.Calories, "carbsG": body.CarbsG,
			"proteinG": body.ProteinG, "fatG": body.FatG,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create meal")
		return
	}

	c.JSON(http.StatusCreated, item)
}

// updateMeal updates an existing meal item.
// PUT /api/meals/:id. Uses COALESCE so omitted fields keep their current value.
func (h *Handler) updateMeal(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	var body struct {
		Date     *string  `json:"date"`
		Meal     *string  `json:"meal"`
		Name     *string  `json:"name"`
		Calories *int     `json:"calories"`
		CarbsG   *float64 `json:"carbs_g"`
		ProteinG *float64 `json:"protein_g"`
		FatG     *float64 `json:"fat_g"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Meal != nil && !validMeals[*body.Meal] {
		apiError(c, http.StatusBadRequest, "meal must be one of: breakfast, lunch, dinner, snack")
		return
	}

	item, err := queryOne[mealItem](h.db, c,
		`UPDATE meal_items SET
			date = COALESCE(@date, date),
			meal = COALESCE(@meal, meal),
			name = COALESCE(@name, name),
			calories = COALESCE(@calories, calories),
			carbs_g = COALESCE(@carbsG, carbs_g),
			protein_g = COALESCE(@proteinG, protein_g),
			fat_g = COALESCE(@fatG, fat_g)
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{
			"id": id, "userID": userID,
			"date": body.Date, "meal": body.Meal, "name": body.Name,
			"calories": body.Calories, "carbsG": body.CarbsG,
			"proteinG": body.ProteinG, "fatG": body.FatG,
		})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "meal not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to update meal")
		}
		return
	}

	c.JSON(http.StatusOK, item)
}

// deleteMeal removes a meal item. Returns 204 on success.
// DELETE /api/meals/:id.
func (h *Handler) deleteMeal(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM meal_items WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete meal")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "meal not found")
		return
	}

	c.Status(http.StatusNoContent)
}
