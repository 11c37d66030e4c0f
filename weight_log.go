package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"lg/healthoria-go-api/internal/energy"
)

// getWeightLog returns weight entries for the authenticated user within [start, end].
// GET /api/weight-log?start=YYYY-MM-DD&end=YYYY-MM-DD. Both params required.
// Returns an empty array (not null) if no entries exist in the range.
func (h *Handler) getWeightLog(c *gin.Context) {
	userID := c.GetInt("user_id")
	start := c.Query("start")
	end := c.Query("end")

	if start == "" || end == "" {
		apiError(c, http.StatusBadRequest, "start and end query params are required")
		return
	}
	if _, err := time.Parse("2006-01-02", start); err != nil {
		apiError(c, http.StatusBadRequest, "invalid start, expected YYYY-MM-DD")
		return
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		apiError(c, http.StatusBadRequest, "invalid end, expected YYYY-MM-DD")
		return
	}
	if start > end {
		apiError(c, http.StatusBadRequest, "start must not be after end")
		return
	}

	entries, err := queryMany[weightEntry](h.db, c,
		`SELECT * FROM weight_log
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "start": start, "end": end})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch weight log")
		return
	}
	// Ensure empty array (not null) in JSON
	if entries == nil {
		entries = []weightEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// upsertWeightEntry creates or updates the weight entry for the given date.
// POST /api/weight-log. Body: { "date": "YYYY-MM-DD", "weight_kg": 72.4 }.
// The UNIQUE(user_id, date) constraint means posting the same date updates in place.
// If the entry is the user's most recent one and they have onboarded, the
// profile weight and daily calorie goal are recomputed from it.
func (h *Handler) upsertWeightEntry(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body struct {
		Date     string  `json:"date"`
		WeightKG float64 `json:"weight_kg"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Date == "" {
		body.Date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", body.Date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	// Same domain the onboarding form accepts, so a logged weight can always
	// feed the estimator.
	if body.WeightKG < energy.MinWeightKG || body.WeightKG > energy.MaxWeightKG {
		apiError(c, http.StatusBadRequest, "weight_kg must be between 30 and 250")
		return
	}

	entry, err := queryOne[weightEntry](h.db, c,
		`INSERT INTO weight_log (user_id, date, weight_kg)
		 VALUES (@userID, @date, @weightKG)
		 ON CONFLICT (user_id, date) DO UPDATE SET weight_kg = EXCLUDED.weight_kg
		 RETURNING *`,
		pgx.NamedArgs{"userID": userID, "date": body.Date, "weightKG": body.WeightKG})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to upsert weight entry")
		return
	}

	resp := gin.H{"entry": entry}
	if goal, ok := h.refreshGoalFromWeight(c, userID, entry); ok {
		resp["daily_calorie_goal"] = goal
	}

	c.JSON(http.StatusCreated, resp)
}

// refreshGoalFromWeight re-runs the estimator with the newly logged weight
// when entry is the latest one on record. Failures are logged, not returned:
// the weight entry itself was saved.
func (h *Handler) refreshGoalFromWeight(c *gin.Context, userID int, entry weightEntry) (int, bool) {
	var latest DateOnly
	if err := h.db.QueryRow(c,
		"SELECT MAX(date) FROM weight_log WHERE user_id = $1", userID).Scan(&latest); err != nil {
		log.Printf("[upsertWeightEntry] latest date lookup failed for user %d: %v", userID, err)
		return 0, false
	}
	if !sameDay(latest.Time, entry.Date.Time) {
		return 0, false
	}

	profile, err := queryOne[userProfile](h.db, c,
		"SELECT * FROM user_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Printf("[upsertWeightEntry] profile lookup failed for user %d: %v", userID, err)
		}
		return 0, false
	}

	profile.WeightKG = entry.WeightKG
	est, err := energy.Compute(profile.biometrics())
	if err != nil {
		log.Printf("[upsertWeightEntry] stored profile for user %d is invalid: %v", userID, err)
		return 0, false
	}

	if _, err := h.db.Exec(c,
		`UPDATE user_profiles SET weight_kg = @weightKG, daily_calorie_goal = @goal, updated_at = now()
		 WHERE user_id = @userID`,
		pgx.NamedArgs{"weightKG": entry.WeightKG, "goal": est.DailyCalories, "userID": userID}); err != nil {
		log.Printf("[upsertWeightEntry] goal update failed for user %d: %v", userID, err)
		return 0, false
	}
	return est.DailyCalories, true
}

// deleteWeightEntry removes a weight log entry by ID.
// DELETE /api/weight-log/:id. Returns 204 on success, 404 if not found.
// Ownership is enforced by requiring both id and user_id to match.
func (h *Handler) deleteWeightEntry(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM weight_log WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete weight entry")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "weight entry not found")
		return
	}

	c.Status(http.StatusNoContent)
}
