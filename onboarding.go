package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"lg/healthoria-go-api/internal/energy"
)

// estimateResponse is returned by both estimate endpoints.
type estimateResponse struct {
	energy.EnergyEstimate
	Message string       `json:"message"`
	Profile *userProfile `json:"profile,omitempty"`
}

// recommendationMessage is the text shown to the user once a profile is accepted.
func recommendationMessage(dailyCalories int) string {
	return fmt.Sprintf("Your recommended daily intake is %d calories.", dailyCalories)
}

// estimateError writes the response for an energy.Estimate / Compute failure.
// Validation failures list every bad field so the form can flag them together.
func (h *Handler) estimateError(c *gin.Context, err error) {
	var verr *energy.ValidationError
	if errors.As(err, &verr) {
		h.metrics.EstimatesTotal.WithLabelValues("invalid", "").Inc()
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": verr.Fields})
		return
	}
	// ErrPreconditionViolation means a handler skipped validation. Not the
	// caller's fault, so it's a 500.
	log.Printf("[estimate] unexpected estimator error: %v", err)
	apiError(c, http.StatusInternalServerError, "failed to compute estimate")
}

// postEstimate computes a calorie recommendation without storing anything.
// POST /api/estimate (public, used by the landing page calculator).
func (h *Handler) postEstimate(c *gin.Context) {
	var in energy.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := energy.Validate(in)
	if err != nil {
		h.estimateError(c, err)
		return
	}
	est, err := energy.Compute(p)
	if err != nil {
		h.estimateError(c, err)
		return
	}
	h.metrics.EstimatesTotal.WithLabelValues("ok", string(p.Goal)).Inc()

	c.JSON(http.StatusOK, estimateResponse{EnergyEstimate: est, Message: recommendationMessage(est.DailyCalories)})
}

// postOnboarding validates the onboarding form, computes the calorie goal and
// stores both as the user's profile. A new submission replaces the old one.
// POST /api/onboarding.
func (h *Handler) postOnboarding(c *gin.Context) {
	userID := c.GetInt("user_id")

	var in energy.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := energy.Validate(in)
	if err != nil {
		h.estimateError(c, err)
		return
	}
	est, err := energy.Compute(p)
	if err != nil {
		h.estimateError(c, err)
		return
	}
	h.metrics.EstimatesTotal.WithLabelValues("ok", string(p.Goal)).Inc()

	profile, err := queryOne[userProfile](h.db, c,
		`INSERT INTO user_profiles (user_id, age, gender, height_cm, weight_kg, activity_level, goal, daily_calorie_goal)
		 VALUES (@userID, @age, @gender, @heightCM, @weightKG, @activityLevel, @goal, @dailyCalorieGoal)
		 ON CONFLICT (user_id) DO UPDATE SET
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			height_cm = EXCLUDED.height_cm,
			weight_kg = EXCLUDED.weight_kg,
			activity_level = EXCLUDED.activity_level,
			goal = EXCLUDED.goal,
			daily_calorie_goal = EXCLUDED.daily_calorie_goal,
			updated_at = now()
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "age": p.Age, "gender": string(p.Gender),
			"heightCM": p.HeightCM, "weightKG": p.WeightKG,
			"activityLevel": string(p.ActivityLevel), "goal": string(p.Goal),
			"dailyCalorieGoal": est.DailyCalories,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to save profile")
		return
	}

	c.JSON(http.StatusOK, estimateResponse{
		EnergyEstimate: est,
		Message:        recommendationMessage(est.DailyCalories),
		Profile:        &profile,
	})
}

// getProfile returns the stored profile with its estimate recomputed.
// GET /api/profile. 404 until the user has completed onboarding.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	profile, err := queryOne[userProfile](h.db, c,
		"SELECT * FROM user_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "profile not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		}
		return
	}

	est, err := energy.Compute(profile.biometrics())
	if err != nil {
		h.estimateError(c, err)
		return
	}

	c.JSON(http.StatusOK, estimateResponse{
		EnergyEstimate: est,
		Message:        recommendationMessage(est.DailyCalories),
		Profile:        &profile,
	})
}
