package main

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// dietaryPreferences is the catalogue of toggleable preferences, in display order.
var dietaryPreferences = []struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}{
	{"vegan", "Vegan"},
	{"vegetarian", "Vegetarian"},
	{"paleo", "Paleo"},
	{"keto", "Keto"},
	{"gluten-free", "Gluten Free"},
	{"dairy-free", "Dairy Free"},
	{"nut-free", "Nut Free"},
}

// validLanguages is the set of interface languages the app ships.
var validLanguages = map[string]bool{
	"english": true,
	"spanish": true,
	"french":  true,
	"german":  true,
}

func isDietaryPreference(id string) bool {
	for _, p := range dietaryPreferences {
		if p.ID == id {
			return true
		}
	}
	return false
}

// togglePreference returns active with id added or removed, keeping the
// catalogue's display order.
func togglePreference(active []string, id string) []string {
	on := !slices.Contains(active, id)
	out := []string{}
	for _, p := range dietaryPreferences {
		enabled := slices.Contains(active, p.ID)
		if p.ID == id {
			enabled = on
		}
		if enabled {
			out = append(out, p.ID)
		}
	}
	return out
}

func (h *Handler) loadSettings(c *gin.Context, userID int) (appSettings, error) {
	return queryOne[appSettings](h.db, c,
		"SELECT * FROM app_settings WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
}

// getSettings returns the app settings and the dietary preference catalogue.
// GET /api/settings.
func (h *Handler) getSettings(c *gin.Context) {
	userID := c.GetInt("user_id")

	s, err := h.loadSettings(c, userID)
	if err != nil {
		apiError(c, http.StatusNotFound, "settings not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": s, "dietary_preference_options": dietaryPreferences})
}

// patchSettings updates only the provided settings fields.
// PATCH /api/settings. Uses pointer fields in the request body to distinguish
// "not provided" from false; only non-nil fields get updated.
func (h *Handler) patchSettings(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body patchSettingsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Language != nil && !validLanguages[*body.Language] {
		apiError(c, http.StatusBadRequest, "language must be one of: english, spanish, french, german")
		return
	}

	// Build SET clause dynamically; only update fields the client actually sent
	setClauses := []string{}
	args := pgx.NamedArgs{"userID": userID}

	if body.DarkMode != nil {
		setClauses = append(setClauses, "dark_mode = @darkMode")
		args["darkMode"] = *body.DarkMode
	}
	if body.Notifications != nil {
		setClauses = append(setClauses, "notifications = @notifications")
		args["notifications"] = *body.Notifications
	}
	if body.MealReminders != nil {
		setClauses = append(setClauses, "meal_reminders = @mealReminders")
		args["mealReminders"] = *body.MealReminders
	}
	if body.WaterReminders != nil {
		setClauses = append(setClauses, "water_reminders = @waterReminders")
		args["waterReminders"] = *body.WaterReminders
	}
	if body.WearableSync != nil {
		setClauses = append(setClauses, "wearable_sync = @wearableSync")
		args["wearableSync"] = *body.WearableSync
	}
	if body.Language != nil {
		setClauses = append(setClauses, "language = @language")
		args["language"] = *body.Language
	}

	if len(setClauses) == 0 {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	query := "UPDATE app_settings SET " +
		strings.Join(setClauses, ", ") +
		" WHERE user_id = @userID RETURNING *"

	s, err := queryOne[appSettings](h.db, c, query, args)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "settings not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to update settings")
		}
		return
	}

	c.JSON(http.StatusOK, s)
}

// toggleDietaryPreference flips one dietary preference on or off.
// POST /api/settings/preferences/:id/toggle.
func (h *Handler) toggleDietaryPreference(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	if !isDietaryPreference(id) {
		apiError(c, http.StatusNotFound, "unknown dietary preference")
		return
	}

	s, err := h.loadSettings(c, userID)
	if err != nil {
		apiError(c, http.StatusNotFound, "settings not found")
		return
	}

	updated, err := queryOne[appSettings](h.db, c,
		"UPDATE app_settings SET dietary_preferences = @prefs WHERE user_id = @userID RETURNING *",
		pgx.NamedArgs{"prefs": togglePreference(s.DietaryPreferences, id), "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update dietary preferences")
		return
	}

	c.JSON(http.StatusOK, updated)
}
