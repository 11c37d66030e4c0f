package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

const (
	profileSheet = "Profile"
	mealsSheet   = "Meals"
)

var mealColumns = []string{"Date", "Meal", "Name", "Calories", "Carbs (g)", "Protein (g)", "Fat (g)"}

// buildWorkbook lays out the export as two sheets: the onboarding profile
// (if any) and one row per logged meal.
func buildWorkbook(profile *userProfile, meals []mealItem) (*excelize.File, error) {
	f := excelize.NewFile()

	// NewFile starts with "Sheet1"; rename it rather than leaving it empty.
	if err := f.SetSheetName("Sheet1", profileSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	idx, err := f.NewSheet(mealsSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFE8C2"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	if profile == nil {
		f.SetCellValue(profileSheet, "A1", "Onboarding not completed")
	} else {
		rows := [][]interface{}{
			{"Age", profile.Age},
			{"Gender", profile.Gender},
			{"Height (cm)", profile.HeightCM},
			{"Weight (kg)", profile.WeightKG},
			{"Activity level", profile.ActivityLevel},
			{"Goal", profile.Goal},
			{"Daily calorie goal", profile.DailyCalorieGoal},
		}
		for i, r := range rows {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			if err := f.SetSheetRow(profileSheet, cell, &r); err != nil {
				return nil, fmt.Errorf("write profile row: %w", err)
			}
		}
		f.SetCellStyle(profileSheet, "A1", fmt.Sprintf("A%d", len(rows)), header)
	}

	if err := f.SetSheetRow(mealsSheet, "A1", &mealColumns); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(mealColumns), 1)
	f.SetCellStyle(mealsSheet, "A1", last, header)

	for i, m := range meals {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{m.Date.Format("2006-01-02"), m.Meal, m.Name, m.Calories, m.CarbsG, m.ProteinG, m.FatG}
		if err := f.SetSheetRow(mealsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write meal row: %w", err)
		}
	}
	f.SetActiveSheet(idx)
	return f, nil
}

// exportData returns everything stored for the user.
// GET /api/export?format=json|xlsx (default json).
func (h *Handler) exportData(c *gin.Context) {
	userID := c.GetInt("user_id")
	format := c.DefaultQuery("format", "json")
	if format != "json" && format != "xlsx" {
		apiError(c, http.StatusBadRequest, "format must be json or xlsx")
		return
	}

	// The three reads are independent; run them side by side on the pool.
	var (
		profile  *userProfile
		meals    []mealItem
		settings appSettings
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		p, err := queryOne[userProfile](h.db, ctx,
			"SELECT * FROM user_profiles WHERE user_id = @userID",
			pgx.NamedArgs{"userID": userID})
		switch {
		case err == nil:
			profile = &p
		case !errors.Is(err, pgx.ErrNoRows):
			return fmt.Errorf("fetch profile: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		meals, err = queryMany[mealItem](h.db, ctx,
			"SELECT * FROM meal_items WHERE user_id = @userID ORDER BY date, eaten_at",
			pgx.NamedArgs{"userID": userID})
		if err != nil {
			return fmt.Errorf("fetch meals: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		settings, err = queryOne[appSettings](h.db, ctx,
			"SELECT * FROM app_settings WHERE user_id = @userID",
			pgx.NamedArgs{"userID": userID})
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("fetch settings: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Printf("[exportData] %v", err)
		apiError(c, http.StatusInternalServerError, "failed to load export data")
		return
	}
	if meals == nil {
		meals = []mealItem{}
	}

	if format == "json" {
		c.JSON(http.StatusOK, gin.H{"profile": profile, "settings": settings, "meals": meals})
		return
	}

	f, err := buildWorkbook(profile, meals)
	if err != nil {
		log.Printf("[exportData] workbook error: %v", err)
		apiError(c, http.StatusInternalServerError, "failed to build export")
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("healthoria-export-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[exportData] write error: %v", err)
	}
}
