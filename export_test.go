package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestBuildWorkbook_WithProfile(t *testing.T) {
	profile := &userProfile{
		Age: 30, Gender: "male", HeightCM: 180, WeightKG: 80,
		ActivityLevel: "moderate", Goal: "maintain", DailyCalorieGoal: 2870,
	}
	meals := []mealItem{
		{Date: DateOnly{mustDate("2025-01-15")}, Meal: "breakfast", Name: "Oatmeal", Calories: 300},
		{Date: DateOnly{mustDate("2025-01-15")}, Meal: "lunch", Name: "Chicken salad", Calories: 450},
	}

	f, err := buildWorkbook(profile, meals)
	if err != nil {
		t.Fatalf("buildWorkbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Profile" || sheets[1] != "Meals" {
		t.Fatalf("expected [Profile Meals], got %v", sheets)
	}

	profileRows, err := f.GetRows("Profile")
	if err != nil {
		t.Fatalf("GetRows(Profile): %v", err)
	}
	if len(profileRows) != 7 {
		t.Fatalf("expected 7 profile rows, got %d", len(profileRows))
	}
	if profileRows[6][0] != "Daily calorie goal" || profileRows[6][1] != "2870" {
		t.Errorf("unexpected goal row %v", profileRows[6])
	}

	mealRows, err := f.GetRows("Meals")
	if err != nil {
		t.Fatalf("GetRows(Meals): %v", err)
	}
	if len(mealRows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(mealRows))
	}
	if mealRows[0][0] != "Date" || mealRows[0][3] != "Calories" {
		t.Errorf("unexpected header %v", mealRows[0])
	}
	if mealRows[2][0] != "2025-01-15" || mealRows[2][2] != "Chicken salad" || mealRows[2][3] != "450" {
		t.Errorf("unexpected meal row %v", mealRows[2])
	}
}

func TestBuildWorkbook_NoProfile(t *testing.T) {
	f, err := buildWorkbook(nil, nil)
	if err != nil {
		t.Fatalf("buildWorkbook: %v", err)
	}
	defer f.Close()

	v, err := f.GetCellValue("Profile", "A1")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if v != "Onboarding not completed" {
		t.Errorf("expected placeholder, got %q", v)
	}
	rows, _ := f.GetRows("Meals")
	if len(rows) != 1 {
		t.Errorf("expected header only, got %d rows", len(rows))
	}
}

// TestExport_InvalidFormat is rejected before any database access.
func TestExport_InvalidFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{metrics: newAPIMetrics()}
	router := gin.New()
	router.GET("/api/export", func(c *gin.Context) {
		c.Set("user_id", 1)
		c.Next()
	}, h.exportData)

	req := httptest.NewRequest("GET", "/api/export?format=csv", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}
