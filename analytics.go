package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// Gamification constants for the streak card.
const (
	pointsPerTrackedDay = 100
	pointsPerLevel      = 1000
)

// dayTotalsSQL sums calories and macros per day in [start, end].
const dayTotalsSQL = `SELECT
		date,
		COALESCE(SUM(calories), 0)  AS calories,
		COALESCE(SUM(carbs_g), 0)   AS carbs_g,
		COALESCE(SUM(protein_g), 0) AS protein_g,
		COALESCE(SUM(fat_g), 0)     AS fat_g
	 FROM meal_items
	 WHERE user_id = @userID AND date >= @start AND date <= @end
	 GROUP BY date
	 ORDER BY date ASC`

// currentMonday returns the Monday of the current week at midnight UTC.
// Uses AddDate to safely handle month/year boundaries; direct day subtraction
// can produce day=0 or negative, which time.Date normalizes but is confusing.
func currentMonday() time.Time {
	return mondayOf(time.Now().UTC())
}

func mondayOf(t time.Time) time.Time {
	weekday := int(t.Weekday()) // 0=Sun
	if weekday == 0 {
		weekday = 7 // treat Sunday as day 7 so Mon=1..Sun=7
	}
	return t.AddDate(0, 0, -(weekday - 1)).Truncate(24 * time.Hour)
}

// buildWeek produces a full Mon–Sun response, filling zeros for days with no
// data, plus the insights shown under the chart.
func buildWeek(weekStart time.Time, goal int, rows []dayTotalsDBRow) weekResponse {
	rowByDate := make(map[string]dayTotalsDBRow, len(rows))
	for _, r := range rows {
		rowByDate[r.Date.Time.Format("2006-01-02")] = r
	}

	days := make([]daySummary, 7)
	var ins weekInsights
	total := 0
	for i := 0; i < 7; i++ {
		d := weekStart.AddDate(0, 0, i)
		day := daySummary{
			Date: DateOnly{d},
			Day:  d.Weekday().String()[:3],
			Goal: goal,
		}
		if row, ok := rowByDate[d.Format("2006-01-02")]; ok {
			day.HasData = true
			day.Calories = row.Calories
			day.CarbsG = row.CarbsG
			day.ProteinG = row.ProteinG
			day.FatG = row.FatG

			ins.DaysTracked++
			total += row.Calories
			if row.Calories <= goal {
				ins.DaysOnGoal++
			}
			if ins.PeakDay == nil || row.Calories > ins.PeakCalories {
				name := d.Weekday().String()
				ins.PeakDay = &name
				ins.PeakCalories = row.Calories
			}
		}
		days[i] = day
	}
	if ins.DaysTracked > 0 {
		ins.AverageCalories = total / ins.DaysTracked
	}
	return weekResponse{Days: days, Insights: ins}
}

// bucketMonth averages tracked days into "Week 1".."Week 5" buckets of seven
// calendar days each, starting from the 1st of the month.
func bucketMonth(monthStart time.Time, goal int, rows []dayTotalsDBRow) []weekAverage {
	next := monthStart.AddDate(0, 1, 0)
	var buckets []weekAverage
	for start := monthStart; start.Before(next); start = start.AddDate(0, 0, 7) {
		buckets = append(buckets, weekAverage{
			Week:  fmt.Sprintf("Week %d", len(buckets)+1),
			Start: DateOnly{start},
			Goal:  goal,
		})
	}

	sums := make([]int, len(buckets))
	for _, r := range rows {
		idx := (r.Date.Time.Day() - 1) / 7
		if idx < 0 || idx >= len(buckets) {
			continue
		}
		sums[idx] += r.Calories
		buckets[idx].DaysTracked++
	}
	for i := range buckets {
		if buckets[i].DaysTracked > 0 {
			buckets[i].Calories = sums[i] / buckets[i].DaysTracked
		}
	}
	return buckets
}

// computeStreak derives streak stats from the distinct days the user logged
// food, sorted ascending. The current streak stays alive through today even
// if nothing has been logged yet today.
func computeStreak(days []time.Time, today time.Time) streakSummary {
	s := streakSummary{Badges: []string{}}
	if len(days) == 0 {
		s.Level = 1
		return s
	}

	run := 1
	s.LongestEver = 1
	for i := 1; i < len(days); i++ {
		if sameDay(days[i-1].AddDate(0, 0, 1), days[i]) {
			run++
		} else {
			run = 1
		}
		if run > s.LongestEver {
			s.LongestEver = run
		}
	}

	last := days[len(days)-1]
	if sameDay(last, today) || sameDay(last.AddDate(0, 0, 1), today) {
		s.Current = run
	}

	s.Points = len(days) * pointsPerTrackedDay
	s.Level = s.Points/pointsPerLevel + 1

	s.Badges = append(s.Badges, "First Log")
	if s.LongestEver >= 7 {
		s.Badges = append(s.Badges, "7-Day Streak")
	}
	if s.LongestEver >= 30 {
		s.Badges = append(s.Badges, "30-Day Streak")
	}
	if len(days) >= 100 {
		s.Badges = append(s.Badges, "Century Club")
	}
	return s
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// getWeekAnalytics returns per-day totals for the Mon–Sun week containing
// week_start. Days with no logged meals are included with has_data=false.
// GET /api/analytics/week?week_start=YYYY-MM-DD (defaults to current week).
func (h *Handler) getWeekAnalytics(c *gin.Context) {
	userID := c.GetInt("user_id")

	var weekStart time.Time
	if s := c.Query("week_start"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid week_start, expected YYYY-MM-DD")
			return
		}
		weekStart = mondayOf(t)
	} else {
		weekStart = currentMonday()
	}
	weekEnd := weekStart.AddDate(0, 0, 6)

	goal, err := h.loadCalorieGoal(c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch calorie goal")
		return
	}

	rows, err := queryMany[dayTotalsDBRow](h.db, c, dayTotalsSQL, pgx.NamedArgs{
		"userID": userID,
		"start":  weekStart.Format("2006-01-02"),
		"end":    weekEnd.Format("2006-01-02"),
	})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch week data")
		return
	}

	c.JSON(http.StatusOK, buildWeek(weekStart, goal, rows))
}

// getMonthAnalytics returns weekly averages for a calendar month.
// GET /api/analytics/month?month=YYYY-MM (defaults to the current month).
func (h *Handler) getMonthAnalytics(c *gin.Context) {
	userID := c.GetInt("user_id")

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if s := c.Query("month"); s != "" {
		t, err := time.Parse("2006-01", s)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid month, expected YYYY-MM")
			return
		}
		monthStart = t
	}
	monthEnd := monthStart.AddDate(0, 1, -1)

	goal, err := h.loadCalorieGoal(c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch calorie goal")
		return
	}

	rows, err := queryMany[dayTotalsDBRow](h.db, c, dayTotalsSQL, pgx.NamedArgs{
		"userID": userID,
		"start":  monthStart.Format("2006-01-02"),
		"end":    monthEnd.Format("2006-01-02"),
	})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch month data")
		return
	}

	c.JSON(http.StatusOK, bucketMonth(monthStart, goal, rows))
}

// getStreak returns the user's logging streak, points and badges.
// GET /api/analytics/streak.
func (h *Handler) getStreak(c *gin.Context) {
	userID := c.GetInt("user_id")

	rows, err := h.db.Query(c,
		"SELECT DISTINCT date FROM meal_items WHERE user_id = @userID ORDER BY date ASC",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch streak")
		return
	}
	days, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (time.Time, error) {
		var d DateOnly
		err := row.Scan(&d)
		return d.Time, err
	})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to read streak")
		return
	}

	c.JSON(http.StatusOK, computeStreak(days, time.Now().UTC()))
}
