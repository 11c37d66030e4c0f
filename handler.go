package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler holds shared dependencies (db pool, cache, metrics, config) for all
// route handlers.
type Handler struct {
	db            *pgxpool.Pool
	cache         *recognitionCache // nil when REDIS_URL is unset
	metrics       *apiMetrics
	openAIBaseURL string // Base URL for OpenAI API (overridable for tests)
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](pool *pgxpool.Pool, ctx context.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](pool *pgxpool.Pool, ctx context.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := pool.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
	}
	return results, err
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool creates a connection pool. We use a pool (not a single conn) because
// Neon closes idle connections after ~5 minutes.
func getDBPool() *pgxpool.Pool {
	config, err := pgxpool.ParseConfig(os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to parse DB URL: %v\n", err)
		os.Exit(1)
	}
	// Use simple query protocol to avoid "cached plan must not change result type"
	// errors from Neon's server-side prepared statement cache after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	log.Println("DB pool ready!")
	return pool
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	router.Use(h.metrics.middleware())
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.metrics.registry, promhttp.HandlerOpts{})))

	// Public routes
	router.POST("/api/login", h.login)
	router.POST("/api/estimate", h.postEstimate)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.POST("/onboarding", h.postOnboarding)
	api.GET("/profile", h.getProfile)
	api.GET("/meals/daily", h.getDailyMeals)
	api.POST("/meals", h.createMeal)
	api.PUT("/meals/:id", h.updateMeal)
	api.DELETE("/meals/:id", h.deleteMeal)
	api.POST("/meals/recognize", h.recognizeMeal)
	api.GET("/analytics/week", h.getWeekAnalytics)
	api.GET("/analytics/month", h.getMonthAnalytics)
	api.GET("/analytics/streak", h.getStreak)
	api.GET("/settings", h.getSettings)
	api.PATCH("/settings", h.patchSettings)
	api.POST("/settings/preferences/:id/toggle", h.toggleDietaryPreference)
	api.GET("/export", h.exportData)
	api.GET("/weight-log", h.getWeightLog)
	api.POST("/weight-log", h.upsertWeightEntry)
	api.DELETE("/weight-log/:id", h.deleteWeightEntry)
}
