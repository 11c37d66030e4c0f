package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const defaultOpenAIBaseURL = "https://api.openai.com"

func main() {
	// Set properties of the predefined Logger: a service prefix, no timestamp
	// (the platform's log collector adds one).
	log.SetPrefix("lg/healthoria-go-api: ")
	log.SetFlags(0)

	// .env is optional here; in production the environment is set directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Error loading .env: %v", err)
	}

	h := &Handler{
		db:            getDBPool(),
		metrics:       newAPIMetrics(),
		openAIBaseURL: envOr("OPENAI_BASE_URL", defaultOpenAIBaseURL),
	}
	defer h.db.Close()

	if url := os.Getenv("REDIS_URL"); url != "" {
		cache, err := newRecognitionCache(context.Background(), url)
		if err != nil {
			// Recognition still works without the cache, just slower.
			log.Printf("Redis unavailable, meal recognition cache disabled: %v", err)
		} else {
			h.cache = cache
			defer cache.Close()
		}
	}

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	addr := ":" + envOr("PORT", "3000")
	log.Printf("Starting gin app on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
