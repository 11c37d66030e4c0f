package main

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is a pre-computed bcrypt hash used when a login username isn't found.
// Running bcrypt against it (instead of returning early) keeps response time
// constant, preventing timing-based username enumeration.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}

// login verifies username/password and returns the user's auth token and
// whether they still need to complete onboarding.
// POST /api/login (public; no auth required).
func (h *Handler) login(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, lookupErr := queryOne[user](h.db, c,
		"SELECT * FROM users WHERE username = @username",
		pgx.NamedArgs{"username": body.Username})

	hashToCheck := string(dummyHash)
	if lookupErr == nil {
		hashToCheck = u.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hashToCheck), []byte(body.Password))

	if lookupErr != nil || compareErr != nil {
		apiError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	var onboarded bool
	if err := h.db.QueryRow(c,
		"SELECT EXISTS (SELECT 1 FROM user_profiles WHERE user_id = $1)", u.ID).Scan(&onboarded); err != nil {
		log.Printf("[login] onboarding lookup failed for user %d: %v", u.ID, err)
	}

	c.JSON(http.StatusOK, gin.H{"token": u.AuthToken, "user_id": u.ID, "onboarded": onboarded})
}

// authMiddleware validates the Bearer token and sets user_id on the context.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}

		var userID int
		err := h.db.QueryRow(c, "SELECT id FROM users WHERE auth_token = $1", token).Scan(&userID)
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				log.Printf("[authMiddleware] token lookup failed: %v", err)
			}
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
