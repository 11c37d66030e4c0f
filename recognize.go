package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

/* ─── Request / Response types ───────────────────────────────────────── */

// recognizeRequest is the request body for POST /api/meals/recognize.
type recognizeRequest struct {
	Description string `json:"description"`
}

// recognizedMeal is the structured nutrition data for a free-text meal.
type recognizedMeal struct {
	Name     string  `json:"name"`
	Calories int     `json:"calories"`
	CarbsG   float64 `json:"carbs_g"`
	ProteinG float64 `json:"protein_g"`
	FatG     float64 `json:"fat_g"`
}

/* ─── Keyword fallback ───────────────────────────────────────────────── */

// keywordMeals is used when no OpenAI key is configured. First match wins.
var keywordMeals = []struct {
	keyword string
	meal    recognizedMeal
}{
	{"rice", recognizedMeal{Calories: 200, CarbsG: 45, ProteinG: 4, FatG: 0.5}},
	{"chicken", recognizedMeal{Calories: 330, CarbsG: 5, ProteinG: 40, FatG: 15}},
	{"salad", recognizedMeal{Calories: 120, CarbsG: 10, ProteinG: 3, FatG: 7}},
}

func matchKeywords(description string) (recognizedMeal, bool) {
	lower := strings.ToLower(description)
	for _, k := range keywordMeals {
		if strings.Contains(lower, k.keyword) {
			m := k.meal
			m.Name = strings.TrimSpace(description)
			return m, true
		}
	}
	return recognizedMeal{}, false
}

/* ─── OpenAI prompt ──────────────────────────────────────────────────── */

const mealSystemPrompt = `You are a nutrition assistant. Parse the meal description and return a JSON object with:
- "name" (string, cleaned up title case)
- "calories" (integer, total for the full quantity)
- "carbs_g" (number, total for the full quantity)
- "protein_g" (number, total for the full quantity)
- "fat_g" (number, total for the full quantity)

Always provide your best estimate, even for unfamiliar or vague items. Only return {"error": "unrecognized"} if the input is not food at all (e.g. random characters, non-food objects).
Return only valid JSON, no explanation.`

/* ─── OpenAI HTTP client ─────────────────────────────────────────────── */

// chatMessage is a single message in a chat completions request.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// chatClient talks to an OpenAI-compatible chat completions endpoint over
// plain net/http. Responses are requested in JSON mode.
type chatClient struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

func newChatClient(baseURL, apiKey string) *chatClient {
	return &chatClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   "gpt-4o-mini",
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// complete sends system + user prompts and returns the first choice's content.
func (cl *chatClient) complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: cl.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cl.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cl.apiKey)

	resp, err := cl.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("openai returned status %d: %s", resp.StatusCode, snippet)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("no choices in response")
	}
	return out.Choices[0].Message.Content, nil
}

// parseRecognition decodes the model output. ok=false means the model could
// not recognize the input as food.
func parseRecognition(content string) (m recognizedMeal, ok bool, err error) {
	var errorResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(content), &errorResp); err != nil {
		return recognizedMeal{}, false, fmt.Errorf("parse openai content: %w", err)
	}
	if errorResp.Error == "unrecognized" {
		return recognizedMeal{}, false, nil
	}
	if err := json.Unmarshal([]byte(content), &m); err != nil {
		return recognizedMeal{}, false, fmt.Errorf("parse recognition: %w", err)
	}
	// At minimum we need a name and calories to log the item.
	if m.Name == "" || m.Calories == 0 {
		return recognizedMeal{}, false, nil
	}
	return m, true, nil
}

/* ─── Handler ────────────────────────────────────────────────────────── */

// recognizeMeal handles POST /api/meals/recognize.
// Turns a free-text meal description into calories and macros. Checks the
// Redis cache first, then OpenAI; with no API key configured it falls back to
// a small keyword table.
func (h *Handler) recognizeMeal(c *gin.Context) {
	var req recognizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		apiError(c, http.StatusBadRequest, "Please enter what you ate.")
		return
	}

	ctx := c.Request.Context()
	if m, ok := h.cache.get(ctx, req.Description); ok {
		h.metrics.RecognizeTotal.WithLabelValues("cache", "ok").Inc()
		c.JSON(http.StatusOK, m)
		return
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		m, ok := matchKeywords(req.Description)
		if !ok {
			h.metrics.RecognizeTotal.WithLabelValues("keywords", "unrecognized").Inc()
			c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
			return
		}
		h.metrics.RecognizeTotal.WithLabelValues("keywords", "ok").Inc()
		c.JSON(http.StatusOK, m)
		return
	}

	content, err := newChatClient(h.openAIBaseURL, apiKey).complete(ctx, mealSystemPrompt, req.Description)
	if err != nil {
		log.Printf("[recognize] OpenAI error: %v", err)
		h.metrics.RecognizeTotal.WithLabelValues("openai", "error").Inc()
		apiError(c, http.StatusInternalServerError, "Failed to process your meal. Please try again.")
		return
	}

	m, ok, err := parseRecognition(content)
	if err != nil {
		log.Printf("[recognize] %v", err)
		h.metrics.RecognizeTotal.WithLabelValues("openai", "error").Inc()
		apiError(c, http.StatusInternalServerError, "Failed to process your meal. Please try again.")
		return
	}
	if !ok {
		h.metrics.RecognizeTotal.WithLabelValues("openai", "unrecognized").Inc()
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}

	h.metrics.RecognizeTotal.WithLabelValues("openai", "ok").Inc()
	h.cache.set(ctx, req.Description, m)
	c.JSON(http.StatusOK, m)
}
