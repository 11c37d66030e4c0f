package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// runCmd executes the root command with args and returns stdout, stderr and
// the error from Execute.
func runCmd(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestEstimate_TextOutput(t *testing.T) {
	out, _, err := runCmd("--age", "30", "--gender", "male", "--height", "180", "--weight", "80",
		"--activity", "moderate", "--goal", "maintain")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Daily calories: 2870 kcal/day") {
		t.Errorf("expected 2870 in output, got:\n%s", out)
	}
}

func TestEstimate_JSONOutput(t *testing.T) {
	out, _, err := runCmd("--age", "25", "--gender", "female", "--height", "165", "--weight", "60",
		"--activity", "sedentary", "--goal", "lose", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp struct {
		DailyCalories int `json:"daily_calories"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if resp.DailyCalories != 1190 {
		t.Errorf("daily_calories = %d, want 1190", resp.DailyCalories)
	}
}

// TestEstimate_InvalidFlags prints every failing field and returns
// errInvalidProfile so main exits non-zero.
func TestEstimate_InvalidFlags(t *testing.T) {
	_, stderr, err := runCmd("--age", "15", "--gender", "unknown", "--height", "180", "--weight", "80",
		"--activity", "moderate", "--goal", "maintain")
	if !errors.Is(err, errInvalidProfile) {
		t.Fatalf("expected errInvalidProfile, got %v", err)
	}
	if !strings.Contains(stderr, "age:") || !strings.Contains(stderr, "gender:") {
		t.Errorf("expected age and gender errors, got:\n%s", stderr)
	}
}

// TestEstimate_MissingFlags reports unset flags as missing rather than zero.
func TestEstimate_MissingFlags(t *testing.T) {
	_, stderr, err := runCmd("--age", "40")
	if !errors.Is(err, errInvalidProfile) {
		t.Fatalf("expected errInvalidProfile, got %v", err)
	}
	if got := strings.Count(stderr, "\n"); got != 5 {
		t.Errorf("expected 5 missing-field lines, got %d:\n%s", got, stderr)
	}
}
