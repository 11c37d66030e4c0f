// Package energy estimates a daily calorie target from a person's biometrics.
//
// Raw form input goes through Validate, which checks every field and reports
// all failures at once. A validated BiometricProfile can then be passed to
// Compute. Estimate does both in one call.
package energy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
	Other  Gender = "other"
)

type ActivityLevel string

const (
	Sedentary  ActivityLevel = "sedentary"
	Light      ActivityLevel = "light"
	Moderate   ActivityLevel = "moderate"
	Active     ActivityLevel = "active"
	VeryActive ActivityLevel = "very_active"
)

// ActivityLevels lists the activity levels from least to most active.
var ActivityLevels = []ActivityLevel{Sedentary, Light, Moderate, Active, VeryActive}

type Goal string

const (
	Lose     Goal = "lose"
	Maintain Goal = "maintain"
	Gain     Goal = "gain"
)

// Goals lists the goals in increasing calorie order.
var Goals = []Goal{Lose, Maintain, Gain}

// Inclusive domain bounds for the numeric profile fields.
const (
	MinAge      = 18
	MaxAge      = 100
	MinHeightCM = 100.0
	MaxHeightCM = 250.0
	MinWeightKG = 30.0
	MaxWeightKG = 250.0
)

// BiometricProfile is a profile that has passed Validate. Build one through
// Validate rather than by hand; Compute re-checks it either way.
type BiometricProfile struct {
	Age           int           `json:"age"`
	Gender        Gender        `json:"gender"`
	HeightCM      float64       `json:"height_cm"`
	WeightKG      float64       `json:"weight_kg"`
	ActivityLevel ActivityLevel `json:"activity_level"`
	Goal          Goal          `json:"goal"`
}

// EnergyEstimate is the result of Compute. BMR is left unrounded; only
// DailyCalories is meant to be shown to the user.
type EnergyEstimate struct {
	BMR           float64 `json:"bmr"`
	TDEE          float64 `json:"tdee"`
	DailyCalories int     `json:"daily_calories"`
}

// ProfileInput is an unvalidated submission. Nil fields were not supplied.
// Numbers may arrive as JSON numbers or numeric strings, the way an HTML
// number input posts them; anything else is recorded as a field error and
// reported by Validate alongside the range checks.
type ProfileInput struct {
	Age           *float64 `json:"age"`
	Gender        *string  `json:"gender"`
	HeightCM      *float64 `json:"height_cm"`
	WeightKG      *float64 `json:"weight_kg"`
	ActivityLevel *string  `json:"activity_level"`
	Goal          *string  `json:"goal"`

	malformed []FieldError
}

// UnmarshalJSON decodes field by field so one badly typed value does not hide
// problems with the others.
func (in *ProfileInput) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("profile must be a JSON object: %w", err)
	}
	*in = ProfileInput{}

	num := func(key, field string, kind ErrorKind) *float64 {
		v, ok := raw[key]
		if !ok || isNull(v) {
			return nil
		}
		f, err := decodeNumber(v)
		if err != nil {
			in.malformed = append(in.malformed, FieldError{Field: field, Kind: kind, Message: "must be a number"})
			return nil
		}
		return &f
	}
	str := func(key, field string) *string {
		v, ok := raw[key]
		if !ok || isNull(v) {
			return nil
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			in.malformed = append(in.malformed, FieldError{Field: field, Kind: KindInvalidEnum, Message: "must be a string"})
			return nil
		}
		return &s
	}

	in.Age = num("age", FieldAge, KindRange)
	in.Gender = str("gender", FieldGender)
	in.HeightCM = num("height_cm", FieldHeight, KindRange)
	in.WeightKG = num("weight_kg", FieldWeight, KindRange)
	in.ActivityLevel = str("activity_level", FieldActivityLevel)
	in.Goal = str("goal", FieldGoal)
	return nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// decodeNumber accepts 42, 42.5 or "42".
func decodeNumber(v json.RawMessage) (float64, error) {
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return 0, err
	}
	return strconv.ParseFloat(s, 64)
}
