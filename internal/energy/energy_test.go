package energy

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func ptr[T any](v T) *T { return &v }

// makeInput builds a fully populated ProfileInput. Tests nil out or change
// individual fields to exercise specific rules.
func makeInput(age float64, gender string, heightCM, weightKG float64, activity, goal string) ProfileInput {
	return ProfileInput{
		Age:           ptr(age),
		Gender:        ptr(gender),
		HeightCM:      ptr(heightCM),
		WeightKG:      ptr(weightKG),
		ActivityLevel: ptr(activity),
		Goal:          ptr(goal),
	}
}

func mustEstimate(t *testing.T, in ProfileInput) EnergyEstimate {
	t.Helper()
	est, err := Estimate(in)
	if err != nil {
		t.Fatalf("Estimate: unexpected error: %v", err)
	}
	return est
}

/* ─── Worked scenarios ───────────────────────────────────────────────── */

// TestEstimate_MaleModerateMaintain: 88.362 + 13.397*80 + 4.799*180 - 5.677*30
// = 1853.632, *1.55 = 2873.13, rounds to 2870.
func TestEstimate_MaleModerateMaintain(t *testing.T) {
	est := mustEstimate(t, makeInput(30, "male", 180, 80, "moderate", "maintain"))
	if math.Abs(est.BMR-1853.632) > 1e-9 {
		t.Errorf("BMR = %f, want 1853.632", est.BMR)
	}
	if est.DailyCalories != 2870 {
		t.Errorf("DailyCalories = %d, want 2870", est.DailyCalories)
	}
}

// TestEstimate_FemaleSedentaryLose: BMR 1405.333, *1.2 = 1686.40, -500 =
// 1186.40, rounds to 1190.
func TestEstimate_FemaleSedentaryLose(t *testing.T) {
	est := mustEstimate(t, makeInput(25, "female", 165, 60, "sedentary", "lose"))
	if math.Abs(est.BMR-1405.333) > 1e-9 {
		t.Errorf("BMR = %f, want 1405.333", est.BMR)
	}
	if est.DailyCalories != 1190 {
		t.Errorf("DailyCalories = %d, want 1190", est.DailyCalories)
	}
}

// TestEstimate_OtherUsesFemaleFormula: "other" shares the female branch.
// BMR 1448.343, *1.9 = 2751.85, +500 = 3251.85, rounds to 3250.
func TestEstimate_OtherUsesFemaleFormula(t *testing.T) {
	other := mustEstimate(t, makeInput(40, "other", 170, 70, "very_active", "gain"))
	female := mustEstimate(t, makeInput(40, "female", 170, 70, "very_active", "gain"))
	if other != female {
		t.Errorf("other = %+v, female = %+v; want identical", other, female)
	}
	if math.Abs(other.BMR-1448.343) > 1e-9 {
		t.Errorf("BMR = %f, want 1448.343", other.BMR)
	}
	if other.DailyCalories != 3250 {
		t.Errorf("DailyCalories = %d, want 3250", other.DailyCalories)
	}
}

/* ─── Properties ─────────────────────────────────────────────────────── */

// TestEstimate_DeterministicAndRounded sweeps a grid of valid profiles and
// checks that repeated calls agree and results are multiples of 10.
func TestEstimate_DeterministicAndRounded(t *testing.T) {
	for _, g := range []string{"male", "female", "other"} {
		for _, age := range []float64{18, 45, 100} {
			for _, h := range []float64{100, 172.5, 250} {
				for _, w := range []float64{30, 88.8, 250} {
					for _, a := range ActivityLevels {
						for _, goal := range Goals {
							in := makeInput(age, g, h, w, string(a), string(goal))
							first := mustEstimate(t, in)
							second := mustEstimate(t, in)
							if first != second {
								t.Fatalf("non-deterministic result for %+v: %+v vs %+v", in, first, second)
							}
							if first.DailyCalories%10 != 0 {
								t.Fatalf("DailyCalories %d not a multiple of 10", first.DailyCalories)
							}
						}
					}
				}
			}
		}
	}
}

// TestEstimate_MonotonicInGoal checks lose < maintain < gain with a gap of
// 500 (±10 after rounding).
func TestEstimate_MonotonicInGoal(t *testing.T) {
	for _, g := range []string{"male", "female"} {
		lose := mustEstimate(t, makeInput(52, g, 160, 95, "light", "lose")).DailyCalories
		maintain := mustEstimate(t, makeInput(52, g, 160, 95, "light", "maintain")).DailyCalories
		gain := mustEstimate(t, makeInput(52, g, 160, 95, "light", "gain")).DailyCalories

		if !(lose < maintain && maintain < gain) {
			t.Errorf("%s: want lose < maintain < gain, got %d, %d, %d", g, lose, maintain, gain)
		}
		if d := maintain - lose; d < 490 || d > 510 {
			t.Errorf("%s: maintain-lose = %d, want 500±10", g, d)
		}
		if d := gain - maintain; d < 490 || d > 510 {
			t.Errorf("%s: gain-maintain = %d, want 500±10", g, d)
		}
	}
}

// TestEstimate_MonotonicInActivity uses the smallest BMR the domain allows,
// where adjacent multipliers are closest together after rounding.
func TestEstimate_MonotonicInActivity(t *testing.T) {
	cases := []struct {
		name string
		in   func(activity string) ProfileInput
	}{
		{"male minimum", func(a string) ProfileInput { return makeInput(100, "male", 100, 30, a, "lose") }},
		{"female minimum", func(a string) ProfileInput { return makeInput(100, "female", 100, 30, a, "lose") }},
		{"typical", func(a string) ProfileInput { return makeInput(35, "other", 168, 64, a, "maintain") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prev := math.MinInt
			for _, level := range ActivityLevels {
				got := mustEstimate(t, tc.in(string(level))).DailyCalories
				if got <= prev {
					t.Errorf("%s: DailyCalories %d not greater than previous level's %d", level, got, prev)
				}
				prev = got
			}
		})
	}
}

func TestRoundToTen(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{2873.13, 2870},
		{1186.4, 1190},
		{1185, 1190},
		{1184.99, 1180},
		{1190, 1190},
		{-4, 0},
	}
	for _, tc := range cases {
		if got := roundToTen(tc.in); got != tc.want {
			t.Errorf("roundToTen(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

/* ─── Validator ──────────────────────────────────────────────────────── */

// TestValidate_BoundaryAcceptance covers the inclusive domain edges.
func TestValidate_BoundaryAcceptance(t *testing.T) {
	cases := []struct {
		name string
		mut  func(in *ProfileInput)
	}{
		{"age 18", func(in *ProfileInput) { in.Age = ptr(18.0) }},
		{"age 100", func(in *ProfileInput) { in.Age = ptr(100.0) }},
		{"height 100", func(in *ProfileInput) { in.HeightCM = ptr(100.0) }},
		{"height 250", func(in *ProfileInput) { in.HeightCM = ptr(250.0) }},
		{"weight 30", func(in *ProfileInput) { in.WeightKG = ptr(30.0) }},
		{"weight 250", func(in *ProfileInput) { in.WeightKG = ptr(250.0) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := makeInput(30, "male", 180, 80, "moderate", "maintain")
			tc.mut(&in)
			if _, err := Validate(in); err != nil {
				t.Errorf("expected %s to be accepted, got %v", tc.name, err)
			}
		})
	}
}

// TestValidate_BoundaryRejection checks that values just outside the domain
// fail with a RangeError on the right field.
func TestValidate_BoundaryRejection(t *testing.T) {
	cases := []struct {
		name  string
		field string
		mut   func(in *ProfileInput)
	}{
		{"age 17", FieldAge, func(in *ProfileInput) { in.Age = ptr(17.0) }},
		{"age 101", FieldAge, func(in *ProfileInput) { in.Age = ptr(101.0) }},
		{"age 30.5", FieldAge, func(in *ProfileInput) { in.Age = ptr(30.5) }},
		{"height 99", FieldHeight, func(in *ProfileInput) { in.HeightCM = ptr(99.0) }},
		{"height 250.1", FieldHeight, func(in *ProfileInput) { in.HeightCM = ptr(250.1) }},
		{"weight 29.9", FieldWeight, func(in *ProfileInput) { in.WeightKG = ptr(29.9) }},
		{"weight 251", FieldWeight, func(in *ProfileInput) { in.WeightKG = ptr(251.0) }},
		{"weight NaN", FieldWeight, func(in *ProfileInput) { in.WeightKG = ptr(math.NaN()) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := makeInput(30, "male", 180, 80, "moderate", "maintain")
			tc.mut(&in)
			_, err := Validate(in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if len(verr.Fields) != 1 {
				t.Fatalf("expected exactly one field error, got %+v", verr.Fields)
			}
			fe := verr.Fields[0]
			if fe.Field != tc.field || fe.Kind != KindRange {
				t.Errorf("got %s/%s, want %s/%s", fe.Field, fe.Kind, tc.field, KindRange)
			}
		})
	}
}

// TestValidate_InvalidEnums checks each categorical field against junk values.
func TestValidate_InvalidEnums(t *testing.T) {
	cases := []struct {
		field string
		mut   func(in *ProfileInput)
	}{
		{FieldGender, func(in *ProfileInput) { in.Gender = ptr("unknown") }},
		{FieldGender, func(in *ProfileInput) { in.Gender = ptr("Male") }},
		{FieldActivityLevel, func(in *ProfileInput) { in.ActivityLevel = ptr("very active") }},
		{FieldGoal, func(in *ProfileInput) { in.Goal = ptr("bulk") }},
	}
	for _, tc := range cases {
		in := makeInput(30, "male", 180, 80, "moderate", "maintain")
		tc.mut(&in)
		_, err := Validate(in)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected *ValidationError, got %v", tc.field, err)
		}
		fe, ok := verr.Get(tc.field)
		if !ok || fe.Kind != KindInvalidEnum {
			t.Errorf("%s: expected invalid_enum failure, got %+v", tc.field, verr.Fields)
		}
	}
}

// TestValidate_ReportsAllFailures: age and gender both wrong must yield two
// errors, not one.
func TestValidate_ReportsAllFailures(t *testing.T) {
	in := makeInput(15, "unknown", 180, 80, "moderate", "maintain")
	_, err := Estimate(in)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(verr.Fields) != 2 {
		t.Fatalf("expected 2 field errors, got %+v", verr.Fields)
	}
	if fe, _ := verr.Get(FieldAge); fe.Kind != KindRange {
		t.Errorf("age: kind = %q, want %q", fe.Kind, KindRange)
	}
	if fe, _ := verr.Get(FieldGender); fe.Kind != KindInvalidEnum {
		t.Errorf("gender: kind = %q, want %q", fe.Kind, KindInvalidEnum)
	}
}

// TestValidate_EmptyInput reports all six fields as missing.
func TestValidate_EmptyInput(t *testing.T) {
	_, err := Validate(ProfileInput{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	want := []string{FieldAge, FieldGender, FieldHeight, FieldWeight, FieldActivityLevel, FieldGoal}
	if len(verr.Fields) != len(want) {
		t.Fatalf("expected %d errors, got %+v", len(want), verr.Fields)
	}
	for i, f := range want {
		if verr.Fields[i].Field != f {
			t.Errorf("error %d: field = %q, want %q", i, verr.Fields[i].Field, f)
		}
	}
}

/* ─── JSON decoding ──────────────────────────────────────────────────── */

// TestProfileInput_UnmarshalJSON covers numeric strings and per-field type
// errors surviving into Validate.
func TestProfileInput_UnmarshalJSON(t *testing.T) {
	var in ProfileInput
	body := `{"age":"30","gender":7,"height_cm":180,"weight_kg":"heavy","activity_level":"moderate","goal":null}`
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.Age == nil || *in.Age != 30 {
		t.Fatalf("Age = %v, want 30", in.Age)
	}

	_, err := Validate(in)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(verr.Fields) != 3 {
		t.Fatalf("expected gender, weight and goal errors, got %+v", verr.Fields)
	}
	if fe, _ := verr.Get(FieldGender); fe.Message != "must be a string" {
		t.Errorf("gender message = %q, want type error", fe.Message)
	}
	if fe, _ := verr.Get(FieldWeight); fe.Message != "must be a number" {
		t.Errorf("weight message = %q, want type error", fe.Message)
	}
	if !verr.Has(FieldGoal) {
		t.Error("expected goal to be reported as missing")
	}
}

func TestProfileInput_UnmarshalJSON_NotObject(t *testing.T) {
	var in ProfileInput
	if err := json.Unmarshal([]byte(`[1,2,3]`), &in); err == nil {
		t.Error("expected error for non-object body")
	}
}

/* ─── Precondition ───────────────────────────────────────────────────── */

// TestCompute_PreconditionViolation hands Compute profiles that never went
// through Validate.
func TestCompute_PreconditionViolation(t *testing.T) {
	valid := BiometricProfile{Age: 30, Gender: Male, HeightCM: 180, WeightKG: 80, ActivityLevel: Moderate, Goal: Maintain}
	cases := []struct {
		name string
		mut  func(p *BiometricProfile)
	}{
		{"zero value", func(p *BiometricProfile) { *p = BiometricProfile{} }},
		{"age 17", func(p *BiometricProfile) { p.Age = 17 }},
		{"bad gender", func(p *BiometricProfile) { p.Gender = "x" }},
		{"height NaN", func(p *BiometricProfile) { p.HeightCM = math.NaN() }},
		{"weight 300", func(p *BiometricProfile) { p.WeightKG = 300 }},
		{"bad activity", func(p *BiometricProfile) { p.ActivityLevel = "couch" }},
		{"bad goal", func(p *BiometricProfile) { p.Goal = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := valid
			tc.mut(&p)
			if _, err := Compute(p); !errors.Is(err, ErrPreconditionViolation) {
				t.Errorf("expected ErrPreconditionViolation, got %v", err)
			}
		})
	}

	if _, err := Compute(valid); err != nil {
		t.Errorf("valid profile: unexpected error %v", err)
	}
}
