package energy

import "math"

// activityMultipliers maps activity levels to their TDEE multiplier.
// This is the single source of truth for valid activity levels. Validate
// checks against it too.
var activityMultipliers = map[ActivityLevel]float64{
	Sedentary:  1.2,
	Light:      1.375,
	Moderate:   1.55,
	Active:     1.725,
	VeryActive: 1.9,
}

// goalAdjustments is the daily surplus (or deficit) applied on top of TDEE.
var goalAdjustments = map[Goal]float64{
	Lose:     -500,
	Maintain: 0,
	Gain:     500,
}

// Multiplier returns the TDEE multiplier for level.
func Multiplier(level ActivityLevel) (float64, bool) {
	m, ok := activityMultipliers[level]
	return m, ok
}

// BMR computes basal metabolic rate with the revised Harris-Benedict
// equation. Only Male gets the male coefficients; Female and Other share the
// female ones.
func BMR(p BiometricProfile) float64 {
	age := float64(p.Age)
	if p.Gender == Male {
		return 88.362 + 13.397*p.WeightKG + 4.799*p.HeightCM - 5.677*age
	}
	return 447.593 + 9.247*p.WeightKG + 3.098*p.HeightCM - 4.330*age
}

// Compute turns a validated profile into a daily calorie recommendation.
// It returns an error wrapping ErrPreconditionViolation if p is outside the
// documented domain.
func Compute(p BiometricProfile) (EnergyEstimate, error) {
	if err := p.check(); err != nil {
		return EnergyEstimate{}, err
	}

	bmr := BMR(p)
	tdee := bmr * activityMultipliers[p.ActivityLevel]
	adjusted := tdee + goalAdjustments[p.Goal]

	return EnergyEstimate{
		BMR:           bmr,
		TDEE:          tdee,
		DailyCalories: roundToTen(adjusted),
	}, nil
}

// Estimate validates in and, if it passes, computes its estimate. Validation
// failures come back as *ValidationError.
func Estimate(in ProfileInput) (EnergyEstimate, error) {
	p, err := Validate(in)
	if err != nil {
		return EnergyEstimate{}, err
	}
	return Compute(p)
}

// roundToTen rounds to the nearest multiple of 10, halves going up.
func roundToTen(v float64) int {
	return int(math.Floor(v/10+0.5)) * 10
}
