package energy

import (
	"fmt"
	"math"
)

var validGenders = map[Gender]bool{Male: true, Female: true, Other: true}

var validGoals = map[Goal]bool{Lose: true, Maintain: true, Gain: true}

// Validate checks every field of in and returns the validated profile, or a
// *ValidationError listing all failing fields. It never stops at the first
// failure.
func Validate(in ProfileInput) (BiometricProfile, error) {
	var p BiometricProfile
	var errs []FieldError

	// Decode-time type errors win over "required" for the same field.
	malformed := make(map[string]FieldError, len(in.malformed))
	for _, fe := range in.malformed {
		malformed[fe.Field] = fe
	}
	fail := func(fe FieldError) {
		if m, ok := malformed[fe.Field]; ok {
			fe = m
		}
		errs = append(errs, fe)
	}

	if fe, ok := checkAge(in.Age); ok {
		p.Age = int(*in.Age)
	} else {
		fail(fe)
	}

	if in.Gender == nil || !validGenders[Gender(*in.Gender)] {
		fail(FieldError{Field: FieldGender, Kind: KindInvalidEnum, Message: "Please select a gender"})
	} else {
		p.Gender = Gender(*in.Gender)
	}

	if fe, ok := checkRange(in.HeightCM, FieldHeight, "Height", MinHeightCM, MaxHeightCM, "cm"); ok {
		p.HeightCM = *in.HeightCM
	} else {
		fail(fe)
	}

	if fe, ok := checkRange(in.WeightKG, FieldWeight, "Weight", MinWeightKG, MaxWeightKG, "kg"); ok {
		p.WeightKG = *in.WeightKG
	} else {
		fail(fe)
	}

	if in.ActivityLevel == nil {
		fail(FieldError{Field: FieldActivityLevel, Kind: KindInvalidEnum, Message: "Please select your activity level"})
	} else if _, ok := activityMultipliers[ActivityLevel(*in.ActivityLevel)]; !ok {
		fail(FieldError{Field: FieldActivityLevel, Kind: KindInvalidEnum,
			Message: "activity level must be one of: sedentary, light, moderate, active, very_active"})
	} else {
		p.ActivityLevel = ActivityLevel(*in.ActivityLevel)
	}

	if in.Goal == nil || !validGoals[Goal(*in.Goal)] {
		fail(FieldError{Field: FieldGoal, Kind: KindInvalidEnum, Message: "Please select your goal"})
	} else {
		p.Goal = Goal(*in.Goal)
	}

	if len(errs) > 0 {
		return BiometricProfile{}, &ValidationError{Fields: errs}
	}
	return p, nil
}

func checkAge(age *float64) (FieldError, bool) {
	fe := FieldError{Field: FieldAge, Kind: KindRange}
	switch {
	case age == nil:
		fe.Message = "Age is required"
	case math.IsNaN(*age) || math.IsInf(*age, 0) || *age != math.Trunc(*age):
		fe.Message = "Age must be a whole number of years"
	case *age < MinAge:
		fe.Message = "You must be at least 18 years old"
	case *age > MaxAge:
		fe.Message = "Please enter a valid age"
	default:
		return FieldError{}, true
	}
	return fe, false
}

func checkRange(v *float64, field, label string, lo, hi float64, unit string) (FieldError, bool) {
	fe := FieldError{Field: field, Kind: KindRange}
	switch {
	case v == nil:
		fe.Message = label + " is required"
	case math.IsNaN(*v) || math.IsInf(*v, 0):
		fe.Message = label + " must be a finite number"
	case *v < lo:
		fe.Message = fmt.Sprintf("%s must be at least %g %s", label, lo, unit)
	case *v > hi:
		fe.Message = fmt.Sprintf("%s must be at most %g %s", label, hi, unit)
	default:
		return FieldError{}, true
	}
	return fe, false
}

// check is the precondition test used by Compute. It mirrors Validate on an
// already-typed profile.
func (p BiometricProfile) check() error {
	switch {
	case p.Age < MinAge || p.Age > MaxAge:
		return fmt.Errorf("%w: age %d", ErrPreconditionViolation, p.Age)
	case !validGenders[p.Gender]:
		return fmt.Errorf("%w: gender %q", ErrPreconditionViolation, p.Gender)
	case !(p.HeightCM >= MinHeightCM && p.HeightCM <= MaxHeightCM):
		return fmt.Errorf("%w: height %g", ErrPreconditionViolation, p.HeightCM)
	case !(p.WeightKG >= MinWeightKG && p.WeightKG <= MaxWeightKG):
		return fmt.Errorf("%w: weight %g", ErrPreconditionViolation, p.WeightKG)
	case !validGoals[p.Goal]:
		return fmt.Errorf("%w: goal %q", ErrPreconditionViolation, p.Goal)
	}
	if _, ok := activityMultipliers[p.ActivityLevel]; !ok {
		return fmt.Errorf("%w: activity level %q", ErrPreconditionViolation, p.ActivityLevel)
	}
	return nil
}
