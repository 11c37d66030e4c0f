package energy

import (
	"errors"
	"strings"
)

// ErrorKind classifies a single field failure.
type ErrorKind string

const (
	KindRange       ErrorKind = "range"
	KindInvalidEnum ErrorKind = "invalid_enum"
)

// Field identifiers reported in FieldError.Field. These match the onboarding
// form's input names.
const (
	FieldAge           = "age"
	FieldGender        = "gender"
	FieldHeight        = "height"
	FieldWeight        = "weight"
	FieldActivityLevel = "activityLevel"
	FieldGoal          = "goal"
)

// ErrPreconditionViolation is returned (wrapped) by Compute when it is handed
// a profile that would not pass Validate.
var ErrPreconditionViolation = errors.New("energy: profile violates precondition")

// FieldError describes one invalid field.
type FieldError struct {
	Field   string    `json:"field"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationError holds every field that failed validation, in field order.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return "invalid profile: " + strings.Join(msgs, "; ")
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Get(field)
	return ok
}

// Get returns the failure recorded for field, if any.
func (e *ValidationError) Get(field string) (FieldError, bool) {
	for _, f := range e.Fields {
		if f.Field == field {
			return f, true
		}
	}
	return FieldError{}, false
}
