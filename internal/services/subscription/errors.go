package services

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"

	"subtrack/internal/renewal"
)

// FieldError names a single violated constraint on a request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field violation found in a create or
// update request, so callers can branch on it programmatically.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, ", ")
}

// fieldErrors converts validator violations into FieldError values with
// human-readable messages.
func fieldErrors(errs validator.ValidationErrors) []FieldError {
	var result []FieldError
	for _, err := range errs {
		var msg string
		switch err.ActualTag() {
		case "required":
			msg = fmt.Sprintf("field %s is a required field", err.Field())
		case "min":
			msg = fmt.Sprintf("field %s must be at least %s characters", err.Field(), err.Param())
		case "max":
			msg = fmt.Sprintf("field %s must be at most %s characters", err.Field(), err.Param())
		case "gte":
			msg = fmt.Sprintf("field %s must not be negative", err.Field())
		default:
			msg = fmt.Sprintf("field %s is not valid", err.Field())
		}
		result = append(result, FieldError{Field: err.Field(), Message: msg})
	}
	return result
}

// renewalDateError is the FieldError reported for a date string that is
// not a real YYYY-MM-DD calendar date.
func renewalDateError() FieldError {
	return FieldError{
		Field:   "RenewalDate",
		Message: fmt.Sprintf("field RenewalDate must be a real calendar date in %s form", renewal.Layout),
	}
}
