package models

import "fmt"

// ValidationError reports a missing or malformed field. The action it blocks leaves no state behind.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func Required(field string) *ValidationError {
	return &ValidationError{Field: field, Message: field + " is required"}
}
