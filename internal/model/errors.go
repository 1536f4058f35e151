package model

import (
	"errors"
	"fmt"
)

// NotFoundError reports an entity that is absent or not owned by the caller.
// Kind names the entity ("diary", "event", "todo", "category", "user").
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e NotFoundError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// NewNotFoundError constructs NotFoundError.
func NewNotFoundError(kind string, id int64) NotFoundError {
	return NotFoundError{Kind: kind, ID: id}
}

// IsNotFound checks if an error is a NotFoundError (including wrapped errors).
func IsNotFound(err error) bool {
	var ne NotFoundError
	return errors.As(err, &ne)
}

// ValidationError reports malformed or out-of-range input.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// NewValidationError constructs ValidationError.
func NewValidationError(field, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}

// IsValidation checks if an error is a ValidationError (including wrapped errors).
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
