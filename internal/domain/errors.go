package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is the root of every local validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidAmount reports a quantity or price that is not a finite number.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrUnknownStatus reports a status string outside the known set.
	ErrUnknownStatus = errors.New("unknown invoice status")
)

// ValidationError describes which field failed validation and why.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a validation error for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
