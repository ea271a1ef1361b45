package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")

	// ErrUnavailable marks a missing backing table or column. Callers that
	// have a sensible fallback degrade instead of propagating it.
	ErrUnavailable = errors.New("dependency unavailable")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// StateError reports an operation that is invalid for the entity's current
// state (answering a finished duel, starting an active one). The entity is
// left untouched.
type StateError struct {
	Entity  string
	State   string
	Message string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s is %s: %s", e.Entity, e.State, e.Message)
}

func (e *StateError) Unwrap() error { return ErrConflict }

// NewStateError creates a StateError.
func NewStateError(entity, state, message string) *StateError {
	return &StateError{Entity: entity, State: state, Message: message}
}
