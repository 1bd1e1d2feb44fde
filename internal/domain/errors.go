package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidReferenceType is returned for an unknown reference type.
	ErrInvalidReferenceType = fmt.Errorf("%w: invalid reference type", ErrValidation)

	// ErrInvalidTaskType is returned for an unknown task type.
	ErrInvalidTaskType = fmt.Errorf("%w: invalid task type", ErrValidation)

	// ErrInvalidTaskStatus is returned for an unknown task status.
	ErrInvalidTaskStatus = fmt.Errorf("%w: invalid task status", ErrValidation)

	// ErrInvalidPriority is returned for an unknown priority.
	ErrInvalidPriority = fmt.Errorf("%w: invalid priority", ErrValidation)

	// ErrEmptyCommentAuthor is returned when a comment has no author.
	ErrEmptyCommentAuthor = fmt.Errorf("%w: comment author cannot be empty", ErrValidation)

	// ErrEmptyCommentMessage is returned when a comment has no message.
	ErrEmptyCommentMessage = fmt.Errorf("%w: comment message cannot be empty", ErrValidation)
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
