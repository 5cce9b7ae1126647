package service

import (
	"errors"

	"bizdesk-api/pkg/validator"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrForbidden = errors.New("forbidden")
)

// ValidationError carries field level messages back to the client.
type ValidationError struct {
	Errors validator.Errors
}

func (e *ValidationError) Error() string { return "The given data was invalid." }

func NewValidationError(errs validator.Errors) *ValidationError {
	return &ValidationError{Errors: errs}
}

// Invalid is a single field validation failure.
func Invalid(field, message string) *ValidationError {
	errs := validator.Errors{}
	errs.Add(field, message)
	return &ValidationError{Errors: errs}
}

// PersistenceError wraps an unexpected storage failure. Err is logged, never shown to clients.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return "failed to " + e.Op + ": " + e.Err.Error() }

func (e *PersistenceError) Unwrap() error { return e.Err }

// Message is the sanitized text returned to clients.
func (e *PersistenceError) Message() string { return "Failed to " + e.Op + ". Please try again." }

// passThrough reports whether err is already a client facing error.
func passThrough(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr) || errors.Is(err, ErrForbidden) || errors.Is(err, ErrNotFound)
}
