// Package errs contains the error taxonomy shared across layers for stable status mapping.
package errs

import (
	"errors"
	"fmt"
)

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist for the
	// requesting owner. A foreign owner's entity reports the same error.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates failed authentication. It is deliberately
	// generic: unknown login and wrong password are indistinguishable.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrHashing indicates an infrastructural failure in password hashing
	// (entropy source). Surfaced as an internal error, never retried.
	ErrHashing = errors.New("password hashing failed")
)

// ValidationError reports malformed or insufficient input the caller can correct.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return "validation: " + e.Msg }

// Validation builds a ValidationError with a formatted message.
func Validation(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError reports a uniqueness violation and names the conflicting field.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string { return e.Field + " already taken" }
