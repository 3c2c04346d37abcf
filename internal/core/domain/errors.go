package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrForbidden        = errors.New("forbidden")
	ErrDuplicateKey     = errors.New("duplicate key")
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrEmailTaken is a duplicate key on the unique user email. It matches
	// ErrDuplicateKey but must never be retried with a fresh id.
	ErrEmailTaken error = emailTakenError{}

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("caller identity required")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
)

type emailTakenError struct{}

func (emailTakenError) Error() string { return "email already registered" }
func (emailTakenError) Unwrap() error { return ErrDuplicateKey }

// ValidationError lists every problem found with client-supplied input.
type ValidationError struct {
	Problems []string
}

func NewValidationError(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}
