package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound = errors.New("resource not found")

	// Validation errors
	ErrEmptyBaseSet    = errors.New("base number set is empty")
	ErrNonPositiveBase = errors.New("base number must be positive")
	ErrDuplicateBase   = errors.New("base number set contains duplicates")
	ErrInvalidMode     = errors.New("invalid grammar mode")
	ErrInvalidOperator = errors.New("operator not recognized")

	// Determinism errors, reported by replay verification
	ErrNonDeterministic = errors.New("non-deterministic result")
	ErrSeedMismatch     = errors.New("seed mismatch")
	ErrHashMismatch     = errors.New("hash mismatch")
)

// Error constructors with context
func NewNotFoundError(resource string, key string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, resource, key)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyBaseSet) ||
		errors.Is(err, ErrNonPositiveBase) ||
		errors.Is(err, ErrDuplicateBase) ||
		errors.Is(err, ErrInvalidMode) ||
		errors.Is(err, ErrInvalidOperator)
}

func IsDeterminismError(err error) bool {
	return errors.Is(err, ErrNonDeterministic) ||
		errors.Is(err, ErrSeedMismatch) ||
		errors.Is(err, ErrHashMismatch)
}
