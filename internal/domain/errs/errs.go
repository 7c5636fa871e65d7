// Package errs defines the error taxonomy shared by the services and mapped to
// HTTP statuses at the handler layer.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports that a referenced product, invoice or admin does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyPaid reports an attempt to pay an invoice already in its terminal state.
	ErrAlreadyPaid = errors.New("invoice is already paid")
	// ErrDuplicateCode reports a sequential-code collision on insert. Callers
	// re-allocate and retry once before surfacing it.
	ErrDuplicateCode = errors.New("duplicate sequential code")
	// ErrStoreUnavailable reports that the underlying persistence is unreachable.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// InsufficientStockError reports an order exceeding the on-hand quantity,
// carrying the available amount for caller correction.
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: only %d units available", e.Available)
}

// ValidationError reports missing or malformed caller input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validation builds a ValidationError.
func Validation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
