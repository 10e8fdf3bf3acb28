package entity

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a lookup that matched no row. Callers that treat
// absence as a normal outcome (the watchlist resolver) test for it with
// errors.Is.
var ErrNotFound = errors.New("entity not found")

// ErrInvalidInput reports a request payload that cannot be processed.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError carries the field that failed validation alongside the
// reason, so handlers can surface a precise message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
