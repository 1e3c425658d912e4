package inventory

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that the referenced id is absent from the store.
var ErrNotFound = errors.New("not found")

// ValidationError reports caller-supplied data that fails the schema
// constraints, surfaced before any mutation happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
