package store

import (
	"errors"
	"fmt"
	"strings"
)

// FieldViolation names a single failed validation rule.
type FieldViolation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError reports which field rules an input violated. Nothing is
// written when validation fails.
type ValidationError struct {
	Collection string
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("%s: %s", v.Field, v.Rule)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Collection, strings.Join(parts, ", "))
}

// NotFoundError reports a missing record for an update or single-row read.
type NotFoundError struct {
	Collection string
	ID         string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("record %s not found in %s", e.ID, e.Collection)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}
