package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Entity is anything cached by an entity store; Key is the join key used
// to reconcile updates and deletes.
type Entity interface {
	Customer | Product | Invoice
	Key() string
}

// NormalizeID trims and upper-cases a user supplied identifier.
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// ValidationError is raised before any remote call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
