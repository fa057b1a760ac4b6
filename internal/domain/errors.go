package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a missing entity, or one the caller does not own.
	// The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")
)

// Kind classifies an error for the API boundary.
type Kind string

const (
	KindNone           Kind = ""
	KindValidation     Kind = "validation"
	KindAuthorization  Kind = "authorization"
	KindInfrastructure Kind = "infrastructure"
)

// Invalid builds a validation error for a field.
func Invalid(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrValidation, field, fmt.Sprintf(format, args...))
}

// KindOf maps an error to its Kind. Anything that is not a business rule
// failure is infrastructure.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindAuthorization
	default:
		return KindInfrastructure
	}
}
