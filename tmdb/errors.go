package tmdb

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Common errors
var (
	// ErrNoSession indicates an account operation without a session id
	ErrNoSession = errors.New("a user session is required")
	// ErrMissingArgument indicates an element without the identity a resolver needs
	ErrMissingArgument = errors.New("missing identity argument")
	// ErrInvalid is the mark carried by every ValidationError
	ErrInvalid = errors.New("invalid argument")
)

// ValidationError reports an argument rejected before any request was made
type ValidationError struct {
	Field string
	Value any
	Rule  string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: must satisfy %s", e.Field, e.Value, e.Rule)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalid
}

// Is matches ErrInvalid regardless of the underlying validator error
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}
