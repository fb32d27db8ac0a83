package element

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Common errors
var (
	// ErrUnknownField indicates a field name missing from the type's table
	ErrUnknownField = errors.New("unknown field")
	// ErrNoResolver indicates a group without a resolver
	ErrNoResolver = errors.New("no resolver for group")
	// ErrNoFetcher indicates an element that needs data but has no fetcher
	ErrNoFetcher = errors.New("element has no fetcher")
	// ErrUnexpectedShape indicates a response or raw value of the wrong JSON kind
	ErrUnexpectedShape = errors.New("unexpected value shape")
)

// FieldTypeError is returned by typed accessors when the stored value has another type
type FieldTypeError struct {
	Type  string
	Field string
	Want  string
	Got   any
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("%s.%s: want %s, got %T", e.Type, e.Field, e.Want, e.Got)
}
