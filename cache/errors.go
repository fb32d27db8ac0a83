package cache

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Common errors
var (
	// ErrUnknownEngine indicates that no engine factory is registered under a name
	ErrUnknownEngine = errors.New("unknown cache engine")
	// ErrConnection indicates that a remote engine could not reach its server
	ErrConnection = errors.New("cache server unreachable")
	// ErrClosed is returned by engines used after Close
	ErrClosed = errors.New("cache engine closed")
)

// ConfigurationError reports a failure to select or build a cache engine
type ConfigurationError struct {
	Engine string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cache engine '%s': %s: %v", e.Engine, e.Reason, e.Err)
	}
	return fmt.Sprintf("cache engine '%s': %s", e.Engine, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
