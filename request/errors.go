package request

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common errors
var (
	// ErrMissingAPIKey indicates the client was built without a credential
	ErrMissingAPIKey = errors.New("tmdb API key is required")
	// ErrUnexpectedResponse indicates a response body that is not a JSON object
	ErrUnexpectedResponse = errors.New("unexpected response shape")
)

// FetchError reports a failed catalog call. StatusCode is zero when the
// request never produced a response.
type FetchError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	default:
		return fmt.Sprintf("%s %s: request failed", e.Method, e.URL)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsNotFound checks if the error indicates a not found response
func (e *FetchError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *FetchError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsNotFound reports whether err is a FetchError for a missing resource
func IsNotFound(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.IsNotFound()
}
