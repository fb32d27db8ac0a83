package request

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// KeyPrefix is prepended to every cache key
const KeyPrefix = "tmdb3:"

// Key derives the cache key for r issued with apiKey.
//
// Parameters are hashed in name order and bodies are hashed as map-sorted
// JSON, so construction order never changes the key.
func Key(r *Request, apiKey string) string {
	d := xxhash.New()
	_, _ = d.WriteString(r.Method())
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(r.endpoint)
	_, _ = d.WriteString("\x00")
	// url.Values.Encode sorts by name
	_, _ = d.WriteString(r.Query(apiKey).Encode())
	if body, err := r.encodeBody(); err == nil && body != nil {
		_, _ = d.WriteString("\x00")
		_, _ = d.Write(body)
	}
	return fmt.Sprintf("%s%016x", KeyPrefix, d.Sum64())
}
