package request

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Params holds query parameters. Nil values are dropped.
type Params map[string]any

// Lifetime is the number of seconds a response may be served from cache
type Lifetime int

const (
	// LifetimeDefault defers to the client's default lifetime
	LifetimeDefault Lifetime = -1
	// NoCache disables both the cache lookup and the write back
	NoCache Lifetime = 0
)

// Duration converts the lifetime to a time.Duration. LifetimeDefault maps to fallback.
func (l Lifetime) Duration(fallback time.Duration) time.Duration {
	if l < 0 {
		return fallback
	}
	return time.Duration(l) * time.Second
}

// Request describes one logical fetch. Values are never modified after
// construction; the With* methods return copies.
type Request struct {
	endpoint string
	params   Params
	body     map[string]any
	lifetime Lifetime
	method   string
}

// New creates a request for endpoint, which is relative to the API root
func New(endpoint string, params Params) *Request {
	r := &Request{
		endpoint: strings.TrimPrefix(endpoint, "/"),
		params:   make(Params, len(params)),
		lifetime: LifetimeDefault,
	}
	for k, v := range params {
		if !isNil(v) {
			r.params[k] = v
		}
	}
	return r
}

func (r *Request) clone() *Request {
	c := *r
	c.params = make(Params, len(r.params))
	for k, v := range r.params {
		c.params[k] = v
	}
	if r.body != nil {
		c.body = make(map[string]any, len(r.body))
		for k, v := range r.body {
			c.body[k] = v
		}
	}
	return &c
}

// With returns a copy with params overlaid. A nil value removes the parameter.
func (r *Request) With(params Params) *Request {
	c := r.clone()
	for k, v := range params {
		if isNil(v) {
			delete(c.params, k)
			continue
		}
		c.params[k] = v
	}
	return c
}

// WithBody returns a copy that carries a JSON body
func (r *Request) WithBody(body map[string]any) *Request {
	c := r.clone()
	c.body = make(map[string]any, len(body))
	for k, v := range body {
		c.body[k] = v
	}
	return c
}

// WithLifetime returns a copy with the given cache lifetime
func (r *Request) WithLifetime(l Lifetime) *Request {
	c := r.clone()
	c.lifetime = l
	return c
}

// WithMethod returns a copy issued with an explicit HTTP method
func (r *Request) WithMethod(method string) *Request {
	c := r.clone()
	c.method = strings.ToUpper(method)
	return c
}

func (r *Request) Endpoint() string { return r.endpoint }

func (r *Request) Lifetime() Lifetime { return r.lifetime }

// Params returns a copy of the query parameters
func (r *Request) Params() Params {
	out := make(Params, len(r.params))
	for k, v := range r.params {
		out[k] = v
	}
	return out
}

// Param returns a single query parameter
func (r *Request) Param(name string) (any, bool) {
	v, ok := r.params[name]
	return v, ok
}

// Body returns a copy of the JSON body, or nil
func (r *Request) Body() map[string]any {
	if r.body == nil {
		return nil
	}
	out := make(map[string]any, len(r.body))
	for k, v := range r.body {
		out[k] = v
	}
	return out
}

// Method is GET for reads and POST when a body is attached, unless overridden
func (r *Request) Method() string {
	if r.method != "" {
		return r.method
	}
	if r.body != nil {
		return http.MethodPost
	}
	return http.MethodGet
}

// Query renders the parameters with the credential added
func (r *Request) Query(apiKey string) url.Values {
	q := make(url.Values, len(r.params)+1)
	for k, v := range r.params {
		q.Set(k, FormatValue(v))
	}
	if apiKey != "" {
		q.Set("api_key", apiKey)
	}
	return q
}

// String renders the request without its credential
func (r *Request) String() string {
	s := r.Method() + " " + r.endpoint
	if len(r.params) > 0 {
		s += "?" + r.Query("").Encode()
	}
	return s
}

func (r *Request) encodeBody() ([]byte, error) {
	if r.body == nil {
		return nil, nil
	}
	return json.Marshal(r.body)
}

// FormatValue renders a scalar parameter value
func FormatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int8:
		return strconv.FormatInt(int64(t), 10)
	case int16:
		return strconv.FormatInt(int64(t), 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint8:
		return strconv.FormatUint(uint64(t), 10)
	case uint16:
		return strconv.FormatUint(uint64(t), 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.Format(time.DateOnly)
	case *time.Time:
		return t.Format(time.DateOnly)
	case *string:
		return *t
	case *int:
		return strconv.Itoa(*t)
	case *bool:
		return strconv.FormatBool(*t)
	case []string:
		return strings.Join(t, ",")
	case []int:
		parts := make([]string, len(t))
		for i, n := range t {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, ",")
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case *time.Time:
		return t == nil
	case *string:
		return t == nil
	case *int:
		return t == nil
	case *bool:
		return t == nil
	}
	return false
}
