package request

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Store is the cache consulted by the client. *cache.Cache satisfies it.
type Store interface {
	Get(ctx context.Context, key string) (any, bool, error)
	Put(ctx context.Context, key string, value any, lifetime time.Duration) error
}

// Client executes requests against the catalog API through a Store
type Client struct {
	baseURL         string
	apiKey          string
	httpClient      *http.Client
	store           Store
	defaultLifetime time.Duration
	userAgent       string
	metrics         *Metrics
	logger          zerolog.Logger
}

// NewClient creates a new pipeline client. store may be nil to disable caching.
func NewClient(apiKey string, store Store, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		store:           store,
		defaultLifetime: DefaultLifetime,
		userAgent:       "tmdb3",
		logger:          logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Key returns the cache key used for r
func (c *Client) Key(r *Request) string {
	return Key(r, c.apiKey)
}

// URL returns the full request URL including the credential
func (c *Client) URL(r *Request) string {
	return c.baseURL + "/" + r.endpoint + "?" + r.Query(c.apiKey).Encode()
}

// displayURL is URL with the credential removed, for logs and errors
func (c *Client) displayURL(r *Request) string {
	q := r.Query("")
	if len(q) == 0 {
		return c.baseURL + "/" + r.endpoint
	}
	return c.baseURL + "/" + r.endpoint + "?" + q.Encode()
}

// Execute serves r from the store when possible and otherwise fetches it
func (c *Client) Execute(ctx context.Context, r *Request) (any, error) {
	key := c.Key(r)
	lifetime := r.lifetime.Duration(c.defaultLifetime)
	cacheable := r.lifetime != NoCache && lifetime != 0 && c.store != nil

	log := c.logger.With().Str("endpoint", r.endpoint).Str("key", key).Logger()

	if cacheable {
		value, ok, err := c.store.Get(ctx, key)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("Cache lookup failed, fetching")
		case ok:
			c.metrics.hit()
			log.Debug().Msg("Cache hit")
			return value, nil
		default:
			c.metrics.miss()
			log.Debug().Msg("Cache miss")
		}
	}

	value, err := c.fetch(ctx, r, log)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := c.store.Put(ctx, key, value, lifetime); err != nil {
			log.Warn().Err(err).Msg("Failed to write response to cache")
		}
	}

	return value, nil
}

// ExecuteInto executes r and decodes the result into out
func (c *Client) ExecuteInto(ctx context.Context, r *Request, out any) error {
	value, err := c.Execute(ctx, r)
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "failed to re-encode response")
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "failed to decode %s", r.endpoint)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, r *Request, log zerolog.Logger) (any, error) {
	method := r.Method()
	display := c.displayURL(r)
	fail := func(status int, body []byte, err error) *FetchError {
		return &FetchError{Method: method, URL: display, StatusCode: status, Body: string(body), Err: err}
	}

	var body io.Reader
	payload, err := r.encodeBody()
	if err != nil {
		c.metrics.failed("encode")
		return nil, fail(0, nil, errors.Wrap(err, "failed to encode body"))
	}
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(r), body)
	if err != nil {
		c.metrics.failed("request")
		return nil, fail(0, nil, errors.Wrap(err, "failed to create request"))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json;charset=utf-8")
	}

	requestID := uuid.NewString()
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.failed("transport")
		return nil, fail(0, nil, errors.Wrap(stripURL(err), "request failed"))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.failed("transport")
		return nil, fail(resp.StatusCode, nil, errors.Wrap(err, "failed to read response body"))
	}

	c.metrics.fetched(resp.StatusCode)
	log.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Fetched from API")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.failed("status")
		fe := fail(resp.StatusCode, data, nil)
		var apiErr struct {
			StatusMessage string `json:"status_message"`
		}
		if json.Unmarshal(data, &apiErr) == nil {
			fe.Message = apiErr.StatusMessage
		}
		if fe.Message == "" {
			fe.Message = http.StatusText(resp.StatusCode)
		}
		return nil, fe
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		c.metrics.failed("decode")
		return nil, fail(resp.StatusCode, data, errors.Wrap(err, "malformed JSON response"))
	}

	return value, nil
}

// stripURL removes the request URL (and with it the credential) from transport errors
func stripURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}
