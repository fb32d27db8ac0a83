package tmdb

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/s0up4200/tmdb3/cache"
	"github.com/s0up4200/tmdb3/element"
	"github.com/s0up4200/tmdb3/locale"
	"github.com/s0up4200/tmdb3/request"
)

// Client is the entry point to the catalog. It carries the request pipeline,
// the locale and the optional user session handed to every element it builds.
type Client struct {
	pipeline *request.Client
	cache    *cache.Cache
	metrics  *request.Metrics
	locale   locale.Locale
	session  string
	logger   zerolog.Logger

	requestOpts []request.Option
	config      *configState
}

type configState struct {
	mu    sync.Mutex
	value *Configuration
}

// Option configures a Client
type Option func(*Client)

// WithLocale sets the locale used for language and country parameters
func WithLocale(l locale.Locale) Option {
	return func(c *Client) {
		c.locale = l
	}
}

// WithSession sets the user session id used by account operations
func WithSession(sessionID string) Option {
	return func(c *Client) {
		c.session = sessionID
	}
}

// WithBaseURL points the client at another API root
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.requestOpts = append(c.requestOpts, request.WithBaseURL(baseURL))
	}
}

// WithHTTPClient replaces the transport
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.requestOpts = append(c.requestOpts, request.WithHTTPClient(hc))
	}
}

// WithTimeout sets the transport timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.requestOpts = append(c.requestOpts, request.WithTimeout(d))
	}
}

// WithDefaultLifetime sets how long responses are cached when a request does not say
func WithDefaultLifetime(d time.Duration) Option {
	return func(c *Client) {
		c.requestOpts = append(c.requestOpts, request.WithDefaultLifetime(d))
	}
}

// WithMetrics attaches pipeline metrics
func WithMetrics(m *request.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
		c.requestOpts = append(c.requestOpts, request.WithMetrics(m))
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.requestOpts = append(c.requestOpts, request.WithUserAgent(ua))
	}
}

// NewClient creates a catalog client. store may be nil to disable caching.
func NewClient(apiKey string, store *cache.Cache, logger zerolog.Logger, opts ...Option) (*Client, error) {
	c := &Client{
		cache:  store,
		locale: locale.Default(),
		logger: logger,
		config: &configState{},
	}
	for _, opt := range opts {
		opt(c)
	}

	// a nil *cache.Cache must not become a non-nil Store
	var s request.Store
	if store != nil {
		s = store
		if c.metrics != nil {
			store.OnEngineChange(c.metrics.Engine)
		}
	}

	pipeline, err := request.NewClient(apiKey, s, logger, c.requestOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request pipeline")
	}
	c.pipeline = pipeline

	logger.Debug().
		Str("locale", c.locale.String()).
		Bool("session", c.session != "").
		Msg("Catalog client initialized")

	return c, nil
}

// In returns a client sharing this one's pipeline but scoped to l
func (c *Client) In(l locale.Locale) *Client {
	clone := *c
	clone.locale = l
	return &clone
}

func (c *Client) Locale() locale.Locale { return c.locale }

func (c *Client) Session() string { return c.session }

// Pipeline exposes the underlying request client
func (c *Client) Pipeline() *request.Client { return c.pipeline }

// Cache returns the cache the client was built with, possibly nil
func (c *Client) Cache() *cache.Cache { return c.cache }

// Env is the element environment for this client
func (c *Client) Env() element.Env {
	return element.Env{
		Fetcher: c.pipeline,
		Locale:  c.locale,
		Session: c.session,
		Logger:  c.logger,
	}
}

// Execute runs a raw request through the pipeline
func (c *Client) Execute(ctx context.Context, r *request.Request) (any, error) {
	return c.pipeline.Execute(ctx, r)
}

// Configuration returns the image configuration, fetched once per client
func (c *Client) Configuration(ctx context.Context) (*Configuration, error) {
	c.config.mu.Lock()
	defer c.config.mu.Unlock()
	if c.config.value != nil {
		return c.config.value, nil
	}

	var cfg Configuration
	if err := c.pipeline.ExecuteInto(ctx, request.New("configuration", nil), &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	c.config.value = &cfg
	return &cfg, nil
}

// ImageURL resolves the address of img at size, validating size against the
// configuration first
func (c *Client) ImageURL(ctx context.Context, img *Image, size string) (string, error) {
	cfg, err := c.Configuration(ctx)
	if err != nil {
		return "", err
	}
	return img.URL(ctx, cfg, size)
}

func (c *Client) element(typ *element.Type, args element.Args) *element.Element {
	return element.New(c.Env(), typ, args)
}

func (c *Client) fromRaw(typ *element.Type, raw map[string]any) *element.Element {
	return element.FromRaw(c.Env(), typ, raw, nil)
}
