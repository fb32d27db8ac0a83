package request

import (
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public v3 API root
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// DefaultTimeout applies when no http.Client is supplied
	DefaultTimeout = 30 * time.Second
	// DefaultLifetime applies to requests built with LifetimeDefault
	DefaultLifetime = time.Hour
)

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another API root
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the transport
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the transport timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithDefaultLifetime sets the lifetime used for LifetimeDefault requests
func WithDefaultLifetime(d time.Duration) Option {
	return func(c *Client) {
		c.defaultLifetime = d
	}
}

// WithMetrics attaches prometheus counters
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}
