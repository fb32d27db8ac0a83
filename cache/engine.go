package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Forever stores a record without an expiry
const Forever time.Duration = -1

// Record is a stored value and its expiry. A zero ExpiresAt never expires.
type Record struct {
	Key       string
	Value     []byte
	ExpiresAt time.Time
}

// Expired reports whether the record is past its expiry at now
func (r *Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt)
}

// Engine is a storage backend for cached responses.
//
// Get returns a nil record and a nil error on a miss. Put with a zero
// lifetime writes nothing and returns a nil record.
type Engine interface {
	Name() string
	Get(ctx context.Context, key string) (*Record, error)
	Put(ctx context.Context, key string, value []byte, lifetime time.Duration) (*Record, error)
	Expire(ctx context.Context, key string) error
	IsRemote() bool
	Close() error
}

// Options configures an engine. Fields an engine does not use are ignored.
type Options struct {
	// file engine
	Path string `mapstructure:"path"`

	// remote engine
	URL           string        `mapstructure:"url"`
	Addr          string        `mapstructure:"addr"`
	Username      string        `mapstructure:"username"`
	Password      string        `mapstructure:"password"`
	DB            int           `mapstructure:"db"`
	Prefix        string        `mapstructure:"prefix"`
	HonorLifetime bool          `mapstructure:"honor_lifetime"`
	DialTimeout   time.Duration `mapstructure:"dial_timeout"`

	Clock func() time.Time `mapstructure:"-"`
}

func (o Options) now() time.Time {
	if o.Clock != nil {
		return o.Clock()
	}
	return time.Now()
}

// Factory builds an engine from options
type Factory func(ctx context.Context, opts Options, logger zerolog.Logger) (Engine, error)

// expiry converts a lifetime into an absolute expiry relative to now
func expiry(now time.Time, lifetime time.Duration) time.Time {
	if lifetime < 0 {
		return time.Time{}
	}
	return now.Add(lifetime)
}
