package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// NullEngine accepts every write and never returns a record
type NullEngine struct{}

var _ Engine = NullEngine{}

// NewNull satisfies Factory
func NewNull(_ context.Context, _ Options, _ zerolog.Logger) (Engine, error) {
	return NullEngine{}, nil
}

func (NullEngine) Name() string { return "none" }

func (NullEngine) Get(context.Context, string) (*Record, error) { return nil, nil }

func (NullEngine) Put(_ context.Context, key string, value []byte, lifetime time.Duration) (*Record, error) {
	if lifetime == 0 {
		return nil, nil
	}
	return &Record{Key: key, Value: value, ExpiresAt: expiry(time.Now(), lifetime)}, nil
}

func (NullEngine) Expire(context.Context, string) error { return nil }

func (NullEngine) IsRemote() bool { return false }

func (NullEngine) Close() error { return nil }
