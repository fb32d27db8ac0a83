package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	defaultRemoteAddr  = "localhost:6379"
	defaultDialTimeout = 5 * time.Second
	queryTimeout       = 5 * time.Second
)

// RemoteEngine stores records in Redis.
//
// Lifetimes are not applied as key expiry unless HonorLifetime is set, so
// entries written without it remain until Expire or an external eviction.
type RemoteEngine struct {
	client        *redis.Client
	prefix        string
	honorLifetime bool
	now           func() time.Time
	logger        zerolog.Logger
	once          sync.Once
	closed        atomic.Bool
}

var _ Engine = (*RemoteEngine)(nil)

// NewRemote connects to Redis and verifies the connection with PING
func NewRemote(ctx context.Context, opts Options, logger zerolog.Logger) (Engine, error) {
	ropts, err := redisOptions(opts)
	if err != nil {
		return nil, err
	}
	return newRemote(ctx, redis.NewClient(ropts), opts, logger)
}

func redisOptions(opts Options) (*redis.Options, error) {
	var ropts *redis.Options
	if opts.URL != "" {
		parsed, err := redis.ParseURL(opts.URL)
		if err != nil {
			return nil, errors.Wrap(err, "invalid redis url")
		}
		ropts = parsed
	} else {
		addr := opts.Addr
		if addr == "" {
			addr = defaultRemoteAddr
		}
		ropts = &redis.Options{
			Addr:     addr,
			Username: opts.Username,
			Password: opts.Password,
			DB:       opts.DB,
		}
	}

	ropts.DialTimeout = opts.DialTimeout
	if ropts.DialTimeout <= 0 {
		ropts.DialTimeout = defaultDialTimeout
	}
	return ropts, nil
}

func newRemote(ctx context.Context, client *redis.Client, opts Options, logger zerolog.Logger) (*RemoteEngine, error) {
	pctx, cancel := context.WithTimeout(ctx, client.Options().DialTimeout)
	defer cancel()

	if err := client.Ping(pctx).Err(); err != nil {
		client.Close()
		return nil, errors.Mark(errors.Wrapf(err, "ping %s", client.Options().Addr), ErrConnection)
	}

	e := &RemoteEngine{
		client:        client,
		prefix:        strings.TrimRight(opts.Prefix, ":"),
		honorLifetime: opts.HonorLifetime,
		now:           opts.now,
		logger:        logger.With().Str("engine", "remote").Logger(),
	}
	e.logger.Debug().Str("addr", client.Options().Addr).Int("db", client.Options().DB).Msg("Connected to cache server")
	return e, nil
}

func (e *RemoteEngine) Name() string { return "remote" }

func (e *RemoteEngine) IsRemote() bool { return true }

func (e *RemoteEngine) queryCtx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, queryTimeout)
}

// prefixKey joins the prefix and key with a single ":"
func (e *RemoteEngine) prefixKey(key string) string {
	if e.prefix == "" {
		return key
	}
	return e.prefix + ":" + key
}

func (e *RemoteEngine) Get(ctx context.Context, key string) (*Record, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	qctx, cancel := e.queryCtx(ctx)
	defer cancel()

	data, err := e.client.Get(qctx, e.prefixKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", key)
	}
	return &Record{Key: key, Value: data}, nil
}

func (e *RemoteEngine) Put(ctx context.Context, key string, value []byte, lifetime time.Duration) (*Record, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	if lifetime == 0 {
		return nil, nil
	}

	var ttl time.Duration
	rec := &Record{Key: key, Value: value}
	if e.honorLifetime && lifetime > 0 {
		ttl = lifetime
		rec.ExpiresAt = expiry(e.now(), lifetime)
	}

	qctx, cancel := e.queryCtx(ctx)
	defer cancel()

	if err := e.client.Set(qctx, e.prefixKey(key), value, ttl).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to write %s", key)
	}
	return rec, nil
}

func (e *RemoteEngine) Expire(ctx context.Context, key string) error {
	if e.closed.Load() {
		return ErrClosed
	}
	qctx, cancel := e.queryCtx(ctx)
	defer cancel()

	if err := e.client.Del(qctx, e.prefixKey(key)).Err(); err != nil {
		return errors.Wrapf(err, "failed to expire %s", key)
	}
	return nil
}

func (e *RemoteEngine) Close() error {
	var err error
	e.once.Do(func() {
		e.closed.Store(true)
		err = e.client.Close()
	})
	return err
}
