package cache

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// Cache is the process-wide front for the active engine
type Cache struct {
	mu        sync.RWMutex
	configure sync.Mutex
	engine    Engine
	factories map[string]Factory
	observers []func(engine string)
	logger    zerolog.Logger
}

// New returns a Cache backed by the none engine with the built-in engines registered
func New(logger zerolog.Logger) *Cache {
	c := &Cache{
		engine:    NullEngine{},
		factories: make(map[string]Factory),
		logger:    logger.With().Str("component", "cache").Logger(),
	}
	c.Register(NewNull, "none", "null")
	c.Register(NewFile, "file")
	c.Register(NewRemote, "remote", "redis")
	return c
}

// Register adds a factory under one or more names, replacing any existing entry
func (c *Cache) Register(f Factory, names ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, name := range names {
		c.factories[strings.ToLower(name)] = f
	}
}

// Engines lists the registered engine names
func (c *Cache) Engines() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.factories))
	for name := range c.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Configure builds the named engine and makes it active. On failure the
// current engine is left in place.
func (c *Cache) Configure(ctx context.Context, name string, opts Options) error {
	c.configure.Lock()
	defer c.configure.Unlock()

	key := strings.ToLower(strings.TrimSpace(name))
	c.mu.RLock()
	factory, ok := c.factories[key]
	c.mu.RUnlock()
	if !ok {
		return &ConfigurationError{Engine: name, Reason: "not registered", Err: ErrUnknownEngine}
	}

	engine, err := factory(ctx, opts, c.logger)
	if err != nil {
		return &ConfigurationError{Engine: name, Reason: "failed to initialize", Err: err}
	}

	c.Use(engine)
	c.logger.Debug().Str("engine", engine.Name()).Msg("Cache engine configured")
	return nil
}

// Use installs a prebuilt engine and closes the previous one
func (c *Cache) Use(engine Engine) {
	c.mu.Lock()
	prev := c.engine
	c.engine = engine
	c.mu.Unlock()

	if prev != nil && prev != engine {
		if err := prev.Close(); err != nil {
			c.logger.Warn().Err(err).Str("engine", prev.Name()).Msg("Failed to close previous cache engine")
		}
	}
	c.notify(engine.Name())
}

// OnEngineChange calls fn with the active engine name now and after every
// engine swap, including the revert to none on Close
func (c *Cache) OnEngineChange(fn func(engine string)) {
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	name := c.engine.Name()
	c.mu.Unlock()
	fn(name)
}

func (c *Cache) notify(name string) {
	c.mu.RLock()
	observers := append([]func(string){}, c.observers...)
	c.mu.RUnlock()
	for _, fn := range observers {
		fn(name)
	}
}

// Engine returns the active engine
func (c *Cache) Engine() Engine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.engine
}

// EngineName returns the name of the active engine
func (c *Cache) EngineName() string {
	return c.Engine().Name()
}

// IsRemote reports whether the active engine is shared between processes
func (c *Cache) IsRemote() bool {
	return c.Engine().IsRemote()
}

// Get reads and decodes the value stored under key
func (c *Cache) Get(ctx context.Context, key string) (any, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rec, err := c.engine.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if rec == nil {
		return nil, false, nil
	}

	var value any
	if err := json.Unmarshal(rec.Value, &value); err != nil {
		return nil, false, errors.Wrapf(err, "corrupt cache record %s", key)
	}
	return value, true, nil
}

// Put encodes value and stores it for lifetime. A zero lifetime stores nothing.
func (c *Cache) Put(ctx context.Context, key string, value any, lifetime time.Duration) error {
	if lifetime == 0 {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", key)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	_, err = c.engine.Put(ctx, key, data, lifetime)
	return err
}

// Expire removes key from the active engine
func (c *Cache) Expire(ctx context.Context, key string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.engine.Expire(ctx, key)
}

// Close closes the active engine and reverts to the none engine
func (c *Cache) Close() error {
	c.mu.Lock()
	prev := c.engine
	c.engine = NullEngine{}
	c.mu.Unlock()
	err := prev.Close()
	c.notify(NullEngine{}.Name())
	return err
}
