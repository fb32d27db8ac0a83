package config

import (
	"time"

	"github.com/s0up4200/tmdb3/cache"
	"github.com/s0up4200/tmdb3/locale"
)

// Config represents the complete configuration structure
type Config struct {
	TMDB    TMDBConfig    `mapstructure:"tmdb"`
	Locale  LocaleConfig  `mapstructure:"locale"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TMDBConfig holds API connection details
type TMDBConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	SessionID string        `mapstructure:"session_id"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// LocaleConfig selects the language and country sent with requests
type LocaleConfig struct {
	Language    string `mapstructure:"language"`
	Country     string `mapstructure:"country"`
	Fallthrough bool   `mapstructure:"fallthrough"`
}

// Locale converts the section into a locale value.
func (l LocaleConfig) Locale() locale.Locale {
	return locale.New(l.Language, l.Country, l.Fallthrough)
}

// CacheConfig selects and configures the cache engine
type CacheConfig struct {
	Engine string `mapstructure:"engine"`

	// DefaultLifetime accepts str2duration syntax, e.g. "1h" or "2d".
	DefaultLifetime string            `mapstructure:"default_lifetime"`
	File            FileCacheConfig   `mapstructure:"file"`
	Remote          RemoteCacheConfig `mapstructure:"remote"`
}

// FileCacheConfig holds settings for the SQLite engine
type FileCacheConfig struct {
	Path string `mapstructure:"path"`
}

// RemoteCacheConfig holds settings for the Redis engine
type RemoteCacheConfig struct {
	URL           string        `mapstructure:"url"`
	Addr          string        `mapstructure:"addr"`
	Username      string        `mapstructure:"username"`
	Password      string        `mapstructure:"password"`
	DB            int           `mapstructure:"db"`
	Prefix        string        `mapstructure:"prefix"`
	HonorLifetime bool          `mapstructure:"honor_lifetime"`
	DialTimeout   time.Duration `mapstructure:"dial_timeout"`
}

// Options merges the engine sections into cache options.
func (c CacheConfig) Options() cache.Options {
	return cache.Options{
		Path:          c.File.Path,
		URL:           c.Remote.URL,
		Addr:          c.Remote.Addr,
		Username:      c.Remote.Username,
		Password:      c.Remote.Password,
		DB:            c.Remote.DB,
		Prefix:        c.Remote.Prefix,
		HonorLifetime: c.Remote.HonorLifetime,
		DialTimeout:   c.Remote.DialTimeout,
	}
}

// FilterConfig contains named filter expressions
type FilterConfig map[string]string

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
