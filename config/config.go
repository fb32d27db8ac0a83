package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"github.com/xhit/go-str2duration/v2"

	"github.com/s0up4200/tmdb3/locale"
)

// EnvPrefix namespaces environment overrides, e.g. TMDB3_TMDB_API_KEY
const EnvPrefix = "TMDB3"

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Load loads the configuration from file and environment. An explicit path
// must exist; when searching the standard locations a missing file is fine.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".tmdb3"))
		}

		v.AddConfigPath("/etc/tmdb3/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "error reading config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "error unmarshaling config")
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// TMDB defaults
	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("tmdb.base_url", "https://api.themoviedb.org/3")
	v.SetDefault("tmdb.session_id", "")
	v.SetDefault("tmdb.timeout", 30*time.Second)

	// Locale defaults
	v.SetDefault("locale.language", "en")
	v.SetDefault("locale.country", "US")
	v.SetDefault("locale.fallthrough", false)

	// Cache defaults
	v.SetDefault("cache.engine", "none")
	v.SetDefault("cache.default_lifetime", "1h")
	v.SetDefault("cache.file.path", "")
	v.SetDefault("cache.remote.url", "")
	v.SetDefault("cache.remote.addr", "localhost:6379")
	v.SetDefault("cache.remote.username", "")
	v.SetDefault("cache.remote.password", "")
	v.SetDefault("cache.remote.db", 0)
	v.SetDefault("cache.remote.prefix", "")
	v.SetDefault("cache.remote.honor_lifetime", false)
	v.SetDefault("cache.remote.dial_timeout", 5*time.Second)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// Lifetime parses DefaultLifetime
func (c CacheConfig) Lifetime() (time.Duration, error) {
	d, err := str2duration.ParseDuration(c.DefaultLifetime)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidConfig, "cache.default_lifetime %q: %v", c.DefaultLifetime, err)
	}
	if d <= 0 {
		return 0, errors.Wrapf(ErrInvalidConfig, "cache.default_lifetime must be positive, got %s", c.DefaultLifetime)
	}
	return d, nil
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.TMDB.BaseURL == "" {
		return errors.Wrap(ErrInvalidConfig, "tmdb.base_url is required")
	}
	if cfg.TMDB.Timeout < 0 {
		return errors.Wrapf(ErrInvalidConfig, "tmdb.timeout must not be negative, got %s", cfg.TMDB.Timeout)
	}

	if _, err := locale.Parse(cfg.Locale.Language, cfg.Locale.Fallthrough); err != nil {
		return errors.Wrap(ErrInvalidConfig, "locale.language must be a two letter code")
	}
	if c := cfg.Locale.Country; c != "" && len(c) != 2 {
		return errors.Wrapf(ErrInvalidConfig, "locale.country must be a two letter code, got %q", c)
	}

	validEngines := map[string]bool{
		"none":   true,
		"null":   true,
		"file":   true,
		"remote": true,
		"redis":  true,
	}
	if !validEngines[strings.ToLower(cfg.Cache.Engine)] {
		return errors.Wrapf(ErrInvalidConfig, "invalid cache engine: %s", cfg.Cache.Engine)
	}
	if _, err := cfg.Cache.Lifetime(); err != nil {
		return err
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return errors.Wrapf(ErrInvalidConfig, "invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return errors.Wrapf(ErrInvalidConfig, "invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
