package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/tmdb3/cache"
	"github.com/s0up4200/tmdb3/config"
	"github.com/s0up4200/tmdb3/locale"
	"github.com/s0up4200/tmdb3/tmdb"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	store   *cache.Cache
	client  *tmdb.Client

	version   = "dev"
	buildTime = "unknown"

	// Global flags
	cacheEngine string
	language    string
	country     string
	output      string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tmdb3",
	Short: "Query The Movie Database from the command line",
	Long: `tmdb3 looks up movies, series, people and collections on The Movie Database.
Responses are cached locally (SQLite) or in Redis so repeated lookups
do not hit the API again.`,
	SilenceUsage:       true,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: closeApp,
}

// SetVersion records build information for the version and update commands
func SetVersion(v, built string) {
	version = v
	buildTime = built
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&cacheEngine, "cache", "", "cache engine: none, file or remote")
	rootCmd.PersistentFlags().StringVar(&language, "language", "", "ISO 639-1 language for localized results")
	rootCmd.PersistentFlags().StringVar(&country, "country", "", "ISO 3166-1 country for releases and certifications")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(movieCmd)
	rootCmd.AddCommand(tvCmd)
	rootCmd.AddCommand(personCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(rateCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// initializeApp loads the configuration, the logger and the cache store.
// The API client is built on first use so commands that never touch the
// API work without a key.
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}

	logger = setupLogger(cfg.Logging)

	store = cache.New(logger)
	if err := store.Configure(cmd.Context(), cfg.Cache.Engine, cfg.Cache.Options()); err != nil {
		return errors.Wrap(err, "failed to configure cache")
	}

	return nil
}

func closeApp(cmd *cobra.Command, args []string) error {
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	return err
}

// applyFlags lets command line flags override the loaded configuration
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("cache") {
		cfg.Cache.Engine = cacheEngine
	}
	if flags.Changed("language") {
		l, err := locale.Parse(language, cfg.Locale.Fallthrough)
		if err != nil {
			return errors.Wrap(err, "invalid --language")
		}
		cfg.Locale.Language = l.Language
		if l.Country != "" {
			cfg.Locale.Country = l.Country
		}
	}
	if flags.Changed("country") {
		if len(country) != 2 {
			return errors.Newf("invalid --country %q: expected a two letter code", country)
		}
		cfg.Locale.Country = country
	}

	switch output {
	case "text", "json", "yaml":
	default:
		return errors.Newf("invalid output format %q", output)
	}
	return nil
}

// catalog returns the API client, creating it on first use
func catalog() (*tmdb.Client, error) {
	if client != nil {
		return client, nil
	}

	lifetime, err := cfg.Cache.Lifetime()
	if err != nil {
		return nil, err
	}

	opts := []tmdb.Option{
		tmdb.WithLocale(cfg.Locale.Locale()),
		tmdb.WithBaseURL(cfg.TMDB.BaseURL),
		tmdb.WithDefaultLifetime(lifetime),
		tmdb.WithUserAgent("tmdb3/" + version),
	}
	if cfg.TMDB.Timeout > 0 {
		opts = append(opts, tmdb.WithTimeout(cfg.TMDB.Timeout))
	}
	if cfg.TMDB.SessionID != "" {
		opts = append(opts, tmdb.WithSession(cfg.TMDB.SessionID))
	}

	c, err := tmdb.NewClient(cfg.TMDB.APIKey, store, logger, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create TMDB client")
	}
	client = c
	return client, nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	fd := os.Stderr.Fd()
	terminal := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !terminal,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
