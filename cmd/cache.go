package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/s0up4200/tmdb3/cache"
	"github.com/s0up4200/tmdb3/request"
)

// cacheCmd groups cache maintenance commands
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the response cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the active cache engine",
	Args:  cobra.NoArgs,
	RunE:  runCacheInfo,
}

var cacheExpireCmd = &cobra.Command{
	Use:   "expire <endpoint> [name=value...]",
	Short: "Drop the cached response for a request",
	Long: `Drop the cached response for a request. The language parameter of the
configured locale is added unless given explicitly, matching how entity
lookups are keyed. An empty value drops a parameter, which is needed for
endpoints fetched without a language such as casts:

  tmdb3 cache expire movie/11
  tmdb3 cache expire movie/11/images language=de
  tmdb3 cache expire movie/11/casts language=`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCacheExpire,
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired rows from the file cache",
	Args:  cobra.NoArgs,
	RunE:  runCachePurge,
}

func init() {
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheExpireCmd)
	cacheCmd.AddCommand(cachePurgeCmd)
}

type cacheInfo struct {
	Engine   string `json:"engine" yaml:"engine"`
	Remote   bool   `json:"remote" yaml:"remote"`
	Path     string `json:"path,omitempty" yaml:"path,omitempty"`
	Entries  int64  `json:"entries,omitempty" yaml:"entries,omitempty"`
	Lifetime string `json:"default_lifetime" yaml:"default_lifetime"`
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	info := cacheInfo{
		Engine:   store.EngineName(),
		Remote:   store.IsRemote(),
		Lifetime: cfg.Cache.DefaultLifetime,
	}
	if fe, ok := store.Engine().(*cache.FileEngine); ok {
		n, err := fe.Count(cmd.Context())
		if err != nil {
			return err
		}
		info.Path = fe.Path()
		info.Entries = n
	}

	return render(cmd.OutOrStdout(), info, func(w io.Writer) error {
		field(w, "Engine", info.Engine)
		field(w, "Shared", boolToStatus(info.Remote))
		field(w, "Path", info.Path)
		if info.Path != "" {
			field(w, "Entries", fmt.Sprint(info.Entries))
		}
		field(w, "Lifetime", info.Lifetime)
		return nil
	})
}

func runCacheExpire(cmd *cobra.Command, args []string) error {
	c, err := catalog()
	if err != nil {
		return err
	}

	params := request.Params{"language": c.Locale().Language}
	for _, arg := range args[1:] {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return errors.Newf("invalid parameter %q: expected name=value", arg)
		}
		if value == "" {
			// "language=" addresses endpoints fetched without a language
			params[name] = nil
			continue
		}
		params[name] = value
	}

	req := request.New(strings.Trim(args[0], "/"), params)
	key := c.Pipeline().Key(req)
	if err := store.Expire(cmd.Context(), key); err != nil {
		return err
	}

	logger.Info().Str("request", req.String()).Str("key", key).Msg("Cache entry expired")
	return nil
}

func runCachePurge(cmd *cobra.Command, args []string) error {
	fe, ok := store.Engine().(*cache.FileEngine)
	if !ok {
		return errors.Newf("purge is only supported by the file engine, active engine is %s", store.EngineName())
	}
	n, err := fe.Purge(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Purged %d expired entries.\n", n)
	return nil
}

func boolToStatus(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
