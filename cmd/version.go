package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/blang/semver"
	"github.com/cockroachdb/errors"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const repository = "s0up4200/tmdb3"

// versionCmd prints build information
var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print version information",
	Args:              cobra.NoArgs,
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "tmdb3 %s (built %s, %s %s/%s)\n",
			version, buildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return nil
	},
}

// updateCmd replaces the running binary with the latest release
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update tmdb3 to the latest release",
	Args:  cobra.NoArgs,
	RunE:  runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	current, err := semver.ParseTolerant(version)
	if err != nil {
		return errors.Newf("cannot update a development build (version %q)", version)
	}

	ctx := cmd.Context()
	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repository))
	if err != nil {
		return errors.Wrap(err, "failed to detect latest release")
	}
	if !found {
		return errors.Newf("no release found for %s/%s", runtime.GOOS, runtime.GOARCH)
	}

	latestVersion, err := semver.ParseTolerant(latest.Version())
	if err != nil {
		return errors.Wrapf(err, "unexpected release version %q", latest.Version())
	}
	if latestVersion.LTE(current) {
		fmt.Fprintf(cmd.OutOrStdout(), "Already up to date (%s).\n", current)
		return nil
	}

	return applyUpdate(ctx, cmd, latest, current)
}

func applyUpdate(ctx context.Context, cmd *cobra.Command, latest *selfupdate.Release, current semver.Version) error {
	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return errors.Wrap(err, "failed to locate executable")
	}

	logger.Info().
		Str("from", current.String()).
		Str("to", latest.Version()).
		Str("asset", latest.AssetName).
		Msg("Updating")

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		if os.IsPermission(errors.UnwrapAll(err)) {
			return errors.Wrapf(err, "no permission to replace %s", exe)
		}
		return errors.Wrap(err, "failed to update binary")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated to %s\n", latest.Version())
	return nil
}
