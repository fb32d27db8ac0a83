package cmd

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

// rateCmd rates a movie on the configured account
var rateCmd = &cobra.Command{
	Use:   "rate <movie-id> <value>",
	Short: "Rate a movie from 0 to 10",
	Long: `Rate a movie on behalf of the account behind tmdb.session_id.
Values range from 0 to 10 in steps of 0.5.`,
	Args: cobra.ExactArgs(2),
	RunE: runRate,
}

func runRate(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.Newf("invalid movie id %q", args[0])
	}
	value, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return errors.Newf("invalid rating %q", args[1])
	}

	c, err := catalog()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if err := c.SetRating(ctx, id, value); err != nil {
		return err
	}

	m := c.Movie(id)
	if _, err := m.Title(ctx); err != nil {
		logger.Debug().Err(err).Int("movie", id).Msg("Failed to look up rated movie")
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Rated movie %d: %.1f\n", id, value)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Rated %s: %.1f\n", m.Describe(), value)
	return nil
}
