package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/s0up4200/tmdb3/request"
)

var (
	seasonNumber  int
	episodeNumber int
)

// tvCmd shows a series, one of its seasons or a single episode
var tvCmd = &cobra.Command{
	Use:   "tv <id>",
	Short: "Show details for a series, season or episode",
	Args:  cobra.ExactArgs(1),
	RunE:  runTV,
}

func init() {
	tvCmd.Flags().IntVar(&seasonNumber, "season", -1, "season number")
	tvCmd.Flags().IntVar(&episodeNumber, "episode", -1, "episode number (requires --season)")
}

func runTV(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.Newf("invalid series id %q", args[0])
	}
	if episodeNumber >= 0 && seasonNumber < 0 {
		return errors.New("--episode requires --season")
	}

	c, err := catalog()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	switch {
	case episodeNumber >= 0:
		ep := c.Episode(id, seasonNumber, episodeNumber)
		name, err := ep.Name(ctx)
		if err != nil {
			return err
		}
		aired, _ := ep.AirDate(ctx)
		overview, _ := ep.Overview(ctx)
		imdb, err := ep.IMDB(ctx)
		if err != nil {
			if !request.IsNotFound(err) {
				return err
			}
			logger.Debug().Err(err).Msg("No external ids for episode")
		}
		return render(w, ep.Snapshot(), func(w io.Writer) error {
			fmt.Fprintln(w, ep.Describe())
			field(w, "Name", name)
			field(w, "Aired", aired)
			field(w, "IMDb", imdb)
			if overview != "" {
				fmt.Fprintf(w, "\n%s\n", overview)
			}
			return nil
		})

	case seasonNumber >= 0:
		season := c.Season(id, seasonNumber)
		name, err := season.Name(ctx)
		if err != nil {
			return err
		}
		aired, _ := season.AirDate(ctx)
		episodes, err := season.Episodes(ctx)
		if err != nil {
			return err
		}
		return render(w, season.Snapshot(), func(w io.Writer) error {
			fmt.Fprintln(w, season.Describe())
			field(w, "Name", name)
			field(w, "Aired", aired)
			for _, ep := range episodes {
				title, _ := ep.Name(ctx)
				fmt.Fprintf(w, "  %3d  %s\n", ep.Number(), title)
			}
			return nil
		})

	default:
		series := c.Series(id)
		name, err := series.Name(ctx)
		if err != nil {
			return err
		}
		status, _ := series.Status(ctx)
		aired, _ := series.FirstAirDate(ctx)
		genres, _ := series.Genres(ctx)
		networks, _ := series.Networks(ctx)
		overview, _ := series.Overview(ctx)
		seasons, err := series.Seasons(ctx)
		if err != nil {
			return err
		}
		return render(w, series.Snapshot(), func(w io.Writer) error {
			fmt.Fprintln(w, series.Describe())
			field(w, "Name", name)
			field(w, "Status", status)
			field(w, "First aired", aired)
			field(w, "Genres", genres)
			field(w, "Networks", networks)
			field(w, "Seasons", len(seasons))
			if overview != "" {
				fmt.Fprintf(w, "\n%s\n", overview)
			}
			return nil
		})
	}
}
