package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/s0up4200/tmdb3/tmdb"
)

var castLimit int

// movieCmd shows a single movie
var movieCmd = &cobra.Command{
	Use:   "movie <id|imdb-id>",
	Short: "Show details for a movie",
	Long:  `Show details for a movie given its TMDB id or IMDb id (tt0076759).`,
	Args:  cobra.ExactArgs(1),
	RunE:  runMovie,
}

func init() {
	movieCmd.Flags().IntVar(&castLimit, "cast", 5, "number of cast members to show")
}

func runMovie(cmd *cobra.Command, args []string) error {
	c, err := catalog()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var m *tmdb.Movie
	if id, err := strconv.Atoi(args[0]); err == nil {
		m = c.Movie(id)
	} else if strings.HasPrefix(strings.ToLower(args[0]), "tt") {
		if m, err = c.MovieFromIMDB(ctx, args[0]); err != nil {
			return err
		}
	} else {
		return errors.Newf("invalid movie id %q", args[0])
	}

	title, err := m.Title(ctx)
	if err != nil {
		return err
	}
	original, _ := m.OriginalTitle(ctx)
	tagline, _ := m.Tagline(ctx)
	overview, _ := m.Overview(ctx)
	released, _ := m.ReleaseDate(ctx)
	runtime, _ := m.Runtime(ctx)
	genres, _ := m.Genres(ctx)
	imdb, _ := m.IMDB(ctx)

	cert, err := m.Certification(ctx, c.Locale().Country)
	if err != nil {
		return err
	}
	cast, err := m.Cast(ctx)
	if err != nil {
		return err
	}

	var posterURL string
	if poster, err := m.Poster(ctx); err == nil && poster != nil {
		if posterURL, err = c.ImageURL(ctx, poster, "original"); err != nil {
			logger.Warn().Err(err).Msg("Failed to build poster URL")
		}
	}

	return render(cmd.OutOrStdout(), m.Snapshot(), func(w io.Writer) error {
		fmt.Fprintln(w, m.Describe())
		if original != title {
			field(w, "Original", original)
		}
		field(w, "Tagline", tagline)
		field(w, "Released", released)
		if runtime > 0 {
			field(w, "Runtime", fmt.Sprintf("%d min", runtime))
		}
		field(w, "Genres", genres)
		field(w, "Certification", cert)
		field(w, "IMDb", imdb)
		field(w, "Poster", posterURL)
		if len(cast) > 0 {
			fmt.Fprintln(w, "Cast:")
			for i, p := range cast {
				if i >= castLimit {
					break
				}
				name, _ := p.Name(ctx)
				character, _ := p.Character(ctx)
				fmt.Fprintf(w, "  • %s as %s\n", name, character)
			}
		}
		if overview != "" {
			fmt.Fprintf(w, "\n%s\n", overview)
		}
		return nil
	})
}
