package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/s0up4200/tmdb3/filter"
	"github.com/s0up4200/tmdb3/pager"
	"github.com/s0up4200/tmdb3/tmdb"
)

var (
	// Search flags
	searchYear  int
	searchLimit int
	searchAdult bool
	filterExpr  string
	preset      string

	compiler = filter.NewExprCompiler(filter.WithCache(32))
)

// searchCmd groups the search subcommands
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the catalog",
	Long: `Search movies, series, people, companies or collections by name.

Results can be narrowed with an expression evaluated against each raw
result, for example:

  tmdb3 search movie "star wars" --filter 'vote_average > 7 && yearOf(release_date) < 1990'`,
}

func init() {
	flags := searchCmd.PersistentFlags()
	flags.IntVar(&searchYear, "year", 0, "restrict to a release (or first air) year")
	flags.IntVarP(&searchLimit, "limit", "n", 20, "maximum number of results to examine")
	flags.BoolVar(&searchAdult, "adult", false, "include adult titles")
	flags.StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	flags.StringVarP(&preset, "preset", "p", "", "use a named filter from config")

	searchCmd.AddCommand(
		newSearchCmd("movie", "Search movies by title", func(c *tmdb.Client, q string) func(*cobra.Command) error {
			if searchYear > 0 {
				return searchRunner(c.SearchMovies(q, tmdb.MovieSearch{Adult: searchAdult, Year: searchYear}))
			}
			// "Title (1977)" works too
			return searchRunner(c.SearchMovieWithYear(q, searchAdult))
		}),
		newSearchCmd("tv", "Search series by name", func(c *tmdb.Client, q string) func(*cobra.Command) error {
			return searchRunner(c.SearchSeries(q, tmdb.SeriesSearch{FirstAirDateYear: searchYear}))
		}),
		newSearchCmd("person", "Search people by name", func(c *tmdb.Client, q string) func(*cobra.Command) error {
			return searchRunner(c.SearchPeople(q, searchAdult))
		}),
		newSearchCmd("company", "Search production companies by name", func(c *tmdb.Client, q string) func(*cobra.Command) error {
			return searchRunner(c.SearchStudios(q))
		}),
		newSearchCmd("collection", "Search collections by name", func(c *tmdb.Client, q string) func(*cobra.Command) error {
			return searchRunner(c.SearchCollections(q))
		}),
	)
}

type searchFunc func(c *tmdb.Client, query string) func(*cobra.Command) error

func newSearchCmd(use, short string, search searchFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <query>",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog()
			if err != nil {
				return err
			}
			return search(c, strings.Join(args, " "))(cmd)
		},
	}
}

type snapshotter interface {
	Snapshot() map[string]any
}

func searchRunner[T snapshotter](p *pager.Pager[T]) func(*cobra.Command) error {
	return func(cmd *cobra.Command) error {
		return runSearch(cmd, p)
	}
}

func runSearch[T snapshotter](cmd *cobra.Command, p *pager.Pager[T]) error {
	ctx := cmd.Context()
	logger.Debug().Str("search", p.Name()).Int("limit", searchLimit).Msg("Searching")

	total, err := p.Len(ctx)
	if err != nil {
		return err
	}
	items, err := p.Take(ctx, searchLimit)
	if err != nil {
		return err
	}

	records := make([]filter.Record, 0, len(items))
	for _, item := range items {
		records = append(records, item.Snapshot())
	}
	records, err = applyFilter(ctx, records)
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), records, func(w io.Writer) error {
		if len(records) == 0 {
			fmt.Fprintln(w, "No results found.")
			return nil
		}
		fmt.Fprintf(w, "%s: showing %d of %d\n", p.Name(), len(records), total)
		fmt.Fprintln(w, strings.Repeat("-", 60))
		for _, rec := range records {
			fmt.Fprintf(w, "%9s  %s\n", number(rec["id"]), label(rec))
		}
		return nil
	})
}

func applyFilter(ctx context.Context, records []filter.Record) ([]filter.Record, error) {
	expr, err := getFilterExpression()
	if err != nil || expr == "" {
		return records, err
	}

	f, err := compiler.Compile(expr)
	if err != nil {
		return nil, errors.Wrap(err, "invalid filter expression")
	}
	logger.Debug().Str("filter", f.Expression()).Int("records", len(records)).Msg("Filtering results")

	return filter.NewConcurrentEvaluator().Evaluate(ctx, f, records)
}

// getFilterExpression determines the filter expression to use
func getFilterExpression() (string, error) {
	// Priority: command line filter > preset
	if filterExpr != "" {
		return filterExpr, nil
	}

	if preset != "" {
		if expr, ok := cfg.Filter[strings.ToLower(preset)]; ok {
			return expr, nil
		}
		return "", errors.Newf("preset '%s' not found in config", preset)
	}

	return "", nil
}
