package tmdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesSeasonsAndEpisodes(t *testing.T) {
	f := newFakeTMDB(t, starWarsRoutes)
	c := f.client(t, nil)
	ctx := context.Background()
	series := c.Series(1399)

	seasons, err := series.Seasons(ctx)
	require.NoError(t, err)
	require.Len(t, seasons, 2)
	assert.Equal(t, 0, seasons[0].Number())
	assert.Equal(t, 1, seasons[1].Number())

	season, err := series.Season(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, season)
	name, err := season.Name(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Season 1", name)
	assert.Zero(t, f.hits("tv/1399/season/1"), "season summary comes with the series")

	missing, err := series.Season(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, missing)

	episodes, err := season.Episodes(ctx)
	require.NoError(t, err)
	require.Len(t, episodes, 2)
	assert.Equal(t, 1, episodes[0].Number())
	assert.Equal(t, 2, episodes[1].Number())
	assert.Equal(t, 1, f.hits("tv/1399/season/1"))
	assert.Equal(t, "en", f.last("tv/1399/season/1").Query.Get("language"))

	pilot := episodes[0]
	title, err := pilot.Name(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Winter Is Coming", title)
	assert.Equal(t, "<Episode S01E01 'Winter Is Coming'>", pilot.Describe())
	assert.Zero(t, f.hits("tv/1399/season/1/episode/1"))

	// identity is passed down from series to season to episode
	imdb, err := pilot.IMDB(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tt1480055", imdb)
	assert.Equal(t, 1, f.hits("tv/1399/season/1/episode/1/external_ids"))

	networks, err := series.Networks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"HBO"}, networks)
	assert.Equal(t, 1, f.hits("tv/1399"))
}

func TestEpisodeHandle(t *testing.T) {
	f := newFakeTMDB(t, starWarsRoutes)
	c := f.client(t, nil)

	ep := c.Episode(1399, 1, 1)
	assert.Equal(t, 1, ep.Number())
	assert.Equal(t, 1, ep.SeasonNumber())

	imdb, err := ep.IMDB(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tt1480055", imdb)
	assert.Equal(t, 1, f.total())
}
