package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/bggflow/internal/dataset"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestUpsertGames(t *testing.T) {
	t.Parallel()

	c := openTestCatalog(t)
	ctx := context.Background()

	table := dataset.Table{
		{ID: 13, Name: "Catan", YearPublished: 1995, UsersRated: 100, AverageRating: 7.1,
			Category: []string{"Economic"}},
		{ID: 42, Name: "Mystery", YearPublished: 2001, UsersRated: 10, AverageRating: 5.5},
	}

	n, err := c.UpsertGames(ctx, table)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, err := c.GameCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// second upsert refreshes instead of duplicating
	table[0].AverageRating = 7.3
	_, err = c.UpsertGames(ctx, table)
	require.NoError(t, err)

	count, err = c.GameCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRecordRunAndLastRun(t *testing.T) {
	t.Parallel()

	c := openTestCatalog(t)
	ctx := context.Background()

	last, err := c.LastRun(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)

	started := time.Date(2026, 8, 24, 4, 0, 0, 0, time.UTC)
	id, err := c.RecordRun(ctx, Run{
		Pipeline:   "bgg_refresh",
		StartedAt:  started,
		FinishedAt: started.Add(10 * time.Minute),
		Games:      1234,
		Committed:  true,
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	last, err = c.LastRun(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "bgg_refresh", last.Pipeline)
	assert.Equal(t, 1234, last.Games)
	assert.True(t, last.Committed)
	assert.Equal(t, started, last.StartedAt)
}
