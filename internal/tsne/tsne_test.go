package tsne

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/bggflow/internal/dataset"
)

// twoClusters builds well-separated feature rows: points near the origin and
// points near (10,10,...,10).
func twoClusters(perCluster, dims int) [][]float64 {
	rows := make([][]float64, 0, perCluster*2)
	for c := 0; c < 2; c++ {
		base := float64(c) * 10
		for i := 0; i < perCluster; i++ {
			row := make([]float64, dims)
			for d := range row {
				row[d] = base + 0.01*float64(i)
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func TestRun_SeparatesClusters(t *testing.T) {
	t.Parallel()

	rows := twoClusters(10, 4)
	cfg := Config{Perplexity: 5, Iterations: 300, Seed: 42}

	points, extents, err := Run(context.Background(), rows, cfg)
	require.NoError(t, err)
	require.Len(t, points, 20)

	// within-cluster spread must be smaller than the gap between the
	// cluster centroids
	centroid := func(ps []Point) Point {
		var c Point
		for _, p := range ps {
			c.X += p.X
			c.Y += p.Y
			c.Z += p.Z
		}
		n := float64(len(ps))
		return Point{X: c.X / n, Y: c.Y / n, Z: c.Z / n}
	}
	dist := func(a, b Point) float64 {
		return math.Sqrt((a.X-b.X)*(a.X-b.X) + (a.Y-b.Y)*(a.Y-b.Y) + (a.Z-b.Z)*(a.Z-b.Z))
	}

	c0 := centroid(points[:10])
	c1 := centroid(points[10:])
	gap := dist(c0, c1)

	maxSpread := 0.0
	for _, p := range points[:10] {
		if d := dist(p, c0); d > maxSpread {
			maxSpread = d
		}
	}
	for _, p := range points[10:] {
		if d := dist(p, c1); d > maxSpread {
			maxSpread = d
		}
	}
	assert.Greater(t, gap, maxSpread, "clusters should be separated in the embedding")

	assert.LessOrEqual(t, extents.MinX, extents.MaxX)
	assert.LessOrEqual(t, extents.MinY, extents.MaxY)
	assert.LessOrEqual(t, extents.MinZ, extents.MaxZ)
}

func TestRun_DeterministicUnderSeed(t *testing.T) {
	t.Parallel()

	rows := twoClusters(5, 3)
	cfg := Config{Perplexity: 3, Iterations: 50, Seed: 7}

	a, _, err := Run(context.Background(), rows, cfg)
	require.NoError(t, err)
	b, _, err := Run(context.Background(), rows, cfg)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRun_EmptyInput(t *testing.T) {
	t.Parallel()

	points, extents, err := Run(context.Background(), nil, Config{})
	require.NoError(t, err)
	assert.Nil(t, points)
	assert.Equal(t, Extents{}, extents)
}

func TestRun_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Run(ctx, twoClusters(5, 3), Config{Iterations: 100})
	require.ErrorIs(t, err, context.Canceled)
}

func TestFeatures(t *testing.T) {
	t.Parallel()

	table := dataset.Table{
		{
			YearPublished: 2000, PlayingTime: 60, MinPlayers: 2, MaxPlayers: 4, AverageRating: 6,
			Category: []string{"Economic"}, Mechanic: []string{"Trading"}, Publisher: []string{"Kosmos"},
		},
		{
			YearPublished: 2010, PlayingTime: 120, MinPlayers: 1, MaxPlayers: 5, AverageRating: 8,
			Category: []string{"Wargame"}, Mechanic: []string{"Trading"}, Publisher: []string{"GMT"},
		},
	}

	rows := Features(table)
	require.Len(t, rows, 2)
	// 2 categories + 1 mechanic + 2 publishers + 5 numeric columns
	require.Len(t, rows[0], 10)

	// one-hot: first game carries Economic, not Wargame
	assert.Equal(t, 1.0, rows[0][0])
	assert.Equal(t, 0.0, rows[0][1])
	assert.Equal(t, 0.0, rows[1][0])
	assert.Equal(t, 1.0, rows[1][1])
	// shared mechanic is hot for both
	assert.Equal(t, 1.0, rows[0][2])
	assert.Equal(t, 1.0, rows[1][2])

	// numeric tail is min-max scaled to {0,1} with two rows
	for j := 5; j < 10; j++ {
		vals := []float64{rows[0][j], rows[1][j]}
		assert.Contains(t, [][]float64{{0, 1}, {1, 0}}, vals)
	}
}

func TestFeatures_ConstantColumnScalesToZero(t *testing.T) {
	t.Parallel()

	table := dataset.Table{
		{YearPublished: 2000, AverageRating: 7, Category: []string{"A"}, Mechanic: []string{"M"}, Publisher: []string{"P"}},
		{YearPublished: 2000, AverageRating: 7, Category: []string{"A"}, Mechanic: []string{"M"}, Publisher: []string{"P"}},
	}
	rows := Features(table)
	require.Len(t, rows, 2)
	for j := 3; j < len(rows[0]); j++ {
		assert.Equal(t, 0.0, rows[0][j])
		assert.Equal(t, 0.0, rows[1][j])
	}
}
