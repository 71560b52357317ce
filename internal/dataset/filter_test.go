package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() Table {
	return Table{
		{
			ID: 1, Name: "Alpha", YearPublished: 1995, UsersRated: 5000, AverageRating: 7.2,
			Category: []string{"Economic", "Negotiation"}, Mechanic: []string{"Trading"}, Publisher: []string{"Kosmos"},
		},
		{
			ID: 2, Name: "Beta", YearPublished: 2005, UsersRated: 120, AverageRating: 8.1,
			Category: []string{"Economic"}, Mechanic: []string{"Auction"}, Publisher: []string{"Unknown"},
		},
		{
			ID: 3, Name: "Gamma", YearPublished: 2005, UsersRated: 900, AverageRating: 6.4,
			Category: []string{"Wargame"}, Mechanic: []string{"Dice Rolling"}, Publisher: []string{"GMT Games"},
		},
		{
			ID: 4, Name: "Delta", YearPublished: 2015, UsersRated: 40, AverageRating: 9.0,
			Category: []string{"Economic", "Wargame"}, Mechanic: []string{"Trading", "Auction"}, Publisher: []string{"Kosmos"},
		},
	}
}

func TestFilterAll(t *testing.T) {
	t.Parallel()

	t.Run("matches every value in each column", func(t *testing.T) {
		t.Parallel()
		got := FilterAll(sampleTable(), []string{"Economic"}, nil, nil, 0)
		require.Len(t, got, 3)
		// sorted by average rating descending
		assert.Equal(t, "Delta", got[0].Name)
		assert.Equal(t, "Beta", got[1].Name)
		assert.Equal(t, "Alpha", got[2].Name)
	})

	t.Run("multi-value selection requires all values", func(t *testing.T) {
		t.Parallel()
		got := FilterAll(sampleTable(), []string{"Economic", "Wargame"}, nil, nil, 0)
		require.Len(t, got, 1)
		assert.Equal(t, "Delta", got[0].Name)
	})

	t.Run("unmatched column falls back to match-all", func(t *testing.T) {
		t.Parallel()
		got := FilterAll(sampleTable(), []string{"No Such Category"}, nil, nil, 0)
		assert.Len(t, got, 4)
	})

	t.Run("n limits the result", func(t *testing.T) {
		t.Parallel()
		got := FilterAll(sampleTable(), nil, nil, nil, 2)
		require.Len(t, got, 2)
		assert.Equal(t, "Delta", got[0].Name)
		assert.Equal(t, "Beta", got[1].Name)
	})
}

func TestFilterAny(t *testing.T) {
	t.Parallel()

	got := FilterAny(sampleTable(), ColMechanic, []string{"Trading", "Dice Rolling"})
	require.Len(t, got, 3)
	assert.Equal(t, "Alpha", got[0].Name)
	assert.Equal(t, "Gamma", got[1].Name)
	assert.Equal(t, "Delta", got[2].Name)
}

func TestRatingFilter(t *testing.T) {
	t.Parallel()

	got := RatingFilter(sampleTable(), 500)
	require.Len(t, got, 2)
	assert.Equal(t, "Alpha", got[0].Name)
	assert.Equal(t, "Gamma", got[1].Name)

	// zero threshold keeps everything
	assert.Len(t, RatingFilter(sampleTable(), 0), 4)
}
