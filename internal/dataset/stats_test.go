package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopGroups(t *testing.T) {
	t.Parallel()

	t.Run("mean rating per exploded value", func(t *testing.T) {
		t.Parallel()
		got := TopGroups(sampleTable(), ColCategory, 1990, 2020)
		require.Len(t, got, 3)
		assert.Equal(t, "Economic", got[0].Value)
		assert.InDelta(t, (7.2+8.1+9.0)/3, got[0].AverageRating, 1e-9)
		assert.Equal(t, "Wargame", got[1].Value)
		assert.InDelta(t, 7.7, got[1].AverageRating, 1e-9)
		assert.Equal(t, "Negotiation", got[2].Value)
	})

	t.Run("year range is inclusive", func(t *testing.T) {
		t.Parallel()
		got := TopGroups(sampleTable(), ColCategory, 2005, 2005)
		require.Len(t, got, 2)
		assert.Equal(t, "Economic", got[0].Value)
		assert.InDelta(t, 8.1, got[0].AverageRating, 1e-9)
	})

	t.Run("caps at five values", func(t *testing.T) {
		t.Parallel()
		table := Table{{
			YearPublished: 2000, AverageRating: 7,
			Category: []string{"A", "B", "C", "D", "E", "F", "G"},
		}}
		assert.Len(t, TopGroups(table, ColCategory, 1990, 2020), 5)
	})
}

func TestCountByYear(t *testing.T) {
	t.Parallel()

	got := CountByYear(sampleTable())
	assert.Equal(t, []YearCount{
		{Year: 1995, Count: 1},
		{Year: 2005, Count: 2},
		{Year: 2015, Count: 1},
	}, got)
}

func TestBinRating(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 7.0, BinRating(7.2), 1e-9)
	assert.InDelta(t, 7.5, BinRating(7.3), 1e-9)
	assert.InDelta(t, 8.0, BinRating(7.9), 1e-9)
}

func TestDensityTransform(t *testing.T) {
	t.Parallel()

	grouped := []Grouped{
		{Game: Game{AverageRating: 7.1}, Group: []string{"Economic"}},
		{Game: Game{AverageRating: 7.2}, Group: []string{"Economic"}},
		{Game: Game{AverageRating: 8.0}, Group: []string{"Economic"}},
		{Game: Game{AverageRating: 6.0}, Group: []string{"Wargame"}},
	}

	got := DensityTransform(grouped)
	require.Len(t, got, 2)

	eco := got[0]
	assert.Equal(t, "Economic", eco.Group)
	assert.InDelta(t, (7.1+7.2+8.0)/3, eco.Mean, 1e-9)
	require.Len(t, eco.Points, 2)
	// two games land in the 7.0 bin, so it is the peak
	assert.InDelta(t, 7.0, eco.Points[0].Bin, 1e-9)
	assert.InDelta(t, 1.0, eco.Points[0].Density, 1e-9)
	assert.InDelta(t, 8.0, eco.Points[1].Bin, 1e-9)
	assert.InDelta(t, 0.5, eco.Points[1].Density, 1e-9)

	war := got[1]
	assert.Equal(t, "Wargame", war.Group)
	require.Len(t, war.Points, 1)
	assert.InDelta(t, 1.0, war.Points[0].Density, 1e-9)
}

func TestSubsetValues(t *testing.T) {
	t.Parallel()

	got := SubsetValues(sampleTable(), ColCategory)
	assert.Equal(t, []string{"Economic", "Negotiation", "Wargame"}, got)
}

func TestToPlotRecords(t *testing.T) {
	t.Parallel()

	grouped := []Grouped{
		{Game: Game{Name: "Alpha", YearPublished: 1995, AverageRating: 7.2}, Group: []string{"A", "B"}},
	}
	got := ToPlotRecords(grouped)
	require.Len(t, got, 2)
	assert.Equal(t, PlotRecord{Name: "Alpha", YearPublished: 1995, AverageRating: 7.2, Group: "A"}, got[0])
	assert.Equal(t, "B", got[1].Group)
}
