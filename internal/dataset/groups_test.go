package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRadio(t *testing.T) {
	t.Parallel()

	t.Run("groups are the intersection with the selection", func(t *testing.T) {
		t.Parallel()
		got := Radio(sampleTable(), ColCategory, []string{"Wargame"})
		require.Len(t, got, 2)
		assert.Equal(t, "Gamma", got[0].Name)
		assert.Equal(t, []string{"Wargame"}, got[0].Group)
		assert.Equal(t, "Delta", got[1].Name)
		assert.Equal(t, []string{"Wargame"}, got[1].Group)
	})

	t.Run("full match collapses to All Selected", func(t *testing.T) {
		t.Parallel()
		got := Radio(sampleTable(), ColCategory, []string{"Economic", "Wargame"})
		require.Len(t, got, 4)

		byName := make(map[string][]string)
		for _, g := range got {
			byName[g.Name] = g.Group
		}
		assert.Equal(t, []string{"Economic"}, byName["Alpha"])
		assert.Equal(t, []string{"Economic"}, byName["Beta"])
		assert.Equal(t, []string{"Wargame"}, byName["Gamma"])
		assert.Equal(t, []string{"All Selected"}, byName["Delta"])
	})

	t.Run("no collapse for single selection", func(t *testing.T) {
		t.Parallel()
		got := Radio(sampleTable(), ColCategory, []string{"Economic"})
		for _, g := range got {
			assert.Equal(t, []string{"Economic"}, g.Group)
		}
	})

	t.Run("unmatched selection yields no rows", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, Radio(sampleTable(), ColCategory, []string{"No Such Category"}))
	})
}

func TestExplodeGroups(t *testing.T) {
	t.Parallel()

	grouped := []Grouped{
		{Game: Game{Name: "Alpha"}, Group: []string{"A", "B"}},
		{Game: Game{Name: "Beta"}, Group: []string{"C"}},
	}
	got := ExplodeGroups(grouped)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"A"}, got[0].Group)
	assert.Equal(t, []string{"B"}, got[1].Group)
	assert.Equal(t, "Beta", got[2].Name)
}
