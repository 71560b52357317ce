package tsne

import (
	"github.com/vk/bggflow/internal/dataset"
)

// Features builds the input matrix for the embedding: one-hot membership of
// every category, mechanic and publisher, plus min-max scaled numeric
// columns. One row per game, same order as the table.
func Features(table dataset.Table) [][]float64 {
	if len(table) == 0 {
		return nil
	}

	listCols := []dataset.Column{dataset.ColCategory, dataset.ColMechanic, dataset.ColPublisher}

	// Stable column index: first-seen order per list column.
	type key struct {
		col   dataset.Column
		value string
	}
	index := make(map[key]int)
	width := 0
	for _, col := range listCols {
		for _, v := range dataset.SubsetValues(table, col) {
			index[key{col, v}] = width
			width++
		}
	}

	numeric := []func(*dataset.Game) float64{
		func(g *dataset.Game) float64 { return float64(g.YearPublished) },
		func(g *dataset.Game) float64 { return float64(g.PlayingTime) },
		func(g *dataset.Game) float64 { return float64(g.MinPlayers) },
		func(g *dataset.Game) float64 { return float64(g.MaxPlayers) },
		func(g *dataset.Game) float64 { return g.AverageRating },
	}

	rows := make([][]float64, len(table))
	for i := range table {
		rows[i] = make([]float64, width+len(numeric))
	}

	for i := range table {
		g := &table[i]
		for _, col := range listCols {
			for _, v := range g.Values(col) {
				rows[i][index[key{col, v}]] = 1
			}
		}
		for j, f := range numeric {
			rows[i][width+j] = f(g)
		}
	}

	// Min-max scale the numeric tail so one-hot and numeric features share
	// the [0,1] range.
	for j := width; j < width+len(numeric); j++ {
		min, max := rows[0][j], rows[0][j]
		for i := 1; i < len(rows); i++ {
			if rows[i][j] < min {
				min = rows[i][j]
			}
			if rows[i][j] > max {
				max = rows[i][j]
			}
		}
		span := max - min
		if span == 0 {
			for i := range rows {
				rows[i][j] = 0
			}
			continue
		}
		for i := range rows {
			rows[i][j] = (rows[i][j] - min) / span
		}
	}

	return rows
}
