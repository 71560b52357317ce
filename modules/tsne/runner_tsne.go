package tsne

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/vk/bggflow/internal/ctxlog"
	"github.com/vk/bggflow/internal/dataset"
	embed "github.com/vk/bggflow/internal/tsne"
)

// Input defines the arguments for the 'arguments' HCL block.
type Input struct {
	InputPath    string  `bgf:"input_path"`
	CoordsPath   string  `bgf:"coords_path"`
	ExtentsPath  string  `bgf:"extents_path"`
	Perplexity   float64 `bgf:"perplexity"`
	Iterations   int     `bgf:"iterations"`
	LearningRate float64 `bgf:"learning_rate"`
	Seed         int     `bgf:"seed"`
}

// Deps is an empty struct because this runner does not use any resources.
type Deps struct{}

// Output defines the data structure returned by the runner.
type Output struct {
	CoordsPath  string `cty:"coords_path"`
	ExtentsPath string `cty:"extents_path"`
	Points      int    `cty:"points"`
}

// onRunTsne is the handler for the 'tsne' runner's on_run event.
func onRunTsne(ctx context.Context, deps *Deps, input *Input) (*Output, error) {
	logger := ctxlog.FromContext(ctx)

	table, err := dataset.Load(input.InputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	rows := embed.Features(table)
	points, extents, err := embed.Run(ctx, rows, embed.Config{
		Perplexity:   input.Perplexity,
		Iterations:   input.Iterations,
		LearningRate: input.LearningRate,
		Seed:         int64(input.Seed),
	})
	if err != nil {
		return nil, err
	}

	if err := writeCoords(input.CoordsPath, table, points); err != nil {
		return nil, err
	}
	if err := writeExtents(input.ExtentsPath, extents); err != nil {
		return nil, err
	}
	logger.Info("Embedding written.", "coords", input.CoordsPath, "extents", input.ExtentsPath, "points", len(points))

	return &Output{CoordsPath: input.CoordsPath, ExtentsPath: input.ExtentsPath, Points: len(points)}, nil
}

// writeCoords writes one row per game: id, name, and embedding coordinates.
func writeCoords(path string, table dataset.Table, points []embed.Point) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create coords file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"game_id", "name", "x", "y", "z"}); err != nil {
		return err
	}
	for i, p := range points {
		row := []string{
			strconv.Itoa(table[i].ID),
			table[i].Name,
			strconv.FormatFloat(p.X, 'f', 6, 64),
			strconv.FormatFloat(p.Y, 'f', 6, 64),
			strconv.FormatFloat(p.Z, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func writeExtents(path string, extents embed.Extents) error {
	data, err := json.MarshalIndent(extents, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal extents: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write extents: %w", err)
	}
	return nil
}
