package wrangle

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/bggflow/internal/ctxlog"
	"github.com/vk/bggflow/internal/dataset"
)

// Input defines the arguments for the 'arguments' HCL block.
type Input struct {
	InputPath  string `bgf:"input_path"`
	OutputPath string `bgf:"output_path"`
	MinRatings int    `bgf:"min_ratings"`
	DropNoYear bool   `bgf:"drop_unpublished"`
}

// Deps is an empty struct because this runner does not use any resources.
type Deps struct{}

// Output defines the data structure returned by the runner.
type Output struct {
	Path    string `cty:"path"`
	Games   int    `cty:"games"`
	Dropped int    `cty:"dropped"`
}

// onRunWrangle is the handler for the 'wrangle' runner's on_run event.
func onRunWrangle(ctx context.Context, deps *Deps, input *Input) (*Output, error) {
	logger := ctxlog.FromContext(ctx)

	table, err := dataset.Load(input.InputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load raw dataset: %w", err)
	}
	before := len(table)

	if input.DropNoYear {
		var kept dataset.Table
		for i := range table {
			if table[i].YearPublished != 0 {
				kept = append(kept, table[i])
			}
		}
		table = kept
	}
	table = dataset.RatingFilter(table, input.MinRatings)

	// stable output order keeps diffs between refreshes meaningful
	sort.SliceStable(table, func(a, b int) bool { return table[a].ID < table[b].ID })

	if err := dataset.Save(input.OutputPath, table); err != nil {
		return nil, fmt.Errorf("failed to save wrangled dataset: %w", err)
	}
	logger.Info("Wrangled dataset written.", "path", input.OutputPath, "games", len(table), "dropped", before-len(table))

	return &Output{Path: input.OutputPath, Games: len(table), Dropped: before - len(table)}, nil
}
