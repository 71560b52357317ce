package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/bggflow/internal/catalog"
	"github.com/vk/bggflow/internal/ctxlog"
	"github.com/vk/bggflow/internal/dataset"
)

// Input defines the arguments for the 'arguments' HCL block.
type Input struct {
	DatasetPath string `bgf:"dataset_path"`
	Pipeline    string `bgf:"pipeline"`
	Committed   bool   `bgf:"committed"`
}

// Deps declares the resources this runner needs injected.
type Deps struct {
	Catalog *catalog.Catalog `bgf:"db"`
}

// Output defines the data structure returned by the runner.
type Output struct {
	Games int `cty:"games"`
	RunID int `cty:"run_id"`
}

// onRunCatalogRecord is the handler for the 'catalog_record' runner.
func onRunCatalogRecord(ctx context.Context, deps *Deps, input *Input) (*Output, error) {
	logger := ctxlog.FromContext(ctx)
	started := time.Now()

	table, err := dataset.Load(input.DatasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	games, err := deps.Catalog.UpsertGames(ctx, table)
	if err != nil {
		return nil, err
	}

	runID, err := deps.Catalog.RecordRun(ctx, catalog.Run{
		Pipeline:   input.Pipeline,
		StartedAt:  started,
		FinishedAt: time.Now(),
		Games:      games,
		Committed:  input.Committed,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Run cataloged.", "run_id", runID, "games", games)

	return &Output{Games: games, RunID: int(runID)}, nil
}
