package bgg_fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/vk/bggflow/internal/bgg"
	"github.com/vk/bggflow/internal/ctxlog"
	"github.com/vk/bggflow/internal/dataset"
)

// Input defines the arguments for the 'arguments' HCL block.
type Input struct {
	StartID      int    `bgf:"start_id"`
	EndID        int    `bgf:"end_id"`
	OutputPath   string `bgf:"output_path"`
	BatchSize    int    `bgf:"batch_size"`
	RequestDelay string `bgf:"request_delay"`
	APIURL       string `bgf:"api_url"`
	UserAgent    string `bgf:"user_agent"`
}

// Deps declares the resources this runner needs injected.
type Deps struct {
	Client *http.Client `bgf:"http"`
}

// Output defines the data structure returned by the runner.
type Output struct {
	Path  string `cty:"path"`
	Games int    `cty:"games"`
}

// onRunBggFetch is the handler for the 'bgg_fetch' runner's on_run event.
func onRunBggFetch(ctx context.Context, deps *Deps, input *Input) (*Output, error) {
	logger := ctxlog.FromContext(ctx)

	var requestDelay time.Duration
	if input.RequestDelay != "" {
		var err error
		requestDelay, err = time.ParseDuration(input.RequestDelay)
		if err != nil {
			return nil, fmt.Errorf("invalid request_delay: %w", err)
		}
	}

	client := bgg.NewClient(deps.Client, bgg.Options{
		BaseURL:      input.APIURL,
		BatchSize:    input.BatchSize,
		RequestDelay: requestDelay,
		UserAgent:    input.UserAgent,
	})

	logger.Info("Fetching games from BGG.", "from", input.StartID, "to", input.EndID)
	table, err := client.FetchRange(ctx, input.StartID, input.EndID)
	if err != nil {
		return nil, err
	}

	if err := dataset.Save(input.OutputPath, table); err != nil {
		return nil, err
	}
	logger.Info("Raw dataset written.", "path", input.OutputPath, "games", len(table))

	return &Output{Path: input.OutputPath, Games: len(table)}, nil
}
