package delay

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/bggflow/internal/ctxlog"
)

// Input defines the arguments for the 'arguments' HCL block.
type Input struct {
	Duration string `bgf:"duration"`
}

// Deps is an empty struct because this runner does not use any resources.
type Deps struct{}

// Output defines the data structure returned by the runner.
type Output struct {
	Waited string `cty:"waited"`
}

// onRunDelay is the handler for the 'delay' runner's on_run event. The wait
// aborts early when the pipeline is cancelled.
func onRunDelay(ctx context.Context, deps *Deps, input *Input) (*Output, error) {
	d, err := time.ParseDuration(input.Duration)
	if err != nil {
		return nil, fmt.Errorf("invalid duration %q: %w", input.Duration, err)
	}

	ctxlog.FromContext(ctx).Info("Waiting.", "duration", d)
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	return &Output{Waited: d.String()}, nil
}
