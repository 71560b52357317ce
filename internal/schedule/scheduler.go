// Package schedule provides the cron trigger layer that fires pipeline runs.
package schedule

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"github.com/vk/bggflow/internal/ctxlog"
)

// Run blocks until the context is canceled, firing the job according to the
// standard 5-field cron spec. If a run is still active when the schedule
// fires again, that firing is skipped.
func Run(ctx context.Context, spec string, job func(context.Context) error) error {
	logger := ctxlog.FromContext(ctx)

	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}

	guarded := overlapGuard(ctx, job)

	c := cron.New()
	c.Schedule(sched, cron.FuncJob(guarded))
	c.Start()
	logger.Info("Scheduler started.", "spec", spec)

	<-ctx.Done()

	// Stop accepting new firings, then wait for an in-flight run to finish.
	stopCtx := c.Stop()
	<-stopCtx.Done()
	logger.Info("Scheduler stopped.")

	return nil
}

// overlapGuard wraps a job so that concurrent firings are skipped rather
// than stacked: the pipeline mutates shared files on disk and must never
// run against itself.
func overlapGuard(ctx context.Context, job func(context.Context) error) func() {
	var running atomic.Bool
	logger := ctxlog.FromContext(ctx)

	return func() {
		if !running.CompareAndSwap(false, true) {
			logger.Warn("Previous pipeline run still active, skipping this firing.")
			return
		}
		defer running.Store(false)

		if err := job(ctx); err != nil {
			logger.Error("Scheduled pipeline run failed.", "error", err)
		}
	}
}
