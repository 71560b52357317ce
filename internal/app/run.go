package app

import (
	"context"
	"fmt"

	"github.com/vk/bggflow/internal/ctxlog"
	"github.com/vk/bggflow/internal/dag"
	"github.com/vk/bggflow/internal/schedule"
)

// Run executes the main application logic based on the provided configuration.
// In once mode the pipeline runs a single time; otherwise the cron trigger
// fires it until the context is canceled.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if appConfig.HealthcheckPort > 0 {
		a.startHealthcheckServer(ctx, appConfig.HealthcheckPort)
		defer a.closeHealthcheckServer(ctx)
	}

	spec := appConfig.Schedule
	if spec == "" {
		spec = a.model.Pipeline.Schedule
	}

	if appConfig.Once || spec == "" {
		return a.runPipeline(ctx, appConfig)
	}

	a.logger.Info("Starting scheduled operation.", "schedule", spec, "pipeline", a.model.Pipeline.Name)
	return schedule.Run(ctx, spec, func(runCtx context.Context) error {
		return a.runPipeline(runCtx, appConfig)
	})
}

// runPipeline builds a fresh graph and executes it once. Graphs carry run
// state, so every trigger firing gets its own.
func (a *App) runPipeline(ctx context.Context, appConfig *Config) error {
	a.logger.Debug("Building dependency graph from config model...")
	graph, err := dag.Build(ctx, a.model, a.registry)
	if err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}
	a.logger.Debug("Dependency graph built.", "node_count", len(graph.Nodes))

	if len(graph.Nodes) == 0 {
		a.logger.Warn("No nodes found in graph, execution not required.")
		return nil
	}

	a.logger.Info("Starting pipeline run.", "nodes", len(graph.Nodes), "workers", appConfig.WorkerCount)
	exec := dag.NewExecutor(graph, appConfig.WorkerCount, a.registry, a.converter)
	if err := exec.Run(ctx); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	a.logger.Info("Pipeline run finished.")

	return nil
}
