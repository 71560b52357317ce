package dag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/vk/bggflow/internal/config"
	"github.com/vk/bggflow/internal/ctxlog"
	"github.com/vk/bggflow/internal/registry"
)

// Executor runs a built graph to completion with a bounded worker pool.
type Executor struct {
	graph      *Graph
	numWorkers int
	registry   *registry.Registry
	converter  config.Converter

	wg                sync.WaitGroup
	resourceInstances sync.Map // node ID -> live asset instance

	cleanupMu sync.Mutex
	cleanup   []*Node // created resources, in creation order
}

// NewExecutor creates an executor for a single run of the given graph.
// Executors are single-use: a graph's nodes carry run state.
func NewExecutor(graph *Graph, numWorkers int, r *registry.Registry, conv config.Converter) *Executor {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Executor{
		graph:      graph,
		numWorkers: numWorkers,
		registry:   r,
		converter:  conv,
	}
}

// Run executes the entire graph concurrently and returns an error if any node
// fails. It respects the cancellation signal from the provided context.
func (e *Executor) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	defer e.executeCleanupStack(ctx)

	readyChan := make(chan *Node, len(e.graph.Nodes))
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	rootNodeCount := 0
	for _, node := range e.graph.Nodes {
		if node.depCount.Load() == 0 {
			readyChan <- node
			rootNodeCount++
		}
	}
	logger.Debug("Found all root nodes.", "count", rootNodeCount)

	e.wg.Add(len(e.graph.Nodes))

	logger.Debug("Starting worker pool.", "workers", e.numWorkers)
	for i := 0; i < e.numWorkers; i++ {
		go e.worker(runCtx, readyChan, cancel, i)
	}

	e.wg.Wait()
	close(readyChan)
	logger.Debug("All nodes completed.")

	var failedNodes []string
	var rootCauseError error
	for _, node := range e.graph.Nodes {
		if node.GetState() != Failed {
			continue
		}
		logger.Error("Node failed execution.", "nodeID", node.ID, "error", node.Error)
		// A "skipped" error is a symptom, not a cause.
		if node.Error != nil && !strings.HasPrefix(node.Error.Error(), "skipped") && !errors.Is(node.Error, context.Canceled) {
			failedNodes = append(failedNodes, node.ID)
			if rootCauseError == nil {
				rootCauseError = node.Error
			}
		}
	}

	if rootCauseError != nil {
		return fmt.Errorf("execution failed for %s: %w", strings.Join(failedNodes, ", "), rootCauseError)
	}

	return nil
}

// worker is the core processing loop for a single concurrent worker.
func (e *Executor) worker(ctx context.Context, readyChan chan *Node, cancel context.CancelFunc, workerID int) {
	logger := ctxlog.FromContext(ctx)

	for node := range readyChan {
		workerLogger := logger.With("workerID", workerID, "nodeID", node.ID)

		if ctx.Err() != nil {
			node.skipOnce.Do(func() {
				workerLogger.Warn("Context canceled, skipping node execution.")
				node.State.Store(int32(Failed))
				node.Error = ctx.Err()
				e.wg.Done()
				// Dependents were never queued; release their WaitGroup
				// slots too or Run blocks forever.
				e.skipDependents(ctx, node)
			})
			continue
		}

		workerLogger.Debug("Worker picked up node for execution.")
		node.State.Store(int32(Running))
		var err error
		switch node.Type {
		case ResourceNode:
			err = e.executeResourceNode(ctx, node)
		case StepNode:
			err = e.executeStepNode(ctx, node)
		}

		if err != nil {
			workerLogger.Error("Node execution failed.", "error", err)
			node.State.Store(int32(Failed))
			node.Error = err
			cancel()
			e.skipDependents(ctx, node)
			e.wg.Done()
			continue
		}

		workerLogger.Debug("Node execution succeeded.")
		node.State.Store(int32(Done))

		for _, dependent := range node.Dependents {
			if dependent.depCount.Add(-1) == 0 {
				readyChan <- dependent
			}
		}

		// A finished step releases its resources; the last release destroys
		// the resource without waiting for the run to end.
		if node.Type == StepNode {
			for _, dep := range node.Deps {
				if dep.Type == ResourceNode {
					if dep.descendantCount.Add(-1) == 0 {
						workerLogger.Debug("Scheduling destruction for drained resource.", "resourceID", dep.ID)
						go e.destroyResource(ctx, dep)
					}
				}
			}
		}

		e.wg.Done()
	}
}

// skipDependents recursively marks all downstream nodes as failed and
// decrements the WaitGroup for each.
func (e *Executor) skipDependents(ctx context.Context, node *Node) {
	logger := ctxlog.FromContext(ctx)
	for _, dependent := range node.Dependents {
		dependent.skipOnce.Do(func() {
			logger.Warn("Skipping dependent node due to upstream failure.", "nodeID", dependent.ID, "dependency", node.ID)
			dependent.State.Store(int32(Failed))
			dependent.Error = fmt.Errorf("skipped due to upstream failure of '%s'", node.ID)
			e.wg.Done()
			e.skipDependents(ctx, dependent)
		})
	}
}

// executeCleanupStack destroys, in reverse creation order, any resources
// still alive at the end of the run (e.g. after a failure skipped the steps
// that would have drained them).
func (e *Executor) executeCleanupStack(ctx context.Context) {
	e.cleanupMu.Lock()
	stack := make([]*Node, len(e.cleanup))
	copy(stack, e.cleanup)
	e.cleanupMu.Unlock()

	for i := len(stack) - 1; i >= 0; i-- {
		e.destroyResource(ctx, stack[i])
	}
}
