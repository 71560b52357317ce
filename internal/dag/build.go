package dag

import (
	"context"
	"fmt"

	"github.com/vk/bggflow/internal/config"
	"github.com/vk/bggflow/internal/ctxlog"
	"github.com/vk/bggflow/internal/registry"
)

// Build constructs a complete, validated dependency graph from a config model.
func Build(ctx context.Context, model *config.Model, r *registry.Registry) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.")
	graph := &Graph{Nodes: make(map[string]*Node)}

	// First pass: create all nodes for steps and resources.
	if err := createNodes(model.Pipeline, graph, r); err != nil {
		return nil, err
	}
	logger.Debug("Build: Node creation complete.", "node_count", len(graph.Nodes))

	// Second pass: link dependencies.
	if err := linkNodes(ctx, graph); err != nil {
		return nil, err
	}
	logger.Debug("Build: Node linking complete.")

	// Third pass: initialize counters.
	for _, node := range graph.Nodes {
		node.SetInitialCounters()
	}

	if err := graph.detectCycles(); err != nil {
		return nil, fmt.Errorf("error validating dependency graph: %w", err)
	}
	logger.Debug("Build: Graph construction successful.")

	return graph, nil
}

// createNodes populates the graph with one node per resource and step,
// checking that every referenced runner and asset type has a manifest.
func createNodes(pipeline *config.Pipeline, graph *Graph, r *registry.Registry) error {
	for _, res := range pipeline.Resources {
		if _, ok := r.AssetDefinitionRegistry[res.AssetType]; !ok {
			return fmt.Errorf("resource '%s.%s' references unknown asset type %q", res.AssetType, res.Name, res.AssetType)
		}
		id := fmt.Sprintf("resource.%s.%s", res.AssetType, res.Name)
		if _, exists := graph.Nodes[id]; exists {
			return fmt.Errorf("duplicate resource %q", id)
		}
		graph.Nodes[id] = &Node{
			ID:             id,
			Type:           ResourceNode,
			Name:           res.Name,
			ResourceConfig: res,
		}
	}

	for _, step := range pipeline.Steps {
		if _, ok := r.DefinitionRegistry[step.RunnerType]; !ok {
			return fmt.Errorf("step '%s.%s' references unknown runner type %q", step.RunnerType, step.Name, step.RunnerType)
		}
		id := fmt.Sprintf("step.%s.%s", step.RunnerType, step.Name)
		if _, exists := graph.Nodes[id]; exists {
			return fmt.Errorf("duplicate step %q", id)
		}
		graph.Nodes[id] = &Node{
			ID:         id,
			Type:       StepNode,
			Name:       step.Name,
			StepConfig: step,
		}
	}

	return nil
}

// detectCycles runs a depth-first search over the graph and reports the
// first dependency cycle it finds.
func (g *Graph) detectCycles() error {
	const (
		white = 0 // unvisited
		grey  = 1 // on the current path
		black = 2 // fully explored
	)
	colors := make(map[*Node]int, len(g.Nodes))

	var visit func(n *Node) error
	visit = func(n *Node) error {
		colors[n] = grey
		for _, dep := range n.Dependents {
			switch colors[dep] {
			case grey:
				return fmt.Errorf("dependency cycle detected involving '%s' and '%s'", n.ID, dep.ID)
			case white:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		colors[n] = black
		return nil
	}

	for _, node := range g.Nodes {
		if colors[node] == white {
			if err := visit(node); err != nil {
				return err
			}
		}
	}
	return nil
}
