package dag

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/bggflow/internal/ctxlog"
)

// linkNodes wires all explicit and implicit dependencies into the graph.
func linkNodes(ctx context.Context, graph *Graph) error {
	for _, node := range graph.Nodes {
		if err := linkExplicit(ctx, graph, node); err != nil {
			return err
		}
		if err := linkImplicit(ctx, graph, node); err != nil {
			return err
		}
	}
	return nil
}

// linkExplicit handles `depends_on` entries, which must be full node IDs
// such as "step.wrangle.main" or "resource.http_client.shared".
func linkExplicit(ctx context.Context, graph *Graph, node *Node) error {
	var dependsOn []string
	switch node.Type {
	case StepNode:
		dependsOn = node.StepConfig.DependsOn
	case ResourceNode:
		dependsOn = node.ResourceConfig.DependsOn
	}

	for _, depID := range dependsOn {
		dep, ok := graph.Nodes[depID]
		if !ok {
			return fmt.Errorf("node '%s' depends on unknown node '%s'", node.ID, depID)
		}
		if dep == node {
			return fmt.Errorf("node '%s' cannot depend on itself", node.ID)
		}
		addEdge(dep, node)
	}
	return nil
}

// linkImplicit derives edges from expression references: any traversal
// rooted at `step` in an argument creates a step dependency, and any
// traversal rooted at `resource` in a `uses` block creates a resource
// dependency.
func linkImplicit(ctx context.Context, graph *Graph, node *Node) error {
	logger := ctxlog.FromContext(ctx)

	var args map[string]hcl.Expression
	switch node.Type {
	case StepNode:
		args = node.StepConfig.Arguments
	case ResourceNode:
		args = node.ResourceConfig.Arguments
	}

	for name, expr := range args {
		for _, traversal := range expr.Variables() {
			if traversal.RootName() != "step" {
				continue
			}
			depID, err := traversalToID(traversal)
			if err != nil {
				return fmt.Errorf("invalid reference in argument '%s' of '%s': %w", name, node.ID, err)
			}
			dep, ok := graph.Nodes[depID]
			if !ok {
				return fmt.Errorf("node '%s' references unknown step '%s'", node.ID, depID)
			}
			logger.Debug("Linking implicit step dependency.", "from", node.ID, "to", depID)
			addEdge(dep, node)
		}
	}

	if node.Type == StepNode {
		for name, expr := range node.StepConfig.Uses {
			for _, traversal := range expr.Variables() {
				if traversal.RootName() != "resource" {
					continue
				}
				depID, err := traversalToID(traversal)
				if err != nil {
					return fmt.Errorf("invalid reference in uses '%s' of '%s': %w", name, node.ID, err)
				}
				dep, ok := graph.Nodes[depID]
				if !ok {
					return fmt.Errorf("node '%s' uses unknown resource '%s'", node.ID, depID)
				}
				logger.Debug("Linking resource dependency.", "from", node.ID, "to", depID)
				addEdge(dep, node)
			}
		}
	}

	return nil
}

// traversalToID converts an HCL traversal like step.wrangle.main into the
// canonical node ID. Only the first three parts identify the node; deeper
// attribute access (e.g. .output) is evaluation-time concern.
func traversalToID(t hcl.Traversal) (string, error) {
	if len(t) < 3 {
		return "", fmt.Errorf("reference must have the form %s.<type>.<name>", t.RootName())
	}
	second, ok := t[1].(hcl.TraverseAttr)
	if !ok {
		return "", fmt.Errorf("reference must use attribute access")
	}
	third, ok := t[2].(hcl.TraverseAttr)
	if !ok {
		return "", fmt.Errorf("reference must use attribute access")
	}
	return fmt.Sprintf("%s.%s.%s", t.RootName(), second.Name, third.Name), nil
}
