package dag

import (
	"sync"
	"sync/atomic"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/bggflow/internal/config"
)

// NodeType distinguishes resource nodes from step nodes.
type NodeType int

const (
	// ResourceNode is a stateful asset instance with create/destroy lifecycle.
	ResourceNode NodeType = iota
	// StepNode is a stateless runner invocation.
	StepNode
)

// NodeState tracks the execution state of a node.
type NodeState int32

const (
	Pending NodeState = iota
	Running
	Done
	Failed
)

// Graph is the fully-linked dependency graph for one pipeline run.
type Graph struct {
	Nodes map[string]*Node
}

// Node represents a single vertex in the execution graph.
type Node struct {
	ID   string
	Type NodeType
	Name string

	StepConfig     *config.Step
	ResourceConfig *config.Resource

	Deps       []*Node
	Dependents []*Node

	// Output holds the step's converted output value once the node is Done.
	Output cty.Value
	// Error holds the failure cause once the node is Failed.
	Error error

	// State holds a NodeState value, manipulated atomically by the executor.
	State atomic.Int32

	depCount        atomic.Int32
	descendantCount atomic.Int32
	skipOnce        sync.Once
	destroyOnce     sync.Once
}

// GetState returns the node's current execution state.
func (n *Node) GetState() NodeState {
	return NodeState(n.State.Load())
}

// SetInitialCounters primes the dependency and descendant counters before a
// run. Must be called exactly once per node after linking completes.
func (n *Node) SetInitialCounters() {
	n.depCount.Store(int32(len(n.Deps)))

	if n.Type == ResourceNode {
		steps := int32(0)
		for _, dep := range n.Dependents {
			if dep.Type == StepNode {
				steps++
			}
		}
		n.descendantCount.Store(steps)
	}
}

// addEdge records that dependent requires dep. Duplicate edges are ignored.
func addEdge(dep, dependent *Node) {
	for _, existing := range dependent.Deps {
		if existing == dep {
			return
		}
	}
	dependent.Deps = append(dependent.Deps, dep)
	dep.Dependents = append(dep.Dependents, dependent)
}
