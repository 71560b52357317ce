// Package dag builds the pipeline dependency graph from the config model and
// executes it with a bounded worker pool. Failures cancel the run and skip
// all transitive dependents; resources are destroyed as soon as their last
// consuming step finishes.
package dag
