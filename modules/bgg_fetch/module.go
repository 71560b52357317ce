// Package bgg_fetch pulls a range of board game records from the
// BoardGameGeek XML API and writes them to a raw CSV file.
package bgg_fetch

import (
	"github.com/vk/bggflow/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("OnRunBggFetch", &registry.RegisteredRunner{
		NewInput: func() any { return new(Input) },
		NewDeps:  func() any { return new(Deps) },
		Fn:       onRunBggFetch,
	})
}
