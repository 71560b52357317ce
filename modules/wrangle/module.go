// Package wrangle cleans a raw games CSV into the canonical board_game.csv
// layout: unknown fills, list splitting, and an optional minimum-ratings cut.
package wrangle

import (
	"github.com/vk/bggflow/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("OnRunWrangle", &registry.RegisteredRunner{
		NewInput: func() any { return new(Input) },
		NewDeps:  func() any { return new(Deps) },
		Fn:       onRunWrangle,
	})
}
