// Package git_commit stages dataset artifacts and commits them, but only
// when the working tree actually changed.
package git_commit

import (
	"github.com/vk/bggflow/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("OnRunGitCommit", &registry.RegisteredRunner{
		NewInput: func() any { return new(Input) },
		NewDeps:  func() any { return new(Deps) },
		Fn:       onRunGitCommit,
	})
}
