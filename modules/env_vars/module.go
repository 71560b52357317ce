// Package env_vars exposes process environment variables to pipeline
// expressions, optionally filtered by prefix. Commit author and push
// credentials reach the git step this way.
package env_vars

import (
	"context"
	"os"
	"strings"

	"github.com/vk/bggflow/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the 'arguments' HCL block.
type Input struct {
	Prefix string `bgf:"prefix"`
}

// Deps is an empty struct because this runner does not use any resources.
type Deps struct{}

// Output defines the data structure returned by the runner.
type Output struct {
	All map[string]string `cty:"all"`
}

// onRunEnvVars is the handler for the 'env_vars' runner. When a prefix is
// set, only matching variables are returned and the prefix is stripped from
// the keys.
func onRunEnvVars(ctx context.Context, deps *Deps, input *Input) (*Output, error) {
	envMap := make(map[string]string)
	for _, e := range os.Environ() {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) != 2 {
			continue
		}
		key := pair[0]
		if input.Prefix != "" {
			if !strings.HasPrefix(key, input.Prefix) {
				continue
			}
			key = strings.TrimPrefix(key, input.Prefix)
		}
		envMap[key] = pair[1]
	}

	return &Output{All: envMap}, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("OnRunEnvVars", &registry.RegisteredRunner{
		NewInput: func() any { return new(Input) },
		NewDeps:  func() any { return new(Deps) },
		Fn:       onRunEnvVars,
	})
}
