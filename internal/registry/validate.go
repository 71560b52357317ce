package registry

import (
	"context"
	"fmt"

	"github.com/vk/bggflow/internal/ctxlog"
)

// ValidateRegistry checks the integrity of the registry: every manifest must
// reference handlers that exist in Go, and handler names that no manifest
// references are reported so that drift between code and config is visible.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	referencedRunners := make(map[string]bool)
	for typ, def := range r.DefinitionRegistry {
		if def.Lifecycle == nil || def.Lifecycle.OnRun == "" {
			return fmt.Errorf("runner manifest %q has no on_run lifecycle handler", typ)
		}
		if _, ok := r.HandlerRegistry[def.Lifecycle.OnRun]; !ok {
			return fmt.Errorf("runner manifest %q references unregistered handler %q", typ, def.Lifecycle.OnRun)
		}
		referencedRunners[def.Lifecycle.OnRun] = true
	}

	referencedAssets := make(map[string]bool)
	for typ, def := range r.AssetDefinitionRegistry {
		if def.Lifecycle == nil {
			return fmt.Errorf("asset manifest %q has no lifecycle block", typ)
		}
		if _, ok := r.AssetHandlerRegistry[def.Lifecycle.Create]; !ok {
			return fmt.Errorf("asset manifest %q references unregistered create handler %q", typ, def.Lifecycle.Create)
		}
		if _, ok := r.AssetHandlerRegistry[def.Lifecycle.Destroy]; !ok {
			return fmt.Errorf("asset manifest %q references unregistered destroy handler %q", typ, def.Lifecycle.Destroy)
		}
		referencedAssets[def.Lifecycle.Create] = true
		referencedAssets[def.Lifecycle.Destroy] = true
	}

	for name := range r.HandlerRegistry {
		if !referencedRunners[name] {
			logger.Warn("Runner handler registered but not referenced by any manifest.", "handler", name)
		}
	}
	for name := range r.AssetHandlerRegistry {
		if !referencedAssets[name] {
			logger.Warn("Asset handler registered but not referenced by any manifest.", "handler", name)
		}
	}

	return nil
}
