package registry

// RegisteredRunner describes the Go implementation of a stateless runner.
// Fn must have the signature func(ctx, *Deps, *Input) (Output, error).
type RegisteredRunner struct {
	// NewInput returns a pointer to a fresh input struct, or nil if the
	// runner takes no arguments.
	NewInput func() any
	// NewDeps returns a pointer to a fresh dependency struct.
	NewDeps func() any
	// Fn is the on_run handler.
	Fn any
}

// RegisteredAsset describes the Go implementation of a stateful asset.
// CreateFn must have the signature func(ctx, *Input) (instance, error) and
// DestroyFn func(instance) error.
type RegisteredAsset struct {
	// NewInput returns a pointer to a fresh input struct, or nil if the
	// asset takes no arguments.
	NewInput func() any
	// CreateFn is the create lifecycle handler.
	CreateFn any
	// DestroyFn is the destroy lifecycle handler.
	DestroyFn any
}

// RegisterRunner adds a runner handler under its lifecycle handler name.
func (r *Registry) RegisterRunner(name string, runner *RegisteredRunner) {
	r.HandlerRegistry[name] = runner
}

// RegisterAssetHandler adds an asset handler under its lifecycle handler name.
func (r *Registry) RegisterAssetHandler(name string, asset *RegisteredAsset) {
	r.AssetHandlerRegistry[name] = asset
}
