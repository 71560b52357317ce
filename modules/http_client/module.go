// Package http_client provides a stateful, shareable HTTP client asset used
// by the API-facing steps.
package http_client

import (
	"github.com/vk/bggflow/internal/registry"
)

// Module implements the registry.Module interface. It's the main entrypoint
// for the http_client module, responsible for registering its asset handlers
// with the application's registry.
type Module struct{}

// Register registers the asset's lifecycle handlers with the central registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAssetHandler("CreateHttpClient", &registry.RegisteredAsset{
		NewInput: func() any { return new(AssetInput) },
		CreateFn: createHttpClient,
	})
	r.RegisterAssetHandler("DestroyHttpClient", &registry.RegisteredAsset{
		DestroyFn: destroyHttpClient,
	})
}
