// Package catalog exposes the SQLite run catalog to pipelines: a
// sqlite_catalog asset holding the database handle and a catalog_record
// runner that upserts the refreshed games and logs the run.
package catalog

import (
	"github.com/vk/bggflow/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the asset and runner handlers with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAssetHandler("CreateSqliteCatalog", &registry.RegisteredAsset{
		NewInput: func() any { return new(AssetInput) },
		CreateFn: createSqliteCatalog,
	})
	r.RegisterAssetHandler("DestroySqliteCatalog", &registry.RegisteredAsset{
		DestroyFn: destroySqliteCatalog,
	})
	r.RegisterRunner("OnRunCatalogRecord", &registry.RegisteredRunner{
		NewInput: func() any { return new(Input) },
		NewDeps:  func() any { return new(Deps) },
		Fn:       onRunCatalogRecord,
	})
}
