package catalog

import (
	"context"

	"github.com/vk/bggflow/internal/catalog"
)

// AssetInput defines the arguments for creating a sqlite_catalog resource.
type AssetInput struct {
	Path string `bgf:"path"`
}

// createSqliteCatalog is the 'create' handler for the asset.
func createSqliteCatalog(ctx context.Context, input *AssetInput) (*catalog.Catalog, error) {
	return catalog.Open(input.Path)
}

// destroySqliteCatalog is the 'destroy' handler for the asset.
func destroySqliteCatalog(c *catalog.Catalog) error {
	return c.Close()
}
