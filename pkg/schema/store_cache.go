// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"context"
	"fmt"

	synclib "github.com/coraldb/fieldcaps/internal/sync"
)

// CatalogCache is a wrapper around a catalog that keeps fetched snapshots in
// memory to reduce the amount of calls to the metadata backend. A cached
// snapshot is served until the backend reports a newer schema version for its
// index; backends that cannot report versions (see schemaVersioner) serve
// cached entries until explicitly invalidated.
type CatalogCache struct {
	catalog Catalog
	cache   *synclib.Map[string, *Snapshot]
}

// schemaVersioner is implemented by catalog backends that can report the
// current schema version of an index more cheaply than a full schema fetch.
type schemaVersioner interface {
	GetSchemaVersion(ctx context.Context, indexName string) (int64, error)
}

func NewCatalogCache(catalog Catalog) *CatalogCache {
	return &CatalogCache{
		catalog: catalog,
		cache:   synclib.NewMap[string, *Snapshot](),
	}
}

// ListIndices is not cached: index creation and deletion must be visible to
// the next resolution request.
func (c *CatalogCache) ListIndices(ctx context.Context) ([]string, error) {
	return c.catalog.ListIndices(ctx)
}

func (c *CatalogCache) GetSchema(ctx context.Context, indexName string) (*Snapshot, error) {
	if snapshot, found := c.cache.Get(indexName); found {
		fresh, err := c.fresh(ctx, indexName, snapshot)
		if err != nil {
			c.cache.Delete(indexName)
			return nil, fmt.Errorf("catalog cache version check: %w", err)
		}
		if fresh {
			return snapshot, nil
		}
		c.cache.Delete(indexName)
	}

	snapshot, err := c.catalog.GetSchema(ctx, indexName)
	if err != nil {
		return nil, fmt.Errorf("catalog cache fetch: %w", err)
	}
	c.cache.Set(indexName, snapshot)

	return snapshot, nil
}

// fresh reports whether the cached snapshot still matches the backend's
// current schema version for the index.
func (c *CatalogCache) fresh(ctx context.Context, indexName string, snapshot *Snapshot) (bool, error) {
	versioner, ok := c.catalog.(schemaVersioner)
	if !ok {
		return true, nil
	}

	version, err := versioner.GetSchemaVersion(ctx, indexName)
	if err != nil {
		return false, err
	}
	return version == snapshot.Version, nil
}

// Invalidate drops the cached snapshot for the index on input, if any.
func (c *CatalogCache) Invalidate(indexName string) {
	c.cache.Delete(indexName)
}

func (c *CatalogCache) Close() error {
	return c.catalog.Close()
}
