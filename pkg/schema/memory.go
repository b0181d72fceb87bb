// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"context"
	"sort"

	synclib "github.com/coraldb/fieldcaps/internal/sync"
)

// MemoryCatalog is an in-memory catalog implementation, used for fixture
// driven deployments and tests.
type MemoryCatalog struct {
	snapshots *synclib.Map[string, *Snapshot]
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		snapshots: synclib.NewMap[string, *Snapshot](),
	}
}

// Add registers or replaces the snapshot for its index name.
func (c *MemoryCatalog) Add(snapshot *Snapshot) {
	c.snapshots.Set(snapshot.IndexName, snapshot)
}

func (c *MemoryCatalog) ListIndices(_ context.Context) ([]string, error) {
	all := c.snapshots.GetMap()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (c *MemoryCatalog) GetSchema(_ context.Context, indexName string) (*Snapshot, error) {
	snapshot, found := c.snapshots.Get(indexName)
	if !found {
		return nil, ErrSchemaNotFound{IndexName: indexName}
	}
	return snapshot, nil
}

func (c *MemoryCatalog) GetSchemaVersion(_ context.Context, indexName string) (int64, error) {
	snapshot, found := c.snapshots.Get(indexName)
	if !found {
		return 0, ErrSchemaNotFound{IndexName: indexName}
	}
	return snapshot.Version, nil
}

func (c *MemoryCatalog) Close() error {
	return nil
}
