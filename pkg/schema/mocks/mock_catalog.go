// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"

	"github.com/coraldb/fieldcaps/pkg/schema"
)

type Catalog struct {
	ListIndicesFn func(ctx context.Context) ([]string, error)
	GetSchemaFn   func(ctx context.Context, indexName string) (*schema.Snapshot, error)
	CloseFn       func() error
}

func (m *Catalog) ListIndices(ctx context.Context) ([]string, error) {
	return m.ListIndicesFn(ctx)
}

func (m *Catalog) GetSchema(ctx context.Context, indexName string) (*schema.Snapshot, error) {
	return m.GetSchemaFn(ctx, indexName)
}

func (m *Catalog) Close() error {
	if m.CloseFn != nil {
		return m.CloseFn()
	}
	return nil
}
