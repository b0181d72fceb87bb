// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"

	"github.com/coraldb/fieldcaps/pkg/schema"
)

type ColumnProbe struct {
	CoercionInfoFn func(ctx context.Context, indexName, fieldName string) ([]schema.ColumnCapability, error)
}

func (m *ColumnProbe) CoercionInfo(ctx context.Context, indexName, fieldName string) ([]schema.ColumnCapability, error) {
	return m.CoercionInfoFn(ctx, indexName, fieldName)
}
