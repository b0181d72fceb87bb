// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"

	"github.com/coraldb/fieldcaps/pkg/fieldcaps"
)

type Resolver struct {
	ResolveFn func(ctx context.Context, req *fieldcaps.Request) (*fieldcaps.Result, error)
}

func (m *Resolver) Resolve(ctx context.Context, req *fieldcaps.Request) (*fieldcaps.Result, error) {
	return m.ResolveFn(ctx, req)
}
