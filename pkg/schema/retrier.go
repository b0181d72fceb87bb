// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"context"
	"errors"
	"fmt"
	"time"

	backofflib "github.com/coraldb/fieldcaps/internal/backoff"
	loglib "github.com/coraldb/fieldcaps/pkg/log"
)

// CatalogRetrier is a wrapper around a catalog that retries transient
// metadata backend failures. A missing schema is permanent and is returned
// without retrying.
type CatalogRetrier struct {
	catalog         Catalog
	backoffProvider backofflib.Provider
	logger          loglib.Logger
}

type RetrierOption func(*CatalogRetrier)

func NewCatalogRetrier(cfg *backofflib.Config, catalog Catalog, opts ...RetrierOption) *CatalogRetrier {
	r := &CatalogRetrier{
		catalog:         catalog,
		backoffProvider: backofflib.NewProvider(cfg),
		logger:          loglib.NewNoopLogger(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func WithRetrierLogger(l loglib.Logger) RetrierOption {
	return func(r *CatalogRetrier) {
		r.logger = loglib.NewLogger(l).WithFields(loglib.Fields{
			loglib.ModuleField: "schema_catalog_retrier",
		})
	}
}

func (r *CatalogRetrier) ListIndices(ctx context.Context) ([]string, error) {
	var indices []string
	err := r.withRetry(ctx, "list indices", func() error {
		var opErr error
		indices, opErr = r.catalog.ListIndices(ctx)
		return opErr
	})
	return indices, err
}

func (r *CatalogRetrier) GetSchema(ctx context.Context, indexName string) (*Snapshot, error) {
	var snapshot *Snapshot
	err := r.withRetry(ctx, "get schema", func() error {
		var opErr error
		snapshot, opErr = r.catalog.GetSchema(ctx, indexName)
		if opErr != nil {
			var notFound ErrSchemaNotFound
			if errors.As(opErr, &notFound) {
				return fmt.Errorf("%w: %w", backofflib.ErrPermanent, opErr)
			}
		}
		return opErr
	})
	return snapshot, err
}

func (r *CatalogRetrier) Close() error {
	return r.catalog.Close()
}

func (r *CatalogRetrier) withRetry(ctx context.Context, opName string, op backofflib.Operation) error {
	bo := r.backoffProvider(ctx)
	return bo.RetryNotify(op, func(err error, d time.Duration) {
		r.logger.Warn(err, "retrying catalog operation", loglib.Fields{
			"operation": opName,
			"backoff":   d,
		})
	})
}
