// SPDX-License-Identifier: Apache-2.0

package schema_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	backofflib "github.com/coraldb/fieldcaps/internal/backoff"
	"github.com/coraldb/fieldcaps/pkg/schema"
	"github.com/coraldb/fieldcaps/pkg/schema/mocks"
)

var errTest = errors.New("oh noes")

func testRetryConfig() *backofflib.Config {
	return &backofflib.Config{
		Constant: &backofflib.ConstantConfig{
			Interval:   time.Millisecond,
			MaxRetries: 2,
		},
	}
}

func TestCatalogRetrier_GetSchema(t *testing.T) {
	t.Parallel()

	testSnapshot := &schema.Snapshot{IndexName: "fieldcaps", Version: 1}

	t.Run("ok - transient failure retried", func(t *testing.T) {
		t.Parallel()

		attempts := atomic.Int64{}
		retrier := schema.NewCatalogRetrier(testRetryConfig(), &mocks.Catalog{
			GetSchemaFn: func(ctx context.Context, indexName string) (*schema.Snapshot, error) {
				if attempts.Add(1) == 1 {
					return nil, errTest
				}
				return testSnapshot, nil
			},
		})

		snapshot, err := retrier.GetSchema(context.Background(), "fieldcaps")
		require.NoError(t, err)
		require.Equal(t, testSnapshot, snapshot)
		require.Equal(t, int64(2), attempts.Load())
	})

	t.Run("error - schema not found is permanent", func(t *testing.T) {
		t.Parallel()

		attempts := atomic.Int64{}
		retrier := schema.NewCatalogRetrier(testRetryConfig(), &mocks.Catalog{
			GetSchemaFn: func(ctx context.Context, indexName string) (*schema.Snapshot, error) {
				attempts.Add(1)
				return nil, schema.ErrSchemaNotFound{IndexName: indexName}
			},
		})

		_, err := retrier.GetSchema(context.Background(), "fieldcaps")
		var notFound schema.ErrSchemaNotFound
		require.ErrorAs(t, err, &notFound)
		require.Equal(t, "fieldcaps", notFound.IndexName)
		require.Equal(t, int64(1), attempts.Load())
	})

	t.Run("error - retries exhausted", func(t *testing.T) {
		t.Parallel()

		attempts := atomic.Int64{}
		retrier := schema.NewCatalogRetrier(testRetryConfig(), &mocks.Catalog{
			GetSchemaFn: func(ctx context.Context, indexName string) (*schema.Snapshot, error) {
				attempts.Add(1)
				return nil, errTest
			},
		})

		_, err := retrier.GetSchema(context.Background(), "fieldcaps")
		require.ErrorIs(t, err, errTest)
		require.Equal(t, int64(3), attempts.Load())
	})
}

func TestCatalogRetrier_ListIndices(t *testing.T) {
	t.Parallel()

	attempts := atomic.Int64{}
	retrier := schema.NewCatalogRetrier(testRetryConfig(), &mocks.Catalog{
		ListIndicesFn: func(ctx context.Context) ([]string, error) {
			if attempts.Add(1) == 1 {
				return nil, errTest
			}
			return []string{"fieldcaps"}, nil
		},
	})

	indices, err := retrier.ListIndices(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"fieldcaps"}, indices)
	require.Equal(t, int64(2), attempts.Load())
}
