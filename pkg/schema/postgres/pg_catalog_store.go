// SPDX-License-Identifier: Apache-2.0

// Package postgres implements the index catalog over a postgres metadata
// store. Each index keeps a versioned history of mapping documents; the
// latest version is the current schema.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coraldb/fieldcaps/pkg/schema"
)

// Store is a postgres implementation of the schema.Catalog interface.
type Store struct {
	pool querier
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

type Config struct {
	URL string
}

const (
	schemaName = "fieldcaps"
	tableName  = "index_schema"
)

func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	pgCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgCfg)
	if err != nil {
		return nil, fmt.Errorf("creating postgres connection pool: %w", err)
	}

	return &Store{
		pool: pool,
	}, nil
}

func NewStoreWithQuerier(q querier) *Store {
	return &Store{
		pool: q,
	}
}

// ListIndices returns the names of all indices known to the catalog, sorted.
func (s *Store) ListIndices(ctx context.Context) ([]string, error) {
	sql := fmt.Sprintf(`select distinct index_name from %s.%s order by index_name asc`, schemaName, tableName)
	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("listing indices: %w", err)
	}
	defer rows.Close()

	indices := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning index name: %w", err)
		}
		indices = append(indices, name)
	}

	return indices, rows.Err()
}

// GetSchema retrieves the latest schema version for the index on input and
// builds a snapshot from its mapping document. The read is a single
// statement, so the captured view is self consistent.
func (s *Store) GetSchema(ctx context.Context, indexName string) (*schema.Snapshot, error) {
	sql := fmt.Sprintf(`select version, mapping from %s.%s where index_name = $1 order by version desc limit 1`, schemaName, tableName)

	var version int64
	var mapping []byte
	if err := s.pool.QueryRow(ctx, sql, indexName).Scan(&version, &mapping); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, schema.ErrSchemaNotFound{IndexName: indexName}
		}
		return nil, fmt.Errorf("fetching schema for index %s: %w", indexName, err)
	}

	snapshot, err := schema.NewSnapshot(indexName, version, mapping)
	if err != nil {
		return nil, fmt.Errorf("building snapshot for index %s: %w", indexName, err)
	}

	return snapshot, nil
}

// GetSchemaVersion returns the latest schema version for the index on input
// without loading the mapping document. Used by the catalog cache to detect
// version bumps cheaply.
func (s *Store) GetSchemaVersion(ctx context.Context, indexName string) (int64, error) {
	sql := fmt.Sprintf(`select version from %s.%s where index_name = $1 order by version desc limit 1`, schemaName, tableName)

	var version int64
	if err := s.pool.QueryRow(ctx, sql, indexName).Scan(&version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, schema.ErrSchemaNotFound{IndexName: indexName}
		}
		return 0, fmt.Errorf("fetching schema version for index %s: %w", indexName, err)
	}

	return version, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
