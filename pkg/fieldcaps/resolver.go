// SPDX-License-Identifier: Apache-2.0

package fieldcaps

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	synclib "github.com/coraldb/fieldcaps/internal/sync"
	"github.com/coraldb/fieldcaps/pkg/glob"
	loglib "github.com/coraldb/fieldcaps/pkg/log"
	"github.com/coraldb/fieldcaps/pkg/schema"
)

// FieldCapsResolver drives a resolution request end to end: it matches the
// index pattern against the catalog, fetches the matched schema snapshots
// concurrently, applies type coercion, selects the requested fields, and
// merges the per-index capabilities into the final result.
type FieldCapsResolver struct {
	logger   loglib.Logger
	catalog  schema.Catalog
	coercion *coercionResolver
	workers  uint
}

type Option func(*FieldCapsResolver)

func NewResolver(cfg *Config, catalog schema.Catalog, opts ...Option) *FieldCapsResolver {
	r := &FieldCapsResolver{
		logger:  loglib.NewNoopLogger(),
		catalog: catalog,
		workers: cfg.snapshotWorkers(),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.coercion == nil {
		r.coercion = &coercionResolver{probe: NewTableProbe(catalog)}
	}

	return r
}

func WithLogger(l loglib.Logger) Option {
	return func(r *FieldCapsResolver) {
		r.logger = loglib.NewLogger(l).WithFields(loglib.Fields{
			loglib.ModuleField: "fieldcaps_resolver",
		})
	}
}

// WithColumnProbe substitutes the columnar storage probe used to classify
// multi-typed fields. Defaults to the static coercion table over the catalog.
func WithColumnProbe(probe schema.ColumnProbe) Option {
	return func(r *FieldCapsResolver) {
		r.coercion = &coercionResolver{probe: probe}
	}
}

func (r *FieldCapsResolver) Resolve(ctx context.Context, req *Request) (*Result, error) {
	tokens, err := parseIndexPattern(req.IndexPattern)
	if err != nil {
		return nil, err
	}

	available, err := r.catalog.ListIndices(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing indices: %w", err)
	}

	matched := matchIndices(tokens, available)
	if len(matched) == 0 {
		if hasStrictToken(tokens) {
			return nil, ErrIndexNotFound{Pattern: req.IndexPattern}
		}
		// a pure-wildcard miss is success with empty results
		return emptyResult(), nil
	}

	snapshots, err := r.fetchSnapshots(ctx, matched)
	if err != nil {
		return nil, err
	}

	return r.assemble(ctx, req, snapshots)
}

func parseIndexPattern(pattern string) ([]string, error) {
	tokens := []string{}
	for _, token := range strings.Split(pattern, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	if len(tokens) == 0 {
		return nil, ErrEmptyIndexPattern
	}
	return tokens, nil
}

// matchIndices returns the union of the indices matched by any token, sorted.
func matchIndices(tokens, available []string) []string {
	matched := []string{}
	seen := map[string]struct{}{}
	for _, index := range available {
		if _, found := seen[index]; found {
			continue
		}
		if glob.MatchAny(tokens, index) {
			matched = append(matched, index)
			seen[index] = struct{}{}
		}
	}
	sort.Strings(matched)
	return matched
}

// Exact-literal tokens are strict: if the whole pattern matches nothing and
// one of them is present, resolution fails. Wildcard tokens are lenient.
func hasStrictToken(tokens []string) bool {
	for _, token := range tokens {
		if !glob.HasWildcard(token) {
			return true
		}
	}
	return false
}

// fetchSnapshots dispatches the per-index schema fetches concurrently,
// bounded by the configured worker limit. A single index's failure only
// drops that index's contribution; the request fails only when every fetch
// failed.
func (r *FieldCapsResolver) fetchSnapshots(ctx context.Context, indices []string) ([]*schema.Snapshot, error) {
	snapshots := synclib.NewMapWithLen[string, *schema.Snapshot](len(indices))
	fetchErrs := synclib.NewMap[string, error]()
	sem := synclib.NewWeightedSemaphore(int64(r.workers))

	group, groupCtx := errgroup.WithContext(ctx)
	for _, index := range indices {
		group.Go(func() error {
			if err := sem.Acquire(groupCtx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			snapshot, err := r.catalog.GetSchema(groupCtx, index)
			if err != nil {
				r.logger.Warn(err, "omitting index, schema fetch failed", loglib.Fields{
					loglib.IndexField: index,
				})
				fetchErrs.Set(index, err)
				return nil
			}
			snapshots.Set(index, snapshot)
			return nil
		})
	}

	// only context cancellation surfaces here, individual fetch failures
	// are recorded and tolerated
	if err := group.Wait(); err != nil {
		return nil, err
	}

	if snapshots.Len() == 0 {
		return nil, ErrAllSnapshotsFailed{IndexErrs: fetchErrs.GetMap()}
	}

	ordered := make([]*schema.Snapshot, 0, snapshots.Len())
	for _, index := range indices {
		if snapshot, found := snapshots.Get(index); found {
			ordered = append(ordered, snapshot)
		}
	}
	return ordered, nil
}

// assemble selects the requested fields from each snapshot, applies coercion
// to multi-typed fields, and merges the per-index entries. An index that
// contributes no matching field is dropped from the result's indices list.
func (r *FieldCapsResolver) assemble(ctx context.Context, req *Request, snapshots []*schema.Snapshot) (*Result, error) {
	perField := map[string]map[string][]schema.Field{}
	contributing := map[string]struct{}{}

	for _, snapshot := range snapshots {
		for name, entries := range snapshot.FieldsByName() {
			if !fieldSelected(req, name, entries) {
				continue
			}

			entries, err := r.coercion.resolve(ctx, snapshot.IndexName, name, entries)
			if err != nil {
				r.logger.Warn(err, "omitting field, column probe failed", loglib.Fields{
					loglib.IndexField: snapshot.IndexName,
					"field":           name,
				})
				continue
			}
			if len(entries) == 0 {
				continue
			}

			if perField[name] == nil {
				perField[name] = map[string][]schema.Field{}
			}
			perField[name][snapshot.IndexName] = entries
			contributing[snapshot.IndexName] = struct{}{}
		}
	}

	result := emptyResult()
	for index := range contributing {
		result.Indices = append(result.Indices, index)
	}
	sort.Strings(result.Indices)

	for name, perIndex := range perField {
		result.Fields[name] = mergeFieldCapabilities(perIndex)
	}

	return result, nil
}

// fieldSelected applies the field patterns to a single field name. With no
// patterns, every non-metadata field is selected. Metadata fields require
// either an exact-literal pattern naming them or the request's metadata
// opt-in.
func fieldSelected(req *Request, name string, entries []schema.Field) bool {
	metadata := len(entries) > 0 && entries[0].Metadata

	if len(req.FieldPatterns) == 0 {
		return req.IncludeMetadata || !metadata
	}

	if !glob.MatchAny(req.FieldPatterns, name) {
		return false
	}

	if metadata && !req.IncludeMetadata {
		for _, pattern := range req.FieldPatterns {
			if !glob.HasWildcard(pattern) && pattern == name {
				return true
			}
		}
		return false
	}

	return true
}
