// SPDX-License-Identifier: Apache-2.0

package fieldcaps

import (
	"context"
	"fmt"

	"github.com/coraldb/fieldcaps/pkg/schema"
)

// Coercion families, narrowest to widest. When a field is stored under more
// than one member of a family within a single index, aggregation requires a
// single materialised column, which the storage layer builds for the widest
// observed member only. Search is unaffected: the inverted term index
// tolerates heterogeneous types.
var coercionFamilies = [][]string{
	{schema.TypeLong, schema.TypeDouble},
	{schema.TypeDate, schema.TypeDateNanos},
}

// CoercionTable computes the column capabilities for a set of physical types
// observed for one field. Within a coercion family with more than one
// observed member, only the widest member keeps an aggregatable column.
// Types outside the closed set are omitted.
func CoercionTable(observed []string) []schema.ColumnCapability {
	observedSet := make(map[string]struct{}, len(observed))
	for _, t := range observed {
		observedSet[t] = struct{}{}
	}

	caps := make([]schema.ColumnCapability, 0, len(observed))
	for _, t := range observed {
		if !schema.IsKnownType(t) {
			continue
		}
		caps = append(caps, schema.ColumnCapability{
			Type:         t,
			Aggregatable: isCoercionTarget(t, observedSet),
		})
	}
	return caps
}

// isCoercionTarget reports whether t would end up with its own aggregatable
// column given the full set of observed types.
func isCoercionTarget(t string, observed map[string]struct{}) bool {
	if t == schema.TypeText {
		return false
	}
	for _, family := range coercionFamilies {
		for pos, member := range family {
			if member != t {
				continue
			}
			// aggregatable unless a wider family member was also observed
			for _, wider := range family[pos+1:] {
				if _, found := observed[wider]; found {
					return false
				}
			}
			return true
		}
	}
	return true
}

// TableProbe is a schema.ColumnProbe backed by the static coercion table and
// the catalog's own view of the observed types. Deployments with a remote
// columnar storage layer substitute their own probe.
type TableProbe struct {
	catalog schema.Catalog
}

func NewTableProbe(catalog schema.Catalog) *TableProbe {
	return &TableProbe{catalog: catalog}
}

func (p *TableProbe) CoercionInfo(ctx context.Context, indexName, fieldName string) ([]schema.ColumnCapability, error) {
	snapshot, err := p.catalog.GetSchema(ctx, indexName)
	if err != nil {
		return nil, fmt.Errorf("probing column capabilities: %w", err)
	}

	observed := []string{}
	for _, f := range snapshot.Fields {
		if f.Name == fieldName {
			observed = append(observed, f.Type)
		}
	}

	return CoercionTable(observed), nil
}

// coercionResolver adjusts the aggregatable flags of multi-typed fields
// using the storage probe's verdict.
type coercionResolver struct {
	probe schema.ColumnProbe
}

// resolve returns the field entries with coercion applied. Entries whose
// types the probe cannot classify are omitted rather than guessed. Entries
// outside any contested coercion family pass through untouched.
func (r *coercionResolver) resolve(ctx context.Context, indexName, fieldName string, entries []schema.Field) ([]schema.Field, error) {
	contested := contestedFamilies(entries)
	if len(contested) == 0 {
		return entries, nil
	}

	caps, err := r.probe.CoercionInfo(ctx, indexName, fieldName)
	if err != nil {
		return nil, err
	}
	aggregatableByType := make(map[string]bool, len(caps))
	for _, c := range caps {
		aggregatableByType[c.Type] = c.Aggregatable
	}

	resolved := make([]schema.Field, 0, len(entries))
	for _, entry := range entries {
		if _, inFamily := contested[entry.Type]; !inFamily {
			resolved = append(resolved, entry)
			continue
		}
		aggregatable, classified := aggregatableByType[entry.Type]
		if !classified {
			continue
		}
		// doc_values=false still wins over the probe verdict
		entry.Aggregatable = entry.Aggregatable && aggregatable
		resolved = append(resolved, entry)
	}
	return resolved, nil
}

// contestedFamilies returns the types belonging to a coercion family with
// more than one member observed among the entries.
func contestedFamilies(entries []schema.Field) map[string]struct{} {
	observed := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		observed[e.Type] = struct{}{}
	}

	contested := map[string]struct{}{}
	for _, family := range coercionFamilies {
		count := 0
		for _, member := range family {
			if _, found := observed[member]; found {
				count++
			}
		}
		if count < 2 {
			continue
		}
		for _, member := range family {
			if _, found := observed[member]; found {
				contested[member] = struct{}{}
			}
		}
	}
	return contested
}
