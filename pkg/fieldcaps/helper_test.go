// SPDX-License-Identifier: Apache-2.0

package fieldcaps

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coraldb/fieldcaps/pkg/schema"
)

var errTest = errors.New("oh noes")

const testMapping = `{
	"properties": {
		"date": {"type": "date_nanos"},
		"name": {"type": "keyword", "fields": {"text": {"type": "text"}}},
		"nested": {
			"properties": {
				"response": {"type": "long"},
				"name": {"type": "text"}
			}
		},
		"mixed": {"types": ["long", "double"]}
	}
}`

const testMapping2 = `{
	"properties": {
		"date": {"type": "date_nanos"},
		"severity": {"type": "keyword"}
	}
}`

// newTestCatalog returns an in-memory catalog with the fieldcaps index, plus
// any additional (name, mapping) pairs on input.
func newTestCatalog(t *testing.T, extra ...[2]string) *schema.MemoryCatalog {
	t.Helper()

	catalog := schema.NewMemoryCatalog()
	catalog.Add(newTestSnapshot(t, "fieldcaps", testMapping))
	for _, pair := range extra {
		catalog.Add(newTestSnapshot(t, pair[0], pair[1]))
	}
	return catalog
}

func newTestSnapshot(t *testing.T, indexName, mapping string) *schema.Snapshot {
	t.Helper()

	snapshot, err := schema.NewSnapshot(indexName, 1, []byte(mapping))
	require.NoError(t, err)
	return snapshot
}

func newTestResolver(t *testing.T, catalog schema.Catalog, opts ...Option) *FieldCapsResolver {
	t.Helper()

	return NewResolver(&Config{}, catalog, opts...)
}

func singleIndexCapability(typ string, searchable, aggregatable bool, indices ...string) TypeCapability {
	return TypeCapability{
		Type:         typ,
		Searchable:   searchable,
		Aggregatable: aggregatable,
		Indices:      indices,
	}
}
