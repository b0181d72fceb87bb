// SPDX-License-Identifier: Apache-2.0

package fieldcaps

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coraldb/fieldcaps/pkg/schema"
)

func TestMergeFieldCapabilities(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		perIndex map[string][]schema.Field

		wantMerged map[string]TypeCapability
	}{
		{
			name: "agreeing indices share a single entry",
			perIndex: map[string][]schema.Field{
				"logs-1": {{Name: "severity", Type: schema.TypeKeyword, Searchable: true, Aggregatable: true}},
				"logs-2": {{Name: "severity", Type: schema.TypeKeyword, Searchable: true, Aggregatable: true}},
			},

			wantMerged: map[string]TypeCapability{
				schema.TypeKeyword: {
					Type:         schema.TypeKeyword,
					Searchable:   true,
					Aggregatable: true,
					Indices:      []string{"logs-1", "logs-2"},
				},
			},
		},
		{
			name: "distinct types from distinct indices",
			perIndex: map[string][]schema.Field{
				"logs-1": {{Name: "severity", Type: schema.TypeKeyword, Searchable: true, Aggregatable: true}},
				"logs-2": {{Name: "severity", Type: schema.TypeLong, Searchable: true, Aggregatable: true}},
			},

			wantMerged: map[string]TypeCapability{
				schema.TypeKeyword: {
					Type:         schema.TypeKeyword,
					Searchable:   true,
					Aggregatable: true,
					Indices:      []string{"logs-1"},
				},
				schema.TypeLong: {
					Type:         schema.TypeLong,
					Searchable:   true,
					Aggregatable: true,
					Indices:      []string{"logs-2"},
				},
			},
		},
		{
			name: "flag disagreement splits the type entry",
			perIndex: map[string][]schema.Field{
				"logs-1": {{Name: "severity", Type: schema.TypeKeyword, Searchable: true, Aggregatable: true}},
				"logs-2": {{Name: "severity", Type: schema.TypeKeyword, Searchable: true, Aggregatable: false}},
				"logs-3": {{Name: "severity", Type: schema.TypeKeyword, Searchable: true, Aggregatable: true}},
			},

			wantMerged: map[string]TypeCapability{
				schema.TypeKeyword: {
					Type:         schema.TypeKeyword,
					Searchable:   true,
					Aggregatable: true,
					Indices:      []string{"logs-1", "logs-3"},
				},
				schema.TypeKeyword + "#2": {
					Type:         schema.TypeKeyword,
					Searchable:   true,
					Aggregatable: false,
					Indices:      []string{"logs-2"},
				},
			},
		},
		{
			name: "equal combo sizes break the tie on first index",
			perIndex: map[string][]schema.Field{
				"logs-1": {{Name: "severity", Type: schema.TypeKeyword, Searchable: true, Aggregatable: false}},
				"logs-2": {{Name: "severity", Type: schema.TypeKeyword, Searchable: false, Aggregatable: true}},
			},

			wantMerged: map[string]TypeCapability{
				schema.TypeKeyword: {
					Type:         schema.TypeKeyword,
					Searchable:   true,
					Aggregatable: false,
					Indices:      []string{"logs-1"},
				},
				schema.TypeKeyword + "#2": {
					Type:         schema.TypeKeyword,
					Searchable:   false,
					Aggregatable: true,
					Indices:      []string{"logs-2"},
				},
			},
		},
		{
			name: "repeated identical entries from one index list it once",
			perIndex: map[string][]schema.Field{
				"logs-1": {
					{Name: "severity", Type: schema.TypeKeyword, Searchable: true, Aggregatable: true},
					{Name: "severity", Type: schema.TypeKeyword, Searchable: true, Aggregatable: true},
				},
			},

			wantMerged: map[string]TypeCapability{
				schema.TypeKeyword: {
					Type:         schema.TypeKeyword,
					Searchable:   true,
					Aggregatable: true,
					Indices:      []string{"logs-1"},
				},
			},
		},
		{
			name: "metadata flag participates in the combo",
			perIndex: map[string][]schema.Field{
				"logs-1": {{Name: schema.FieldPresenceName, Type: schema.TypeLong, Metadata: true, Searchable: true}},
			},

			wantMerged: map[string]TypeCapability{
				schema.TypeLong: {
					Type:          schema.TypeLong,
					MetadataField: true,
					Searchable:    true,
					Indices:       []string{"logs-1"},
				},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.wantMerged, mergeFieldCapabilities(tc.perIndex))
		})
	}
}
