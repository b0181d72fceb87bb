// SPDX-License-Identifier: Apache-2.0

package fieldcaps

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coraldb/fieldcaps/pkg/schema"
	schemamocks "github.com/coraldb/fieldcaps/pkg/schema/mocks"
)

func TestCoercionTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		observed []string

		wantCaps []schema.ColumnCapability
	}{
		{
			name:     "single numeric type keeps its column",
			observed: []string{schema.TypeLong},
			wantCaps: []schema.ColumnCapability{
				{Type: schema.TypeLong, Aggregatable: true},
			},
		},
		{
			name:     "contested numeric family, widest member wins",
			observed: []string{schema.TypeLong, schema.TypeDouble},
			wantCaps: []schema.ColumnCapability{
				{Type: schema.TypeLong, Aggregatable: false},
				{Type: schema.TypeDouble, Aggregatable: true},
			},
		},
		{
			name:     "contested date family, nanos wins",
			observed: []string{schema.TypeDateNanos, schema.TypeDate},
			wantCaps: []schema.ColumnCapability{
				{Type: schema.TypeDateNanos, Aggregatable: true},
				{Type: schema.TypeDate, Aggregatable: false},
			},
		},
		{
			name:     "types outside any family are untouched",
			observed: []string{schema.TypeKeyword, schema.TypeBoolean},
			wantCaps: []schema.ColumnCapability{
				{Type: schema.TypeKeyword, Aggregatable: true},
				{Type: schema.TypeBoolean, Aggregatable: true},
			},
		},
		{
			name:     "text is never aggregatable",
			observed: []string{schema.TypeText},
			wantCaps: []schema.ColumnCapability{
				{Type: schema.TypeText, Aggregatable: false},
			},
		},
		{
			name:     "unknown types are omitted",
			observed: []string{"geo_shape", schema.TypeLong},
			wantCaps: []schema.ColumnCapability{
				{Type: schema.TypeLong, Aggregatable: true},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.wantCaps, CoercionTable(tc.observed))
		})
	}
}

func TestTableProbe_CoercionInfo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	probe := NewTableProbe(newTestCatalog(t))

	caps, err := probe.CoercionInfo(ctx, "fieldcaps", "mixed")
	require.NoError(t, err)
	require.ElementsMatch(t, []schema.ColumnCapability{
		{Type: schema.TypeLong, Aggregatable: false},
		{Type: schema.TypeDouble, Aggregatable: true},
	}, caps)

	caps, err = probe.CoercionInfo(ctx, "fieldcaps", "date")
	require.NoError(t, err)
	require.Equal(t, []schema.ColumnCapability{
		{Type: schema.TypeDateNanos, Aggregatable: true},
	}, caps)

	_, err = probe.CoercionInfo(ctx, "missing", "date")
	require.ErrorAs(t, err, &schema.ErrSchemaNotFound{})
}

func TestCoercionResolver_Resolve(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name    string
		entries []schema.Field
		probe   *schemamocks.ColumnProbe

		wantEntries []schema.Field
		wantErr     error
	}{
		{
			name: "uncontested entries skip the probe",
			entries: []schema.Field{
				{Name: "date", Type: schema.TypeDateNanos, Searchable: true, Aggregatable: true},
			},
			probe: &schemamocks.ColumnProbe{
				CoercionInfoFn: func(context.Context, string, string) ([]schema.ColumnCapability, error) {
					return nil, errTest
				},
			},

			wantEntries: []schema.Field{
				{Name: "date", Type: schema.TypeDateNanos, Searchable: true, Aggregatable: true},
			},
			wantErr: nil,
		},
		{
			name: "contested family follows the probe verdict",
			entries: []schema.Field{
				{Name: "mixed", Type: schema.TypeLong, Searchable: true, Aggregatable: true},
				{Name: "mixed", Type: schema.TypeDouble, Searchable: true, Aggregatable: true},
			},
			probe: &schemamocks.ColumnProbe{
				CoercionInfoFn: func(context.Context, string, string) ([]schema.ColumnCapability, error) {
					return []schema.ColumnCapability{
						{Type: schema.TypeLong, Aggregatable: false},
						{Type: schema.TypeDouble, Aggregatable: true},
					}, nil
				},
			},

			wantEntries: []schema.Field{
				{Name: "mixed", Type: schema.TypeLong, Searchable: true, Aggregatable: false},
				{Name: "mixed", Type: schema.TypeDouble, Searchable: true, Aggregatable: true},
			},
			wantErr: nil,
		},
		{
			name: "unclassified contested entries are omitted",
			entries: []schema.Field{
				{Name: "when", Type: schema.TypeDate, Searchable: true, Aggregatable: true},
				{Name: "when", Type: schema.TypeDateNanos, Searchable: true, Aggregatable: true},
			},
			probe: &schemamocks.ColumnProbe{
				CoercionInfoFn: func(context.Context, string, string) ([]schema.ColumnCapability, error) {
					return []schema.ColumnCapability{
						{Type: schema.TypeDateNanos, Aggregatable: true},
					}, nil
				},
			},

			wantEntries: []schema.Field{
				{Name: "when", Type: schema.TypeDateNanos, Searchable: true, Aggregatable: true},
			},
			wantErr: nil,
		},
		{
			name: "disabled doc values stay disabled",
			entries: []schema.Field{
				{Name: "mixed", Type: schema.TypeLong, Searchable: true, Aggregatable: true},
				{Name: "mixed", Type: schema.TypeDouble, Searchable: true, Aggregatable: false},
			},
			probe: &schemamocks.ColumnProbe{
				CoercionInfoFn: func(context.Context, string, string) ([]schema.ColumnCapability, error) {
					return []schema.ColumnCapability{
						{Type: schema.TypeLong, Aggregatable: false},
						{Type: schema.TypeDouble, Aggregatable: true},
					}, nil
				},
			},

			wantEntries: []schema.Field{
				{Name: "mixed", Type: schema.TypeLong, Searchable: true, Aggregatable: false},
				{Name: "mixed", Type: schema.TypeDouble, Searchable: true, Aggregatable: false},
			},
			wantErr: nil,
		},
		{
			name: "error - probe failed",
			entries: []schema.Field{
				{Name: "mixed", Type: schema.TypeLong, Searchable: true, Aggregatable: true},
				{Name: "mixed", Type: schema.TypeDouble, Searchable: true, Aggregatable: true},
			},
			probe: &schemamocks.ColumnProbe{
				CoercionInfoFn: func(context.Context, string, string) ([]schema.ColumnCapability, error) {
					return nil, errTest
				},
			},

			wantEntries: nil,
			wantErr:     errTest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			resolver := &coercionResolver{probe: tc.probe}
			entries, err := resolver.resolve(ctx, "fieldcaps", tc.entries[0].Name, tc.entries)
			require.ErrorIs(t, err, tc.wantErr)
			require.Equal(t, tc.wantEntries, entries)
		})
	}
}
