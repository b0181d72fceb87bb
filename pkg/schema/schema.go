// SPDX-License-Identifier: Apache-2.0

// Package schema models the read-only, per-index field schema consumed by the
// field-capabilities resolution. Snapshots are captured once per request from
// the index catalog and never mutated.
package schema

import (
	"context"
	"sort"

	"github.com/rs/xid"
)

// Physical types an index column can be stored as. A single logical field
// name may map to more than one of these at once, either because documents
// stored different value shapes or because a string field is indexed with
// both an exact and a full-text representation.
const (
	TypeLong      = "long"
	TypeDouble    = "double"
	TypeKeyword   = "keyword"
	TypeText      = "text"
	TypeIP        = "ip"
	TypeDate      = "date"
	TypeDateNanos = "date_nanos"
	TypeBoolean   = "boolean"
)

// Engine-reserved columns, exposed as metadata fields. FieldPresenceName
// tracks which fields are present in each document, IndexNameField holds the
// owning index name, and VersionField the document version.
const (
	FieldPresenceName = "_field_presence"
	IndexNameField    = "_index"
	VersionField      = "_version"
)

var knownTypes = map[string]struct{}{
	TypeLong:      {},
	TypeDouble:    {},
	TypeKeyword:   {},
	TypeText:      {},
	TypeIP:        {},
	TypeDate:      {},
	TypeDateNanos: {},
	TypeBoolean:   {},
}

// IsKnownType reports whether t belongs to the closed set of physical types.
func IsKnownType(t string) bool {
	_, found := knownTypes[t]
	return found
}

// Field is one (name, physical type) entry of an index schema, along with its
// capability flags. Nested object sub-fields appear flattened to dotted
// paths.
type Field struct {
	Name         string
	Type         string
	Metadata     bool
	Searchable   bool
	Aggregatable bool
}

// Snapshot is a self-consistent view of a single index schema. Fields are
// ordered by name, then type.
type Snapshot struct {
	ID        xid.ID
	IndexName string
	Version   int64
	Fields    []Field
}

// FieldNames returns the distinct field names in the snapshot, in order.
func (s *Snapshot) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	var last string
	for _, f := range s.Fields {
		if f.Name != last {
			names = append(names, f.Name)
			last = f.Name
		}
	}
	return names
}

// FieldsByName groups the snapshot entries by field name, preserving type
// order within each group.
func (s *Snapshot) FieldsByName() map[string][]Field {
	grouped := make(map[string][]Field)
	for _, f := range s.Fields {
		grouped[f.Name] = append(grouped[f.Name], f)
	}
	return grouped
}

func sortFields(fields []Field) {
	sort.Slice(fields, func(i, j int) bool {
		if fields[i].Name != fields[j].Name {
			return fields[i].Name < fields[j].Name
		}
		return fields[i].Type < fields[j].Type
	})
}

// Catalog is the externally owned index catalog the resolution queries. Reads
// are snapshot isolated: GetSchema captures a self-consistent view even if
// the schema changes mid-request.
type Catalog interface {
	ListIndices(ctx context.Context) ([]string, error)
	GetSchema(ctx context.Context, indexName string) (*Snapshot, error)
	Close() error
}

// ColumnCapability is the columnar storage layer's verdict for one physical
// type of a field: whether a single-typed column could be materialised for
// aggregation.
type ColumnCapability struct {
	Type         string
	Aggregatable bool
}

// ColumnProbe consults the columnar storage layer for the coercion behaviour
// of a field stored under multiple physical types.
type ColumnProbe interface {
	CoercionInfo(ctx context.Context, indexName, fieldName string) ([]ColumnCapability, error)
}
