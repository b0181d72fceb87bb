// SPDX-License-Identifier: Apache-2.0

// Package fieldcaps implements the field-capabilities resolution: given an
// index-name pattern and a set of field-name patterns, it reports the
// physical types that exist for each matched field, whether each (field,
// type) combination is searchable and aggregatable, and across which indices.
package fieldcaps

import "context"

// Request is a single resolution request. IndexPattern is a comma-separated
// sequence of index-name tokens, each a literal or a glob. An empty
// FieldPatterns selects every non-metadata field.
type Request struct {
	IndexPattern    string
	FieldPatterns   []string
	IncludeMetadata bool
}

// TypeCapability describes one (field, physical type) combination: its
// capability flags and the sorted indices exposing that exact combination.
// The Indices list is never empty.
type TypeCapability struct {
	Type          string   `json:"type"`
	MetadataField bool     `json:"metadata_field"`
	Searchable    bool     `json:"searchable"`
	Aggregatable  bool     `json:"aggregatable"`
	Indices       []string `json:"indices"`
}

// Result is the outcome of a successful resolution. Indices holds the sorted
// names of the indices that matched the index pattern and contributed at
// least one field. Fields maps field names to their per-type capabilities.
type Result struct {
	Indices []string                             `json:"indices"`
	Fields  map[string]map[string]TypeCapability `json:"fields"`
}

// Resolver is the resolution entry point. Implementations are stateless per
// request and safe for concurrent use.
type Resolver interface {
	Resolve(ctx context.Context, req *Request) (*Result, error)
}

func emptyResult() *Result {
	return &Result{
		Indices: []string{},
		Fields:  map[string]map[string]TypeCapability{},
	}
}
