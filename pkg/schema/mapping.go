// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"github.com/rs/xid"
	"github.com/tidwall/gjson"
)

// NewSnapshot builds an index schema snapshot from the catalog's mapping
// document. The returned snapshot includes the engine-reserved metadata
// fields on top of the user-defined schema.
func NewSnapshot(indexName string, version int64, mappingDoc []byte) (*Snapshot, error) {
	fields, err := FieldsFromMapping(mappingDoc)
	if err != nil {
		return nil, err
	}

	fields = append(fields, metadataFields()...)
	sortFields(fields)

	return &Snapshot{
		ID:        xid.New(),
		IndexName: indexName,
		Version:   version,
		Fields:    fields,
	}, nil
}

// FieldsFromMapping flattens a mapping document into schema field entries.
// Nested object properties become dotted paths, multi-field definitions emit
// one entry per representation under the parent field name, and dynamically
// observed value shapes ("types") emit one entry per shape.
func FieldsFromMapping(mappingDoc []byte) ([]Field, error) {
	if !gjson.ValidBytes(mappingDoc) {
		return nil, ErrInvalidMapping{Details: "not valid json"}
	}

	props := gjson.GetBytes(mappingDoc, "properties")
	if !props.Exists() || !props.IsObject() {
		return nil, ErrInvalidMapping{Details: "missing properties object"}
	}

	fields := []Field{}
	if err := collectProperties("", props, &fields); err != nil {
		return nil, err
	}
	sortFields(fields)

	return fields, nil
}

func collectProperties(prefix string, props gjson.Result, fields *[]Field) error {
	var walkErr error
	props.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if prefix != "" {
			name = prefix + "." + name
		}

		// object (or array of objects) fields carry nested properties
		// instead of a type
		if sub := value.Get("properties"); sub.Exists() {
			walkErr = collectProperties(name, sub, fields)
			return walkErr == nil
		}

		walkErr = collectLeaf(name, value, fields)
		return walkErr == nil
	})
	return walkErr
}

func collectLeaf(name string, def gjson.Result, fields *[]Field) error {
	searchable := true
	if index := def.Get("index"); index.Exists() && !index.Bool() {
		searchable = false
	}
	docValues := true
	if dv := def.Get("doc_values"); dv.Exists() && !dv.Bool() {
		docValues = false
	}

	types := []string{}
	switch {
	case def.Get("type").Exists():
		types = append(types, def.Get("type").String())
	case def.Get("types").Exists():
		for _, t := range def.Get("types").Array() {
			types = append(types, t.String())
		}
	default:
		return ErrInvalidMapping{Details: "field " + name + " has no type"}
	}

	for _, t := range types {
		if !IsKnownType(t) {
			return ErrTypeInvalid{Input: t}
		}
		*fields = append(*fields, Field{
			Name:         name,
			Type:         t,
			Searchable:   searchable,
			Aggregatable: docValues && defaultAggregatable(t),
		})
	}

	// multi-field representations (e.g. a keyword field with a full-text
	// variant) share the parent field name with their own type and flags
	multiFields := def.Get("fields")
	if !multiFields.Exists() {
		return nil
	}

	var multiErr error
	multiFields.ForEach(func(_, sub gjson.Result) bool {
		subType := sub.Get("type").String()
		if !IsKnownType(subType) {
			multiErr = ErrTypeInvalid{Input: subType}
			return false
		}
		*fields = append(*fields, Field{
			Name:         name,
			Type:         subType,
			Searchable:   searchable,
			Aggregatable: defaultAggregatable(subType),
		})
		return true
	})
	return multiErr
}

// Full-text columns have no single-typed column representation, so they are
// not aggregatable by default. Every other known type is.
func defaultAggregatable(t string) bool {
	return t != TypeText
}

func metadataFields() []Field {
	return []Field{
		{
			Name:         FieldPresenceName,
			Type:         TypeLong,
			Metadata:     true,
			Searchable:   true,
			Aggregatable: false,
		},
		{
			Name:         IndexNameField,
			Type:         TypeKeyword,
			Metadata:     true,
			Searchable:   true,
			Aggregatable: true,
		},
		{
			Name:         VersionField,
			Type:         TypeLong,
			Metadata:     true,
			Searchable:   false,
			Aggregatable: false,
		},
	}
}
