// SPDX-License-Identifier: Apache-2.0

package fieldcaps

import (
	"fmt"
	"sort"

	"github.com/coraldb/fieldcaps/pkg/schema"
)

// flagCombo identifies one distinct capability combination observed for a
// physical type across indices.
type flagCombo struct {
	typ          string
	metadata     bool
	searchable   bool
	aggregatable bool
}

// mergeFieldCapabilities reduces the per-index entries for one field into a
// capability map keyed by physical type. Indices that agree on every flag for
// a type are listed together under a single entry. Indices that disagree are
// never averaged: each distinct flag combination is emitted as its own entry,
// listing only the indices sharing it. Additional combinations for the same
// type are keyed with a positional suffix (e.g. "keyword#2").
func mergeFieldCapabilities(perIndex map[string][]schema.Field) map[string]TypeCapability {
	// index sets, not lists: one index may emit the same (type, flags) entry
	// more than once, e.g. a multi-field repeating its parent's type
	combos := map[flagCombo]map[string]struct{}{}
	for index, entries := range perIndex {
		for _, entry := range entries {
			key := flagCombo{
				typ:          entry.Type,
				metadata:     entry.Metadata,
				searchable:   entry.Searchable,
				aggregatable: entry.Aggregatable,
			}
			if combos[key] == nil {
				combos[key] = map[string]struct{}{}
			}
			combos[key][index] = struct{}{}
		}
	}

	byType := map[string][]TypeCapability{}
	for combo, indexSet := range combos {
		indices := make([]string, 0, len(indexSet))
		for index := range indexSet {
			indices = append(indices, index)
		}
		sort.Strings(indices)
		byType[combo.typ] = append(byType[combo.typ], TypeCapability{
			Type:          combo.typ,
			MetadataField: combo.metadata,
			Searchable:    combo.searchable,
			Aggregatable:  combo.aggregatable,
			Indices:       indices,
		})
	}

	merged := make(map[string]TypeCapability, len(byType))
	for typ, capabilities := range byType {
		// deterministic ordering: the combination shared by the most
		// indices comes first and keeps the bare type key
		sort.Slice(capabilities, func(i, j int) bool {
			if len(capabilities[i].Indices) != len(capabilities[j].Indices) {
				return len(capabilities[i].Indices) > len(capabilities[j].Indices)
			}
			return capabilities[i].Indices[0] < capabilities[j].Indices[0]
		})

		for pos, capability := range capabilities {
			key := typ
			if pos > 0 {
				key = fmt.Sprintf("%s#%d", typ, pos+1)
			}
			merged[key] = capability
		}
	}

	return merged
}
