// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	jsonlib "github.com/coraldb/fieldcaps/internal/json"
)

// Fixture describes a catalog loaded from a yaml file. Each entry carries the
// index name and its mapping document expressed as nested yaml.
type Fixture struct {
	Indices []FixtureIndex `yaml:"indices"`
}

type FixtureIndex struct {
	Name    string         `yaml:"name"`
	Version int64          `yaml:"version"`
	Mapping map[string]any `yaml:"mapping"`
}

// NewMemoryCatalogFromFixtureFile builds an in-memory catalog from a yaml
// fixture file.
func NewMemoryCatalogFromFixtureFile(path string) (*MemoryCatalog, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture file: %w", err)
	}
	return NewMemoryCatalogFromFixture(contents)
}

func NewMemoryCatalogFromFixture(contents []byte) (*MemoryCatalog, error) {
	var fixture Fixture
	if err := yaml.Unmarshal(contents, &fixture); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}

	catalog := NewMemoryCatalog()
	for _, idx := range fixture.Indices {
		mappingDoc, err := jsonlib.Marshal(idx.Mapping)
		if err != nil {
			return nil, fmt.Errorf("encoding mapping for index %s: %w", idx.Name, err)
		}
		snapshot, err := NewSnapshot(idx.Name, idx.Version, mappingDoc)
		if err != nil {
			return nil, fmt.Errorf("building snapshot for index %s: %w", idx.Name, err)
		}
		catalog.Add(snapshot)
	}

	return catalog, nil
}
