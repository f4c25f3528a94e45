// Package fixtures loads the acceptance-scenario catalogue from YAML.
// The catalogue is descriptive metadata for cmd/invertdump and for
// keeping the scenario names in one place; the scenarios' actual
// predicate ASTs and assertions live in each package's _test.go
// files, since an AST is awkward to author in YAML and Go's
// table-driven tests already do that job well.
package fixtures

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Scenario is one row of the acceptance catalogue.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Cardinality string `yaml:"cardinality"`
	Total       bool   `yaml:"total"`
}

// Catalogue is the parsed form of testdata/scenarios.yaml.
type Catalogue struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Load parses raw YAML bytes into a Catalogue.
func Load(data []byte) (Catalogue, error) {
	var cat Catalogue
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return Catalogue{}, fmt.Errorf("fixtures: parse catalogue: %w", err)
	}
	return cat, nil
}

// ByName returns the scenario with the given name, or ok=false.
func (c Catalogue) ByName(name string) (Scenario, bool) {
	for _, s := range c.Scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}
