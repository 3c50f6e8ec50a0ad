package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario is a set of expectations about one rule file.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Rules is the path of the rule file. Relative paths are resolved
	// against the scenario file by LoadScenario.
	Rules string `yaml:"rules,omitempty"`

	// Source holds the rules inline. Exactly one of Rules and Source is set.
	Source string `yaml:"source,omitempty"`

	Queries   []QueryCase    `yaml:"queries,omitempty"`
	Distances []DistanceCase `yaml:"distances,omitempty"`
}

// QueryCase checks whether Left[I] may correspond to Right[J].
type QueryCase struct {
	Left   string `yaml:"left"`
	Right  string `yaml:"right"`
	I      int    `yaml:"i"`
	J      int    `yaml:"j"`
	L1     string `yaml:"l1,omitempty"`
	L2     string `yaml:"l2,omitempty"`
	Expect bool   `yaml:"expect"`
}

// DistanceCase checks the rule-weighted edit distance between two words.
type DistanceCase struct {
	Left   string  `yaml:"left"`
	Right  string  `yaml:"right"`
	L1     string  `yaml:"l1,omitempty"`
	L2     string  `yaml:"l2,omitempty"`
	Expect float64 `yaml:"expect"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Rules != "" && !filepath.IsAbs(scenario.Rules) {
		scenario.Rules = filepath.Join(filepath.Dir(path), scenario.Rules)
	}
	return scenario, nil
}

// ParseScenario parses scenario YAML. Relative rule paths are left as is.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "query:" vs "queries:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Rules == "" && s.Source == "":
		return fmt.Errorf("one of rules or source is required")
	case s.Rules != "" && s.Source != "":
		return fmt.Errorf("rules and source are mutually exclusive")
	}

	if len(s.Queries) == 0 && len(s.Distances) == 0 {
		return fmt.Errorf("at least one query or distance case is required")
	}

	for i, q := range s.Queries {
		if strings.TrimSpace(q.Left) == "" || strings.TrimSpace(q.Right) == "" {
			return fmt.Errorf("queries[%d]: left and right words are required", i)
		}
	}

	for i, d := range s.Distances {
		if d.Expect < 0 {
			return fmt.Errorf("distances[%d]: expect must be non-negative", i)
		}
	}
	return nil
}
