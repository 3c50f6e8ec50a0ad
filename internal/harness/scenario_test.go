package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, `
name: test_scenario
description: "Test scenario for validation"
rules: rules/test.rules
queries:
  - left: "b a"
    right: "p a"
    i: 0
    j: 0
    l1: en
    l2: de
    expect: true
distances:
  - left: "b a"
    right: "p a"
    expect: 0.5
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Test scenario for validation", scenario.Description)
	assert.Equal(t, filepath.Join(dir, "rules", "test.rules"), scenario.Rules)
	require.Len(t, scenario.Queries, 1)
	assert.Equal(t, QueryCase{Left: "b a", Right: "p a", L1: "en", L2: "de", Expect: true}, scenario.Queries[0])
	require.Len(t, scenario.Distances, 1)
	assert.Equal(t, 0.5, scenario.Distances[0].Expect)
}

func TestLoadScenario_AbsoluteRulesPath(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(t.TempDir(), "x.rules")
	path := writeScenario(t, dir, `
name: abs
description: "absolute rules path"
rules: `+abs+`
distances:
  - left: "a"
    right: "b"
    expect: 1
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, abs, scenario.Rules)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_UnknownField(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: typo
description: "typo in a field name"
source: "a ~ b"
query:
  - left: "a"
    right: "b"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing name",
			content: `
description: "d"
source: "a ~ b"
distances: [{left: a, right: b, expect: 0}]
`,
			wantErr: "name is required",
		},
		{
			name: "missing description",
			content: `
name: n
source: "a ~ b"
distances: [{left: a, right: b, expect: 0}]
`,
			wantErr: "description is required",
		},
		{
			name: "no rules",
			content: `
name: n
description: d
distances: [{left: a, right: b, expect: 0}]
`,
			wantErr: "one of rules or source is required",
		},
		{
			name: "rules and source",
			content: `
name: n
description: d
rules: x.rules
source: "a ~ b"
distances: [{left: a, right: b, expect: 0}]
`,
			wantErr: "mutually exclusive",
		},
		{
			name: "no cases",
			content: `
name: n
description: d
source: "a ~ b"
`,
			wantErr: "at least one query or distance case is required",
		},
		{
			name: "empty query word",
			content: `
name: n
description: d
source: "a ~ b"
queries: [{left: "  ", right: b, i: 0, j: 0, expect: true}]
`,
			wantErr: "queries[0]: left and right words are required",
		},
		{
			name: "negative distance",
			content: `
name: n
description: d
source: "a ~ b"
distances: [{left: a, right: b, expect: -1}]
`,
			wantErr: "distances[0]: expect must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
