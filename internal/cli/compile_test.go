package cli

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palasimi/ipa-cluster/internal/ir"
)

func TestCompileText(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.txt", devoicingRules)

	output, err := execute(NewCompileCommand(&RootOptions{Format: "text"}), rules)
	require.NoError(t, err)

	assert.Contains(t, output, "✓ Compiled")
	assert.Contains(t, output, "2 split rule(s), 2 segment pair(s)")
	assert.Contains(t, output, "== split (2)\n")
	assert.Contains(t, output, "en de. b ~ p before=[] [] after=[#] [#]\n")
	assert.Contains(t, output, "en de. d ~ t before=[] [] after=[#] [#]\n")
}

func TestCompileStage(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.txt", devoicingRules)

	output, err := execute(NewCompileCommand(&RootOptions{Format: "text"}), rules, "--stage", "expand")
	require.NoError(t, err)
	assert.Contains(t, output, "== expand (2)\n")
	assert.Contains(t, output, "en de. b # ~ p #\n")
	assert.NotContains(t, output, "== split")
}

func TestCompileUnknownStage(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.txt", devoicingRules)

	output, err := execute(NewCompileCommand(&RootOptions{Format: "text"}), rules, "--stage", "lex")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, output, `unknown stage "lex"`)
}

func TestCompileJSON(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.txt", devoicingRules)

	output, err := execute(NewCompileCommand(&RootOptions{Format: "json"}), rules)
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			SourceID string         `json:"source_id"`
			Stage    string         `json:"stage"`
			Count    int            `json:"count"`
			Pairs    int            `json:"pairs"`
			Rules    []ir.SplitRule `json:"rules"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, ir.SourceID(devoicingRules), resp.Data.SourceID)
	assert.Equal(t, "split", resp.Data.Stage)
	assert.Equal(t, 2, resp.Data.Count)
	assert.Equal(t, 2, resp.Data.Pairs)
	require.Len(t, resp.Data.Rules, 2)
	assert.Equal(t, "b", resp.Data.Rules[0].Left)
	assert.Equal(t, []string{ir.Boundary}, resp.Data.Rules[0].LeftAfterContext)
}

func TestCompileParseError(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.txt", "a ~ !\n")

	output, err := execute(NewCompileCommand(&RootOptions{Format: "text"}), rules)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, output, rules+":1:5")
	assert.Contains(t, output, "Error [E301]")
	assert.Contains(t, output, "expected a sound value at line 1, column 5; found: !")
}

func TestCompileParseErrorJSON(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.txt", "a ~ !\n")

	output, err := execute(NewCompileCommand(&RootOptions{Format: "json"}), rules)
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeParse, resp.Error.Code)
	details, ok := resp.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), details["line"])
	assert.Equal(t, float64(5), details["column"])
}

func TestCompileMissingFile(t *testing.T) {
	output, err := execute(NewCompileCommand(&RootOptions{Format: "text"}), "/nonexistent/rules.txt")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, output, "Error [E005]")
	assert.Contains(t, output, "rule file not found")
}

func TestCompileOutputFile(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.txt", devoicingRules)
	outPath := filepath.Join(dir, "split.json")

	output, err := execute(NewCompileCommand(&RootOptions{Format: "text"}), rules, "-o", outPath)
	require.NoError(t, err)
	assert.Contains(t, output, "Wrote split IR to "+outPath)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var split []ir.SplitRule
	require.NoError(t, json.Unmarshal(data, &split))
	assert.Len(t, split, 2)
}

func TestCompileDiagnostics(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.txt", "e\u0301 ~ e\n")

	output, err := execute(NewCompileCommand(&RootOptions{Format: "text", Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}), rules)
	require.NoError(t, err)
	assert.Contains(t, output, "warning:")
	assert.Contains(t, output, "not in NFC form")
}

func TestQuery(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.txt", devoicingRules)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"final devoicing", []string{"--left", "b a d", "--right", "b a t", "-i", "2", "-j", "2", "--l1", "en", "--l2", "de"}, "true\n"},
		{"swapped languages", []string{"--left", "b a d", "--right", "b a t", "-i", "2", "-j", "2", "--l1", "de", "--l2", "en"}, "false\n"},
		{"not final", []string{"--left", "d a", "--right", "t a", "--l1", "en", "--l2", "de"}, "false\n"},
		{"equal segments", []string{"--left", "b a d", "--right", "b a d"}, "true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := execute(NewQueryCommand(&RootOptions{Format: "text"}), append([]string{rules}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, output)
		})
	}
}

func TestQueryJSON(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.txt", devoicingRules)

	output, err := execute(NewQueryCommand(&RootOptions{Format: "json"}),
		rules, "--left", "b a d", "--right", "b a t", "-i", "2", "-j", "2", "--l1", "en", "--l2", "de")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   QueryResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.True(t, resp.Data.Match)
	assert.Equal(t, []string{"b", "a", "d"}, resp.Data.Left)
	assert.Equal(t, "en", resp.Data.L1)
}

func TestQueryMissingWord(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.txt", devoicingRules)

	_, err := execute(NewQueryCommand(&RootOptions{Format: "text"}), rules, "--left", "b a d")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"right"`)
}

func TestDistance(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.txt", devoicingRules)

	tests := []struct {
		name  string
		words []string
		want  string
	}{
		{"licensed", []string{"b a d", "b a t"}, "0\n"},
		{"unlicensed context", []string{"d a", "t a"}, "1\n"},
		{"one licensed edit", []string{"b a d", "p a t"}, "1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{rules}, tt.words...)
			args = append(args, "--l1", "en", "--l2", "de")
			output, err := execute(NewDistanceCommand(&RootOptions{Format: "text"}), args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, output)
		})
	}
}

func TestDistanceJSON(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.txt", devoicingRules)

	output, err := execute(NewDistanceCommand(&RootOptions{Format: "json"}), rules, "k a t", "k u t")
	require.NoError(t, err)

	var resp struct {
		Data DistanceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, 1.0, resp.Data.Distance)
	assert.Equal(t, ir.Wildcard, resp.Data.L1)
}

func TestDistanceArgs(t *testing.T) {
	_, err := execute(NewDistanceCommand(&RootOptions{Format: "text"}), "rules.txt", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 3 arg")
}
