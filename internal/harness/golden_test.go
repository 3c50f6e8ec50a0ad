package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_Scenarios(t *testing.T) {
	for _, name := range []string{"devoicing", "vowels"} {
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
			require.NoError(t, err)
			require.NoError(t, RunWithGolden(t, scenario))
		})
	}
}

func TestParseStage(t *testing.T) {
	for _, s := range Stages {
		got, err := ParseStage(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseStage("lex")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown stage "lex"`)
}

func TestWriteStage_Split(t *testing.T) {
	compiled, err := Compile(&Scenario{Source: "b ~ p / a _\n"})
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, WriteStage(&sb, compiled, StageSplit))
	assert.Equal(t, "== split (1)\n_ _. b ~ p before=[a] [a] after=[] []\n", sb.String())
	assert.Equal(t, 1, StageLen(compiled, StageSplit))
	assert.Len(t, StageValue(compiled, StageExpand), 1)
}

func TestWriteStage_UnknownStage(t *testing.T) {
	compiled, err := Compile(&Scenario{Source: "a ~ b\n"})
	require.NoError(t, err)

	var sb strings.Builder
	err = WriteStage(&sb, compiled, Stage("bogus"))
	require.Error(t, err)
	assert.Empty(t, sb.String())
}
