package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden compiles the scenario's rules and compares the stage dump
// against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	compiled, err := Compile(scenario)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, Dump(compiled))
	return nil
}
