package harness

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/palasimi/ipa-cluster/internal/compiler"
	"github.com/palasimi/ipa-cluster/internal/ir"
	"github.com/palasimi/ipa-cluster/internal/metric"
)

// tolerance is the allowed difference between expected and actual distances.
const tolerance = 1e-9

// Compile reads the scenario's rules and compiles them.
// Logs are suppressed unless opts sets a logger.
func Compile(scenario *Scenario, opts ...compiler.Option) (*compiler.Result, error) {
	code := scenario.Source
	if scenario.Rules != "" {
		data, err := os.ReadFile(scenario.Rules)
		if err != nil {
			return nil, fmt.Errorf("failed to read rules: %w", err)
		}
		code = string(data)
	}

	opts = append([]compiler.Option{
		compiler.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)

	result, err := compiler.Build(code, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to compile rules: %w", err)
	}
	return result, nil
}

// Run compiles the scenario's rules and evaluates every case.
//
// An error is returned only when the rules cannot be read or compiled;
// unmet expectations are reported in the Result.
func Run(scenario *Scenario, opts ...compiler.Option) (*Result, error) {
	compiled, err := Compile(scenario, opts...)
	if err != nil {
		return nil, err
	}

	result := NewResult(scenario.Name)
	result.Diagnostics = compiled.Diagnostics
	q := compiled.Querier

	for i, c := range scenario.Queries {
		result.Checked++
		left, right := strings.Fields(c.Left), strings.Fields(c.Right)
		got := q.Query(left, right, c.I, c.J, language(c.L1), language(c.L2))
		if got != c.Expect {
			result.AddFailure(fmt.Sprintf("queries[%d]", i),
				"query %q[%d] (%s) ~ %q[%d] (%s): expected %t, got %t",
				c.Left, c.I, language(c.L1), c.Right, c.J, language(c.L2), c.Expect, got)
		}
	}

	for i, c := range scenario.Distances {
		result.Checked++
		cost := metric.FromQuerier(q, c.L1, c.L2)
		got := metric.Distance(strings.Fields(c.Left), strings.Fields(c.Right), cost)
		if math.Abs(got-c.Expect) > tolerance {
			result.AddFailure(fmt.Sprintf("distances[%d]", i),
				"distance %q (%s) to %q (%s): expected %g, got %g",
				c.Left, language(c.L1), c.Right, language(c.L2), c.Expect, got)
		}
	}

	return result, nil
}

func language(code string) string {
	if code == "" {
		return ir.Wildcard
	}
	return code
}
