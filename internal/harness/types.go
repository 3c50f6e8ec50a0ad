package harness

import (
	"fmt"

	"github.com/palasimi/ipa-cluster/internal/compiler"
)

// Failure is one unmet expectation.
type Failure struct {
	// Case locates the expectation, e.g. "queries[2]".
	Case    string `json:"case"`
	Message string `json:"message"`
}

func (f Failure) String() string {
	return f.Case + ": " + f.Message
}

// Result is the outcome of a scenario execution.
type Result struct {
	Name string `json:"name"`

	// Pass is true if every case met its expectation.
	Pass bool `json:"pass"`

	// Checked counts the evaluated cases.
	Checked int `json:"checked"`

	Failures []Failure `json:"failures,omitempty"`

	// Diagnostics are the compile diagnostics of the rule file.
	Diagnostics []compiler.Diagnostic `json:"diagnostics,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(name string) *Result {
	return &Result{
		Name:     name,
		Pass:     true,
		Failures: []Failure{},
	}
}

// AddFailure records a failure and marks the result as failed.
func (r *Result) AddFailure(kase, format string, args ...any) {
	r.Failures = append(r.Failures, Failure{Case: kase, Message: fmt.Sprintf(format, args...)})
	r.Pass = false
}
