package compiler

import (
	"log/slog"

	"github.com/palasimi/ipa-cluster/internal/dsl"
	"github.com/palasimi/ipa-cluster/internal/ir"
	"github.com/palasimi/ipa-cluster/internal/lowering"
)

// Option configures compilation.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger for stage and diagnostic records.
// Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Result is the full output of a compilation.
type Result struct {
	SourceID    string
	Program     *ir.Program
	Stages      *lowering.Stages
	Diagnostics []Diagnostic
	Querier     *Querier
}

// Compile compiles code into a Querier.
// Returns a *dsl.ParseError if the code is malformed; no Querier is built
// in that case.
func Compile(code string, opts ...Option) (*Querier, error) {
	result, err := Build(code, opts...)
	if err != nil {
		return nil, err
	}
	return result.Querier, nil
}

// Build compiles code and keeps every intermediate stage.
func Build(code string, opts ...Option) (*Result, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger

	sourceID := ir.SourceID(code)
	program, err := dsl.Parse(code)
	if err != nil {
		logger.Debug("parse failed", "source", sourceID, "error", err)
		return nil, err
	}
	logger.Debug("parsed", "source", sourceID, "rulesets", len(program.Rulesets))

	diagnostics := Diagnose(program)
	for _, d := range diagnostics {
		logger.Warn("compile diagnostic", "segment", d.Segment, "message", d.Message)
	}

	stages := &lowering.Stages{}
	stages.Squashed = lowering.Squash(program)
	logger.Debug("squashed", "rules", len(stages.Squashed))
	stages.Expanded = lowering.Expand(stages.Squashed)
	logger.Debug("expanded", "rules", len(stages.Expanded))
	stages.Aligned = lowering.Align(stages.Expanded)
	logger.Debug("aligned", "rules", len(stages.Aligned))
	stages.Split = lowering.Split(stages.Aligned)
	logger.Debug("split", "rules", len(stages.Split))

	querier := NewQuerier(stages.Split)
	logger.Debug("compiled", "source", sourceID, "pairs", querier.Len())

	return &Result{
		SourceID:    sourceID,
		Program:     program,
		Stages:      stages,
		Diagnostics: diagnostics,
		Querier:     querier,
	}, nil
}
