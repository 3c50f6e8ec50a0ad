package harness

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/palasimi/ipa-cluster/internal/compiler"
	"github.com/palasimi/ipa-cluster/internal/ir"
)

// Stage names a compiler stage.
type Stage string

const (
	StageParse  Stage = "parse"
	StageSquash Stage = "squash"
	StageExpand Stage = "expand"
	StageAlign  Stage = "align"
	StageSplit  Stage = "split"
)

// Stages lists every stage in pipeline order.
var Stages = []Stage{StageParse, StageSquash, StageExpand, StageAlign, StageSplit}

// ParseStage converts a stage name.
func ParseStage(name string) (Stage, error) {
	for _, s := range Stages {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown stage %q (valid: parse, squash, expand, align, split)", name)
}

// StageValue returns the IR of one stage, for JSON output.
func StageValue(result *compiler.Result, stage Stage) any {
	switch stage {
	case StageParse:
		return result.Program
	case StageSquash:
		return result.Stages.Squashed
	case StageExpand:
		return result.Stages.Expanded
	case StageAlign:
		return result.Stages.Aligned
	default:
		return result.Stages.Split
	}
}

// StageLen returns the number of rulesets (parse) or rules of a stage.
func StageLen(result *compiler.Result, stage Stage) int {
	switch stage {
	case StageParse:
		return len(result.Program.Rulesets)
	case StageSquash:
		return len(result.Stages.Squashed)
	case StageExpand:
		return len(result.Stages.Expanded)
	case StageAlign:
		return len(result.Stages.Aligned)
	default:
		return len(result.Stages.Split)
	}
}

// Dump renders every stage of result as text.
func Dump(result *compiler.Result) []byte {
	var buf bytes.Buffer
	for _, stage := range Stages {
		// bytes.Buffer writes never fail.
		_ = WriteStage(&buf, result, stage)
	}
	return buf.Bytes()
}

// WriteStage writes one stage of result as text: a header with the stage
// name and count, then one line per rule.
func WriteStage(w io.Writer, result *compiler.Result, stage Stage) error {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s (%d)\n", stage, StageLen(result, stage))

	switch stage {
	case StageParse:
		for _, rs := range result.Program.Rulesets {
			b.WriteString(formatConstraint(rs.Constraint) + "\n")
			for _, rule := range rs.Rules {
				b.WriteString("  " + formatRule(rule) + "\n")
			}
		}
	case StageSquash:
		for _, r := range result.Stages.Squashed {
			b.WriteString(formatConstraint(r.Constraint) + " " + formatRule(r.Rule) + "\n")
		}
	case StageExpand:
		for _, r := range result.Stages.Expanded {
			fmt.Fprintf(&b, "%s %s ~ %s\n", formatConstraint(r.Constraint), formatSequence(r.Left), formatSequence(r.Right))
		}
	case StageAlign:
		for _, r := range result.Stages.Aligned {
			fmt.Fprintf(&b, "%s %s ~ %s\n", formatConstraint(r.Constraint), formatSequence(r.Left), formatSequence(r.Right))
		}
	case StageSplit:
		for _, r := range result.Stages.Split {
			fmt.Fprintf(&b, "%s %s ~ %s before=%s %s after=%s %s\n",
				formatConstraint(r.Constraint), r.Left, r.Right,
				formatContext(r.LeftBeforeContext), formatContext(r.RightBeforeContext),
				formatContext(r.LeftAfterContext), formatContext(r.RightAfterContext))
		}
	default:
		return fmt.Errorf("unknown stage %q", stage)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func formatConstraint(c ir.Constraint) string {
	return c.Left + " " + c.Right + "."
}

func formatRule(rule ir.Rule) string {
	s := formatSounds(rule.Left) + " ~ " + formatSounds(rule.Right)
	if !rule.Environment.Explicit {
		return s
	}

	parts := make([]string, 0, 3)
	for _, sound := range rule.Environment.Left {
		parts = append(parts, sound.String())
	}
	parts = append(parts, ir.Wildcard)
	for _, sound := range rule.Environment.Right {
		parts = append(parts, sound.String())
	}
	return s + " / " + strings.Join(parts, " ")
}

func formatSounds(sounds []ir.Sound) string {
	parts := make([]string, len(sounds))
	for i, sound := range sounds {
		parts[i] = sound.String()
	}
	return strings.Join(parts, " ")
}

// formatSequence renders an empty sequence as the null sound.
func formatSequence(segments []string) string {
	if len(segments) == 0 {
		return ir.Null{}.String()
	}
	return strings.Join(segments, " ")
}

func formatContext(segments []string) string {
	return "[" + strings.Join(segments, " ") + "]"
}
