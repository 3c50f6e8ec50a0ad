package compiler

import (
	"golang.org/x/text/unicode/norm"

	"github.com/palasimi/ipa-cluster/internal/ir"
)

// Diagnostic is a non-fatal finding about the source.
type Diagnostic struct {
	Segment string `json:"segment"`
	Message string `json:"message"`
}

const msgNotNFC = "segment is not in NFC form; it will not match its composed spelling"

// Diagnose reports every distinct segment that is not NFC-normalized, in
// order of first appearance. Segments are compared as written, so a
// decomposed segment never matches its composed twin.
func Diagnose(program *ir.Program) []Diagnostic {
	if program == nil {
		return nil
	}

	var out []Diagnostic
	seen := make(map[string]bool)
	check := func(sounds []ir.Sound) {
		for _, sound := range sounds {
			for _, segment := range ir.Choices(sound) {
				if seen[segment] {
					continue
				}
				seen[segment] = true
				if !norm.NFC.IsNormalString(segment) {
					out = append(out, Diagnostic{Segment: segment, Message: msgNotNFC})
				}
			}
		}
	}

	for _, ruleset := range program.Rulesets {
		for _, rule := range ruleset.Rules {
			check(rule.Environment.Left)
			check(rule.Left)
			check(rule.Right)
			check(rule.Environment.Right)
		}
	}
	return out
}
