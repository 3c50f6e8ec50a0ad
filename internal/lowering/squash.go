package lowering

import "github.com/palasimi/ipa-cluster/internal/ir"

// Squash flattens rulesets into a single list of rules, each carrying the
// constraint of its ruleset. Source order is preserved.
func Squash(program *ir.Program) []ir.SquashedRule {
	if program == nil {
		return nil
	}

	var rules []ir.SquashedRule
	for _, ruleset := range program.Rulesets {
		for _, rule := range ruleset.Rules {
			rules = append(rules, ir.SquashedRule{
				Rule:       rule,
				Constraint: ruleset.Constraint,
			})
		}
	}
	return rules
}
