package lowering

import "github.com/palasimi/ipa-cluster/internal/ir"

// Expand removes unions by Cartesian expansion.
//
// For example, `{a b} ~ {x y}` becomes a ~ x, a ~ y, b ~ x and b ~ y.
// An explicit environment is folded into both sides, so `b ~ p / _ #`
// becomes `b # ~ p #`. Interior and duplicate boundaries are removed.
func Expand(rules []ir.SquashedRule) []ir.ExpandedRule {
	var expanded []ir.ExpandedRule
	for _, rule := range rules {
		lefts := Concatenate(withEnvironment(rule.Left, rule.Environment)...)
		rights := Concatenate(withEnvironment(rule.Right, rule.Environment)...)

		for _, left := range lefts {
			for _, right := range rights {
				expanded = append(expanded, ir.ExpandedRule{
					Constraint: rule.Constraint,
					Left:       clean(left),
					Right:      clean(right),
				})
			}
		}
	}
	return expanded
}

// withEnvironment returns env.Left ++ side ++ env.Right for explicit
// environments, and side otherwise.
func withEnvironment(side []ir.Sound, env ir.Environment) []ir.Sound {
	if !env.Explicit {
		return side
	}
	out := make([]ir.Sound, 0, len(env.Left)+len(side)+len(env.Right))
	out = append(out, env.Left...)
	out = append(out, side...)
	return append(out, env.Right...)
}

// Concatenate returns every segment sequence obtainable by choosing one
// segment from each sound. Null sounds contribute nothing.
// The result always holds at least one (possibly empty) sequence.
func Concatenate(sounds ...ir.Sound) [][]string {
	sequences := [][]string{{}}
	for _, sound := range sounds {
		choices := ir.Choices(sound)
		if len(choices) == 0 {
			continue
		}

		next := make([][]string, 0, len(sequences)*len(choices))
		for _, sequence := range sequences {
			for _, choice := range choices {
				extended := make([]string, len(sequence), len(sequence)+1)
				copy(extended, sequence)
				next = append(next, append(extended, choice))
			}
		}
		sequences = next
	}
	return sequences
}

// clean drops every boundary after the first element, then restores a single
// trailing boundary if the sequence originally ended with one.
func clean(sequence []string) []string {
	if len(sequence) == 0 {
		return []string{}
	}

	result := []string{sequence[0]}
	for _, segment := range sequence[1:] {
		if segment == ir.Boundary {
			continue
		}
		result = append(result, segment)
	}

	if result[len(result)-1] != ir.Boundary && sequence[len(sequence)-1] == ir.Boundary {
		result = append(result, ir.Boundary)
	}
	return result
}
