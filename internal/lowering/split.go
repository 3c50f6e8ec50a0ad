package lowering

import "github.com/palasimi/ipa-cluster/internal/ir"

// Split decomposes aligned rules into single-segment comparisons.
//
// Positions where both sides agree, or where either side is a boundary, are
// skipped. Every emitted rule is reoriented so that Left <= Right.
func Split(rules []ir.AlignedRule) []ir.SplitRule {
	var split []ir.SplitRule
	for _, rule := range rules {
		left, right := rule.Left, rule.Right
		for i := range left {
			a, b := left[i], right[i]
			if a == ir.Boundary || b == ir.Boundary {
				continue
			}
			if a == b {
				continue
			}

			split = append(split, reorder(ir.SplitRule{
				Constraint:         rule.Constraint,
				Left:               a,
				Right:              b,
				LeftBeforeContext:  reversed(left[:i]),
				LeftAfterContext:   append([]string{}, left[i+1:]...),
				RightBeforeContext: reversed(right[:i]),
				RightAfterContext:  append([]string{}, right[i+1:]...),
			}))
		}
	}
	return split
}

// reorder swaps the sides of rule when Left > Right.
func reorder(rule ir.SplitRule) ir.SplitRule {
	if rule.Left <= rule.Right {
		return rule
	}
	return ir.SplitRule{
		Constraint:         rule.Constraint.Swap(),
		Left:               rule.Right,
		Right:              rule.Left,
		LeftBeforeContext:  rule.RightBeforeContext,
		LeftAfterContext:   rule.RightAfterContext,
		RightBeforeContext: rule.LeftBeforeContext,
		RightAfterContext:  rule.LeftAfterContext,
	}
}

func reversed(segments []string) []string {
	out := make([]string, len(segments))
	for i, s := range segments {
		out[len(segments)-1-i] = s
	}
	return out
}
