package lowering

import (
	"fmt"

	"github.com/palasimi/ipa-cluster/internal/ir"
)

// Align pads both sides of every rule to equal length.
func Align(rules []ir.ExpandedRule) []ir.AlignedRule {
	aligned := make([]ir.AlignedRule, 0, len(rules))
	for _, rule := range rules {
		left, right := AlignSequences(rule.Left, rule.Right)
		aligned = append(aligned, ir.AlignedRule{
			Constraint: rule.Constraint,
			Left:       left,
			Right:      right,
		})
	}
	return aligned
}

// AlignSequences pads left and right with Wildcard or Boundary so that they
// have the same length.
//
// Boundaries are trimmed first. The shorter trimmed side is shifted against
// the longer one (see OptimalShift) and padded with Wildcard. Trimmed
// boundaries are then re-attached on both sides; a side without a boundary at
// that end gets Wildcard instead.
//
// Sequences of equal length whose boundaries sit at the same ends are
// returned unchanged.
func AlignSequences(left, right []string) ([]string, []string) {
	trimmedLeft, prefixLeft, suffixLeft := trimBoundaries(left)
	trimmedRight, prefixRight, suffixRight := trimBoundaries(right)

	var paddedLeft, paddedRight []string
	if len(trimmedLeft) <= len(trimmedRight) {
		paddedLeft, paddedRight = padNull(trimmedLeft, trimmedRight)
	} else {
		paddedRight, paddedLeft = padNull(trimmedRight, trimmedLeft)
	}

	return bound(paddedLeft, prefixLeft, suffixLeft, paddedRight, prefixRight, suffixRight)
}

// OptimalShift returns the offset of short within long that maximizes the
// number of index-wise equal segments. The first maximal offset wins, and a
// best score of zero yields offset 0.
//
// Panics if short is longer than long.
func OptimalShift(short, long []string) int {
	m, n := len(long), len(short)
	if m < n {
		panic(fmt.Sprintf("lowering: OptimalShift: short sequence longer than long sequence (%d > %d)", n, m))
	}
	if m == n {
		return 0
	}

	best, bestScore := 0, 0
	for start := 0; start <= m-n; start++ {
		score := 0
		for i := range short {
			if short[i] == long[start+i] {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = start, score
		}
	}
	return best
}

// padNull shifts short by the optimal offset and pads it with Wildcard to the
// length of long. Both results are fresh slices.
func padNull(short, long []string) ([]string, []string) {
	shift := OptimalShift(short, long)

	padded := make([]string, 0, len(long))
	for i := 0; i < shift; i++ {
		padded = append(padded, ir.Wildcard)
	}
	padded = append(padded, short...)
	for len(padded) < len(long) {
		padded = append(padded, ir.Wildcard)
	}
	return padded, append([]string{}, long...)
}

// trimBoundaries strips leading and trailing boundaries. It reports whether
// the sequence had a boundary prefix and suffix. A sequence made only of
// boundaries trims to nothing and counts as having a prefix.
func trimBoundaries(sequence []string) ([]string, bool, bool) {
	start := 0
	for start < len(sequence) && sequence[start] == ir.Boundary {
		start++
	}
	if start == len(sequence) {
		return []string{}, start > 0, false
	}

	end := len(sequence)
	for end > start && sequence[end-1] == ir.Boundary {
		end--
	}
	return sequence[start:end], start > 0, end < len(sequence)
}

// bound re-attaches trimmed boundaries to two padded sequences of equal
// length, keeping them aligned.
//
// Panics if the sequences differ in length.
func bound(left []string, prefixLeft, suffixLeft bool, right []string, prefixRight, suffixRight bool) ([]string, []string) {
	if len(left) != len(right) {
		panic(fmt.Sprintf("lowering: bound: misaligned sequences (%d != %d)", len(left), len(right)))
	}

	newLeft := make([]string, 0, len(left)+2)
	newRight := make([]string, 0, len(right)+2)

	newLeft, newRight = attach(newLeft, prefixLeft, newRight, prefixRight)
	newLeft = append(newLeft, left...)
	newRight = append(newRight, right...)
	newLeft, newRight = attach(newLeft, suffixLeft, newRight, suffixRight)
	return newLeft, newRight
}

// attach appends a boundary column when either side had a boundary there.
func attach(left []string, hasLeft bool, right []string, hasRight bool) ([]string, []string) {
	switch {
	case hasLeft && hasRight:
		return append(left, ir.Boundary), append(right, ir.Boundary)
	case hasLeft:
		return append(left, ir.Boundary), append(right, ir.Wildcard)
	case hasRight:
		return append(left, ir.Wildcard), append(right, ir.Boundary)
	default:
		return left, right
	}
}
