// Package metric computes weighted edit distances between segment sequences.
package metric

import "github.com/palasimi/ipa-cluster/internal/ir"

// CostFunc returns the cost of aligning site a with site b. The cost should
// be positive; larger costs mean larger distances. For insertions and
// deletions one of the sites is a gap.
type CostFunc func(a, b ir.Site) float64

// Matcher licenses segment correspondences. *compiler.Querier implements it.
type Matcher interface {
	Match(a, b ir.Site, l1, l2 string) bool
}

// Unit costs 1 for every edit.
func Unit(a, b ir.Site) float64 {
	if a.Segment() == b.Segment() {
		return 0
	}
	return 1
}

// FromQuerier returns a cost function that is free for edits m licenses
// between a word in language l1 and a word in language l2, and 1 otherwise.
// Empty languages are treated as the wildcard.
func FromQuerier(m Matcher, l1, l2 string) CostFunc {
	if l1 == "" {
		l1 = ir.Wildcard
	}
	if l2 == "" {
		l2 = ir.Wildcard
	}
	return func(a, b ir.Site) float64 {
		if m.Match(a, b, l1, l2) {
			return 0
		}
		return 1
	}
}

// Distance computes the weighted Levenshtein distance between s and t.
// Equal segments align for free without consulting cost.
func Distance(s, t []string, cost CostFunc) float64 {
	if cost == nil {
		cost = Unit
	}
	ls, lt := len(s), len(t)

	// Single-row DP: prev holds row i-1, cur row i.
	prev := make([]float64, lt+1)
	for j := 1; j <= lt; j++ {
		prev[j] = prev[j-1] + cost(ir.GapAt(s, 0), ir.SiteAt(t, j-1))
	}

	cur := make([]float64, lt+1)
	for i := 1; i <= ls; i++ {
		cur[0] = prev[0] + cost(ir.SiteAt(s, i-1), ir.GapAt(t, 0))
		for j := 1; j <= lt; j++ {
			if s[i-1] == t[j-1] {
				cur[j] = prev[j-1]
				continue
			}

			sub := prev[j-1] + cost(ir.SiteAt(s, i-1), ir.SiteAt(t, j-1))
			del := prev[j] + cost(ir.SiteAt(s, i-1), ir.GapAt(t, j))
			ins := cur[j-1] + cost(ir.GapAt(s, i), ir.SiteAt(t, j-1))
			cur[j] = min(sub, del, ins)
		}
		prev, cur = cur, prev
	}
	return prev[lt]
}
