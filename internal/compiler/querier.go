package compiler

import (
	"github.com/palasimi/ipa-cluster/internal/automaton"
	"github.com/palasimi/ipa-cluster/internal/ir"
)

// QueryFunc reports whether s[i] may correspond to t[j] when s is in
// language l1 and t in l2.
type QueryFunc func(s, t []string, i, j int, l1, l2 string) bool

// Querier answers context queries against compiled rules.
// It is never modified after construction.
type Querier struct {
	matchers map[ir.Pair]*automaton.ContextMatcher
	rules    []ir.SplitRule
}

// NewQuerier groups rules by segment pair and builds one matcher per group.
// Rules must be in canonical orientation (Left <= Right), as Split produces.
func NewQuerier(rules []ir.SplitRule) *Querier {
	q := &Querier{
		matchers: make(map[ir.Pair]*automaton.ContextMatcher),
		rules:    make([]ir.SplitRule, len(rules)),
	}
	copy(q.rules, rules)

	for _, rule := range q.rules {
		pair := rule.Pair()
		m, ok := q.matchers[pair]
		if !ok {
			m = automaton.NewContextMatcher()
			q.matchers[pair] = m
		}
		m.Add(rule)
	}
	return q
}

// Query checks s[i] against t[j]. An out-of-range index is a gap at the
// nearest end of the word. Query never fails; unknown pairs do not match.
func (q *Querier) Query(s, t []string, i, j int, l1, l2 string) bool {
	return q.Match(ir.SiteAt(s, i), ir.SiteAt(t, j), l1, l2)
}

// Match checks two sites. Equal segments always match.
func (q *Querier) Match(a, b ir.Site, l1, l2 string) bool {
	sa, sb := a.Segment(), b.Segment()
	if sa == sb {
		return true
	}
	if sb < sa {
		a, b = b, a
		sa, sb = sb, sa
		l1, l2 = l2, l1
	}

	m, ok := q.matchers[ir.Pair{Left: sa, Right: sb}]
	if !ok {
		return false
	}
	return m.TestSites(a, b, l1, l2)
}

// Func returns Query as a plain function value.
func (q *Querier) Func() QueryFunc {
	return q.Query
}

// Len returns the number of distinct segment pairs.
func (q *Querier) Len() int {
	return len(q.matchers)
}

// Rules returns a copy of the split rules the querier was built from.
func (q *Querier) Rules() []ir.SplitRule {
	out := make([]ir.SplitRule, len(q.rules))
	copy(out, q.rules)
	return out
}

// Hash returns the content hash of the compiled rules.
func (q *Querier) Hash() (string, error) {
	return ir.RulesHash(q.rules)
}
