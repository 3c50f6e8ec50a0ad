package automaton

import "github.com/palasimi/ipa-cluster/internal/ir"

// ContextMatcher holds the contexts of every split rule for one segment pair.
// Each of the four contexts of a rule goes into its own trie, tagged with
// the language of its side.
type ContextMatcher struct {
	leftBefore  *Trie
	leftAfter   *Trie
	rightBefore *Trie
	rightAfter  *Trie
	rules       int
}

// NewContextMatcher returns an empty matcher. It matches nothing until a
// rule is added.
func NewContextMatcher() *ContextMatcher {
	return &ContextMatcher{
		leftBefore:  NewTrie(),
		leftAfter:   NewTrie(),
		rightBefore: NewTrie(),
		rightAfter:  NewTrie(),
	}
}

// Add stores the contexts of rule. Rules comparing a segment with itself are
// ignored.
func (m *ContextMatcher) Add(rule ir.SplitRule) {
	if rule.Left == rule.Right {
		return
	}
	m.leftBefore.Add(rule.LeftBeforeContext, rule.Constraint.Left)
	m.leftAfter.Add(rule.LeftAfterContext, rule.Constraint.Left)
	m.rightBefore.Add(rule.RightBeforeContext, rule.Constraint.Right)
	m.rightAfter.Add(rule.RightAfterContext, rule.Constraint.Right)
	m.rules++
}

// Len returns the number of rules added.
func (m *ContextMatcher) Len() int {
	return m.rules
}

// Test checks s[i] against t[j], where s is in language l1 and t in l2.
// An out-of-range index denotes a gap at the nearest end of the word.
func (m *ContextMatcher) Test(s []string, i int, t []string, j int, l1, l2 string) bool {
	return m.TestSites(ir.SiteAt(s, i), ir.SiteAt(t, j), l1, l2)
}

// TestSites reports whether the segments at a and b match in their contexts.
// Equal segments always match. Otherwise the sites are put in canonical
// order and all four stored contexts must accept.
func (m *ContextMatcher) TestSites(a, b ir.Site, l1, l2 string) bool {
	sa, sb := a.Segment(), b.Segment()
	if sa == sb {
		return true
	}
	if sb < sa {
		a, b = b, a
		l1, l2 = l2, l1
	}

	if !m.leftAfter.Test(a.After(), l1) {
		return false
	}
	if !m.rightAfter.Test(b.After(), l2) {
		return false
	}
	if !m.leftBefore.Test(a.Before(), l1) {
		return false
	}
	return m.rightBefore.Test(b.Before(), l2)
}
