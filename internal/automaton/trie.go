// Package automaton stores rule contexts in language-tagged tries and tests
// query contexts against them.
package automaton

import "github.com/palasimi/ipa-cluster/internal/ir"

// root is the index of the start state.
const root = 0

// node is a state of the trie. Children are addressed by index into the
// arena, so nodes never point at each other.
type node struct {
	children  map[string]int32
	languages map[string]struct{}
}

// accepts reports whether the node is an accept state for language.
// The wildcard language accepts if the node accepts any language; a node
// accepting the wildcard accepts every language.
func (n *node) accepts(language string) bool {
	if language == ir.Wildcard {
		return len(n.languages) > 0
	}
	if _, ok := n.languages[ir.Wildcard]; ok {
		return true
	}
	_, ok := n.languages[language]
	return ok
}

// Trie is an acyclic automaton over segment sequences.
//
// Unlike an ordinary trie, Test succeeds as soon as the walk reaches an
// accept state: a stored sequence matches every input that begins with it.
// A Trie is not safe for concurrent Add, but concurrent Test calls are safe
// once building is done.
type Trie struct {
	nodes []node
}

// NewTrie returns a trie holding only the start state.
func NewTrie() *Trie {
	return &Trie{nodes: []node{{}}}
}

// Len returns the number of states.
func (t *Trie) Len() int {
	return len(t.nodes)
}

// Add stores sequence as accepted for language. Wildcard symbols in the
// sequence are skipped; they consume no transition.
func (t *Trie) Add(sequence []string, language string) {
	state := int32(root)
	for _, symbol := range sequence {
		if symbol == ir.Wildcard {
			continue
		}

		n := &t.nodes[state]
		child, ok := n.children[symbol]
		if !ok {
			child = int32(len(t.nodes))
			if n.children == nil {
				n.children = make(map[string]int32)
			}
			n.children[symbol] = child
			t.nodes = append(t.nodes, node{})
		}
		state = child
	}

	n := &t.nodes[state]
	if n.languages == nil {
		n.languages = make(map[string]struct{})
	}
	n.languages[language] = struct{}{}
}

// Test reports whether the walk over sequence visits an accept state for
// language. The start state counts as visited.
func (t *Trie) Test(sequence []string, language string) bool {
	n := &t.nodes[root]
	if n.accepts(language) {
		return true
	}

	for _, symbol := range sequence {
		child, ok := n.children[symbol]
		if !ok {
			return false
		}
		n = &t.nodes[child]
		if n.accepts(language) {
			return true
		}
	}
	return false
}
