package dsl

import "github.com/palasimi/ipa-cluster/internal/ir"

// Scope is one frame of variable definitions.
// Frames form a chain through outer; a nested block gets a fresh frame and
// the parser restores the saved outer frame when the block ends.
type Scope struct {
	names map[string]ir.Sound
	outer *Scope
}

// NewScope creates a frame nested in outer (nil for the global frame).
func NewScope(outer *Scope) *Scope {
	return &Scope{
		names: make(map[string]ir.Sound),
		outer: outer,
	}
}

// Outer returns the enclosing frame, or nil.
func (s *Scope) Outer() *Scope {
	return s.outer
}

// Define binds name in this frame. It returns false if the name is already
// bound in this frame; shadowing an outer binding is allowed.
func (s *Scope) Define(name string, value ir.Sound) bool {
	if _, exists := s.names[name]; exists {
		return false
	}
	s.names[name] = value
	return true
}

// Resolve looks name up in this frame, then in each enclosing frame.
func (s *Scope) Resolve(name string) (ir.Sound, error) {
	for frame := s; frame != nil; frame = frame.outer {
		if value, ok := frame.names[name]; ok {
			return value, nil
		}
	}
	return nil, &NameError{Name: name}
}
