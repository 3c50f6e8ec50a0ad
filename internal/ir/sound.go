package ir

import (
	"encoding/json"
	"strings"
)

// Reserved segments.
const (
	// Boundary marks a word edge.
	Boundary = "#"

	// Wildcard means "any" inside an environment or a language constraint,
	// and "no corresponding segment" after alignment.
	Wildcard = "_"
)

// Sound is a sealed interface representing a rule-language sound value.
// Only Null, Terminal, and Union implement this.
type Sound interface {
	sound() // Sealed - only these types implement it
	String() string
}

// Null is the empty sound. It contributes nothing to a sequence.
type Null struct{}

func (Null) sound() {}

func (Null) String() string { return "{}" }

// MarshalJSON encodes Null as an empty choice list.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("[]"), nil
}

// Terminal is a single segment, including the reserved Boundary and Wildcard.
type Terminal string

func (Terminal) sound() {}

func (t Terminal) String() string { return string(t) }

// Union is a choice between two or more terminals.
// Choices is never empty; an empty union is parsed as Null.
type Union struct {
	Choices []Terminal
}

func (Union) sound() {}

func (u Union) String() string {
	parts := make([]string, len(u.Choices))
	for i, c := range u.Choices {
		parts[i] = string(c)
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// MarshalJSON encodes a union as its list of choices.
func (u Union) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.Choices)
}

// NewUnion creates a sound from a list of choices.
// No choices yields Null.
func NewUnion(choices ...Terminal) Sound {
	if len(choices) == 0 {
		return Null{}
	}
	return Union{Choices: choices}
}

// Choices returns the segments a sound can stand for.
// Null has no choices, a Terminal has itself.
func Choices(s Sound) []string {
	switch v := s.(type) {
	case Null:
		return nil
	case Terminal:
		return []string{string(v)}
	case Union:
		out := make([]string, len(v.Choices))
		for i, c := range v.Choices {
			out[i] = string(c)
		}
		return out
	default:
		panic("ir: unknown sound type")
	}
}

// Contains reports whether segment is one of the choices of s.
func Contains(s Sound, segment string) bool {
	for _, c := range Choices(s) {
		if c == segment {
			return true
		}
	}
	return false
}
