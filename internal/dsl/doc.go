// Package dsl implements the front end of the sound-change rule language:
// the tokenizer, variable scopes, and the recursive-descent parser that
// produces an ir.Program.
//
// A short example of the language:
//
//	-- Variables hold sounds; braces are unions, {} is the null sound.
//	V = {a e i o u}
//
//	-- Unconstrained rules apply to any pair of languages.
//	o ~ u
//
//	-- SPE-style rule with an environment: final devoicing.
//	b ~ p / _ #
//
//	-- Language-constrained block with a local scope.
//	en de.
//	| S = {s z}
//	| t ~ S
package dsl
