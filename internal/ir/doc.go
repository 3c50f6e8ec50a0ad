// Package ir provides the intermediate representations of the sound-change
// rule compiler.
//
// This package contains data definitions only. All other internal packages
// import ir; ir imports nothing internal. Every stage of the compiler takes
// the representation produced by the previous stage and returns a fresh one:
//
//	Program (parser) -> []SquashedRule -> []ExpandedRule -> []AlignedRule -> []SplitRule
//
// Key design constraints:
//   - Segments are opaque strings, never normalized
//   - Sound is a closed sum type (Null, Terminal, Union)
//   - IR values are not mutated after the stage producing them returns
//   - All JSON tags use snake_case
package ir
