// Package lowering turns a parsed program into elementary comparison rules.
//
// The passes run in a fixed order, each consuming the output of the last:
//
//	Program -> Squash -> Expand -> Align -> Split -> []SplitRule
//
// Every pass is a pure function. Inputs are never modified.
package lowering
