// Package harness runs conformance scenarios against rule files.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: devoicing
//	description: "Word-final devoicing between English and German"
//	rules: ../rules/devoicing.rules   # or `source:` with inline rules
//	queries:
//	  - left: "b a d"
//	    right: "b a t"
//	    i: 2
//	    j: 2
//	    l1: en
//	    l2: de
//	    expect: true
//	distances:
//	  - left: "d a"
//	    right: "t a"
//	    l1: en
//	    l2: de
//	    expect: 1
//
// Words are whitespace-separated segments. Empty languages are the wildcard.
// The rules path is resolved relative to the scenario file.
//
// # Golden Dumps
//
// Dump renders every compiler stage as text. Tests compare dumps against
// files in testdata/golden; regenerate them with:
//
//	go test ./internal/harness -update
package harness
