// Package compiler turns rule-language source into a Querier.
//
// Compilation runs once: the source is parsed, lowered to split rules and
// loaded into one automaton.ContextMatcher per segment pair. The resulting
// Querier is read-only and may be shared between goroutines.
//
//	q, err := compiler.Compile("b ~ p / _ #")
//	if err != nil {
//		return err // *dsl.ParseError
//	}
//	q.Query([]string{"a", "b"}, []string{"a", "p"}, 1, 1, "en", "de") // true
package compiler
