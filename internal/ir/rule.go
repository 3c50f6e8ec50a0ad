package ir

// Constraint restricts a rule to a pair of languages.
// Left applies to the left-hand side of a rule and Right to the right-hand
// side. Either may be Wildcard, meaning any language.
type Constraint struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// AnyLanguage is the constraint of rules outside a language block.
var AnyLanguage = Constraint{Left: Wildcard, Right: Wildcard}

// Swap returns the constraint with its sides exchanged.
func (c Constraint) Swap() Constraint {
	return Constraint{Left: c.Right, Right: c.Left}
}

// Environment is the optional SPE-style context of a rule (`/ A _ B`).
// When Explicit is false, Left and Right are empty.
type Environment struct {
	Left     []Sound `json:"left"`
	Right    []Sound `json:"right"`
	Explicit bool    `json:"explicit"`
}

// Rule is one parsed `side ~ side` statement.
// If Environment.Explicit is true, Left and Right hold at most one sound each.
type Rule struct {
	Left        []Sound     `json:"left"`
	Right       []Sound     `json:"right"`
	Environment Environment `json:"environment"`
}

// Ruleset is a group of rules sharing a language constraint.
type Ruleset struct {
	Constraint Constraint `json:"constraint"`
	Rules      []Rule     `json:"rules"`
}

// Program is the parser output: rulesets in source order.
type Program struct {
	Rulesets []Ruleset `json:"rulesets"`
}

// SquashedRule is a Rule carrying its own constraint.
type SquashedRule struct {
	Rule
	Constraint Constraint `json:"constraint"`
}

// ExpandedRule is a rule between two concrete segment sequences.
// No unions remain; each side keeps at most a leading and a trailing Boundary.
type ExpandedRule struct {
	Constraint Constraint `json:"constraint"`
	Left       []string   `json:"left"`
	Right      []string   `json:"right"`
}

// AlignedRule is an ExpandedRule whose sides have equal length.
// Positions without a literal counterpart hold Wildcard.
type AlignedRule struct {
	Constraint Constraint `json:"constraint"`
	Left       []string   `json:"left"`
	Right      []string   `json:"right"`
}

// SplitRule compares a single pair of segments in context.
// Contexts are ordered nearest-to-furthest from the compared position.
// Left <= Right always holds for rules produced by the compiler.
type SplitRule struct {
	Constraint         Constraint `json:"constraint"`
	Left               string     `json:"left"`
	Right              string     `json:"right"`
	LeftBeforeContext  []string   `json:"left_before_context"`
	LeftAfterContext   []string   `json:"left_after_context"`
	RightBeforeContext []string   `json:"right_before_context"`
	RightAfterContext  []string   `json:"right_after_context"`
}

// Pair identifies the group a split rule belongs to.
type Pair struct {
	Left  string
	Right string
}

// Pair returns the canonical segment pair of the rule.
func (r SplitRule) Pair() Pair {
	return Pair{Left: r.Left, Right: r.Right}
}
