package lowering

import "github.com/palasimi/ipa-cluster/internal/ir"

// Stages holds the output of every pass, for inspection and dumps.
type Stages struct {
	Squashed []ir.SquashedRule `json:"squashed"`
	Expanded []ir.ExpandedRule `json:"expanded"`
	Aligned  []ir.AlignedRule  `json:"aligned"`
	Split    []ir.SplitRule    `json:"split"`
}

// Lower runs every pass over program.
func Lower(program *ir.Program) *Stages {
	stages := &Stages{}
	stages.Squashed = Squash(program)
	stages.Expanded = Expand(stages.Squashed)
	stages.Aligned = Align(stages.Expanded)
	stages.Split = Split(stages.Aligned)
	return stages
}
