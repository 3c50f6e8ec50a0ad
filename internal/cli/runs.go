package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/palasimi/ipa-cluster/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string
}

// RunDetail is the JSON payload of `runs <id>`.
type RunDetail struct {
	ID        string           `json:"id"`
	Seq       int64            `json:"seq"`
	RulesID   string           `json:"rules_id"`
	RulesHash string           `json:"rules_hash"`
	Rules     int              `json:"rules"`
	Epsilon   float64          `json:"epsilon"`
	MinPoints int              `json:"min_points"`
	Clusters  [][]store.Member `json:"clusters"`
	Noise     []store.Member   `json:"noise"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List or show stored clustering runs",
		Long: `List the clustering runs stored in a database, or show one run with
its clusters.

Examples:
  ipa-cluster runs --db runs.db
  ipa-cluster runs --db runs.db 01927c2e-7d1f-7000-8000-000000000000`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runRuns(opts *RunsOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	// Opening would create a fresh database; a missing file is a user error.
	if _, err := os.Stat(opts.Database); errors.Is(err, os.ErrNotExist) {
		return formatter.Fail(ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.Database), nil)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.Fail(ErrCodeStore, err.Error(), nil)
	}
	defer st.Close()

	ctx := commandContext(cmd)
	if len(args) == 0 {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return formatter.Fail(ErrCodeStore, err.Error(), nil)
		}
		if formatter.Format == "json" {
			return formatter.Success(runs)
		}
		if len(runs) == 0 {
			fmt.Fprintln(formatter.Writer, "No runs found.")
			return nil
		}
		for _, r := range runs {
			fmt.Fprintf(formatter.Writer, "%d  %s  epsilon=%g min_points=%d clusters=%d members=%d\n",
				r.Seq, r.ID, r.Epsilon, r.MinPoints, r.Clusters, r.Members)
		}
		return nil
	}

	run, err := st.LoadRun(ctx, args[0])
	if errors.Is(err, store.ErrNotFound) {
		return formatter.Fail(ErrCodeNotFound, fmt.Sprintf("run not found: %s", args[0]), nil)
	}
	if err != nil {
		return formatter.Fail(ErrCodeStore, err.Error(), nil)
	}
	rules, err := st.LoadRules(ctx, run.RulesID)
	if err != nil {
		return formatter.Fail(ErrCodeStore, err.Error(), nil)
	}

	detail := RunDetail{
		ID:        run.ID,
		Seq:       run.Seq,
		RulesID:   run.RulesID,
		RulesHash: rules.RulesHash,
		Rules:     len(rules.Rules),
		Epsilon:   run.Epsilon,
		MinPoints: run.MinPoints,
		Clusters:  run.Clusters,
		Noise:     run.Noise,
	}
	if detail.Clusters == nil {
		detail.Clusters = [][]store.Member{}
	}
	if detail.Noise == nil {
		detail.Noise = []store.Member{}
	}

	if formatter.Format == "json" {
		return formatter.Success(detail)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Run %s (seq %d)\n", detail.ID, detail.Seq)
	fmt.Fprintf(w, "Rules %s: %d split rule(s), hash %s\n", detail.RulesID, detail.Rules, detail.RulesHash)
	fmt.Fprintf(w, "epsilon=%g min_points=%d\n\n", detail.Epsilon, detail.MinPoints)
	writeClusters(w, detail.Clusters, detail.Noise)
	return nil
}
