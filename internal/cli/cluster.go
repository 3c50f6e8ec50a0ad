package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/palasimi/ipa-cluster/internal/cluster"
	"github.com/palasimi/ipa-cluster/internal/config"
	"github.com/palasimi/ipa-cluster/internal/dataset"
	"github.com/palasimi/ipa-cluster/internal/metric"
	"github.com/palasimi/ipa-cluster/internal/store"
)

// ClusterOptions holds flags for the cluster command.
type ClusterOptions struct {
	*RootOptions
	Config    string
	Rules     string
	Dataset   string
	Epsilon   float64
	MinPoints int
	Database  string
	Workers   int
}

// ClusterOutput is the JSON payload of the cluster command.
type ClusterOutput struct {
	Words     int              `json:"words"`
	Epsilon   float64          `json:"epsilon"`
	MinPoints int              `json:"min_points"`
	Clusters  [][]store.Member `json:"clusters"`
	Noise     []store.Member   `json:"noise"`
	RulesID   string           `json:"rules_id,omitempty"`
	RunID     string           `json:"run_id,omitempty"`
}

// point is a dataset word with its segments split once.
type point struct {
	segments []string
	language string
}

// NewClusterCommand creates the cluster command.
func NewClusterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClusterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Cluster a word list with DBSCAN",
		Long: `Cluster the words of a dataset by rule-weighted edit distance.

Settings come from the project configuration (ipa-cluster.cue in the
current directory, or --config). Flags override configuration values.
With --db the run is stored in a SQLite database.

Examples:
  ipa-cluster cluster --rules rules.txt --dataset words.tsv
  ipa-cluster cluster --config project.cue --epsilon 0.5 --db runs.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCluster(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "path to the CUE project configuration")
	cmd.Flags().StringVar(&opts.Rules, "rules", "", "path to the rule file")
	cmd.Flags().StringVar(&opts.Dataset, "dataset", "", "path to the word list (.yaml, .yml, .tsv, .txt)")
	cmd.Flags().Float64Var(&opts.Epsilon, "epsilon", config.DefaultEpsilon, "neighbourhood radius")
	cmd.Flags().IntVar(&opts.MinPoints, "min-points", config.DefaultMinPoints, "minimum neighbourhood size of a core point")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database for storing the run")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "distance workers (0 = GOMAXPROCS)")

	return cmd
}

func runCluster(opts *ClusterOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger()

	cfg, err := config.LoadOptional(opts.Config)
	if err != nil {
		return formatter.Fail(ErrCodeConfig, err.Error(), nil)
	}
	applyClusterFlags(cfg, opts, cmd)

	if cfg.Dataset == "" {
		return formatter.Fail(ErrCodeDataset, "no dataset: set --dataset or dataset in the configuration", nil)
	}
	if cfg.Epsilon <= 0 {
		return formatter.Fail(ErrCodeGeneric, fmt.Sprintf("epsilon must be positive, got %g", cfg.Epsilon), nil)
	}
	if cfg.MinPoints < 1 {
		return formatter.Fail(ErrCodeGeneric, fmt.Sprintf("min-points must be at least 1, got %d", cfg.MinPoints), nil)
	}

	loaded, err := LoadRules(cfg.Rules, logger)
	if err != nil {
		return reportLoadError(formatter, err)
	}

	words, err := dataset.Load(cfg.Dataset)
	if err != nil {
		return formatter.Fail(ErrCodeDataset, err.Error(), nil)
	}
	logger.Info("dataset loaded", "path", cfg.Dataset, "words", len(words))

	points := make([]point, len(words))
	for i, w := range words {
		points[i] = point{segments: w.Segments(), language: w.Lang()}
	}

	ctx := commandContext(cmd)

	q := loaded.Querier
	matrix, err := cluster.Precompute(ctx, points, func(a, b point) float64 {
		return metric.Distance(a.segments, b.segments, metric.FromQuerier(q, a.language, b.language))
	}, cfg.Workers)
	if err != nil {
		return formatter.Fail(ErrCodeCluster, fmt.Sprintf("computing distances: %v", err), nil)
	}

	result := cluster.DBSCAN(matrix, cfg.Epsilon, cfg.MinPoints)
	logger.Info("clustered", "clusters", len(result.Clusters), "noise", len(result.Noise))

	out := ClusterOutput{
		Words:     len(words),
		Epsilon:   cfg.Epsilon,
		MinPoints: cfg.MinPoints,
		Clusters:  make([][]store.Member, len(result.Clusters)),
		Noise:     members(words, result.Noise),
	}
	for i, c := range result.Clusters {
		out.Clusters[i] = members(words, c)
	}

	if cfg.Database != "" {
		if err := saveRun(ctx, opts, cfg, loaded, &out); err != nil {
			return formatter.Fail(ErrCodeStore, err.Error(), nil)
		}
		logger.Info("run stored", "run", out.RunID, "rules", out.RulesID)
	}

	if formatter.Format == "json" {
		return formatter.Success(out)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ %d word(s): %d cluster(s), %d noise\n\n", out.Words, len(out.Clusters), len(out.Noise))
	writeClusters(w, out.Clusters, out.Noise)
	if out.RunID != "" {
		fmt.Fprintf(w, "\nStored run %s in %s\n", out.RunID, cfg.Database)
	}
	return nil
}

// applyClusterFlags overrides configuration values with explicitly set flags.
func applyClusterFlags(cfg *config.Config, opts *ClusterOptions, cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("rules") {
		cfg.Rules = opts.Rules
	}
	if flags.Changed("dataset") {
		cfg.Dataset = opts.Dataset
	}
	if flags.Changed("epsilon") {
		cfg.Epsilon = opts.Epsilon
	}
	if flags.Changed("min-points") {
		cfg.MinPoints = opts.MinPoints
	}
	if flags.Changed("db") {
		cfg.Database = opts.Database
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.Workers
	}
}

// saveRun stores the rule source and the run, and records their ids in out.
func saveRun(ctx context.Context, opts *ClusterOptions, cfg *config.Config, loaded *LoadedRules, out *ClusterOutput) error {
	st, err := store.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			opts.logger().Error("error closing database", "error", closeErr)
		}
	}()

	rulesID, err := st.SaveRules(ctx, loaded.Source, loaded.Stages.Split)
	if err != nil {
		return err
	}

	run := &store.Run{
		RulesID:   rulesID,
		Epsilon:   cfg.Epsilon,
		MinPoints: cfg.MinPoints,
		Clusters:  out.Clusters,
		Noise:     out.Noise,
	}
	if err := st.SaveRun(ctx, run); err != nil {
		return err
	}

	out.RulesID = rulesID
	out.RunID = run.ID
	return nil
}

// members returns the words at the given indices. Never nil.
func members(words []dataset.Word, indices []int) []store.Member {
	out := make([]store.Member, 0, len(indices))
	for _, i := range indices {
		out = append(out, store.Member{IPA: words[i].IPA, Language: words[i].Lang()})
	}
	return out
}

func writeClusters(w io.Writer, clusters [][]store.Member, noise []store.Member) {
	for i, c := range clusters {
		fmt.Fprintf(w, "Cluster %d:\n", i+1)
		for _, m := range c {
			fmt.Fprintf(w, "  %s [%s]\n", m.IPA, m.Language)
		}
	}
	if len(noise) > 0 {
		fmt.Fprintln(w, "Noise:")
		for _, m := range noise {
			fmt.Fprintf(w, "  %s [%s]\n", m.IPA, m.Language)
		}
	}
}
