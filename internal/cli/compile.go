package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/palasimi/ipa-cluster/internal/compiler"
	"github.com/palasimi/ipa-cluster/internal/harness"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Stage  string // stage to print
	Output string // output file path
}

// CompilationResult is the JSON payload of the compile command.
type CompilationResult struct {
	SourceID    string                `json:"source_id"`
	Stage       string                `json:"stage"`
	Count       int                   `json:"count"`
	Pairs       int                   `json:"pairs"`
	Rules       any                   `json:"rules"`
	Diagnostics []compiler.Diagnostic `json:"diagnostics,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <rules-file>",
		Short: "Compile a rule file and print its IR",
		Long: `Compile a sound-change rule file and print the rules as they
leave one compiler stage: parse, squash, expand, align or split.

Examples:
  ipa-cluster compile rules.txt
  ipa-cluster compile rules.txt --stage align
  ipa-cluster compile rules.txt --format json -o split.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Stage, "stage", string(harness.StageSplit), "stage to print (parse|squash|expand|align|split)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the stage IR as JSON to this file")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	stage, err := harness.ParseStage(opts.Stage)
	if err != nil {
		return formatter.Fail(ErrCodeGeneric, err.Error(), nil)
	}

	loaded, err := LoadRules(path, opts.logger())
	if err != nil {
		return reportLoadError(formatter, err)
	}
	formatter.VerboseLog("Compiled %s (source %s)", path, loaded.SourceID)

	if opts.Output != "" {
		if err := writeStageToFile(harness.StageValue(loaded.Result, stage), opts.Output); err != nil {
			return formatter.Fail(ErrCodeWrite, fmt.Sprintf("writing output file: %v", err), nil)
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(CompilationResult{
			SourceID:    loaded.SourceID,
			Stage:       string(stage),
			Count:       harness.StageLen(loaded.Result, stage),
			Pairs:       loaded.Querier.Len(),
			Rules:       harness.StageValue(loaded.Result, stage),
			Diagnostics: loaded.Diagnostics,
		})
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Compiled %s: %d split rule(s), %d segment pair(s)\n",
		path, len(loaded.Stages.Split), loaded.Querier.Len())
	for _, d := range loaded.Diagnostics {
		fmt.Fprintf(w, "warning: %q: %s\n", d.Segment, d.Message)
	}
	fmt.Fprintln(w)
	if err := harness.WriteStage(w, loaded.Result, stage); err != nil {
		return err
	}

	if opts.Output != "" {
		fmt.Fprintf(w, "\nWrote %s IR to %s\n", stage, opts.Output)
	}
	return nil
}

// writeStageToFile writes the IR of a stage as indented JSON.
func writeStageToFile(value any, filename string) error {
	// Indented for readability; canonical JSON is used only for hashing
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling IR: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
