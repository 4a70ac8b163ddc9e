package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/extract-method/internal/analyzer"
	"github.com/mvp-joe/extract-method/internal/linemap"
)

type analyzeOptions struct {
	lines string
	json  bool
}

func newAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Check whether a line range can be extracted",
		Long: `Analyze a line range and report whether it can be extracted into a function,
which parameters it needs, what it must return and what blocks it.

Exits with status 4 when extraction is not feasible.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.lines, "lines", "l", "", "line range to analyze, e.g. 14-17")
	cmd.Flags().BoolVar(&opts.json, "json", false, "output JSON")
	_ = cmd.MarkFlagRequired("lines")
	return cmd
}

func init() {
	rootCmd.AddCommand(newAnalyzeCmd())
}

func runAnalyze(cmd *cobra.Command, file string, opts *analyzeOptions) error {
	cfg, logger, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	rng, err := linemap.ParseRange(opts.lines)
	if err != nil {
		return err
	}

	az := analyzer.New(analyzer.WithMaxParameters(cfg.Analysis.MaxParameters))
	report, err := az.AnalyzeFile(cmd.Context(), file, rng)
	if err != nil {
		return err
	}
	logger.Debug("analysis complete", "file", file, "lines", rng.String(), "feasible", report.Feasible)

	out := cmd.OutOrStdout()
	if opts.json {
		data, err := analyzer.FormatJSON(report)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	} else {
		fmt.Fprintln(out, analyzer.FormatText(report))
	}
	return notFeasible(report)
}
