package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/extract-method/internal/batch"
	"github.com/mvp-joe/extract-method/internal/extractor"
	"github.com/mvp-joe/extract-method/internal/printer"
)

type batchOptions struct {
	quiet bool
	json  bool
}

func newBatchCmd() *cobra.Command {
	opts := &batchOptions{}
	cmd := &cobra.Command{
		Use:   "batch <requests.yaml>",
		Short: "Run many analyses and previews from a YAML file",
		Long: `Batch reads a YAML list of requests and runs them concurrently. Each request
names a file and a line range; requests with a name also generate code.

  - id: save-handler
    file: src/app.js
    lines: 14-17
    name: handleSave
    transform_break: true
    placement: after

Relative file paths are resolved against the directory of the YAML file.
Exits with status 2 when any request fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args[0], opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress progress output")
	cmd.Flags().BoolVar(&opts.json, "json", false, "output JSON")
	return cmd
}

func init() {
	rootCmd.AddCommand(newBatchCmd())
}

func runBatch(cmd *cobra.Command, path string, opts *batchOptions) error {
	cfg, logger, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	reqs, err := batch.LoadRequests(path)
	if err != nil {
		return err
	}
	placement, err := extractor.ParsePlacement(cfg.Generate.Placement)
	if err != nil {
		return err
	}

	runner := batch.NewRunner(batch.Options{
		Concurrency:    cfg.Batch.Concurrency,
		CacheSize:      cfg.Batch.CacheSize,
		MaxParameters:  cfg.Analysis.MaxParameters,
		Printer:        printer.New(cfg.PrinterOptions()),
		Placement:      placement,
		TransformBreak: cfg.TransformBreak(),
		Progress:       NewCLIProgressReporter(cmd.ErrOrStderr(), opts.quiet),
		Logger:         logger,
	})
	summary, err := runner.Run(cmd.Context(), reqs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.json {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		fmt.Fprintln(out, string(data))
	} else {
		for _, item := range summary.Items {
			if item.Failed() {
				fmt.Fprintf(out, "✗ %s %s:%s: %s\n", item.ID, item.File, item.Lines, item.Error)
				continue
			}
			fmt.Fprintf(out, "✓ %s %s:%s", item.ID, item.File, item.Lines)
			if item.Extraction != nil {
				fmt.Fprintf(out, " → %s", item.Extraction.ReplacementText)
			}
			fmt.Fprintln(out)
		}
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d requests failed", summary.Failed, len(summary.Items))
	}
	return nil
}
