package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/extract-method/internal/analyzer"
	"github.com/mvp-joe/extract-method/internal/editor"
	"github.com/mvp-joe/extract-method/internal/extractor"
)

type applyOptions struct {
	extractOptions
	dryRun bool
}

func newApplyCmd() *cobra.Command {
	opts := &applyOptions{}
	cmd := &cobra.Command{
		Use:   "apply <file>",
		Short: "Extract a line range into a new function in place",
		Long: `Apply replaces the range with a call to a new function and inserts the
function before or after the enclosing top-level statement, or at the top of
the file after imports.

With --dry-run the edited source is printed instead of written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, args[0], opts)
		},
	}
	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the edited file instead of writing it")
	return cmd
}

func init() {
	rootCmd.AddCommand(newApplyCmd())
}

func runApply(cmd *cobra.Command, file string, opts *applyOptions) error {
	cfg, logger, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	report, res, err := opts.extract(cmd, cfg, file)
	if err != nil {
		if report != nil && errors.Is(err, extractor.ErrNotFeasible) {
			fmt.Fprintln(cmd.ErrOrStderr(), analyzer.FormatText(report))
		}
		return err
	}

	out := cmd.OutOrStdout()
	if opts.dryRun {
		source, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		edited, err := editor.Apply(source, report, res)
		if err != nil {
			return err
		}
		fmt.Fprint(out, string(edited))
		return nil
	}

	if _, err := editor.ApplyFile(report, res); err != nil {
		return err
	}
	logger.Info("extraction applied", "file", file, "lines", report.Range().String(), "name", res.FunctionName)
	fmt.Fprintf(out, "✓ Extracted lines %s of %s into %s() (%s)\n", report.Range(), file, res.FunctionName, res.Placement)
	for _, note := range res.Notes {
		fmt.Fprintf(out, "  ⚠️ %s\n", note)
	}
	return nil
}
