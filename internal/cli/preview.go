package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/extract-method/internal/analyzer"
	"github.com/mvp-joe/extract-method/internal/extractor"
)

type previewOptions struct {
	extractOptions
	json bool
}

func newPreviewCmd() *cobra.Command {
	opts := &previewOptions{}
	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Show the function an extraction would generate",
		Long: `Preview generates the extracted function and the code that replaces the
range, without touching the file.

Inside a switch case, break statements become returns unless
--transform-break=false is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, args[0], opts)
		},
	}
	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "output JSON")
	return cmd
}

func init() {
	rootCmd.AddCommand(newPreviewCmd())
}

func runPreview(cmd *cobra.Command, file string, opts *previewOptions) error {
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
	logger.Debug("preview generated", "file", file, "name", res.FunctionName, "async", res.Async)

	out := cmd.OutOrStdout()
	if opts.json {
		data, err := extractor.FormatPreviewJSON(res)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	fmt.Fprintln(out, extractor.FormatPreview(res))
	return nil
}
