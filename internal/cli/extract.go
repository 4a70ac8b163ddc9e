package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/extract-method/internal/analyzer"
	"github.com/mvp-joe/extract-method/internal/config"
	"github.com/mvp-joe/extract-method/internal/extractor"
	"github.com/mvp-joe/extract-method/internal/linemap"
	"github.com/mvp-joe/extract-method/internal/printer"
)

// extractOptions holds the flags shared by preview and apply.
type extractOptions struct {
	lines          string
	name           string
	transformBreak bool
	location       string
}

func (o *extractOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.lines, "lines", "l", "", "line range to extract, e.g. 14-17")
	cmd.Flags().StringVarP(&o.name, "name", "n", "", "name of the new function")
	cmd.Flags().BoolVar(&o.transformBreak, "transform-break", false, "rewrite break to return (default: only inside a switch case)")
	cmd.Flags().StringVar(&o.location, "location", "", "where to put the function: before, after or top (default from config)")
	_ = cmd.MarkFlagRequired("lines")
	_ = cmd.MarkFlagRequired("name")
}

// extract analyzes and generates. The report is returned with the error when
// the range is not feasible so callers can show why.
func (o *extractOptions) extract(cmd *cobra.Command, cfg *config.Config, file string) (*analyzer.Report, *extractor.Result, error) {
	if err := extractor.ValidateName(o.name); err != nil {
		return nil, nil, err
	}
	rng, err := linemap.ParseRange(o.lines)
	if err != nil {
		return nil, nil, err
	}

	genOpts := extractor.Options{TransformBreak: cfg.TransformBreak()}
	if cmd.Flags().Changed("transform-break") {
		genOpts.TransformBreak = &o.transformBreak
	}
	location := o.location
	if location == "" {
		location = cfg.Generate.Placement
	}
	if genOpts.Placement, err = extractor.ParsePlacement(location); err != nil {
		return nil, nil, err
	}

	az := analyzer.New(analyzer.WithMaxParameters(cfg.Analysis.MaxParameters))
	report, err := az.AnalyzeFile(cmd.Context(), file, rng)
	if err != nil {
		return nil, nil, err
	}
	if err := notFeasible(report); err != nil {
		return report, nil, err
	}

	res, err := extractor.NewGenerator(printer.New(cfg.PrinterOptions())).Generate(report, o.name, genOpts)
	if err != nil {
		return report, nil, err
	}
	return report, res, nil
}

// notFeasible turns an infeasible report into an error carrying its reason.
func notFeasible(report *analyzer.Report) error {
	if report.Feasible {
		return nil
	}
	return fmt.Errorf("%w: %s", extractor.ErrNotFeasible, report.Reason)
}
