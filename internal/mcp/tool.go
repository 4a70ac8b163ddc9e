package mcp

import (
	"context"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/extract-method/internal/analyzer"
	"github.com/mvp-joe/extract-method/internal/config"
	"github.com/mvp-joe/extract-method/internal/editor"
	"github.com/mvp-joe/extract-method/internal/extractor"
	"github.com/mvp-joe/extract-method/internal/printer"
)

// Toolset carries the analyzer and generator shared by every tool handler.
type Toolset struct {
	analyzer       *analyzer.Analyzer
	generator      *extractor.Generator
	transformBreak *bool
	placement      extractor.Placement
	logger         *slog.Logger
}

// NewToolset builds handlers configured by cfg. A nil loader reads and parses
// files on every call.
func NewToolset(cfg *config.Config, loader analyzer.Loader, logger *slog.Logger) *Toolset {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	placement, err := extractor.ParsePlacement(cfg.Generate.Placement)
	if err != nil {
		placement = extractor.PlacementBefore
	}
	opts := []analyzer.Option{analyzer.WithMaxParameters(cfg.Analysis.MaxParameters)}
	if loader != nil {
		opts = append(opts, analyzer.WithLoader(loader))
	}
	return &Toolset{
		analyzer:       analyzer.New(opts...),
		generator:      extractor.NewGenerator(printer.New(cfg.PrinterOptions())),
		transformBreak: cfg.TransformBreak(),
		placement:      placement,
		logger:         logger,
	}
}

// PreviewResponse pairs an analysis with the code generated from it.
type PreviewResponse struct {
	Analysis   *analyzer.Report  `json:"analysis"`
	Extraction *extractor.Result `json:"extraction"`
}

// ApplyResponse reports a file edit. Content is only set for dry runs.
type ApplyResponse struct {
	File       string            `json:"file"`
	Applied    bool              `json:"applied"`
	Extraction *extractor.Result `json:"extraction"`
	Content    string            `json:"content,omitempty"`
}

var (
	fileArg = mcp.WithString("file",
		mcp.Required(),
		mcp.Description("Path to a .js, .jsx, .mjs, .cjs, .ts, .tsx, .mts or .cts file"))
	linesArg = mcp.WithString("lines",
		mcp.Required(),
		mcp.Description("1-based inclusive line range, e.g. '14-17' or '20'"))
	nameArg = mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Name of the new function (a valid JavaScript identifier)"))
	transformBreakArg = mcp.WithBoolean("transform_break",
		mcp.Description("Rewrite break statements to return. Defaults to true when the range is a switch case body"))
	placementArg = mcp.WithString("placement",
		mcp.Description("Where to put the new function: before (default), after or top"))
)

// AddAnalyzeTool registers extract_method_analyze.
func AddAnalyzeTool(s *server.MCPServer, ts *Toolset) {
	tool := mcp.NewTool(
		"extract_method_analyze",
		mcp.WithDescription("Check whether a line range of a JavaScript or TypeScript file can be extracted into a function. Reports parameters, return value, control flow and issues."),
		fileArg,
		linesArg,
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(tool, createAnalyzeHandler(ts))
}

// AddPreviewTool registers extract_method_preview.
func AddPreviewTool(s *server.MCPServer, ts *Toolset) {
	tool := mcp.NewTool(
		"extract_method_preview",
		mcp.WithDescription("Generate the extracted function and the call that replaces the range, without touching the file."),
		fileArg,
		linesArg,
		nameArg,
		transformBreakArg,
		placementArg,
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
	s.AddTool(tool, createPreviewHandler(ts))
}

// AddApplyTool registers extract_method_apply.
func AddApplyTool(s *server.MCPServer, ts *Toolset) {
	tool := mcp.NewTool(
		"extract_method_apply",
		mcp.WithDescription("Extract a line range into a new function and rewrite the file in place."),
		fileArg,
		linesArg,
		nameArg,
		transformBreakArg,
		placementArg,
		mcp.WithBoolean("dry_run",
			mcp.Description("Return the edited content instead of writing the file")),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(true),
	)
	s.AddTool(tool, createApplyHandler(ts))
}

// RegisterTools adds every extract_method tool to s.
func RegisterTools(s *server.MCPServer, ts *Toolset) {
	AddAnalyzeTool(s, ts)
	AddPreviewTool(s, ts)
	AddApplyTool(s, ts)
}

func createAnalyzeHandler(ts *Toolset) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, rng, err := parseArgs(request, false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		report, err := ts.analyzer.AnalyzeFile(ctx, args.File, rng)
		if err != nil {
			return errorResult(err)
		}
		ts.logger.Debug("analyzed range", "file", args.File, "lines", rng.String(), "feasible", report.Feasible)
		return marshalToolResponse(report)
	}
}

func createPreviewHandler(ts *Toolset) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ex, failure, err := ts.extract(ctx, request)
		if failure != nil || err != nil {
			return failure, err
		}
		ts.logger.Debug("previewed extraction", "file", ex.args.File, "name", ex.args.Name)
		return marshalToolResponse(&PreviewResponse{Analysis: ex.report, Extraction: ex.result})
	}
}

func createApplyHandler(ts *Toolset) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ex, failure, err := ts.extract(ctx, request)
		if failure != nil || err != nil {
			return failure, err
		}

		resp := &ApplyResponse{File: ex.args.File, Extraction: ex.result}
		if ex.args.DryRun {
			source, err := os.ReadFile(ex.args.File)
			if err != nil {
				return errorResult(err)
			}
			out, err := editor.Apply(source, ex.report, ex.result)
			if err != nil {
				return errorResult(err)
			}
			resp.Content = string(out)
			return marshalToolResponse(resp)
		}

		if _, err := editor.ApplyFile(ex.report, ex.result); err != nil {
			return errorResult(err)
		}
		resp.Applied = true
		ts.logger.Info("applied extraction", "file", ex.args.File, "name", ex.args.Name, "lines", ex.report.Range().String())
		return marshalToolResponse(resp)
	}
}

type extraction struct {
	args   *toolArgs
	report *analyzer.Report
	result *extractor.Result
}

// extract runs analysis and generation for preview and apply. A non-nil
// failure is a tool error to hand back unchanged.
func (ts *Toolset) extract(ctx context.Context, request mcp.CallToolRequest) (*extraction, *mcp.CallToolResult, error) {
	args, rng, err := parseArgs(request, true)
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error()), nil
	}
	if err := extractor.ValidateName(args.Name); err != nil {
		return nil, mcp.NewToolResultError(err.Error()), nil
	}

	report, err := ts.analyzer.AnalyzeFile(ctx, args.File, rng)
	if err != nil {
		failure, err := errorResult(err)
		return nil, failure, err
	}
	if !report.Feasible {
		return nil, infeasibleResult(report), nil
	}

	opts := extractor.Options{TransformBreak: ts.transformBreak, Placement: ts.placement}
	if args.TransformBreak != nil {
		opts.TransformBreak = args.TransformBreak
	}
	if args.Placement != "" {
		opts.Placement, _ = extractor.ParsePlacement(args.Placement)
	}

	res, err := ts.generator.Generate(report, args.Name, opts)
	if err != nil {
		failure, err := errorResult(err)
		return nil, failure, err
	}
	return &extraction{args: args, report: report, result: res}, nil, nil
}
