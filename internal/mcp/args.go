package mcp

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mvp-joe/extract-method/internal/extractor"
	"github.com/mvp-joe/extract-method/internal/linemap"
)

// toolArgs holds the arguments shared by the extract_method tools.
type toolArgs struct {
	File           string `json:"file"`
	Lines          string `json:"lines"`
	Name           string `json:"name"`
	TransformBreak *bool  `json:"transform_break"`
	Placement      string `json:"placement"`
	DryRun         bool   `json:"dry_run"`
}

// bindArguments decodes the request arguments into target. Clients often
// send every value as a string, so "true" and "7" are coerced to the field
// type, and numeric line ranges become strings.
func bindArguments(request mcp.CallToolRequest, target any) error {
	if _, ok := request.GetRawArguments().(map[string]interface{}); !ok {
		return fmt.Errorf("invalid arguments format")
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           target,
		TagName:          "json",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(request.GetArguments())
}

// parseArgs binds and validates the common arguments.
func parseArgs(request mcp.CallToolRequest, needName bool) (*toolArgs, linemap.Range, error) {
	var args toolArgs
	if err := bindArguments(request, &args); err != nil {
		return nil, linemap.Range{}, fmt.Errorf("invalid arguments: %w", err)
	}
	if args.File == "" {
		return nil, linemap.Range{}, fmt.Errorf("file parameter is required")
	}
	if args.Lines == "" {
		return nil, linemap.Range{}, fmt.Errorf("lines parameter is required")
	}
	if needName && args.Name == "" {
		return nil, linemap.Range{}, fmt.Errorf("name parameter is required")
	}
	rng, err := linemap.ParseRange(args.Lines)
	if err != nil {
		return nil, linemap.Range{}, err
	}
	if _, err := extractor.ParsePlacement(args.Placement); err != nil {
		return nil, linemap.Range{}, err
	}
	return &args, rng, nil
}
