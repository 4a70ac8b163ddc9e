package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mvp-joe/extract-method/internal/analyzer"
	"github.com/mvp-joe/extract-method/internal/editor"
	"github.com/mvp-joe/extract-method/internal/extractor"
	"github.com/mvp-joe/extract-method/internal/linemap"
	"github.com/mvp-joe/extract-method/internal/parsers"
)

// marshalToolResponse marshals a response object to JSON and returns it as an MCP tool result.
func marshalToolResponse(response interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// isUserError reports errors caused by the caller's input. These become tool
// errors the model can act on instead of protocol failures.
func isUserError(err error) bool {
	if err == nil {
		return false
	}
	var parseErr *parsers.ParseError
	return errors.As(err, &parseErr) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, parsers.ErrUnsupportedLanguage) ||
		errors.Is(err, linemap.ErrInvalidRange) ||
		errors.Is(err, extractor.ErrInvalidFunctionName) ||
		errors.Is(err, extractor.ErrNotFeasible) ||
		errors.Is(err, editor.ErrStaleSource) ||
		errors.Is(err, editor.ErrNotContiguous)
}

// errorResult converts user errors into tool errors and passes others through.
func errorResult(err error) (*mcp.CallToolResult, error) {
	if isUserError(err) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return nil, err
}

// infeasibleResult explains why a block cannot be extracted.
func infeasibleResult(report *analyzer.Report) *mcp.CallToolResult {
	msg := fmt.Sprintf("%s: %s", extractor.ErrNotFeasible, report.Reason)
	for _, issue := range report.Issues {
		msg += fmt.Sprintf("\n- [%s] %s", issue.Severity, issue.Message)
	}
	return mcp.NewToolResultError(msg)
}
