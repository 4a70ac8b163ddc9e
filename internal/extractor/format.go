package extractor

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatPreview renders a result for people.
func FormatPreview(r *Result) string {
	lines := []string{
		"=== EXTRACTED FUNCTION ===",
		"",
		r.FunctionText,
		"",
		"=== REPLACEMENT CODE ===",
		"",
		r.ReplacementText,
		"",
		"=== SUMMARY ===",
		"Function name: " + r.FunctionName,
		fmt.Sprintf("Parameters: %d", len(r.Parameters)),
	}
	for _, p := range r.Parameters {
		lines = append(lines, fmt.Sprintf("  - %s (%s)", p.Name, p.Reason))
	}
	lines = append(lines, "Return value: "+r.ReturnPlan.String())
	lines = append(lines, "Placement: "+string(r.Placement))

	if cf := r.ControlFlow; cf.Exits() {
		lines = append(lines, "", "Control flow transformations:")
		if cf.Breaks > 0 {
			if r.BreaksRewritten > 0 {
				lines = append(lines, fmt.Sprintf("  - %d break statement(s) → return", r.BreaksRewritten))
			} else {
				lines = append(lines, fmt.Sprintf("  - %d break statement(s) (kept as-is)", cf.Breaks))
			}
		}
		if cf.EarlyReturns > 0 {
			lines = append(lines, fmt.Sprintf("  - %d early return statement(s) (kept as-is)", cf.EarlyReturns))
		}
		if cf.Continues > 0 {
			lines = append(lines, fmt.Sprintf("  - %d continue statement(s) (kept as-is)", cf.Continues))
		}
	}
	for _, note := range r.Notes {
		lines = append(lines, "⚠️ "+note)
	}
	return strings.Join(lines, "\n")
}

// FormatPreviewJSON renders a result as indented JSON.
func FormatPreviewJSON(r *Result) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal extraction: %w", err)
	}
	return data, nil
}
