package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatText renders a report for people.
func FormatText(r *Report) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	name := r.FilePath
	if name == "" {
		name = "<input>"
	}
	line("Analysis of %s lines %d-%d:", name, r.StartLine, r.EndLine)
	line("")
	if r.Feasible {
		line("✓ Extraction is FEASIBLE")
	} else {
		line("❌ Extraction is NOT FEASIBLE")
	}

	line("")
	line("Metrics:")
	line("  Lines of code: %d", r.LineCount)
	line("  Statements: %d", r.StatementCount)
	scopeKind := r.ContainingScopeKind
	if scopeKind == "" {
		scopeKind = "unknown"
	}
	line("  Parent scope: %s", scopeKind)
	line("  Parameters needed: %d", len(r.Parameters))
	for _, p := range r.Parameters {
		line("    - %s (%s)", p.Name, p.Reason)
	}
	line("  Return value: %s", r.ReturnPlan)

	if cf := r.ControlFlow; cf.Exits() {
		line("  Control flow:")
		if cf.EarlyReturns > 0 {
			line("    - %d return statement(s)", cf.EarlyReturns)
		}
		if cf.Breaks > 0 {
			line("    - %d break statement(s)", cf.Breaks)
		}
		if cf.Continues > 0 {
			line("    - %d continue statement(s)", cf.Continues)
		}
	}

	if len(r.Issues) > 0 {
		line("")
		line("Issues:")
		for _, issue := range r.Issues {
			icon := "⚠️"
			if issue.Severity == SeverityError {
				icon = "❌"
			}
			line("  %s %s", icon, issue.Message)
		}
	}

	line("")
	if r.Recommended {
		b.WriteString("Recommendation: ✓ " + r.Reason)
	} else {
		b.WriteString("Recommendation: ❌ " + r.Reason)
	}
	return b.String()
}

// FormatJSON renders a report as indented JSON.
func FormatJSON(r *Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return data, nil
}
