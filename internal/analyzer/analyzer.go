// Package analyzer decides whether a range of statements can be extracted
// into a function and plans its parameters and return value.
package analyzer

import (
	"context"
	"fmt"

	"github.com/mvp-joe/extract-method/internal/jsast"
	"github.com/mvp-joe/extract-method/internal/linemap"
	"github.com/mvp-joe/extract-method/internal/parsers"
	"github.com/mvp-joe/extract-method/internal/scope"
)

// DefaultMaxParameters is the parameter count above which extraction is
// discouraged.
const DefaultMaxParameters = 5

// Loader produces a tree for a file path.
type Loader interface {
	Load(ctx context.Context, path string) (*jsast.Program, error)
}

// Analyzer is stateless between calls and safe for concurrent use.
type Analyzer struct {
	maxParameters int
	loader        Loader
}

type Option func(*Analyzer)

// WithMaxParameters sets the TooManyParameters threshold.
func WithMaxParameters(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.maxParameters = n
		}
	}
}

// WithLoader replaces the file loader used by AnalyzeFile.
func WithLoader(l Loader) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.loader = l
		}
	}
}

func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		maxParameters: DefaultMaxParameters,
		loader:        parsers.FileLoader{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs an analysis with default settings.
func Analyze(tree *jsast.Program, r linemap.Range) *Report {
	return New().Analyze(tree, r)
}

// AnalyzeFile loads path and analyzes r. Load and parse failures are
// returned unchanged; analysis problems are reported as issues.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string, r linemap.Range) (*Report, error) {
	tree, err := a.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	report := a.Analyze(tree, r)
	report.FilePath = path
	return report, nil
}

// Analyze inspects r in tree. The tree is only read.
func (a *Analyzer) Analyze(tree *jsast.Program, r linemap.Range) *Report {
	report := &Report{
		State:      StateInitial,
		Issues:     []Issue{},
		Parameters: []Parameter{},
		ReturnPlan: ReturnPlan{Kind: ReturnNone},
		tree:       tree,
	}

	// Range mapping.
	report.Info = linemap.RangeInfo(tree, r)
	stmts := linemap.StatementsIn(tree, r)
	report.statements = linemap.Outermost(stmts)
	report.scope = linemap.ContainingScope(tree, r)
	report.State = StateRangeAnalyzed

	// Feasibility.
	if len(stmts) == 0 {
		report.addIssue(IssueNoStatements, SeverityError, "No statements found in the specified line range")
	}
	if report.scope == nil {
		report.addIssue(IssueAmbiguousScope, SeverityWarning, "Could not determine containing scope")
	}
	if !siblings(tree, report.statements) {
		report.addIssue(IssueRangeCrossesBlock, SeverityError,
			"The range starts and ends in different blocks; select whole statements of one block")
	}

	if report.Errors() == 0 && len(stmts) > 0 {
		a.plan(report, tree, r)
	}
	report.State = StateFeasibilityChecked

	report.Feasible = report.Errors() == 0
	if report.Feasible {
		report.State = StateFeasible
	} else {
		report.State = StateInfeasible
	}
	report.Recommended = report.Feasible && report.Warnings() == 0
	switch {
	case !report.Feasible:
		report.Reason = "Issues detected"
	case len(report.Issues) > 0:
		report.Reason = "Feasible with warnings"
	default:
		report.Reason = "Block appears extractable"
	}
	return report
}

// plan infers parameters, the return plan and control flow for a non-empty
// selection.
func (a *Analyzer) plan(report *Report, tree *jsast.Program, r linemap.Range) {
	block := report.statements

	var before, after []jsast.Node
	if r.Start > 1 {
		before = linemap.StatementsIn(tree, linemap.Range{Start: 1, End: r.Start - 1})
	}
	if last := max(tree.EndLine, r.End+1); r.End < last {
		after = linemap.StatementsIn(tree, linemap.Range{Start: r.End + 1, End: last})
	}

	used := scope.Used(block...)
	defined := scope.Defined(block...)
	modified := scope.Modified(block...)

	available := scope.Defined(before...)
	for _, name := range enclosingParams(tree, r).Names() {
		available.Add(name)
	}

	free := scope.FreeVariables(used, defined)
	for _, name := range free.Intersect(available).Names() {
		report.Parameters = append(report.Parameters, Parameter{Name: name, Reason: ReasonUsedNotDefined})
	}

	candidates := modified.Intersect(scope.Used(after...)).Names()
	switch len(candidates) {
	case 0:
	case 1:
		report.ReturnPlan = ReturnPlan{Kind: ReturnSingle, Names: candidates}
	default:
		report.ReturnPlan = ReturnPlan{Kind: ReturnComposite, Names: candidates}
	}

	report.ControlFlow = countExits(block)
	strayBreaks, strayContinues := strayExits(block)
	report.ControlFlow.EscapingBreaks = strayBreaks

	if n := len(report.Parameters); n > a.maxParameters {
		report.addIssue(IssueTooManyParameters, SeverityWarning,
			fmt.Sprintf("Too many parameters required (%d). Consider extracting a smaller block.", n))
	}
	if report.ReturnPlan.Kind == ReturnComposite {
		report.addIssue(IssueMultipleReturns, SeverityWarning,
			fmt.Sprintf("Multiple return values needed (%d). Will return an object.", len(candidates)))
	}
	for _, label := range escapingLabels(block) {
		report.addIssue(IssueLabeledExitEscapes, SeverityError,
			fmt.Sprintf("Labeled exit targets '%s', which is outside the selected block", label))
	}
	if strayContinues > 0 {
		report.addIssue(IssueContinueEscapes, SeverityError,
			"continue statement has no enclosing loop inside the selected block")
	}
}

func (r *Report) addIssue(code IssueCode, sev Severity, msg string) {
	r.Issues = append(r.Issues, Issue{Code: code, Severity: sev, Message: msg})
}

// enclosingParams collects the parameters of every function whose span
// encloses the range; they are in scope for the block even though no
// preceding statement declares them.
func enclosingParams(tree jsast.Node, r linemap.Range) *scope.Set {
	out := scope.NewSet()
	jsast.Inspect(tree, func(n jsast.Node) bool {
		sp := n.Loc()
		if !sp.Synthetic() && (sp.StartLine > r.Start || sp.EndLine < r.End) {
			return false
		}
		if jsast.IsFunction(n) {
			for _, name := range scope.Bindings(jsast.FunctionParams(n)...).Names() {
				out.Add(name)
			}
		}
		return true
	})
	return out
}

func countExits(block []jsast.Node) ControlFlow {
	var cf ControlFlow
	for _, stmt := range block {
		jsast.Walk(stmt, func(n, _ jsast.Node) {
			switch n.(type) {
			case *jsast.ReturnStatement:
				cf.EarlyReturns++
			case *jsast.BreakStatement:
				cf.Breaks++
			case *jsast.ContinueStatement:
				cf.Continues++
			}
		})
	}
	return cf
}

// escapingLabels returns labels used by break/continue in the block that no
// labeled statement inside the block defines.
func escapingLabels(block []jsast.Node) []string {
	defined := scope.NewSet()
	targets := scope.NewSet()
	for _, stmt := range block {
		jsast.Walk(stmt, func(n, _ jsast.Node) {
			switch n := n.(type) {
			case *jsast.LabeledStatement:
				defined.Add(n.Label)
			case *jsast.BreakStatement:
				if n.Label != "" {
					targets.Add(n.Label)
				}
			case *jsast.ContinueStatement:
				if n.Label != "" {
					targets.Add(n.Label)
				}
			}
		})
	}
	return targets.Difference(defined).Names()
}

// strayExits counts unlabeled breaks with no enclosing loop or switch and
// unlabeled continues with no enclosing loop inside the block. Nested
// functions are skipped.
func strayExits(block []jsast.Node) (breaks, continues int) {
	var visit func(n jsast.Node, loops, switches int)
	visit = func(n jsast.Node, loops, switches int) {
		if n == nil {
			return
		}
		switch n := n.(type) {
		case *jsast.BreakStatement:
			if n.Label == "" && loops+switches == 0 {
				breaks++
			}
			return
		case *jsast.ContinueStatement:
			if n.Label == "" && loops == 0 {
				continues++
			}
			return
		case *jsast.ForStatement, *jsast.ForInStatement, *jsast.ForOfStatement,
			*jsast.WhileStatement, *jsast.DoWhileStatement:
			loops++
		case *jsast.SwitchStatement:
			switches++
		case *jsast.FunctionDeclaration, *jsast.FunctionExpression, *jsast.ArrowFunctionExpression:
			return
		}
		for _, c := range jsast.Children(n) {
			visit(c, loops, switches)
		}
	}
	for _, stmt := range block {
		visit(stmt, 0, 0)
	}
	return breaks, continues
}

// siblings reports whether every statement shares one parent, so the block
// can be replaced as a contiguous run of a single statement list.
func siblings(tree *jsast.Program, stmts []jsast.Node) bool {
	if len(stmts) < 2 {
		return true
	}
	want := make(map[jsast.Node]bool, len(stmts))
	for _, s := range stmts {
		want[s] = true
	}
	var parent jsast.Node
	same := true
	jsast.Walk(tree, func(n, p jsast.Node) {
		if !want[n] {
			return
		}
		if parent == nil {
			parent = p
		} else if p != parent {
			same = false
		}
	})
	return same
}
