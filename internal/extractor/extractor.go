// Package extractor generates the function and call-site code for a
// feasible extraction plan.
package extractor

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/mvp-joe/extract-method/internal/analyzer"
	"github.com/mvp-joe/extract-method/internal/jsast"
	"github.com/mvp-joe/extract-method/internal/printer"
	"github.com/mvp-joe/extract-method/internal/scope"
)

var (
	// ErrInvalidFunctionName is returned for a missing or malformed name.
	ErrInvalidFunctionName = errors.New("invalid function name")

	// ErrNotFeasible is returned when generating from an infeasible report.
	ErrNotFeasible = errors.New("cannot extract: analysis indicates extraction is not feasible")

	// ErrBreakEscapes is returned when a break leaves the block and breaks
	// are not rewritten to return.
	ErrBreakEscapes = fmt.Errorf("%w: a break exits the selected block and is not rewritten to return", ErrNotFeasible)
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true, "continue": true,
	"debugger": true, "default": true, "delete": true, "do": true, "else": true, "enum": true,
	"export": true, "extends": true, "false": true, "finally": true, "for": true, "function": true,
	"if": true, "import": true, "in": true, "instanceof": true, "new": true, "null": true,
	"return": true, "super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true, "with": true,
	"yield": true, "let": true, "static": true, "implements": true, "interface": true,
	"package": true, "private": true, "protected": true, "public": true, "await": true,
}

// ValidateName checks that name can be used as a function name.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: function name is required", ErrInvalidFunctionName)
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidFunctionName, name)
	}
	if reservedWords[name] {
		return fmt.Errorf("%w: %q is a reserved word", ErrInvalidFunctionName, name)
	}
	return nil
}

// Printer renders a detached tree fragment as source text.
type Printer interface {
	Print(n jsast.Node) string
}

// Options tunes generation. A nil TransformBreak lets the generator decide.
type Options struct {
	TransformBreak *bool
	Placement      Placement
}

// Result is the generated code for one extraction. It is never modified
// after Generate returns it.
type Result struct {
	FunctionName    string               `json:"functionName"`
	FunctionText    string               `json:"extractedFunction"`
	ReplacementText string               `json:"replacementCall"`
	Parameters      []analyzer.Parameter `json:"parameters"`
	ReturnPlan      analyzer.ReturnPlan  `json:"returnPlan"`
	ControlFlow     analyzer.ControlFlow `json:"controlFlow"`
	Placement       Placement            `json:"placement"`
	Async           bool                 `json:"async"`
	BreaksRewritten int                  `json:"breaksRewritten"`
	Notes           []string             `json:"notes,omitempty"`
}

// Generator turns reports into code. It holds no per-call state.
type Generator struct {
	printer Printer
}

// NewGenerator uses p for rendering, or the default printer when p is nil.
func NewGenerator(p Printer) *Generator {
	if p == nil {
		p = printer.New(printer.DefaultConfig())
	}
	return &Generator{printer: p}
}

// Generate renders with the default printer.
func Generate(report *analyzer.Report, name string, opts Options) (*Result, error) {
	return NewGenerator(nil).Generate(report, name, opts)
}

// Generate builds the extracted function and its replacement call. The
// report's tree is never modified: statements are cloned before rewriting.
func (g *Generator) Generate(report *analyzer.Report, name string, opts Options) (*Result, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if report == nil || !report.Feasible {
		return nil, ErrNotFeasible
	}

	placement := opts.Placement
	if placement == "" {
		placement = PlacementBefore
	}

	stmts := report.Statements()
	plan := report.ReturnPlan
	async := containsAwait(stmts)

	transform := report.ContainingScopeKind == jsast.KindSwitchCase.String() && report.ControlFlow.Breaks > 0
	if opts.TransformBreak != nil {
		transform = *opts.TransformBreak
	}
	if !transform && report.ControlFlow.EscapingBreaks > 0 {
		return nil, ErrBreakEscapes
	}

	res := &Result{
		FunctionName: name,
		Parameters:   append([]analyzer.Parameter{}, report.Parameters...),
		ReturnPlan:   plan,
		ControlFlow:  report.ControlFlow,
		Placement:    placement,
		Async:        async,
	}

	body := make([]jsast.Node, 0, len(stmts)+1)
	for _, stmt := range stmts {
		if !transform {
			body = append(body, jsast.Clone(stmt))
			continue
		}
		rewritten, count := rewriteBreaks(stmt, plan)
		res.BreaksRewritten += count
		body = append(body, rewritten)
	}
	trailingBreak := transform && endsWithBreak(stmts)
	if transform && nestedBreaks(stmts) {
		res.Notes = append(res.Notes, "a break inside a nested loop or switch was rewritten to return")
	}
	if res.BreaksRewritten > 0 && !trailingBreak {
		res.Notes = append(res.Notes, "a conditional break was rewritten to return; the call site no longer breaks")
	}
	if plan.Present() && !endsWithReturn(body) {
		body = append(body, &jsast.ReturnStatement{Argument: returnValue(plan)})
	}

	params := make([]jsast.Node, 0, len(report.Parameters))
	args := make([]jsast.Node, 0, len(report.Parameters))
	for _, p := range report.Parameters {
		params = append(params, &jsast.Identifier{Name: p.Name})
		args = append(args, &jsast.Identifier{Name: p.Name})
	}

	fn := &jsast.FunctionDeclaration{
		ID:     &jsast.Identifier{Name: name},
		Params: params,
		Body:   &jsast.BlockStatement{Body: body},
		Async:  async,
	}
	res.FunctionText = g.printer.Print(fn)

	var call jsast.Node = &jsast.CallExpression{Callee: &jsast.Identifier{Name: name}, Arguments: args}
	if async {
		call = &jsast.AwaitExpression{Argument: call}
	}
	declared := scope.Defined(stmts...)
	site := replacement(plan, call, declared)
	if trailingBreak {
		site = append(site, &jsast.BreakStatement{})
	}
	res.ReplacementText = g.printer.Print(&jsast.Program{Body: site})

	return res, nil
}

// rewriteBreaks clones stmt, turning every unlabeled break into a return of
// the plan's value.
func rewriteBreaks(stmt jsast.Node, plan analyzer.ReturnPlan) (jsast.Node, int) {
	count := 0
	out := jsast.Rewrite(stmt, func(n jsast.Node) jsast.Node {
		b, ok := n.(*jsast.BreakStatement)
		if !ok || b.Label != "" {
			return n
		}
		count++
		ret := &jsast.ReturnStatement{Span: b.Span}
		if plan.Present() {
			ret.Argument = returnValue(plan)
		}
		return ret
	})
	return out, count
}

func endsWithBreak(stmts []jsast.Node) bool {
	if len(stmts) == 0 {
		return false
	}
	b, ok := stmts[len(stmts)-1].(*jsast.BreakStatement)
	return ok && b.Label == ""
}

func endsWithReturn(body []jsast.Node) bool {
	if len(body) == 0 {
		return false
	}
	_, ok := body[len(body)-1].(*jsast.ReturnStatement)
	return ok
}

// nestedBreaks reports an unlabeled break whose target is a loop or switch
// inside the block.
func nestedBreaks(stmts []jsast.Node) bool {
	found := false
	var visit func(n jsast.Node, depth int)
	visit = func(n jsast.Node, depth int) {
		if n == nil || found {
			return
		}
		switch n := n.(type) {
		case *jsast.BreakStatement:
			if n.Label == "" && depth > 0 {
				found = true
			}
			return
		case *jsast.ForStatement, *jsast.ForInStatement, *jsast.ForOfStatement,
			*jsast.WhileStatement, *jsast.DoWhileStatement, *jsast.SwitchStatement:
			depth++
		case *jsast.FunctionDeclaration, *jsast.FunctionExpression, *jsast.ArrowFunctionExpression:
			return
		}
		for _, c := range jsast.Children(n) {
			visit(c, depth)
		}
	}
	for _, s := range stmts {
		visit(s, 0)
	}
	return found
}

// containsAwait reports an await outside nested functions.
func containsAwait(stmts []jsast.Node) bool {
	found := false
	for _, s := range stmts {
		jsast.Inspect(s, func(n jsast.Node) bool {
			if found || jsast.IsFunction(n) {
				return false
			}
			switch n := n.(type) {
			case *jsast.AwaitExpression:
				found = true
			case *jsast.ForOfStatement:
				found = found || n.Await
			}
			return !found
		})
	}
	return found
}

func returnValue(plan analyzer.ReturnPlan) jsast.Node {
	if plan.Kind == analyzer.ReturnSingle {
		return &jsast.Identifier{Name: plan.Names[0]}
	}
	return shorthandObject(plan.Names, false)
}

func shorthandObject(names []string, pattern bool) jsast.Node {
	props := make([]jsast.Node, len(names))
	for i, name := range names {
		props[i] = &jsast.Property{
			Key:       &jsast.Identifier{Name: name},
			Value:     &jsast.Identifier{Name: name},
			Shorthand: true,
		}
	}
	if pattern {
		return &jsast.ObjectPattern{Properties: props}
	}
	return &jsast.ObjectExpression{Properties: props}
}

// replacement builds the call-site statements. Return names that the block
// declares no longer exist at the call site, so they are declared there.
func replacement(plan analyzer.ReturnPlan, call jsast.Node, declared *scope.Set) []jsast.Node {
	switch plan.Kind {
	case analyzer.ReturnSingle:
		name := plan.Names[0]
		if declared.Has(name) {
			return []jsast.Node{letDecl(&jsast.Identifier{Name: name}, call)}
		}
		return []jsast.Node{assign(&jsast.Identifier{Name: name}, call)}
	case analyzer.ReturnComposite:
		var local []string
		for _, name := range plan.Names {
			if declared.Has(name) {
				local = append(local, name)
			}
		}
		if len(local) == len(plan.Names) {
			return []jsast.Node{letDecl(shorthandObject(plan.Names, true), call)}
		}
		var out []jsast.Node
		if len(local) > 0 {
			decl := &jsast.VariableDeclaration{DeclKind: "let"}
			for _, name := range local {
				decl.Declarations = append(decl.Declarations, &jsast.VariableDeclarator{ID: &jsast.Identifier{Name: name}})
			}
			out = append(out, decl)
		}
		return append(out, assign(shorthandObject(plan.Names, true), call))
	}
	return []jsast.Node{&jsast.ExpressionStatement{Expression: call}}
}

func letDecl(id, init jsast.Node) jsast.Node {
	return &jsast.VariableDeclaration{
		DeclKind:     "let",
		Declarations: []*jsast.VariableDeclarator{{ID: id, Init: init}},
	}
}

func assign(left, right jsast.Node) jsast.Node {
	return &jsast.ExpressionStatement{Expression: &jsast.AssignmentExpression{Operator: "=", Left: left, Right: right}}
}
