// Package printer renders jsast trees as JavaScript source.
//
// Output uses one statement per line, semicolons after simple statements and
// single-line object literals. Opaque nodes and literals reproduce their
// original text, and parentheses appear only where the tree has a
// ParenthesizedExpression or where a statement would otherwise be ambiguous.
package printer

import (
	"strings"

	"github.com/mvp-joe/extract-method/internal/jsast"
)

// Config controls indentation.
type Config struct {
	Indent  int
	UseTabs bool
}

// DefaultConfig indents with two spaces.
func DefaultConfig() Config {
	return Config{Indent: 2}
}

// Printer is safe for concurrent use; every Print call has its own state.
type Printer struct {
	unit string
}

func New(cfg Config) *Printer {
	unit := "\t"
	if !cfg.UseTabs {
		n := cfg.Indent
		if n <= 0 {
			n = 2
		}
		unit = strings.Repeat(" ", n)
	}
	return &Printer{unit: unit}
}

// IndentUnit returns the string used for one level of indentation.
func (p *Printer) IndentUnit() string { return p.unit }

// Print renders n. Statements are printed at depth zero.
func (p *Printer) Print(n jsast.Node) string {
	w := &writer{unit: p.unit}
	if n == nil {
		return ""
	}
	if prog, ok := n.(*jsast.Program); ok {
		return w.statements(prog.Body)
	}
	if isStatementNode(n) {
		return w.stmt(n)
	}
	return w.expr(n)
}

func isStatementNode(n jsast.Node) bool {
	switch n.(type) {
	case *jsast.ExpressionStatement, *jsast.VariableDeclaration, *jsast.FunctionDeclaration,
		*jsast.ClassDeclaration, *jsast.ReturnStatement, *jsast.IfStatement, *jsast.ForStatement,
		*jsast.ForInStatement, *jsast.ForOfStatement, *jsast.WhileStatement, *jsast.DoWhileStatement,
		*jsast.SwitchStatement, *jsast.BreakStatement, *jsast.ContinueStatement, *jsast.ThrowStatement,
		*jsast.TryStatement, *jsast.BlockStatement, *jsast.LabeledStatement, *jsast.EmptyStatement:
		return true
	}
	return false
}

type writer struct {
	unit  string
	depth int
}

func (w *writer) indent() string {
	return strings.Repeat(w.unit, w.depth)
}

// statements prints a statement list, one per line, at the current depth.
// The first line carries no indentation; callers place it.
func (w *writer) statements(list []jsast.Node) string {
	lines := make([]string, 0, len(list))
	for i, s := range list {
		prefix := ""
		if i > 0 {
			prefix = w.indent()
		}
		lines = append(lines, prefix+w.stmt(s))
	}
	return strings.Join(lines, "\n")
}

// body prints a braced statement list at one deeper level.
func (w *writer) body(list []jsast.Node) string {
	if len(list) == 0 {
		return "{}"
	}
	w.depth++
	inner := w.indent() + w.statements(list)
	w.depth--
	return "{\n" + inner + "\n" + w.indent() + "}"
}

// clause prints the body of if/for/while: blocks inline, other statements
// on the same line.
func (w *writer) clause(n jsast.Node) string {
	if n == nil {
		return ";"
	}
	return w.stmt(n)
}

func (w *writer) stmt(n jsast.Node) string {
	switch n := n.(type) {
	case *jsast.ExpressionStatement:
		e := w.expr(n.Expression)
		if startsAmbiguous(n.Expression) {
			e = "(" + e + ")"
		}
		return e + ";"
	case *jsast.VariableDeclaration:
		return w.declaration(n) + ";"
	case *jsast.FunctionDeclaration:
		return w.function("function", n.Async, n.Generator, n.ID, n.Params, n.ReturnType, n.Body)
	case *jsast.ClassDeclaration:
		s := "class"
		if n.ID != nil {
			s += " " + n.ID.Name
		}
		if n.SuperClass != nil {
			s += " extends " + w.expr(n.SuperClass)
		}
		if n.Body != nil {
			s += " " + n.Body.Text
		} else {
			s += " {}"
		}
		return s
	case *jsast.ReturnStatement:
		if n.Argument == nil {
			return "return;"
		}
		return "return " + w.expr(n.Argument) + ";"
	case *jsast.ThrowStatement:
		return "throw " + w.expr(n.Argument) + ";"
	case *jsast.IfStatement:
		s := "if (" + w.expr(n.Test) + ") " + w.clause(n.Consequent)
		if n.Alternate != nil {
			if _, ok := n.Consequent.(*jsast.BlockStatement); ok {
				s += " else "
			} else {
				s += "\n" + w.indent() + "else "
			}
			s += w.clause(n.Alternate)
		}
		return s
	case *jsast.ForStatement:
		init := ""
		if d, ok := n.Init.(*jsast.VariableDeclaration); ok {
			init = w.declaration(d)
		} else if n.Init != nil {
			init = w.expr(n.Init)
		}
		test, update := "", ""
		if n.Test != nil {
			test = " " + w.expr(n.Test)
		}
		if n.Update != nil {
			update = " " + w.expr(n.Update)
		}
		return "for (" + init + ";" + test + ";" + update + ") " + w.clause(n.Body)
	case *jsast.ForInStatement:
		return "for (" + w.loopLeft(n.Left) + " in " + w.expr(n.Right) + ") " + w.clause(n.Body)
	case *jsast.ForOfStatement:
		head := "for ("
		if n.Await {
			head = "for await ("
		}
		return head + w.loopLeft(n.Left) + " of " + w.expr(n.Right) + ") " + w.clause(n.Body)
	case *jsast.WhileStatement:
		return "while (" + w.expr(n.Test) + ") " + w.clause(n.Body)
	case *jsast.DoWhileStatement:
		return "do " + w.clause(n.Body) + " while (" + w.expr(n.Test) + ");"
	case *jsast.SwitchStatement:
		return w.switchStmt(n)
	case *jsast.BreakStatement:
		if n.Label != "" {
			return "break " + n.Label + ";"
		}
		return "break;"
	case *jsast.ContinueStatement:
		if n.Label != "" {
			return "continue " + n.Label + ";"
		}
		return "continue;"
	case *jsast.TryStatement:
		s := "try " + w.block(n.Block)
		if h := n.Handler; h != nil {
			s += " catch "
			if h.Param != nil {
				s += "(" + w.expr(h.Param) + ") "
			}
			s += w.block(h.Body)
		}
		if n.Finalizer != nil {
			s += " finally " + w.block(n.Finalizer)
		}
		return s
	case *jsast.BlockStatement:
		return w.block(n)
	case *jsast.LabeledStatement:
		return n.Label + ": " + w.clause(n.Body)
	case *jsast.EmptyStatement:
		return ";"
	case *jsast.Opaque:
		return n.Text
	}
	return w.expr(n) + ";"
}

func (w *writer) block(b *jsast.BlockStatement) string {
	if b == nil {
		return "{}"
	}
	return w.body(b.Body)
}

func (w *writer) declaration(d *jsast.VariableDeclaration) string {
	parts := make([]string, 0, len(d.Declarations))
	for _, decl := range d.Declarations {
		s := w.expr(decl.ID) + decl.TypeAnnotation
		if decl.Init != nil {
			s += " = " + w.expr(decl.Init)
		}
		parts = append(parts, s)
	}
	return d.DeclKind + " " + strings.Join(parts, ", ")
}

func (w *writer) loopLeft(n jsast.Node) string {
	if d, ok := n.(*jsast.VariableDeclaration); ok {
		return w.declaration(d)
	}
	return w.expr(n)
}

func (w *writer) switchStmt(n *jsast.SwitchStatement) string {
	s := "switch (" + w.expr(n.Discriminant) + ") {"
	if len(n.Cases) == 0 {
		return s + "}"
	}
	w.depth++
	for _, c := range n.Cases {
		s += "\n" + w.indent()
		if c.Test != nil {
			s += "case " + w.expr(c.Test) + ":"
		} else {
			s += "default:"
		}
		if len(c.Consequent) == 0 {
			continue
		}
		if blk, ok := c.Consequent[0].(*jsast.BlockStatement); ok && len(c.Consequent) == 1 {
			s += " " + w.block(blk)
			continue
		}
		w.depth++
		s += "\n" + w.indent() + w.statements(c.Consequent)
		w.depth--
	}
	w.depth--
	return s + "\n" + w.indent() + "}"
}

func (w *writer) function(keyword string, async, generator bool, id *jsast.Identifier, params []jsast.Node, returnType string, body *jsast.BlockStatement) string {
	s := ""
	if async {
		s = "async "
	}
	s += keyword
	if generator {
		s += "*"
	}
	if id != nil {
		s += " " + id.Name
	}
	return s + "(" + w.list(params) + ")" + returnType + " " + w.block(body)
}

func (w *writer) list(nodes []jsast.Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		if n != nil {
			parts[i] = w.expr(n)
		}
	}
	s := strings.Join(parts, ", ")
	if len(nodes) > 0 && nodes[len(nodes)-1] == nil {
		s += ","
	}
	return s
}

func (w *writer) expr(n jsast.Node) string {
	switch n := n.(type) {
	case nil:
		return ""
	case *jsast.Identifier:
		return n.Name + n.TypeAnnotation
	case *jsast.Literal:
		return n.Raw
	case *jsast.ThisExpression:
		return "this"
	case *jsast.CallExpression:
		callee := w.expr(n.Callee)
		if n.Optional {
			callee += "?."
		}
		return callee + "(" + w.list(n.Arguments) + ")"
	case *jsast.NewExpression:
		return "new " + w.expr(n.Callee) + "(" + w.list(n.Arguments) + ")"
	case *jsast.MemberExpression:
		obj := w.expr(n.Object)
		if n.Computed {
			if n.Optional {
				return obj + "?.[" + w.expr(n.Property) + "]"
			}
			return obj + "[" + w.expr(n.Property) + "]"
		}
		if n.Optional {
			return obj + "?." + w.expr(n.Property)
		}
		return obj + "." + w.expr(n.Property)
	case *jsast.AssignmentExpression:
		return w.expr(n.Left) + " " + n.Operator + " " + w.expr(n.Right)
	case *jsast.UpdateExpression:
		if n.Prefix {
			return n.Operator + w.expr(n.Argument)
		}
		return w.expr(n.Argument) + n.Operator
	case *jsast.BinaryExpression:
		return w.expr(n.Left) + " " + n.Operator + " " + w.expr(n.Right)
	case *jsast.UnaryExpression:
		switch n.Operator {
		case "typeof", "void", "delete":
			return n.Operator + " " + w.expr(n.Argument)
		}
		return n.Operator + w.expr(n.Argument)
	case *jsast.ConditionalExpression:
		return w.expr(n.Test) + " ? " + w.expr(n.Consequent) + " : " + w.expr(n.Alternate)
	case *jsast.SequenceExpression:
		return w.list(n.Expressions)
	case *jsast.ParenthesizedExpression:
		return "(" + w.expr(n.Expression) + ")"
	case *jsast.ArrayExpression:
		return "[" + w.list(n.Elements) + "]"
	case *jsast.ArrayPattern:
		return "[" + w.list(n.Elements) + "]"
	case *jsast.ObjectExpression:
		return w.object(n.Properties)
	case *jsast.ObjectPattern:
		return w.object(n.Properties)
	case *jsast.Property:
		if n.Shorthand {
			return w.expr(n.Value)
		}
		key := w.expr(n.Key)
		if n.Computed {
			key = "[" + key + "]"
		}
		return key + ": " + w.expr(n.Value)
	case *jsast.SpreadElement:
		return "..." + w.expr(n.Argument)
	case *jsast.RestElement:
		return "..." + w.expr(n.Argument)
	case *jsast.AssignmentPattern:
		return w.expr(n.Left) + " = " + w.expr(n.Right)
	case *jsast.AwaitExpression:
		return "await " + w.expr(n.Argument)
	case *jsast.ArrowFunctionExpression:
		s := ""
		if n.Async {
			s = "async "
		}
		s += "(" + w.list(n.Params) + ")" + n.ReturnType + " => "
		if blk, ok := n.Body.(*jsast.BlockStatement); ok {
			return s + w.block(blk)
		}
		if _, ok := n.Body.(*jsast.ObjectExpression); ok {
			return s + "(" + w.expr(n.Body) + ")"
		}
		return s + w.expr(n.Body)
	case *jsast.FunctionExpression:
		return w.function("function", n.Async, n.Generator, n.ID, n.Params, n.ReturnType, n.Body)
	case *jsast.Opaque:
		return n.Text
	case *jsast.VariableDeclaration:
		return w.declaration(n)
	}
	if isStatementNode(n) {
		return w.stmt(n)
	}
	return ""
}

func (w *writer) object(props []jsast.Node) string {
	if len(props) == 0 {
		return "{}"
	}
	return "{ " + w.list(props) + " }"
}

// startsAmbiguous reports whether an expression statement would begin with
// a token the parser reads as a block or declaration.
func startsAmbiguous(n jsast.Node) bool {
	for {
		switch e := n.(type) {
		case *jsast.ObjectExpression, *jsast.ObjectPattern, *jsast.FunctionExpression:
			return true
		case *jsast.AssignmentExpression:
			n = e.Left
		case *jsast.CallExpression:
			n = e.Callee
		case *jsast.MemberExpression:
			n = e.Object
		case *jsast.BinaryExpression:
			n = e.Left
		case *jsast.ConditionalExpression:
			n = e.Test
		case *jsast.SequenceExpression:
			if len(e.Expressions) == 0 {
				return false
			}
			n = e.Expressions[0]
		case *jsast.UpdateExpression:
			if e.Prefix {
				return false
			}
			n = e.Argument
		default:
			return false
		}
	}
}
