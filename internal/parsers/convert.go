package parsers

import (
	"strings"

	"github.com/mvp-joe/extract-method/internal/jsast"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// converter maps a tree-sitter concrete syntax tree onto jsast. Constructs
// outside the modelled set become *jsast.Opaque nodes that keep their text and
// their converted children.
type converter struct {
	src []byte
}

func (c *converter) span(n *sitter.Node) jsast.Span {
	start, end := n.StartPosition(), n.EndPosition()
	return jsast.Span{
		StartLine:   int(start.Row) + 1,
		StartColumn: int(start.Column),
		EndLine:     int(end.Row) + 1,
		EndColumn:   int(end.Column),
		StartOffset: int(n.StartByte()),
		EndOffset:   int(n.EndByte()),
	}
}

func (c *converter) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(c.src[n.StartByte():n.EndByte()])
}

// named returns the named children of n, without comments.
func named(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil || isComment(child) {
			continue
		}
		out = append(out, child)
	}
	return out
}

func firstNamed(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child != nil && !isComment(child) {
			return child
		}
	}
	return nil
}

// hasToken reports whether n has a direct anonymous child spelled tok.
func hasToken(n *sitter.Node, tok string) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child != nil && !child.IsNamed() && child.Kind() == tok {
			return true
		}
	}
	return false
}

func isComment(n *sitter.Node) bool {
	return n.Kind() == "comment" || n.Kind() == "html_comment"
}

// typeOnly reports kinds that carry no runtime names.
func typeOnly(kind string) bool {
	if strings.HasSuffix(kind, "_type") {
		return true
	}
	switch kind {
	case "type_identifier", "type_annotation", "type_arguments", "type_parameters",
		"predefined_type", "interface_body", "implements_clause", "type_predicate_annotation",
		"asserts_annotation", "opting_type_annotation", "omitting_type_annotation",
		"accessibility_modifier", "override_modifier", "property_identifier",
		"statement_identifier", "decorator":
		return true
	}
	return false
}

func (c *converter) statements(n *sitter.Node) []jsast.Node {
	var out []jsast.Node
	for _, child := range named(n) {
		if s := c.node(child); s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (c *converter) field(n *sitter.Node, name string) jsast.Node {
	child := n.ChildByFieldName(name)
	if child == nil {
		return nil
	}
	return c.node(child)
}

func (c *converter) opaque(n *sitter.Node) *jsast.Opaque {
	o := &jsast.Opaque{Span: c.span(n), Type: n.Kind(), Text: c.text(n)}
	switch n.Kind() {
	case "interface_declaration", "type_alias_declaration", "function_signature", "ambient_declaration":
		return o
	}
	for _, child := range named(n) {
		if typeOnly(child.Kind()) {
			continue
		}
		if conv := c.node(child); conv != nil {
			o.Children = append(o.Children, conv)
		}
	}
	return o
}

// node converts any statement or expression.
func (c *converter) node(n *sitter.Node) jsast.Node {
	if n == nil || isComment(n) {
		return nil
	}
	sp := c.span(n)

	switch n.Kind() {
	// statements
	case "expression_statement":
		return &jsast.ExpressionStatement{Span: sp, Expression: c.node(firstNamed(n))}
	case "lexical_declaration", "variable_declaration":
		return c.declaration(n)
	case "function_declaration", "generator_function_declaration":
		fn := &jsast.FunctionDeclaration{
			Span:       sp,
			Params:     c.params(n.ChildByFieldName("parameters")),
			Body:       c.block(n.ChildByFieldName("body")),
			Async:      hasToken(n, "async"),
			Generator:  hasToken(n, "*"),
			ReturnType: c.text(n.ChildByFieldName("return_type")),
		}
		if name := n.ChildByFieldName("name"); name != nil {
			fn.ID = c.ident(name)
		}
		return fn
	case "class_declaration":
		return c.class(n)
	case "return_statement":
		return &jsast.ReturnStatement{Span: sp, Argument: c.node(firstNamed(n))}
	case "throw_statement":
		return &jsast.ThrowStatement{Span: sp, Argument: c.node(firstNamed(n))}
	case "if_statement":
		s := &jsast.IfStatement{
			Span:       sp,
			Test:       c.condition(n.ChildByFieldName("condition")),
			Consequent: c.field(n, "consequence"),
		}
		if alt := n.ChildByFieldName("alternative"); alt != nil {
			if alt.Kind() == "else_clause" {
				s.Alternate = c.node(firstNamed(alt))
			} else {
				s.Alternate = c.node(alt)
			}
		}
		return s
	case "for_statement":
		return &jsast.ForStatement{
			Span:   sp,
			Init:   c.forPart(n.ChildByFieldName("initializer")),
			Test:   c.forPart(n.ChildByFieldName("condition")),
			Update: c.forPart(n.ChildByFieldName("increment")),
			Body:   c.field(n, "body"),
		}
	case "for_in_statement":
		return c.forIn(n)
	case "while_statement":
		return &jsast.WhileStatement{
			Span: sp,
			Test: c.condition(n.ChildByFieldName("condition")),
			Body: c.field(n, "body"),
		}
	case "do_statement":
		return &jsast.DoWhileStatement{
			Span: sp,
			Body: c.field(n, "body"),
			Test: c.condition(n.ChildByFieldName("condition")),
		}
	case "switch_statement":
		return c.switchStmt(n)
	case "break_statement":
		return &jsast.BreakStatement{Span: sp, Label: c.text(n.ChildByFieldName("label"))}
	case "continue_statement":
		return &jsast.ContinueStatement{Span: sp, Label: c.text(n.ChildByFieldName("label"))}
	case "try_statement":
		s := &jsast.TryStatement{Span: sp, Block: c.block(n.ChildByFieldName("body"))}
		if h := n.ChildByFieldName("handler"); h != nil {
			s.Handler = &jsast.CatchClause{
				Span:  c.span(h),
				Param: c.pattern(h.ChildByFieldName("parameter")),
				Body:  c.block(h.ChildByFieldName("body")),
			}
		}
		if f := n.ChildByFieldName("finalizer"); f != nil {
			s.Finalizer = c.block(f.ChildByFieldName("body"))
		}
		return s
	case "statement_block":
		return c.block(n)
	case "labeled_statement":
		return &jsast.LabeledStatement{
			Span:  sp,
			Label: c.text(n.ChildByFieldName("label")),
			Body:  c.field(n, "body"),
		}
	case "empty_statement":
		return &jsast.EmptyStatement{Span: sp}

	// expressions
	case "identifier", "undefined", "shorthand_property_identifier",
		"shorthand_property_identifier_pattern", "private_property_identifier":
		return c.ident(n)
	case "this":
		return &jsast.ThisExpression{Span: sp}
	case "number", "string", "regex", "true", "false", "null":
		return &jsast.Literal{Span: sp, Raw: c.text(n)}
	case "call_expression":
		args := n.ChildByFieldName("arguments")
		if args != nil && args.Kind() != "arguments" {
			return c.opaque(n)
		}
		return &jsast.CallExpression{
			Span:      sp,
			Callee:    c.field(n, "function"),
			Arguments: c.arguments(args),
			Optional:  n.ChildByFieldName("optional_chain") != nil,
		}
	case "new_expression":
		return &jsast.NewExpression{
			Span:      sp,
			Callee:    c.field(n, "constructor"),
			Arguments: c.arguments(n.ChildByFieldName("arguments")),
		}
	case "member_expression":
		return &jsast.MemberExpression{
			Span:     sp,
			Object:   c.field(n, "object"),
			Property: c.ident(n.ChildByFieldName("property")),
			Optional: n.ChildByFieldName("optional_chain") != nil,
		}
	case "subscript_expression":
		return &jsast.MemberExpression{
			Span:     sp,
			Object:   c.field(n, "object"),
			Property: c.field(n, "index"),
			Computed: true,
			Optional: n.ChildByFieldName("optional_chain") != nil,
		}
	case "assignment_expression":
		return &jsast.AssignmentExpression{
			Span:     sp,
			Operator: "=",
			Left:     c.pattern(n.ChildByFieldName("left")),
			Right:    c.field(n, "right"),
		}
	case "augmented_assignment_expression":
		return &jsast.AssignmentExpression{
			Span:     sp,
			Operator: c.text(n.ChildByFieldName("operator")),
			Left:     c.field(n, "left"),
			Right:    c.field(n, "right"),
		}
	case "update_expression":
		arg := n.ChildByFieldName("argument")
		op := n.ChildByFieldName("operator")
		u := &jsast.UpdateExpression{Span: sp, Operator: c.text(op), Argument: c.node(arg)}
		if op != nil && arg != nil {
			u.Prefix = op.StartByte() < arg.StartByte()
		}
		return u
	case "binary_expression":
		return &jsast.BinaryExpression{
			Span:     sp,
			Operator: c.text(n.ChildByFieldName("operator")),
			Left:     c.field(n, "left"),
			Right:    c.field(n, "right"),
		}
	case "unary_expression":
		return &jsast.UnaryExpression{
			Span:     sp,
			Operator: c.text(n.ChildByFieldName("operator")),
			Argument: c.field(n, "argument"),
		}
	case "ternary_expression":
		return &jsast.ConditionalExpression{
			Span:       sp,
			Test:       c.field(n, "condition"),
			Consequent: c.field(n, "consequence"),
			Alternate:  c.field(n, "alternative"),
		}
	case "sequence_expression":
		return &jsast.SequenceExpression{Span: sp, Expressions: c.sequence(n, nil)}
	case "parenthesized_expression":
		return &jsast.ParenthesizedExpression{Span: sp, Expression: c.node(firstNamed(n))}
	case "array":
		return &jsast.ArrayExpression{Span: sp, Elements: c.elements(n, c.node)}
	case "object":
		return c.object(n)
	case "spread_element":
		return &jsast.SpreadElement{Span: sp, Argument: c.node(firstNamed(n))}
	case "await_expression":
		return &jsast.AwaitExpression{Span: sp, Argument: c.node(firstNamed(n))}
	case "arrow_function":
		fn := &jsast.ArrowFunctionExpression{
			Span:       sp,
			Async:      hasToken(n, "async"),
			ReturnType: c.text(n.ChildByFieldName("return_type")),
		}
		if p := n.ChildByFieldName("parameter"); p != nil {
			fn.Params = []jsast.Node{c.ident(p)}
		} else {
			fn.Params = c.params(n.ChildByFieldName("parameters"))
		}
		if body := n.ChildByFieldName("body"); body != nil {
			if body.Kind() == "statement_block" {
				fn.Body = c.block(body)
			} else {
				fn.Body = c.node(body)
			}
		}
		return fn
	case "function_expression", "function", "generator_function":
		return c.functionExpr(n)
	case "object_pattern", "array_pattern", "assignment_pattern", "rest_pattern":
		return c.pattern(n)
	}

	return c.opaque(n)
}

func (c *converter) ident(n *sitter.Node) *jsast.Identifier {
	if n == nil {
		return nil
	}
	return &jsast.Identifier{Span: c.span(n), Name: c.text(n)}
}

func (c *converter) block(n *sitter.Node) *jsast.BlockStatement {
	if n == nil {
		return nil
	}
	return &jsast.BlockStatement{Span: c.span(n), Body: c.statements(n)}
}

// condition unwraps the parentheses of an if/while/do-while head.
func (c *converter) condition(n *sitter.Node) jsast.Node {
	if n == nil {
		return nil
	}
	if n.Kind() == "parenthesized_expression" {
		return c.node(firstNamed(n))
	}
	return c.node(n)
}

// forPart converts one clause of a for head, which the grammar may wrap in
// an expression or empty statement.
func (c *converter) forPart(n *sitter.Node) jsast.Node {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case "empty_statement", ";":
		return nil
	case "expression_statement":
		return c.node(firstNamed(n))
	}
	return c.node(n)
}

func (c *converter) declaration(n *sitter.Node) *jsast.VariableDeclaration {
	decl := &jsast.VariableDeclaration{Span: c.span(n), DeclKind: "var"}
	if kind := n.ChildByFieldName("kind"); kind != nil {
		decl.DeclKind = c.text(kind)
	} else if first := n.Child(0); first != nil && !first.IsNamed() {
		decl.DeclKind = first.Kind()
	}
	for _, child := range named(n) {
		if child.Kind() != "variable_declarator" {
			continue
		}
		decl.Declarations = append(decl.Declarations, &jsast.VariableDeclarator{
			Span:           c.span(child),
			ID:             c.pattern(child.ChildByFieldName("name")),
			TypeAnnotation: c.text(child.ChildByFieldName("type")),
			Init:           c.field(child, "value"),
		})
	}
	return decl
}

func (c *converter) forIn(n *sitter.Node) jsast.Node {
	sp := c.span(n)
	left := c.pattern(n.ChildByFieldName("left"))
	if kind := n.ChildByFieldName("kind"); kind != nil {
		leftNode := n.ChildByFieldName("left")
		declSpan := c.span(kind)
		if leftNode != nil {
			end := c.span(leftNode)
			declSpan.EndLine, declSpan.EndColumn, declSpan.EndOffset = end.EndLine, end.EndColumn, end.EndOffset
		}
		decl := &jsast.VariableDeclaration{Span: declSpan, DeclKind: c.text(kind)}
		decl.Declarations = []*jsast.VariableDeclarator{{Span: declSpan, ID: left}}
		left = decl
	}
	right := c.field(n, "right")
	body := c.field(n, "body")

	op := c.text(n.ChildByFieldName("operator"))
	if op == "" && hasToken(n, "of") {
		op = "of"
	}
	if op == "of" {
		return &jsast.ForOfStatement{Span: sp, Left: left, Right: right, Body: body, Await: hasToken(n, "await")}
	}
	return &jsast.ForInStatement{Span: sp, Left: left, Right: right, Body: body}
}

func (c *converter) switchStmt(n *sitter.Node) *jsast.SwitchStatement {
	s := &jsast.SwitchStatement{
		Span:         c.span(n),
		Discriminant: c.condition(n.ChildByFieldName("value")),
	}
	body := n.ChildByFieldName("body")
	if body == nil {
		return s
	}
	for _, clause := range named(body) {
		sc := &jsast.SwitchCase{Span: c.span(clause)}
		children := named(clause)
		switch clause.Kind() {
		case "switch_case":
			if len(children) > 0 {
				sc.Test = c.node(children[0])
				children = children[1:]
			}
		case "switch_default":
		default:
			continue
		}
		for _, child := range children {
			if stmt := c.node(child); stmt != nil {
				sc.Consequent = append(sc.Consequent, stmt)
			}
		}
		s.Cases = append(s.Cases, sc)
	}
	return s
}

func (c *converter) class(n *sitter.Node) *jsast.ClassDeclaration {
	cls := &jsast.ClassDeclaration{Span: c.span(n)}
	if name := n.ChildByFieldName("name"); name != nil {
		cls.ID = c.ident(name)
	}
	for _, child := range named(n) {
		if child.Kind() != "class_heritage" {
			continue
		}
		for _, h := range named(child) {
			switch h.Kind() {
			case "extends_clause":
				cls.SuperClass = c.field(h, "value")
			case "implements_clause":
			default:
				if cls.SuperClass == nil {
					cls.SuperClass = c.node(h)
				}
			}
		}
	}
	if body := n.ChildByFieldName("body"); body != nil {
		ob := &jsast.Opaque{Span: c.span(body), Type: body.Kind(), Text: c.text(body)}
		for _, member := range named(body) {
			var conv jsast.Node
			if member.Kind() == "method_definition" {
				conv = c.method(member)
			} else {
				conv = c.opaque(member)
			}
			ob.Children = append(ob.Children, conv)
		}
		cls.Body = ob
	}
	return cls
}

// method models a class or object method as an opaque wrapper around a
// function expression, so its parameters and body are analyzed like any
// other nested function.
func (c *converter) method(n *sitter.Node) *jsast.Opaque {
	o := &jsast.Opaque{Span: c.span(n), Type: n.Kind(), Text: c.text(n)}
	if name := n.ChildByFieldName("name"); name != nil && name.Kind() == "computed_property_name" {
		if key := c.node(firstNamed(name)); key != nil {
			o.Children = append(o.Children, key)
		}
	}
	o.Children = append(o.Children, &jsast.FunctionExpression{
		Span:       c.span(n),
		Params:     c.params(n.ChildByFieldName("parameters")),
		Body:       c.block(n.ChildByFieldName("body")),
		Async:      hasToken(n, "async"),
		Generator:  hasToken(n, "*"),
		ReturnType: c.text(n.ChildByFieldName("return_type")),
	})
	return o
}

func (c *converter) functionExpr(n *sitter.Node) *jsast.FunctionExpression {
	fn := &jsast.FunctionExpression{
		Span:       c.span(n),
		Params:     c.params(n.ChildByFieldName("parameters")),
		Body:       c.block(n.ChildByFieldName("body")),
		Async:      hasToken(n, "async"),
		Generator:  hasToken(n, "*") || n.Kind() == "generator_function",
		ReturnType: c.text(n.ChildByFieldName("return_type")),
	}
	if name := n.ChildByFieldName("name"); name != nil {
		fn.ID = c.ident(name)
	}
	return fn
}

func (c *converter) params(n *sitter.Node) []jsast.Node {
	if n == nil {
		return nil
	}
	var out []jsast.Node
	for _, p := range named(n) {
		switch p.Kind() {
		case "required_parameter", "optional_parameter":
			pat := p.ChildByFieldName("pattern")
			if pat == nil || pat.Kind() == "this" {
				continue
			}
			param := c.pattern(pat)
			if id, ok := param.(*jsast.Identifier); ok {
				annotation := c.text(p.ChildByFieldName("type"))
				if p.Kind() == "optional_parameter" {
					annotation = "?" + annotation
				}
				id.TypeAnnotation = annotation
			}
			if def := p.ChildByFieldName("value"); def != nil {
				param = &jsast.AssignmentPattern{Span: c.span(p), Left: param, Right: c.node(def)}
			}
			out = append(out, param)
		default:
			if typeOnly(p.Kind()) {
				continue
			}
			if param := c.pattern(p); param != nil {
				out = append(out, param)
			}
		}
	}
	return out
}

func (c *converter) arguments(n *sitter.Node) []jsast.Node {
	if n == nil {
		return nil
	}
	var out []jsast.Node
	for _, a := range named(n) {
		if arg := c.node(a); arg != nil {
			out = append(out, arg)
		}
	}
	return out
}

// sequence flattens nested comma expressions.
func (c *converter) sequence(n *sitter.Node, out []jsast.Node) []jsast.Node {
	for _, child := range named(n) {
		if child.Kind() == "sequence_expression" {
			out = c.sequence(child, out)
			continue
		}
		out = append(out, c.node(child))
	}
	return out
}

// elements converts array or array-pattern elements, representing holes as
// nil entries.
func (c *converter) elements(n *sitter.Node, conv func(*sitter.Node) jsast.Node) []jsast.Node {
	out := []jsast.Node{}
	expect := true
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil || isComment(child) {
			continue
		}
		if !child.IsNamed() {
			if child.Kind() == "," {
				if expect {
					out = append(out, nil)
				}
				expect = true
			}
			continue
		}
		out = append(out, conv(child))
		expect = false
	}
	return out
}

func (c *converter) object(n *sitter.Node) *jsast.ObjectExpression {
	obj := &jsast.ObjectExpression{Span: c.span(n), Properties: []jsast.Node{}}
	for _, child := range named(n) {
		switch child.Kind() {
		case "pair":
			key, computed := c.key(child.ChildByFieldName("key"))
			obj.Properties = append(obj.Properties, &jsast.Property{
				Span:     c.span(child),
				Key:      key,
				Value:    c.field(child, "value"),
				Computed: computed,
			})
		case "shorthand_property_identifier":
			obj.Properties = append(obj.Properties, &jsast.Property{
				Span:      c.span(child),
				Key:       c.ident(child),
				Value:     c.ident(child),
				Shorthand: true,
			})
		case "method_definition":
			obj.Properties = append(obj.Properties, c.method(child))
		default:
			obj.Properties = append(obj.Properties, c.node(child))
		}
	}
	return obj
}

func (c *converter) key(n *sitter.Node) (jsast.Node, bool) {
	if n == nil {
		return nil, false
	}
	switch n.Kind() {
	case "computed_property_name":
		return c.node(firstNamed(n)), true
	case "property_identifier", "private_property_identifier":
		return c.ident(n), false
	}
	return c.node(n), false
}

// pattern converts a binding or assignment target.
func (c *converter) pattern(n *sitter.Node) jsast.Node {
	if n == nil {
		return nil
	}
	sp := c.span(n)
	switch n.Kind() {
	case "identifier", "shorthand_property_identifier_pattern", "undefined":
		return c.ident(n)
	case "object_pattern":
		obj := &jsast.ObjectPattern{Span: sp, Properties: []jsast.Node{}}
		for _, child := range named(n) {
			switch child.Kind() {
			case "pair_pattern":
				key, computed := c.key(child.ChildByFieldName("key"))
				obj.Properties = append(obj.Properties, &jsast.Property{
					Span:     c.span(child),
					Key:      key,
					Value:    c.pattern(child.ChildByFieldName("value")),
					Computed: computed,
				})
			case "shorthand_property_identifier_pattern":
				obj.Properties = append(obj.Properties, &jsast.Property{
					Span:      c.span(child),
					Key:       c.ident(child),
					Value:     c.ident(child),
					Shorthand: true,
				})
			case "object_assignment_pattern":
				left := child.ChildByFieldName("left")
				value := &jsast.AssignmentPattern{
					Span:  c.span(child),
					Left:  c.pattern(left),
					Right: c.field(child, "right"),
				}
				obj.Properties = append(obj.Properties, &jsast.Property{
					Span:      c.span(child),
					Key:       c.pattern(left),
					Value:     value,
					Shorthand: true,
				})
			default:
				obj.Properties = append(obj.Properties, c.pattern(child))
			}
		}
		return obj
	case "array_pattern":
		return &jsast.ArrayPattern{Span: sp, Elements: c.elements(n, c.pattern)}
	case "assignment_pattern":
		return &jsast.AssignmentPattern{
			Span:  sp,
			Left:  c.pattern(n.ChildByFieldName("left")),
			Right: c.field(n, "right"),
		}
	case "rest_pattern":
		return &jsast.RestElement{Span: sp, Argument: c.pattern(firstNamed(n))}
	}
	return c.node(n)
}
