package jsast

// Visitor is called once per node with the node's immediate parent (nil for
// the root).
type Visitor func(n, parent Node)

// Walk traverses the tree rooted at n depth-first in pre-order.
func Walk(n Node, visit Visitor) {
	walk(n, nil, visit)
}

func walk(n, parent Node, visit Visitor) {
	if n == nil {
		return
	}
	visit(n, parent)
	for _, c := range Children(n) {
		walk(c, n, visit)
	}
}

// Inspect traverses the tree in pre-order like Walk; if f returns false the
// children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// Children returns the direct children of n in ESTree field order, skipping
// absent ones.
func Children(n Node) []Node {
	var out []Node
	add := func(cs ...Node) {
		for _, c := range cs {
			if c != nil {
				out = append(out, c)
			}
		}
	}

	switch n := n.(type) {
	case *Program:
		add(n.Body...)
	case *ExpressionStatement:
		add(n.Expression)
	case *VariableDeclaration:
		for _, d := range n.Declarations {
			if d != nil {
				out = append(out, d)
			}
		}
	case *VariableDeclarator:
		add(n.ID, n.Init)
	case *FunctionDeclaration:
		if n.ID != nil {
			out = append(out, n.ID)
		}
		add(n.Params...)
		if n.Body != nil {
			out = append(out, n.Body)
		}
	case *FunctionExpression:
		if n.ID != nil {
			out = append(out, n.ID)
		}
		add(n.Params...)
		if n.Body != nil {
			out = append(out, n.Body)
		}
	case *ArrowFunctionExpression:
		add(n.Params...)
		add(n.Body)
	case *ClassDeclaration:
		if n.ID != nil {
			out = append(out, n.ID)
		}
		add(n.SuperClass)
		if n.Body != nil {
			out = append(out, n.Body)
		}
	case *ReturnStatement:
		add(n.Argument)
	case *IfStatement:
		add(n.Test, n.Consequent, n.Alternate)
	case *ForStatement:
		add(n.Init, n.Test, n.Update, n.Body)
	case *ForInStatement:
		add(n.Left, n.Right, n.Body)
	case *ForOfStatement:
		add(n.Left, n.Right, n.Body)
	case *WhileStatement:
		add(n.Test, n.Body)
	case *DoWhileStatement:
		add(n.Body, n.Test)
	case *SwitchStatement:
		add(n.Discriminant)
		for _, c := range n.Cases {
			if c != nil {
				out = append(out, c)
			}
		}
	case *SwitchCase:
		add(n.Test)
		add(n.Consequent...)
	case *BreakStatement, *ContinueStatement, *EmptyStatement, *Identifier, *Literal, *ThisExpression:
	case *ThrowStatement:
		add(n.Argument)
	case *TryStatement:
		if n.Block != nil {
			out = append(out, n.Block)
		}
		if n.Handler != nil {
			out = append(out, n.Handler)
		}
		if n.Finalizer != nil {
			out = append(out, n.Finalizer)
		}
	case *CatchClause:
		add(n.Param)
		if n.Body != nil {
			out = append(out, n.Body)
		}
	case *BlockStatement:
		add(n.Body...)
	case *LabeledStatement:
		add(n.Body)
	case *CallExpression:
		add(n.Callee)
		add(n.Arguments...)
	case *NewExpression:
		add(n.Callee)
		add(n.Arguments...)
	case *MemberExpression:
		add(n.Object, n.Property)
	case *AssignmentExpression:
		add(n.Left, n.Right)
	case *UpdateExpression:
		add(n.Argument)
	case *BinaryExpression:
		add(n.Left, n.Right)
	case *UnaryExpression:
		add(n.Argument)
	case *ConditionalExpression:
		add(n.Test, n.Consequent, n.Alternate)
	case *SequenceExpression:
		add(n.Expressions...)
	case *ParenthesizedExpression:
		add(n.Expression)
	case *ArrayExpression:
		add(n.Elements...)
	case *ObjectExpression:
		add(n.Properties...)
	case *Property:
		add(n.Key, n.Value)
	case *SpreadElement:
		add(n.Argument)
	case *AwaitExpression:
		add(n.Argument)
	case *ObjectPattern:
		add(n.Properties...)
	case *ArrayPattern:
		add(n.Elements...)
	case *RestElement:
		add(n.Argument)
	case *AssignmentPattern:
		add(n.Left, n.Right)
	case *Opaque:
		add(n.Children...)
	}
	return out
}
