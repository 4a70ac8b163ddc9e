package jsast

// Clone returns a deep, detached copy of n. The input is never modified.
func Clone(n Node) Node {
	return Rewrite(n, nil)
}

// Rewrite deep-copies n and passes every copied node, children first, through
// fn. Whatever fn returns takes the node's place in the copy. The input tree
// is never modified. If fn returns a node of a different type for a slot that
// requires a specific type (a function body, a catch clause), the unmodified
// copy is kept for that slot.
func Rewrite(n Node, fn func(Node) Node) Node {
	c := &cloner{fn: fn}
	return c.node(n)
}

type cloner struct {
	fn func(Node) Node
}

func (c *cloner) node(n Node) Node {
	if n == nil {
		return nil
	}
	cp := c.copy(n)
	if c.fn == nil {
		return cp
	}
	return c.fn(cp)
}

func (c *cloner) nodes(ns []Node) []Node {
	if ns == nil {
		return nil
	}
	out := make([]Node, len(ns))
	for i, n := range ns {
		out[i] = c.node(n)
	}
	return out
}

func (c *cloner) ident(n *Identifier) *Identifier {
	if n == nil {
		return nil
	}
	if r, ok := c.node(n).(*Identifier); ok {
		return r
	}
	cp := *n
	return &cp
}

func (c *cloner) block(n *BlockStatement) *BlockStatement {
	if n == nil {
		return nil
	}
	if r, ok := c.node(n).(*BlockStatement); ok {
		return r
	}
	return c.copy(n).(*BlockStatement)
}

func (c *cloner) opaque(n *Opaque) *Opaque {
	if n == nil {
		return nil
	}
	if r, ok := c.node(n).(*Opaque); ok {
		return r
	}
	return c.copy(n).(*Opaque)
}

func (c *cloner) catch(n *CatchClause) *CatchClause {
	if n == nil {
		return nil
	}
	if r, ok := c.node(n).(*CatchClause); ok {
		return r
	}
	return c.copy(n).(*CatchClause)
}

func (c *cloner) copy(n Node) Node {
	switch n := n.(type) {
	case *Program:
		cp := *n
		cp.Body = c.nodes(n.Body)
		return &cp
	case *ExpressionStatement:
		cp := *n
		cp.Expression = c.node(n.Expression)
		return &cp
	case *VariableDeclaration:
		cp := *n
		cp.Declarations = make([]*VariableDeclarator, 0, len(n.Declarations))
		for _, d := range n.Declarations {
			if d == nil {
				continue
			}
			if r, ok := c.node(d).(*VariableDeclarator); ok {
				cp.Declarations = append(cp.Declarations, r)
			} else {
				cp.Declarations = append(cp.Declarations, c.copy(d).(*VariableDeclarator))
			}
		}
		return &cp
	case *VariableDeclarator:
		cp := *n
		cp.ID = c.node(n.ID)
		cp.Init = c.node(n.Init)
		return &cp
	case *FunctionDeclaration:
		cp := *n
		cp.ID = c.ident(n.ID)
		cp.Params = c.nodes(n.Params)
		cp.Body = c.block(n.Body)
		return &cp
	case *FunctionExpression:
		cp := *n
		cp.ID = c.ident(n.ID)
		cp.Params = c.nodes(n.Params)
		cp.Body = c.block(n.Body)
		return &cp
	case *ArrowFunctionExpression:
		cp := *n
		cp.Params = c.nodes(n.Params)
		cp.Body = c.node(n.Body)
		return &cp
	case *ClassDeclaration:
		cp := *n
		cp.ID = c.ident(n.ID)
		cp.SuperClass = c.node(n.SuperClass)
		cp.Body = c.opaque(n.Body)
		return &cp
	case *ReturnStatement:
		cp := *n
		cp.Argument = c.node(n.Argument)
		return &cp
	case *IfStatement:
		cp := *n
		cp.Test = c.node(n.Test)
		cp.Consequent = c.node(n.Consequent)
		cp.Alternate = c.node(n.Alternate)
		return &cp
	case *ForStatement:
		cp := *n
		cp.Init = c.node(n.Init)
		cp.Test = c.node(n.Test)
		cp.Update = c.node(n.Update)
		cp.Body = c.node(n.Body)
		return &cp
	case *ForInStatement:
		cp := *n
		cp.Left = c.node(n.Left)
		cp.Right = c.node(n.Right)
		cp.Body = c.node(n.Body)
		return &cp
	case *ForOfStatement:
		cp := *n
		cp.Left = c.node(n.Left)
		cp.Right = c.node(n.Right)
		cp.Body = c.node(n.Body)
		return &cp
	case *WhileStatement:
		cp := *n
		cp.Test = c.node(n.Test)
		cp.Body = c.node(n.Body)
		return &cp
	case *DoWhileStatement:
		cp := *n
		cp.Body = c.node(n.Body)
		cp.Test = c.node(n.Test)
		return &cp
	case *SwitchStatement:
		cp := *n
		cp.Discriminant = c.node(n.Discriminant)
		cp.Cases = make([]*SwitchCase, 0, len(n.Cases))
		for _, sc := range n.Cases {
			if sc == nil {
				continue
			}
			if r, ok := c.node(sc).(*SwitchCase); ok {
				cp.Cases = append(cp.Cases, r)
			} else {
				cp.Cases = append(cp.Cases, c.copy(sc).(*SwitchCase))
			}
		}
		return &cp
	case *SwitchCase:
		cp := *n
		cp.Test = c.node(n.Test)
		cp.Consequent = c.nodes(n.Consequent)
		return &cp
	case *BreakStatement:
		cp := *n
		return &cp
	case *ContinueStatement:
		cp := *n
		return &cp
	case *ThrowStatement:
		cp := *n
		cp.Argument = c.node(n.Argument)
		return &cp
	case *TryStatement:
		cp := *n
		cp.Block = c.block(n.Block)
		cp.Handler = c.catch(n.Handler)
		cp.Finalizer = c.block(n.Finalizer)
		return &cp
	case *CatchClause:
		cp := *n
		cp.Param = c.node(n.Param)
		cp.Body = c.block(n.Body)
		return &cp
	case *BlockStatement:
		cp := *n
		cp.Body = c.nodes(n.Body)
		return &cp
	case *LabeledStatement:
		cp := *n
		cp.Body = c.node(n.Body)
		return &cp
	case *EmptyStatement:
		cp := *n
		return &cp
	case *Identifier:
		cp := *n
		return &cp
	case *Literal:
		cp := *n
		return &cp
	case *ThisExpression:
		cp := *n
		return &cp
	case *CallExpression:
		cp := *n
		cp.Callee = c.node(n.Callee)
		cp.Arguments = c.nodes(n.Arguments)
		return &cp
	case *NewExpression:
		cp := *n
		cp.Callee = c.node(n.Callee)
		cp.Arguments = c.nodes(n.Arguments)
		return &cp
	case *MemberExpression:
		cp := *n
		cp.Object = c.node(n.Object)
		cp.Property = c.node(n.Property)
		return &cp
	case *AssignmentExpression:
		cp := *n
		cp.Left = c.node(n.Left)
		cp.Right = c.node(n.Right)
		return &cp
	case *UpdateExpression:
		cp := *n
		cp.Argument = c.node(n.Argument)
		return &cp
	case *BinaryExpression:
		cp := *n
		cp.Left = c.node(n.Left)
		cp.Right = c.node(n.Right)
		return &cp
	case *UnaryExpression:
		cp := *n
		cp.Argument = c.node(n.Argument)
		return &cp
	case *ConditionalExpression:
		cp := *n
		cp.Test = c.node(n.Test)
		cp.Consequent = c.node(n.Consequent)
		cp.Alternate = c.node(n.Alternate)
		return &cp
	case *SequenceExpression:
		cp := *n
		cp.Expressions = c.nodes(n.Expressions)
		return &cp
	case *ParenthesizedExpression:
		cp := *n
		cp.Expression = c.node(n.Expression)
		return &cp
	case *ArrayExpression:
		cp := *n
		cp.Elements = c.nodes(n.Elements)
		return &cp
	case *ObjectExpression:
		cp := *n
		cp.Properties = c.nodes(n.Properties)
		return &cp
	case *Property:
		cp := *n
		cp.Key = c.node(n.Key)
		cp.Value = c.node(n.Value)
		return &cp
	case *SpreadElement:
		cp := *n
		cp.Argument = c.node(n.Argument)
		return &cp
	case *AwaitExpression:
		cp := *n
		cp.Argument = c.node(n.Argument)
		return &cp
	case *ObjectPattern:
		cp := *n
		cp.Properties = c.nodes(n.Properties)
		return &cp
	case *ArrayPattern:
		cp := *n
		cp.Elements = c.nodes(n.Elements)
		return &cp
	case *RestElement:
		cp := *n
		cp.Argument = c.node(n.Argument)
		return &cp
	case *AssignmentPattern:
		cp := *n
		cp.Left = c.node(n.Left)
		cp.Right = c.node(n.Right)
		return &cp
	case *Opaque:
		cp := *n
		cp.Children = c.nodes(n.Children)
		return &cp
	}
	return n
}
