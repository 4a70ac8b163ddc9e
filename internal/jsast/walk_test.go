package jsast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Walk / Inspect / Clone / Rewrite:
// - Walk visits nodes in pre-order following ESTree field order
// - Walk passes the immediate parent (nil for the root)
// - Nil children and switch default tests are skipped
// - Inspect prunes subtrees when the callback returns false
// - Opaque children are traversed
// - Clone produces a tree that shares no nodes with its input
// - Rewrite replaces nodes bottom-up without touching the input
// - Rewrite keeps typed slots intact when the hook returns a foreign type
// - Kind names render as ESTree strings

func ident(name string, line int) *Identifier {
	return &Identifier{Span: Span{StartLine: line, EndLine: line}, Name: name}
}

// sampleTree builds:
//
//	let x = a + b;
//	if (x) { f(x); } else { return; }
func sampleTree() *Program {
	return &Program{
		Span: Span{StartLine: 1, EndLine: 2},
		Body: []Node{
			&VariableDeclaration{
				Span:     Span{StartLine: 1, EndLine: 1},
				DeclKind: "let",
				Declarations: []*VariableDeclarator{{
					Span: Span{StartLine: 1, EndLine: 1},
					ID:   ident("x", 1),
					Init: &BinaryExpression{Span: Span{StartLine: 1, EndLine: 1}, Operator: "+", Left: ident("a", 1), Right: ident("b", 1)},
				}},
			},
			&IfStatement{
				Span: Span{StartLine: 2, EndLine: 2},
				Test: ident("x", 2),
				Consequent: &BlockStatement{Span: Span{StartLine: 2, EndLine: 2}, Body: []Node{
					&ExpressionStatement{Span: Span{StartLine: 2, EndLine: 2}, Expression: &CallExpression{
						Span:      Span{StartLine: 2, EndLine: 2},
						Callee:    ident("f", 2),
						Arguments: []Node{ident("x", 2)},
					}},
				}},
				Alternate: &BlockStatement{Span: Span{StartLine: 2, EndLine: 2}, Body: []Node{
					&ReturnStatement{Span: Span{StartLine: 2, EndLine: 2}},
				}},
			},
		},
	}
}

func TestWalk_PreOrder(t *testing.T) {
	t.Parallel()

	var kinds []string
	Walk(sampleTree(), func(n, _ Node) {
		kinds = append(kinds, n.Kind().String())
	})

	assert.Equal(t, []string{
		"Program",
		"VariableDeclaration", "VariableDeclarator", "Identifier", "BinaryExpression", "Identifier", "Identifier",
		"IfStatement", "Identifier",
		"BlockStatement", "ExpressionStatement", "CallExpression", "Identifier", "Identifier",
		"BlockStatement", "ReturnStatement",
	}, kinds)
}

func TestWalk_Parents(t *testing.T) {
	t.Parallel()

	tree := sampleTree()
	parents := map[Node]Node{}
	Walk(tree, func(n, parent Node) {
		parents[n] = parent
	})

	assert.Nil(t, parents[tree])
	ifStmt := tree.Body[1].(*IfStatement)
	assert.Same(t, tree, parents[ifStmt])
	assert.Same(t, ifStmt, parents[ifStmt.Test])
}

func TestWalk_SwitchDefaultHasNoTest(t *testing.T) {
	t.Parallel()

	sw := &SwitchStatement{
		Discriminant: ident("a", 1),
		Cases: []*SwitchCase{
			{Test: &Literal{Raw: "1"}, Consequent: []Node{&BreakStatement{}}},
			{Consequent: []Node{&BreakStatement{Label: "outer"}}},
		},
	}

	var kinds []Kind
	Walk(sw, func(n, _ Node) { kinds = append(kinds, n.Kind()) })

	assert.Equal(t, []Kind{
		KindSwitchStatement, KindIdentifier,
		KindSwitchCase, KindLiteral, KindBreakStatement,
		KindSwitchCase, KindBreakStatement,
	}, kinds)
}

func TestInspect_Prune(t *testing.T) {
	t.Parallel()

	var names []string
	Inspect(sampleTree(), func(n Node) bool {
		if _, ok := n.(*IfStatement); ok {
			return false
		}
		if id, ok := n.(*Identifier); ok {
			names = append(names, id.Name)
		}
		return true
	})

	assert.Equal(t, []string{"x", "a", "b"}, names)
}

func TestWalk_OpaqueChildren(t *testing.T) {
	t.Parallel()

	tmpl := &Opaque{Type: "template_string", Text: "`${name}`", Children: []Node{ident("name", 1)}}
	var names []string
	Walk(tmpl, func(n, _ Node) {
		if id, ok := n.(*Identifier); ok {
			names = append(names, id.Name)
		}
	})

	assert.Equal(t, []string{"name"}, names)
}

func TestClone_Independent(t *testing.T) {
	t.Parallel()

	tree := sampleTree()
	cp, ok := Clone(tree).(*Program)
	require.True(t, ok)

	original := map[Node]bool{}
	Walk(tree, func(n, _ Node) { original[n] = true })
	Walk(cp, func(n, _ Node) {
		assert.False(t, original[n], "clone shares %s with input", n.Kind())
	})

	cp.Body[0].(*VariableDeclaration).Declarations[0].ID.(*Identifier).Name = "renamed"
	assert.Equal(t, "x", tree.Body[0].(*VariableDeclaration).Declarations[0].ID.(*Identifier).Name)
}

func TestRewrite_ReplacesBottomUp(t *testing.T) {
	t.Parallel()

	tree := sampleTree()
	out := Rewrite(tree, func(n Node) Node {
		if r, ok := n.(*ReturnStatement); ok {
			return &ThrowStatement{Span: r.Span, Argument: ident("err", 0)}
		}
		return n
	})

	var outKinds, inKinds []Kind
	Walk(out, func(n, _ Node) { outKinds = append(outKinds, n.Kind()) })
	Walk(tree, func(n, _ Node) { inKinds = append(inKinds, n.Kind()) })

	assert.Contains(t, outKinds, KindThrowStatement)
	assert.NotContains(t, outKinds, KindReturnStatement)
	assert.Contains(t, inKinds, KindReturnStatement)
	assert.NotContains(t, inKinds, KindThrowStatement)
}

func TestRewrite_TypedSlotsSurvive(t *testing.T) {
	t.Parallel()

	fn := &FunctionDeclaration{
		ID:   ident("f", 1),
		Body: &BlockStatement{Body: []Node{&EmptyStatement{}}},
	}
	out := Rewrite(fn, func(n Node) Node {
		if _, ok := n.(*BlockStatement); ok {
			return &EmptyStatement{}
		}
		return n
	}).(*FunctionDeclaration)

	require.NotNil(t, out.Body)
	assert.NotSame(t, fn.Body, out.Body)
	assert.Len(t, out.Body.Body, 1)
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "SwitchCase", KindSwitchCase.String())
	assert.Equal(t, "Opaque", (&Opaque{}).Kind().String())
	assert.Equal(t, "Invalid", Kind(250).String())

	text, err := KindBreakStatement.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "BreakStatement", string(text))
}

func TestIsFunction(t *testing.T) {
	t.Parallel()

	assert.True(t, IsFunction(&ArrowFunctionExpression{}))
	assert.True(t, IsFunction(&FunctionDeclaration{}))
	assert.False(t, IsFunction(&BlockStatement{}))
	assert.Len(t, FunctionParams(&FunctionExpression{Params: []Node{ident("a", 1)}}), 1)
	assert.Nil(t, FunctionParams(&Identifier{}))
}
