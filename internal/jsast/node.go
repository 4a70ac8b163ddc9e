// Package jsast models JavaScript and TypeScript syntax trees as a closed set
// of ESTree-shaped node types.
//
// Every node embeds a Span with 1-based lines, 0-based columns and byte
// offsets into the parsed source. Nodes synthesized by a transformation carry
// the zero Span. Trees are treated as immutable once built; use Clone or
// Rewrite to derive modified copies.
package jsast

// Span locates a node in its source file.
type Span struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
	StartOffset int
	EndOffset   int
}

// Loc returns the span itself; it is promoted to every node type.
func (s Span) Loc() Span { return s }

// Synthetic reports whether the span was never attached to source text.
func (s Span) Synthetic() bool { return s.StartLine == 0 }

func (Span) isNode() {}

// Node is implemented by every syntax tree type in this package.
type Node interface {
	Kind() Kind
	Loc() Span
	isNode()
}

// Program is the root of a parsed file.
type Program struct {
	Span
	Body []Node

	// Digest is the SHA-256 of the parsed source; zero for built trees.
	Digest [32]byte
}

type ExpressionStatement struct {
	Span
	Expression Node
}

// VariableDeclaration is a var, let or const statement.
type VariableDeclaration struct {
	Span
	DeclKind     string
	Declarations []*VariableDeclarator
}

type VariableDeclarator struct {
	Span
	ID             Node
	TypeAnnotation string
	Init           Node
}

type FunctionDeclaration struct {
	Span
	ID         *Identifier
	Params     []Node
	Body       *BlockStatement
	Async      bool
	Generator  bool
	ReturnType string
}

type FunctionExpression struct {
	Span
	ID         *Identifier
	Params     []Node
	Body       *BlockStatement
	Async      bool
	Generator  bool
	ReturnType string
}

// ArrowFunctionExpression has either a *BlockStatement or an expression body.
type ArrowFunctionExpression struct {
	Span
	Params     []Node
	Body       Node
	Async      bool
	ReturnType string
}

// ClassDeclaration keeps its body opaque; methods inside it are still
// reachable as function expressions among the body's children.
type ClassDeclaration struct {
	Span
	ID         *Identifier
	SuperClass Node
	Body       *Opaque
}

type ReturnStatement struct {
	Span
	Argument Node
}

type IfStatement struct {
	Span
	Test       Node
	Consequent Node
	Alternate  Node
}

type ForStatement struct {
	Span
	Init   Node
	Test   Node
	Update Node
	Body   Node
}

type ForInStatement struct {
	Span
	Left  Node
	Right Node
	Body  Node
}

type ForOfStatement struct {
	Span
	Left  Node
	Right Node
	Body  Node
	Await bool
}

type WhileStatement struct {
	Span
	Test Node
	Body Node
}

type DoWhileStatement struct {
	Span
	Body Node
	Test Node
}

type SwitchStatement struct {
	Span
	Discriminant Node
	Cases        []*SwitchCase
}

// SwitchCase is a case clause; Test is nil for the default clause.
type SwitchCase struct {
	Span
	Test       Node
	Consequent []Node
}

type BreakStatement struct {
	Span
	Label string
}

type ContinueStatement struct {
	Span
	Label string
}

type ThrowStatement struct {
	Span
	Argument Node
}

type TryStatement struct {
	Span
	Block     *BlockStatement
	Handler   *CatchClause
	Finalizer *BlockStatement
}

type CatchClause struct {
	Span
	Param Node
	Body  *BlockStatement
}

type BlockStatement struct {
	Span
	Body []Node
}

type LabeledStatement struct {
	Span
	Label string
	Body  Node
}

type EmptyStatement struct {
	Span
}

// Identifier is a name. TypeAnnotation holds the raw TypeScript annotation
// (including the leading colon) when the identifier is a binding.
type Identifier struct {
	Span
	Name           string
	TypeAnnotation string
}

// Literal keeps the exact source spelling of strings, numbers, regexes,
// booleans and null.
type Literal struct {
	Span
	Raw string
}

type ThisExpression struct {
	Span
}

type CallExpression struct {
	Span
	Callee    Node
	Arguments []Node
	Optional  bool
}

type NewExpression struct {
	Span
	Callee    Node
	Arguments []Node
}

type MemberExpression struct {
	Span
	Object   Node
	Property Node
	Computed bool
	Optional bool
}

type AssignmentExpression struct {
	Span
	Operator string
	Left     Node
	Right    Node
}

type UpdateExpression struct {
	Span
	Operator string
	Prefix   bool
	Argument Node
}

// BinaryExpression covers arithmetic, comparison and logical operators.
type BinaryExpression struct {
	Span
	Operator string
	Left     Node
	Right    Node
}

type UnaryExpression struct {
	Span
	Operator string
	Argument Node
}

type ConditionalExpression struct {
	Span
	Test       Node
	Consequent Node
	Alternate  Node
}

type SequenceExpression struct {
	Span
	Expressions []Node
}

// ParenthesizedExpression preserves source parentheses so printing never
// needs to reconstruct operator precedence.
type ParenthesizedExpression struct {
	Span
	Expression Node
}

// ArrayExpression elements may be nil for holes.
type ArrayExpression struct {
	Span
	Elements []Node
}

type ObjectExpression struct {
	Span
	Properties []Node
}

// Property appears in object literals and object patterns.
type Property struct {
	Span
	Key       Node
	Value     Node
	Computed  bool
	Shorthand bool
}

type SpreadElement struct {
	Span
	Argument Node
}

type AwaitExpression struct {
	Span
	Argument Node
}

type ObjectPattern struct {
	Span
	Properties []Node
}

// ArrayPattern elements may be nil for holes.
type ArrayPattern struct {
	Span
	Elements []Node
}

type RestElement struct {
	Span
	Argument Node
}

type AssignmentPattern struct {
	Span
	Left  Node
	Right Node
}

// Opaque stands for any construct outside the modelled set (imports,
// exports, class bodies, template strings, JSX, type declarations). It prints
// as its raw text; its converted children are still traversed.
type Opaque struct {
	Span
	Type     string
	Text     string
	Children []Node
}

func (*Program) Kind() Kind                 { return KindProgram }
func (*ExpressionStatement) Kind() Kind     { return KindExpressionStatement }
func (*VariableDeclaration) Kind() Kind     { return KindVariableDeclaration }
func (*VariableDeclarator) Kind() Kind      { return KindVariableDeclarator }
func (*FunctionDeclaration) Kind() Kind     { return KindFunctionDeclaration }
func (*FunctionExpression) Kind() Kind      { return KindFunctionExpression }
func (*ArrowFunctionExpression) Kind() Kind { return KindArrowFunctionExpression }
func (*ClassDeclaration) Kind() Kind        { return KindClassDeclaration }
func (*ReturnStatement) Kind() Kind         { return KindReturnStatement }
func (*IfStatement) Kind() Kind             { return KindIfStatement }
func (*ForStatement) Kind() Kind            { return KindForStatement }
func (*ForInStatement) Kind() Kind          { return KindForInStatement }
func (*ForOfStatement) Kind() Kind          { return KindForOfStatement }
func (*WhileStatement) Kind() Kind          { return KindWhileStatement }
func (*DoWhileStatement) Kind() Kind        { return KindDoWhileStatement }
func (*SwitchStatement) Kind() Kind         { return KindSwitchStatement }
func (*SwitchCase) Kind() Kind              { return KindSwitchCase }
func (*BreakStatement) Kind() Kind          { return KindBreakStatement }
func (*ContinueStatement) Kind() Kind       { return KindContinueStatement }
func (*ThrowStatement) Kind() Kind          { return KindThrowStatement }
func (*TryStatement) Kind() Kind            { return KindTryStatement }
func (*CatchClause) Kind() Kind             { return KindCatchClause }
func (*BlockStatement) Kind() Kind          { return KindBlockStatement }
func (*LabeledStatement) Kind() Kind        { return KindLabeledStatement }
func (*EmptyStatement) Kind() Kind          { return KindEmptyStatement }
func (*Identifier) Kind() Kind              { return KindIdentifier }
func (*Literal) Kind() Kind                 { return KindLiteral }
func (*ThisExpression) Kind() Kind          { return KindThisExpression }
func (*CallExpression) Kind() Kind          { return KindCallExpression }
func (*NewExpression) Kind() Kind           { return KindNewExpression }
func (*MemberExpression) Kind() Kind        { return KindMemberExpression }
func (*AssignmentExpression) Kind() Kind    { return KindAssignmentExpression }
func (*UpdateExpression) Kind() Kind        { return KindUpdateExpression }
func (*BinaryExpression) Kind() Kind        { return KindBinaryExpression }
func (*UnaryExpression) Kind() Kind         { return KindUnaryExpression }
func (*ConditionalExpression) Kind() Kind   { return KindConditionalExpression }
func (*SequenceExpression) Kind() Kind      { return KindSequenceExpression }
func (*ParenthesizedExpression) Kind() Kind { return KindParenthesizedExpression }
func (*ArrayExpression) Kind() Kind         { return KindArrayExpression }
func (*ObjectExpression) Kind() Kind        { return KindObjectExpression }
func (*Property) Kind() Kind                { return KindProperty }
func (*SpreadElement) Kind() Kind           { return KindSpreadElement }
func (*AwaitExpression) Kind() Kind         { return KindAwaitExpression }
func (*ObjectPattern) Kind() Kind           { return KindObjectPattern }
func (*ArrayPattern) Kind() Kind            { return KindArrayPattern }
func (*RestElement) Kind() Kind             { return KindRestElement }
func (*AssignmentPattern) Kind() Kind       { return KindAssignmentPattern }
func (*Opaque) Kind() Kind                  { return KindOpaque }

// IsFunction reports whether n introduces a new function scope.
func IsFunction(n Node) bool {
	switch n.(type) {
	case *FunctionDeclaration, *FunctionExpression, *ArrowFunctionExpression:
		return true
	}
	return false
}

// FunctionParams returns the parameter list of a function node, or nil.
func FunctionParams(n Node) []Node {
	switch f := n.(type) {
	case *FunctionDeclaration:
		return f.Params
	case *FunctionExpression:
		return f.Params
	case *ArrowFunctionExpression:
		return f.Params
	}
	return nil
}
