package jsast

// Kind identifies the concrete type of a Node. Names follow ESTree.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindProgram
	KindExpressionStatement
	KindVariableDeclaration
	KindVariableDeclarator
	KindFunctionDeclaration
	KindFunctionExpression
	KindArrowFunctionExpression
	KindClassDeclaration
	KindReturnStatement
	KindIfStatement
	KindForStatement
	KindForInStatement
	KindForOfStatement
	KindWhileStatement
	KindDoWhileStatement
	KindSwitchStatement
	KindSwitchCase
	KindBreakStatement
	KindContinueStatement
	KindThrowStatement
	KindTryStatement
	KindCatchClause
	KindBlockStatement
	KindLabeledStatement
	KindEmptyStatement
	KindIdentifier
	KindLiteral
	KindThisExpression
	KindCallExpression
	KindNewExpression
	KindMemberExpression
	KindAssignmentExpression
	KindUpdateExpression
	KindBinaryExpression
	KindUnaryExpression
	KindConditionalExpression
	KindSequenceExpression
	KindParenthesizedExpression
	KindArrayExpression
	KindObjectExpression
	KindProperty
	KindSpreadElement
	KindAwaitExpression
	KindObjectPattern
	KindArrayPattern
	KindRestElement
	KindAssignmentPattern
	KindOpaque
)

var kindNames = [...]string{
	KindInvalid:                 "Invalid",
	KindProgram:                 "Program",
	KindExpressionStatement:     "ExpressionStatement",
	KindVariableDeclaration:     "VariableDeclaration",
	KindVariableDeclarator:      "VariableDeclarator",
	KindFunctionDeclaration:     "FunctionDeclaration",
	KindFunctionExpression:      "FunctionExpression",
	KindArrowFunctionExpression: "ArrowFunctionExpression",
	KindClassDeclaration:        "ClassDeclaration",
	KindReturnStatement:         "ReturnStatement",
	KindIfStatement:             "IfStatement",
	KindForStatement:            "ForStatement",
	KindForInStatement:          "ForInStatement",
	KindForOfStatement:          "ForOfStatement",
	KindWhileStatement:          "WhileStatement",
	KindDoWhileStatement:        "DoWhileStatement",
	KindSwitchStatement:         "SwitchStatement",
	KindSwitchCase:              "SwitchCase",
	KindBreakStatement:          "BreakStatement",
	KindContinueStatement:       "ContinueStatement",
	KindThrowStatement:          "ThrowStatement",
	KindTryStatement:            "TryStatement",
	KindCatchClause:             "CatchClause",
	KindBlockStatement:          "BlockStatement",
	KindLabeledStatement:        "LabeledStatement",
	KindEmptyStatement:          "EmptyStatement",
	KindIdentifier:              "Identifier",
	KindLiteral:                 "Literal",
	KindThisExpression:          "ThisExpression",
	KindCallExpression:          "CallExpression",
	KindNewExpression:           "NewExpression",
	KindMemberExpression:        "MemberExpression",
	KindAssignmentExpression:    "AssignmentExpression",
	KindUpdateExpression:        "UpdateExpression",
	KindBinaryExpression:        "BinaryExpression",
	KindUnaryExpression:         "UnaryExpression",
	KindConditionalExpression:   "ConditionalExpression",
	KindSequenceExpression:      "SequenceExpression",
	KindParenthesizedExpression: "ParenthesizedExpression",
	KindArrayExpression:         "ArrayExpression",
	KindObjectExpression:        "ObjectExpression",
	KindProperty:                "Property",
	KindSpreadElement:           "SpreadElement",
	KindAwaitExpression:         "AwaitExpression",
	KindObjectPattern:           "ObjectPattern",
	KindArrayPattern:            "ArrayPattern",
	KindRestElement:             "RestElement",
	KindAssignmentPattern:       "AssignmentPattern",
	KindOpaque:                  "Opaque",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Invalid"
}

// MarshalText renders the kind by name so reports serialize readably.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
