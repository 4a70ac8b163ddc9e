package printer

import (
	"context"
	"testing"

	"github.com/mvp-joe/extract-method/internal/jsast"
	"github.com/mvp-joe/extract-method/internal/parsers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Printer:
// - Canonical source prints back unchanged (declarations, calls, control flow, switch, try, loops)
// - Printed output parses again without errors
// - Synthesized nodes print without positions
// - Object-leading expression statements are parenthesized
// - Indentation honors spaces and tabs
// - Literals and opaque nodes keep their original spelling

func roundTrip(t *testing.T, src string) string {
	t.Helper()
	prog, err := parsers.Parse(context.Background(), "input.js", []byte(src))
	require.NoError(t, err)
	return New(DefaultConfig()).Print(prog)
}

func TestPrint_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{"declarations", "const a = 1, b = 'two';\nlet { c, d: [e, , f], ...g } = obj;"},
		{"calls", "console.log(a + b, obj?.x, list[0]);\nconst inst = new Widget(a);"},
		{"function", "async function load(url, opts = {}) {\n  const res = await fetch(url, opts);\n  return res.json();\n}"},
		{"if else", "if (a) {\n  b();\n} else if (c) {\n  d();\n} else {\n  e();\n}"},
		{"loops", "for (let i = 0; i < n; i++) {\n  total += i;\n}\nfor (const k in obj) {\n  keys.push(k);\n}\nwhile (x) {\n  x--;\n}\ndo {\n  y++;\n} while (y < 3);"},
		{"switch", "switch (action) {\n  case 'save':\n    save();\n    break;\n  default:\n    skip();\n}"},
		{"try", "try {\n  run();\n} catch (err) {\n  report(err);\n} finally {\n  done();\n}"},
		{"labels", "outer: for (const row of rows) {\n  for (const cell of row) {\n    if (!cell) continue outer;\n    if (cell.stop) break outer;\n  }\n}"},
		{"arrows", "const double = (x) => x * 2;\nconst make = () => ({ a: 1 });\nitems.forEach((item) => {\n  use(item);\n});"},
		{"template", "const msg = `hello ${name}`;\nthrow new Error(msg);"},
		{"unary", "const t = typeof x;\nconst n = !flag;\nconst m = -value;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out := roundTrip(t, tt.src)
			assert.Equal(t, tt.src, out)

			_, err := parsers.Parse(context.Background(), "output.js", []byte(out))
			assert.NoError(t, err)
		})
	}
}

func TestPrint_Synthesized(t *testing.T) {
	t.Parallel()

	fn := &jsast.FunctionDeclaration{
		ID:     &jsast.Identifier{Name: "handleSave"},
		Params: []jsast.Node{&jsast.Identifier{Name: "data"}, &jsast.Identifier{Name: "config"}},
		Body: &jsast.BlockStatement{Body: []jsast.Node{
			&jsast.ExpressionStatement{Expression: &jsast.CallExpression{
				Callee:    &jsast.Identifier{Name: "save"},
				Arguments: []jsast.Node{&jsast.Identifier{Name: "data"}},
			}},
			&jsast.ReturnStatement{Argument: &jsast.ObjectExpression{Properties: []jsast.Node{
				&jsast.Property{Key: &jsast.Identifier{Name: "a"}, Value: &jsast.Identifier{Name: "a"}, Shorthand: true},
				&jsast.Property{Key: &jsast.Identifier{Name: "b"}, Value: &jsast.Identifier{Name: "b"}, Shorthand: true},
			}}},
		}},
	}

	assert.Equal(t, "function handleSave(data, config) {\n  save(data);\n  return { a, b };\n}", New(DefaultConfig()).Print(fn))
}

func TestPrint_ObjectAssignmentStatement(t *testing.T) {
	t.Parallel()

	stmt := &jsast.ExpressionStatement{Expression: &jsast.AssignmentExpression{
		Operator: "=",
		Left: &jsast.ObjectPattern{Properties: []jsast.Node{
			&jsast.Property{Key: &jsast.Identifier{Name: "a"}, Value: &jsast.Identifier{Name: "a"}, Shorthand: true},
		}},
		Right: &jsast.CallExpression{Callee: &jsast.Identifier{Name: "fn"}},
	}}

	assert.Equal(t, "({ a } = fn());", New(DefaultConfig()).Print(stmt))
}

func TestPrint_Indentation(t *testing.T) {
	t.Parallel()

	block := &jsast.BlockStatement{Body: []jsast.Node{
		&jsast.IfStatement{
			Test: &jsast.Identifier{Name: "x"},
			Consequent: &jsast.BlockStatement{Body: []jsast.Node{
				&jsast.ReturnStatement{},
			}},
		},
	}}

	assert.Equal(t, "{\n    if (x) {\n        return;\n    }\n}", New(Config{Indent: 4}).Print(block))
	assert.Equal(t, "{\n\tif (x) {\n\t\treturn;\n\t}\n}", New(Config{UseTabs: true}).Print(block))
	assert.Equal(t, "  ", New(Config{}).IndentUnit())
}

func TestPrint_Expressions(t *testing.T) {
	t.Parallel()

	p := New(DefaultConfig())
	assert.Equal(t, "a = b", p.Print(&jsast.AssignmentExpression{
		Operator: "=", Left: &jsast.Identifier{Name: "a"}, Right: &jsast.Identifier{Name: "b"},
	}))
	assert.Equal(t, "[a, , b]", p.Print(&jsast.ArrayExpression{Elements: []jsast.Node{
		&jsast.Identifier{Name: "a"}, nil, &jsast.Identifier{Name: "b"},
	}}))
	assert.Equal(t, "0x1F", p.Print(&jsast.Literal{Raw: "0x1F"}))
	assert.Equal(t, "", p.Print(nil))
}
