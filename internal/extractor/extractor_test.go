package extractor

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mvp-joe/extract-method/internal/analyzer"
	"github.com/mvp-joe/extract-method/internal/jsast"
	"github.com/mvp-joe/extract-method/internal/linemap"
	"github.com/mvp-joe/extract-method/internal/parsers"
	"github.com/mvp-joe/extract-method/internal/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Generator:
// - Switch case body: breaks become returns and the call site keeps its break
// - Return value declared in the block is declared at the call site
// - Self-contained block produces a bare call
// - Parameters appear in the signature and the call in the same order
// - Composite plans return and destructure an object
// - Awaiting blocks produce an async function and an awaited call
// - Explicit TransformBreak overrides the switch heuristic
// - A break leaving the block is refused unless it is rewritten
// - A continue leaving the block makes the report infeasible
// - Names are validated before feasibility
// - Infeasible reports are rejected
// - Generation never modifies the analyzed tree
// - Preview formatters expose the result

func fixture(name string) string {
	return filepath.Join("..", "..", "testdata", "fixtures", name)
}

func analyzeFixture(t *testing.T, name string, start, end int) *analyzer.Report {
	t.Helper()
	report, err := analyzer.New().AnalyzeFile(context.Background(), fixture(name), linemap.Range{Start: start, End: end})
	require.NoError(t, err)
	require.True(t, report.Feasible, "fixture %s %d-%d should be feasible: %s", name, start, end, report.Reason)
	return report
}

func analyzeSource(t *testing.T, src string, start, end int) *analyzer.Report {
	t.Helper()
	tree, err := parsers.Parse(context.Background(), "input.js", []byte(src))
	require.NoError(t, err)
	return analyzer.Analyze(tree, linemap.Range{Start: start, End: end})
}

func boolPtr(b bool) *bool { return &b }

func TestGenerate_SwitchCase(t *testing.T) {
	t.Parallel()

	report := analyzeFixture(t, "simple-switch.js", 14, 17)
	res, err := Generate(report, "handleSave", Options{})
	require.NoError(t, err)

	assert.Equal(t, "function handleSave() {\n  console.log('Saving...');\n  const result = performSave();\n  console.log('Done!');\n  return;\n}", res.FunctionText)
	assert.NotContains(t, res.FunctionText, "break")
	assert.Equal(t, 1, res.ControlFlow.Breaks)
	assert.Equal(t, 1, res.BreaksRewritten)
	assert.Equal(t, "handleSave();\nbreak;", res.ReplacementText)
	assert.Empty(t, res.Notes)
	assert.Equal(t, PlacementBefore, res.Placement)
}

func TestGenerate_ReturnValue(t *testing.T) {
	t.Parallel()

	report := analyzeFixture(t, "return-value.js", 15, 16)
	res, err := Generate(report, "performSave", Options{})
	require.NoError(t, err)

	assert.Equal(t, "function performSave(data) {\n  let saveResult = null;\n  saveResult = saveToDatabase(data);\n  return saveResult;\n}", res.FunctionText)
	assert.Contains(t, res.FunctionText, "return saveResult")
	assert.Equal(t, "let saveResult = performSave(data);", res.ReplacementText)
	assert.Contains(t, res.ReplacementText, "saveResult = performSave(data)")
}

func TestGenerate_SimpleBlock(t *testing.T) {
	t.Parallel()

	report := analyzeFixture(t, "simple-block.js", 14, 16)
	res, err := Generate(report, "testFunc", Options{})
	require.NoError(t, err)

	assert.Equal(t, "testFunc();", res.ReplacementText)
	assert.True(t, strings.HasPrefix(res.FunctionText, "function testFunc() {\n"))
	assert.Equal(t, analyzer.ReturnNone, res.ReturnPlan.Kind)
	assert.NotContains(t, res.FunctionText, "return")
}

func TestGenerate_Parameters(t *testing.T) {
	t.Parallel()

	report := analyzeFixture(t, "parameters-needed.js", 16, 18)
	res, err := Generate(report, "validateAndSave", Options{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.FunctionText, "function validateAndSave(userData, config) {"))
	assert.Equal(t, "validateAndSave(userData, config);", res.ReplacementText)
	require.Len(t, res.Parameters, 2)
	assert.Equal(t, analyzer.ReasonUsedNotDefined, res.Parameters[0].Reason)
}

func TestGenerate_CompositeReturn(t *testing.T) {
	t.Parallel()

	t.Run("assigned outer variables", func(t *testing.T) {
		t.Parallel()
		src := "function f() {\n  let a = 0;\n  let b = 0;\n  a = 1;\n  b = 2;\n  use(a, b);\n}\n"
		res, err := Generate(analyzeSource(t, src, 4, 5), "assign", Options{})
		require.NoError(t, err)
		assert.Equal(t, "function assign(a, b) {\n  a = 1;\n  b = 2;\n  return { a, b };\n}", res.FunctionText)
		assert.Equal(t, "({ a, b } = assign(a, b));", res.ReplacementText)
	})

	t.Run("declared in block", func(t *testing.T) {
		t.Parallel()
		src := "function f() {\n  const a = 1;\n  const b = 2;\n  use(a, b);\n}\n"
		res, err := Generate(analyzeSource(t, src, 2, 3), "make", Options{})
		require.NoError(t, err)
		assert.Equal(t, "let { a, b } = make();", res.ReplacementText)
	})

	t.Run("mixed", func(t *testing.T) {
		t.Parallel()
		src := "function f() {\n  let a = 0;\n  a = 1;\n  const b = 2;\n  use(a, b);\n}\n"
		res, err := Generate(analyzeSource(t, src, 3, 4), "mixed", Options{})
		require.NoError(t, err)
		assert.Equal(t, "let b;\n({ a, b } = mixed(a));", res.ReplacementText)
	})
}

func TestGenerate_Async(t *testing.T) {
	t.Parallel()

	src := "async function f(url) {\n  const res = await fetch(url);\n  log(res);\n}\n"
	res, err := Generate(analyzeSource(t, src, 2, 3), "fetchAndLog", Options{})
	require.NoError(t, err)

	assert.True(t, res.Async)
	assert.True(t, strings.HasPrefix(res.FunctionText, "async function fetchAndLog(url) {"))
	assert.Equal(t, "await fetchAndLog(url);", res.ReplacementText)

	src = "function f(items) {\n  const run = async () => { await go(); };\n  run();\n}\n"
	res, err = Generate(analyzeSource(t, src, 2, 3), "runLater", Options{})
	require.NoError(t, err)
	assert.False(t, res.Async)
}

func TestGenerate_TransformBreakOverride(t *testing.T) {
	t.Parallel()

	report := analyzeFixture(t, "simple-switch.js", 14, 16)
	res, err := Generate(report, "handleSave", Options{TransformBreak: boolPtr(false)})
	require.NoError(t, err)
	assert.Zero(t, res.BreaksRewritten)
	assert.Equal(t, "handleSave();", res.ReplacementText)

	src := "function f(list) {\n  for (const x of list) {\n    if (x) break;\n  }\n}\n"
	res, err = Generate(analyzeSource(t, src, 2, 4), "scan", Options{TransformBreak: boolPtr(true)})
	require.NoError(t, err)
	assert.NotContains(t, res.FunctionText, "break")
	assert.Equal(t, 1, res.BreaksRewritten)
	assert.Len(t, res.Notes, 2)
}

func TestGenerate_EscapingBreakNeedsRewrite(t *testing.T) {
	t.Parallel()

	report := analyzeFixture(t, "simple-switch.js", 14, 17)
	require.True(t, report.Feasible)
	assert.Equal(t, 1, report.ControlFlow.EscapingBreaks)
	_, err := Generate(report, "handleSave", Options{TransformBreak: boolPtr(false)})
	assert.ErrorIs(t, err, ErrBreakEscapes)
	assert.ErrorIs(t, err, ErrNotFeasible)

	loop := "function f(list) {\n  for (const x of list) {\n    if (!x) break;\n    use(x);\n  }\n}\n"
	_, err = Generate(analyzeSource(t, loop, 3, 4), "body", Options{})
	assert.ErrorIs(t, err, ErrBreakEscapes)

	skip := "function f(list) {\n  for (const it of list) {\n    if (!it) continue;\n    process(it);\n  }\n}\n"
	report = analyzeSource(t, skip, 3, 4)
	assert.False(t, report.Feasible)
	assert.True(t, report.HasIssue(analyzer.IssueContinueEscapes))
	_, err = Generate(report, "body", Options{})
	assert.ErrorIs(t, err, ErrNotFeasible)

	inner := "function f(k) {\n  switch (k) {\n    case 1:\n      a();\n      break;\n  }\n}\n"
	res, err := Generate(analyzeSource(t, inner, 2, 6), "pick", Options{TransformBreak: boolPtr(false)})
	require.NoError(t, err)
	assert.Contains(t, res.FunctionText, "break;")
}

func TestGenerate_BreakCarriesReturnValue(t *testing.T) {
	t.Parallel()

	src := "function f(kind) {\n  let total = 0;\n  switch (kind) {\n    case 'a':\n      total = 1;\n      break;\n  }\n  return total;\n}\n"
	res, err := Generate(analyzeSource(t, src, 5, 6), "pick", Options{})
	require.NoError(t, err)

	assert.Equal(t, "function pick(total) {\n  total = 1;\n  return total;\n}", res.FunctionText)
	assert.Equal(t, "total = pick(total);\nbreak;", res.ReplacementText)
}

func TestGenerate_FunctionNameValidation(t *testing.T) {
	t.Parallel()

	report := analyzeFixture(t, "simple-block.js", 14, 16)
	tests := []struct {
		name  string
		valid bool
	}{
		{"", false},
		{"123invalid", false},
		{"has-dashes", false},
		{"return", false},
		{"$validName", true},
		{"_validName", true},
		{"camelCase2", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res, err := Generate(report, tt.name, Options{})
			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, tt.name, res.FunctionName)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidFunctionName)
			assert.Nil(t, res)
		})
	}
}

func TestGenerate_NameCheckedBeforeFeasibility(t *testing.T) {
	t.Parallel()

	report, err := analyzer.New().AnalyzeFile(context.Background(), fixture("simple-block.js"), linemap.Range{Start: 1, End: 2})
	require.NoError(t, err)
	require.False(t, report.Feasible)

	_, err = Generate(report, "", Options{})
	assert.ErrorIs(t, err, ErrInvalidFunctionName)

	_, err = Generate(report, "ok", Options{})
	assert.ErrorIs(t, err, ErrNotFeasible)

	_, err = Generate(nil, "ok", Options{})
	assert.ErrorIs(t, err, ErrNotFeasible)
}

func TestGenerate_LeavesTreeUntouched(t *testing.T) {
	t.Parallel()

	report := analyzeFixture(t, "simple-switch.js", 14, 17)
	before := jsast.Clone(report.Tree())

	_, err := Generate(report, "handleSave", Options{})
	require.NoError(t, err)
	assert.Equal(t, before, report.Tree())
}

func TestGenerate_CustomPrinter(t *testing.T) {
	t.Parallel()

	report := analyzeFixture(t, "simple-block.js", 14, 16)
	res, err := NewGenerator(printer.New(printer.Config{UseTabs: true})).Generate(report, "testFunc", Options{Placement: PlacementTop})
	require.NoError(t, err)
	assert.Contains(t, res.FunctionText, "\n\tconst x = 1;\n")
	assert.Equal(t, PlacementTop, res.Placement)
}

func TestParsePlacement(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Placement{"": PlacementBefore, "before": PlacementBefore, "after": PlacementAfter, "top": PlacementTop} {
		got, err := ParsePlacement(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParsePlacement("bottom")
	assert.Error(t, err)
}

func TestFormatPreview(t *testing.T) {
	t.Parallel()

	report := analyzeFixture(t, "simple-switch.js", 14, 17)
	res, err := Generate(report, "handleSave", Options{})
	require.NoError(t, err)

	out := FormatPreview(res)
	assert.True(t, strings.HasPrefix(out, "=== EXTRACTED FUNCTION ===\n\nfunction handleSave() {"))
	assert.Contains(t, out, "=== REPLACEMENT CODE ===\n\nhandleSave();\nbreak;")
	assert.Contains(t, out, "Function name: handleSave")
	assert.Contains(t, out, "Parameters: 0")
	assert.Contains(t, out, "Return value: none")
	assert.Contains(t, out, "Control flow transformations:\n  - 1 break statement(s) → return")
}

func TestFormatPreviewJSON(t *testing.T) {
	t.Parallel()

	report := analyzeFixture(t, "return-value.js", 15, 16)
	res, err := Generate(report, "performSave", Options{})
	require.NoError(t, err)

	data, err := FormatPreviewJSON(res)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "performSave", decoded["functionName"])
	assert.Equal(t, "let saveResult = performSave(data);", decoded["replacementCall"])
	assert.Contains(t, decoded["extractedFunction"], "return saveResult;")
	assert.Equal(t, "single", decoded["returnPlan"].(map[string]any)["kind"])
}
