package editor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mvp-joe/extract-method/internal/analyzer"
	"github.com/mvp-joe/extract-method/internal/extractor"
	"github.com/mvp-joe/extract-method/internal/jsast"
	"github.com/mvp-joe/extract-method/internal/linemap"
	"github.com/mvp-joe/extract-method/internal/parsers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Editor:
// - before/after/top placements put the function in the right spot
// - Replacement text is re-indented to the block's indentation
// - Doc comments above the anchor stay attached to it
// - Top placement skips imports
// - Edited output parses again
// - Source that does not match the tree is rejected, including same-length edits
// - Statements from different blocks are never spliced
// - ApplyFile writes the file in place

const doWork = `function doWork() {
  const data = getData();
  let saveResult = null;
  saveResult = saveToDatabase(data);
  report(saveResult);
}
`

const performSave = `function performSave(data) {
  let saveResult = null;
  saveResult = saveToDatabase(data);
  return saveResult;
}`

const doWorkEdited = `function doWork() {
  const data = getData();
  let saveResult = performSave(data);
  report(saveResult);
}
`

func extract(t *testing.T, src string, start, end int, name string, placement extractor.Placement) ([]byte, *analyzer.Report, *extractor.Result) {
	t.Helper()
	tree, err := parsers.Parse(context.Background(), "input.js", []byte(src))
	require.NoError(t, err)
	report := analyzer.Analyze(tree, linemap.Range{Start: start, End: end})
	require.True(t, report.Feasible, report.Reason)
	res, err := extractor.Generate(report, name, extractor.Options{Placement: placement})
	require.NoError(t, err)
	return []byte(src), report, res
}

func TestApply_Placements(t *testing.T) {
	t.Parallel()

	t.Run("before", func(t *testing.T) {
		t.Parallel()
		src, report, res := extract(t, doWork, 3, 4, "performSave", extractor.PlacementBefore)
		out, err := Apply(src, report, res)
		require.NoError(t, err)
		assert.Equal(t, performSave+"\n\n"+doWorkEdited, string(out))
	})

	t.Run("after", func(t *testing.T) {
		t.Parallel()
		src, report, res := extract(t, doWork, 3, 4, "performSave", extractor.PlacementAfter)
		out, err := Apply(src, report, res)
		require.NoError(t, err)
		assert.Equal(t, doWorkEdited[:len(doWorkEdited)-1]+"\n\n"+performSave+"\n", string(out))
	})

	t.Run("top skips imports", func(t *testing.T) {
		t.Parallel()
		header := "import x from 'y';\n\nfunction first() {}\n\n"
		src, report, res := extract(t, header+doWork, 7, 8, "performSave", extractor.PlacementTop)
		out, err := Apply(src, report, res)
		require.NoError(t, err)
		assert.Equal(t, "import x from 'y';\n\n"+performSave+"\n\nfunction first() {}\n\n"+doWorkEdited, string(out))
	})
}

func TestApply_DocCommentStaysAttached(t *testing.T) {
	t.Parallel()

	src, report, res := extract(t, "// does the work\n"+doWork, 4, 5, "performSave", extractor.PlacementBefore)
	out, err := Apply(src, report, res)
	require.NoError(t, err)
	assert.Equal(t, performSave+"\n\n// does the work\n"+doWorkEdited, string(out))
}

func TestApply_SwitchFixture(t *testing.T) {
	t.Parallel()

	path := filepath.Join("..", "..", "testdata", "fixtures", "simple-switch.js")
	src, err := os.ReadFile(path)
	require.NoError(t, err)

	report, err := analyzer.New().AnalyzeFile(context.Background(), path, linemap.Range{Start: 14, End: 17})
	require.NoError(t, err)
	res, err := extractor.Generate(report, "handleSave", extractor.Options{})
	require.NoError(t, err)

	out, err := Apply(src, report, res)
	require.NoError(t, err)

	assert.Contains(t, string(out), "    case 'save':\n      handleSave();\n      break;\n    case 'load':")
	assert.Contains(t, string(out), " */\n\nfunction handleSave() {\n  console.log('Saving...');")
	assert.Contains(t, string(out), "  return;\n}\n\nfunction handleAction(action) {")

	_, err = parsers.Parse(context.Background(), path, out)
	assert.NoError(t, err)
}

func TestApply_Indentation(t *testing.T) {
	t.Parallel()

	src := "function f(kind) {\n  let total = 0;\n  if (kind) {\n    const a = 1;\n    const b = 2;\n    total = a + b;\n  }\n  return total;\n}\n"
	source, report, res := extract(t, src, 4, 5, "pair", extractor.PlacementBefore)
	require.Equal(t, "let { a, b } = pair();", res.ReplacementText)

	out, err := Apply(source, report, res)
	require.NoError(t, err)
	assert.Contains(t, string(out), "  if (kind) {\n    let { a, b } = pair();\n    total = a + b;\n  }")
}

func TestApply_StaleSource(t *testing.T) {
	t.Parallel()

	src, report, res := extract(t, doWork, 3, 4, "performSave", extractor.PlacementBefore)
	_, err := Apply(append(src, "\n// edited"...), report, res)
	assert.ErrorIs(t, err, ErrStaleSource)

	sameLength := []byte(strings.Replace(string(src), "getData", "getDatb", 1))
	require.Len(t, sameLength, len(src))
	_, err = Apply(sameLength, report, res)
	assert.ErrorIs(t, err, ErrStaleSource)

	_, err = Apply(src, nil, res)
	assert.Error(t, err)
}

const crossing = `function k(c) {
  if (c) {
    a();
  }
  b();
}
`

func TestApply_RangeCrossingBlocks(t *testing.T) {
	t.Parallel()

	tree, err := parsers.Parse(context.Background(), "input.js", []byte(crossing))
	require.NoError(t, err)
	report := analyzer.Analyze(tree, linemap.Range{Start: 3, End: 5})
	require.False(t, report.Feasible)

	_, _, res := extract(t, crossing, 2, 5, "fn", extractor.PlacementBefore)
	_, err = Apply([]byte(crossing), report, res)
	assert.ErrorIs(t, err, extractor.ErrNotFeasible)

	fn := tree.Body[0].(*jsast.FunctionDeclaration)
	ifStmt := fn.Body.Body[0].(*jsast.IfStatement)
	inner := ifStmt.Consequent.(*jsast.BlockStatement).Body[0]
	assert.False(t, contiguous(tree, []jsast.Node{inner, fn.Body.Body[1]}))
	assert.True(t, contiguous(tree, fn.Body.Body))
	assert.True(t, contiguous(tree, []jsast.Node{inner}))
}

func TestApply_WholeIfBlock(t *testing.T) {
	t.Parallel()

	src, report, res := extract(t, crossing, 2, 5, "fn", extractor.PlacementBefore)
	out, err := Apply(src, report, res)
	require.NoError(t, err)
	assert.Contains(t, string(out), "function k(c) {\n  fn(c);\n}")

	_, err = parsers.Parse(context.Background(), "input.js", out)
	assert.NoError(t, err)
}

func TestApplyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "work.js")
	require.NoError(t, os.WriteFile(path, []byte(doWork), 0o640))

	report, err := analyzer.New().AnalyzeFile(context.Background(), path, linemap.Range{Start: 3, End: 4})
	require.NoError(t, err)
	res, err := extractor.Generate(report, "performSave", extractor.Options{})
	require.NoError(t, err)

	out, err := ApplyFile(report, res)
	require.NoError(t, err)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out, written)
	assert.Equal(t, performSave+"\n\n"+doWorkEdited, string(written))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}
