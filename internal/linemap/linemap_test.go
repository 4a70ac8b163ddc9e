package linemap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mvp-joe/extract-method/internal/jsast"
	"github.com/mvp-joe/extract-method/internal/parsers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Range Mapper:
// - NewRange / ParseRange accept valid ranges and reject invalid ones with ErrInvalidRange
// - StatementsIn finds the statements on the target lines of a fixture
// - Comment-only lines yield no statements but still have a containing scope
// - Ranges outside the file yield empty results and no containing scope
// - Every contained node lies inside the range and is also overlapping
// - Sub-ranges never produce statements missing from the enclosing range
// - ContainingScope picks the tightest enclosing node (switch case, function)
// - Outermost removes nested statements
// - RangeInfo aggregates the counts

func loadFixture(t *testing.T, name string) *jsast.Program {
	t.Helper()
	prog, err := parsers.ParseFile(context.Background(), filepath.Join("..", "..", "testdata", "fixtures", name))
	require.NoError(t, err)
	return prog
}

func TestNewRange(t *testing.T) {
	t.Parallel()

	r, err := NewRange(3, 7)
	require.NoError(t, err)
	assert.Equal(t, 5, r.Lines())
	assert.Equal(t, "3-7", r.String())

	_, err = NewRange(0, 4)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = NewRange(9, 4)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestParseRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Range
		wantErr bool
	}{
		{in: "14-16", want: Range{14, 16}},
		{in: " 2 - 5 ", want: Range{2, 5}},
		{in: "12", want: Range{12, 12}},
		{in: "abc", wantErr: true},
		{in: "5-", wantErr: true},
		{in: "10-2", wantErr: true},
		{in: "0-3", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseRange(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidRange, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestStatementsIn_SimpleBlock(t *testing.T) {
	t.Parallel()

	prog := loadFixture(t, "simple-block.js")
	stmts := StatementsIn(prog, Range{14, 16})
	require.Len(t, stmts, 3)
	assert.Equal(t, jsast.KindVariableDeclaration, stmts[0].Kind())
	assert.Equal(t, jsast.KindVariableDeclaration, stmts[1].Kind())
	assert.Equal(t, jsast.KindExpressionStatement, stmts[2].Kind())
	for i, s := range stmts {
		assert.Equal(t, 14+i, s.Loc().StartLine)
	}
}

func TestStatementsIn_CommentLines(t *testing.T) {
	t.Parallel()

	prog := loadFixture(t, "simple-block.js")
	r := Range{1, 2}
	assert.Empty(t, StatementsIn(prog, r))

	scope := ContainingScope(prog, r)
	require.NotNil(t, scope)
	assert.Equal(t, jsast.KindProgram, scope.Kind())
}

func TestOutOfBounds(t *testing.T) {
	t.Parallel()

	prog := loadFixture(t, "simple-block.js")
	r := Range{100, 200}
	assert.Empty(t, NodesOverlapping(prog, r))
	assert.Empty(t, NodesContained(prog, r))
	assert.Empty(t, StatementsIn(prog, r))
	assert.Nil(t, ContainingScope(prog, r))

	info := RangeInfo(prog, r)
	assert.False(t, info.HasContainingScope)
	assert.Empty(t, info.ContainingScopeKind)
	assert.Equal(t, 101, info.LineCount)
}

func TestContainment(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"simple-block.js", "parameters-needed.js", "return-value.js", "simple-switch.js"} {
		prog := loadFixture(t, name)
		for start := 1; start <= 22; start++ {
			for end := start; end <= 22; end++ {
				r := Range{start, end}
				overlapping := map[jsast.Node]bool{}
				for _, n := range NodesOverlapping(prog, r) {
					overlapping[n] = true
				}
				for _, n := range NodesContained(prog, r) {
					sp := n.Loc()
					assert.GreaterOrEqual(t, sp.StartLine, r.Start)
					assert.LessOrEqual(t, sp.EndLine, r.End)
					assert.True(t, overlapping[n], "%s %s: contained node not overlapping", name, r)
				}
			}
		}
	}
}

func TestMonotonicity(t *testing.T) {
	t.Parallel()

	prog := loadFixture(t, "simple-switch.js")
	outer := Range{11, 22}
	inOuter := map[jsast.Node]bool{}
	for _, s := range StatementsIn(prog, outer) {
		inOuter[s] = true
	}

	for start := outer.Start; start <= outer.End; start++ {
		for end := start; end <= outer.End; end++ {
			for _, s := range StatementsIn(prog, Range{start, end}) {
				assert.True(t, inOuter[s], "statement at line %d missing from enclosing range", s.Loc().StartLine)
			}
		}
	}
}

func TestContainingScope_SwitchCase(t *testing.T) {
	t.Parallel()

	prog := loadFixture(t, "simple-switch.js")
	scope := ContainingScope(prog, Range{14, 17})
	require.NotNil(t, scope)
	assert.Equal(t, jsast.KindSwitchCase, scope.Kind())
}

func TestContainingScope_Function(t *testing.T) {
	t.Parallel()

	prog := loadFixture(t, "simple-block.js")
	scope := ContainingScope(prog, Range{14, 16})
	require.NotNil(t, scope)
	// The function and its body share lines 11-19; the first one found wins.
	assert.Equal(t, jsast.KindFunctionDeclaration, scope.Kind())
}

func TestOutermost(t *testing.T) {
	t.Parallel()

	prog := loadFixture(t, "simple-switch.js")
	all := StatementsIn(prog, Range{12, 21})
	top := Outermost(all)
	require.Len(t, top, 1)
	assert.Equal(t, jsast.KindSwitchStatement, top[0].Kind())
	assert.Greater(t, len(all), 1)

	flat := StatementsIn(prog, Range{14, 17})
	assert.Equal(t, flat, Outermost(flat))
}

func TestRangeInfo(t *testing.T) {
	t.Parallel()

	prog := loadFixture(t, "simple-block.js")
	info := RangeInfo(prog, Range{14, 16})
	assert.Equal(t, 14, info.StartLine)
	assert.Equal(t, 16, info.EndLine)
	assert.Equal(t, 3, info.LineCount)
	assert.Equal(t, 3, info.StatementCount)
	assert.Greater(t, info.ContainedCount, info.StatementCount)
	assert.GreaterOrEqual(t, info.OverlappingCount, info.ContainedCount)
	assert.True(t, info.HasContainingScope)
	assert.Equal(t, "FunctionDeclaration", info.ContainingScopeKind)
}
