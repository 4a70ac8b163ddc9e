// Package linemap maps 1-based inclusive line ranges onto syntax tree nodes.
package linemap

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mvp-joe/extract-method/internal/jsast"
)

// ErrInvalidRange is returned for ranges that are not 1 <= start <= end.
var ErrInvalidRange = errors.New("invalid line range")

// Range is a 1-based inclusive line range.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NewRange validates and builds a Range.
func NewRange(start, end int) (Range, error) {
	if start < 1 || end < 1 {
		return Range{}, fmt.Errorf("%w: line numbers must be >= 1", ErrInvalidRange)
	}
	if start > end {
		return Range{}, fmt.Errorf("%w: start line (%d) must be <= end line (%d)", ErrInvalidRange, start, end)
	}
	return Range{Start: start, End: end}, nil
}

// ParseRange parses "start-end" or a single line number.
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	startText, endText, found := strings.Cut(s, "-")
	if !found {
		endText = startText
	}
	start, err := strconv.Atoi(strings.TrimSpace(startText))
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q must be START-END", ErrInvalidRange, s)
	}
	end, err := strconv.Atoi(strings.TrimSpace(endText))
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q must be START-END", ErrInvalidRange, s)
	}
	return NewRange(start, end)
}

// Lines is the number of lines covered by r.
func (r Range) Lines() int { return r.End - r.Start + 1 }

func (r Range) String() string { return fmt.Sprintf("%d-%d", r.Start, r.End) }

func located(n jsast.Node) (jsast.Span, bool) {
	sp := n.Loc()
	return sp, !sp.Synthetic()
}

// NodesOverlapping returns every node touching the range, in pre-order.
func NodesOverlapping(root jsast.Node, r Range) []jsast.Node {
	var out []jsast.Node
	jsast.Walk(root, func(n, _ jsast.Node) {
		sp, ok := located(n)
		if ok && sp.StartLine <= r.End && sp.EndLine >= r.Start {
			out = append(out, n)
		}
	})
	return out
}

// NodesContained returns every node lying entirely inside the range, in
// pre-order.
func NodesContained(root jsast.Node, r Range) []jsast.Node {
	var out []jsast.Node
	jsast.Walk(root, func(n, _ jsast.Node) {
		sp, ok := located(n)
		if ok && sp.StartLine >= r.Start && sp.EndLine <= r.End {
			out = append(out, n)
		}
	})
	return out
}

// IsStatement reports whether n is a statement-level node.
func IsStatement(n jsast.Node) bool {
	switch n.Kind() {
	case jsast.KindExpressionStatement,
		jsast.KindVariableDeclaration,
		jsast.KindFunctionDeclaration,
		jsast.KindClassDeclaration,
		jsast.KindReturnStatement,
		jsast.KindIfStatement,
		jsast.KindForStatement,
		jsast.KindForInStatement,
		jsast.KindForOfStatement,
		jsast.KindWhileStatement,
		jsast.KindDoWhileStatement,
		jsast.KindSwitchStatement,
		jsast.KindBreakStatement,
		jsast.KindContinueStatement,
		jsast.KindThrowStatement,
		jsast.KindTryStatement,
		jsast.KindBlockStatement,
		jsast.KindLabeledStatement:
		return true
	}
	return false
}

// StatementsIn returns the statement-level nodes contained in the range.
// Nested statements are included, so the result can hold ancestor and
// descendant pairs; see Outermost.
func StatementsIn(root jsast.Node, r Range) []jsast.Node {
	var out []jsast.Node
	for _, n := range NodesContained(root, r) {
		if IsStatement(n) {
			out = append(out, n)
		}
	}
	return out
}

// Outermost drops every statement nested inside an earlier one. The input
// must be in pre-order, as returned by StatementsIn.
func Outermost(stmts []jsast.Node) []jsast.Node {
	var out []jsast.Node
	end := -1
	for _, s := range stmts {
		sp := s.Loc()
		if sp.StartOffset < end {
			continue
		}
		out = append(out, s)
		end = sp.EndOffset
	}
	return out
}

// ContainingScope returns the most specific node whose lines enclose the
// whole range, or nil. A later candidate replaces the current one only when
// it is strictly tighter at either end.
func ContainingScope(root jsast.Node, r Range) jsast.Node {
	var best jsast.Node
	var bestSpan jsast.Span
	jsast.Walk(root, func(n, _ jsast.Node) {
		sp, ok := located(n)
		if !ok || sp.StartLine > r.Start || sp.EndLine < r.End {
			return
		}
		if best == nil || bestSpan.StartLine < sp.StartLine || bestSpan.EndLine > sp.EndLine {
			best, bestSpan = n, sp
		}
	})
	return best
}

// Info summarizes how a range maps onto a tree.
type Info struct {
	StartLine           int    `json:"startLine"`
	EndLine             int    `json:"endLine"`
	LineCount           int    `json:"lineCount"`
	OverlappingCount    int    `json:"overlappingNodes"`
	ContainedCount      int    `json:"containedNodes"`
	StatementCount      int    `json:"statements"`
	HasContainingScope  bool   `json:"hasContainingParent"`
	ContainingScopeKind string `json:"containingParentType,omitempty"`
}

// RangeInfo aggregates the mapper queries for r.
func RangeInfo(root jsast.Node, r Range) Info {
	info := Info{
		StartLine:        r.Start,
		EndLine:          r.End,
		LineCount:        r.Lines(),
		OverlappingCount: len(NodesOverlapping(root, r)),
		ContainedCount:   len(NodesContained(root, r)),
		StatementCount:   len(StatementsIn(root, r)),
	}
	if scope := ContainingScope(root, r); scope != nil {
		info.HasContainingScope = true
		info.ContainingScopeKind = scope.Kind().String()
	}
	return info
}
