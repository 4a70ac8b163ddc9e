// Package editor splices a generated extraction back into source text.
package editor

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mvp-joe/extract-method/internal/analyzer"
	"github.com/mvp-joe/extract-method/internal/extractor"
	"github.com/mvp-joe/extract-method/internal/jsast"
	"github.com/mvp-joe/extract-method/internal/parsers"
)

// ErrStaleSource is returned when the source no longer matches the tree the
// report was built from.
var ErrStaleSource = errors.New("source does not match the analyzed tree")

// ErrNotContiguous is returned when the extracted statements are not
// adjacent entries of one statement list.
var ErrNotContiguous = errors.New("extracted statements are not adjacent siblings")

type edit struct {
	start, end int
	text       string
}

// Apply returns a copy of source with the extracted statements replaced by
// the call site and the function inserted at the result's placement.
func Apply(source []byte, report *analyzer.Report, result *extractor.Result) ([]byte, error) {
	if report == nil || result == nil {
		return nil, errors.New("report and result are required")
	}
	stmts := report.Statements()
	if len(stmts) == 0 {
		return nil, extractor.ErrNotFeasible
	}
	tree := report.Tree()
	if tree == nil || tree.EndOffset != len(source) || tree.Digest != parsers.Digest(source) {
		return nil, ErrStaleSource
	}
	if !report.Feasible {
		return nil, extractor.ErrNotFeasible
	}
	if !contiguous(tree, stmts) {
		return nil, ErrNotContiguous
	}

	start := stmts[0].Loc().StartOffset
	end := stmts[len(stmts)-1].Loc().EndOffset
	indent := indentAt(source, start)

	edits := []edit{{start: start, end: end, text: reindent(result.ReplacementText, indent)}}

	anchor := topLevel(tree, start)
	if anchor == nil {
		return nil, ErrStaleSource
	}
	anchorIndent := indentAt(source, anchor.Loc().StartOffset)
	fn := anchorIndent + reindent(result.FunctionText, anchorIndent)

	switch result.Placement {
	case extractor.PlacementAfter:
		last := topLevel(tree, end-1)
		if last == nil {
			return nil, ErrStaleSource
		}
		at := last.Loc().EndOffset
		edits = append(edits, edit{start: at, end: at, text: "\n\n" + fn})
	case extractor.PlacementTop:
		at := leadingComments(source, lineStart(source, firstCodeStatement(tree).Loc().StartOffset))
		edits = append(edits, edit{start: at, end: at, text: result.FunctionText + "\n\n"})
	default:
		at := leadingComments(source, lineStart(source, anchor.Loc().StartOffset))
		edits = append(edits, edit{start: at, end: at, text: fn + "\n\n"})
	}

	return splice(source, edits), nil
}

// ApplyFile rewrites the report's file in place and returns the new content.
func ApplyFile(report *analyzer.Report, result *extractor.Result) ([]byte, error) {
	if report == nil || report.FilePath == "" {
		return nil, errors.New("report has no file path")
	}
	info, err := os.Stat(report.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", report.FilePath, err)
	}
	source, err := os.ReadFile(report.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", report.FilePath, err)
	}
	out, err := Apply(source, report, result)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(report.FilePath, out, info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", report.FilePath, err)
	}
	return out, nil
}

// splice applies non-overlapping edits from the end of the buffer backwards
// so earlier offsets stay valid.
func splice(source []byte, edits []edit) []byte {
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].start != edits[j].start {
			return edits[i].start > edits[j].start
		}
		return edits[i].end > edits[j].end
	})
	out := append([]byte{}, source...)
	for _, e := range edits {
		var buf bytes.Buffer
		buf.Grow(len(out) - (e.end - e.start) + len(e.text))
		buf.Write(out[:e.start])
		buf.WriteString(e.text)
		buf.Write(out[e.end:])
		out = buf.Bytes()
	}
	return out
}

func lineStart(source []byte, offset int) int {
	return bytes.LastIndexByte(source[:offset], '\n') + 1
}

// indentAt returns the whitespace between the start of the line and offset,
// or "" when other text precedes offset on that line.
func indentAt(source []byte, offset int) string {
	prefix := source[lineStart(source, offset):offset]
	if len(bytes.TrimLeft(prefix, " \t")) != 0 {
		return ""
	}
	return string(prefix)
}

// reindent prefixes every line after the first with indent. The first line
// lands where the replaced text started.
func reindent(text, indent string) string {
	if indent == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = indent + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

// leadingComments moves a line-start offset up over the comment lines that
// sit directly above it, so doc comments stay attached to their statement.
func leadingComments(source []byte, at int) int {
	for at > 0 {
		prev := lineStart(source, at-1)
		line := strings.TrimSpace(string(source[prev : at-1]))
		if !strings.HasPrefix(line, "//") && !strings.HasPrefix(line, "/*") &&
			!strings.HasPrefix(line, "*") {
			break
		}
		at = prev
	}
	return at
}

// contiguous reports whether stmts appear in order, without gaps, in the
// child list of a single parent.
func contiguous(tree *jsast.Program, stmts []jsast.Node) bool {
	if len(stmts) == 1 {
		return true
	}
	found := false
	jsast.Inspect(tree, func(n jsast.Node) bool {
		if found {
			return false
		}
		children := jsast.Children(n)
		for i, c := range children {
			if c != stmts[0] {
				continue
			}
			if i+len(stmts) > len(children) {
				return false
			}
			for j, s := range stmts {
				if children[i+j] != s {
					return false
				}
			}
			found = true
			return false
		}
		return true
	})
	return found
}

func topLevel(tree *jsast.Program, offset int) jsast.Node {
	for _, stmt := range tree.Body {
		sp := stmt.Loc()
		if sp.StartOffset <= offset && offset < sp.EndOffset {
			return stmt
		}
	}
	return nil
}

// firstCodeStatement skips leading imports and directive prologues.
func firstCodeStatement(tree *jsast.Program) jsast.Node {
	for _, stmt := range tree.Body {
		switch n := stmt.(type) {
		case *jsast.Opaque:
			if n.Type == "import_statement" {
				continue
			}
		case *jsast.ExpressionStatement:
			if lit, ok := n.Expression.(*jsast.Literal); ok && lit.Raw != "" && strings.ContainsAny(lit.Raw[:1], `'"`) {
				continue
			}
		}
		return stmt
	}
	return tree.Body[len(tree.Body)-1]
}
