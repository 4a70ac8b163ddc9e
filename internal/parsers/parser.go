// Package parsers turns JavaScript and TypeScript source into jsast trees
// using tree-sitter grammars.
package parsers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mvp-joe/extract-method/internal/jsast"
	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// ErrUnsupportedLanguage is returned for files no grammar handles.
var ErrUnsupportedLanguage = errors.New("unsupported file type")

// Language names the grammar used for a file.
type Language string

const (
	LanguageTypeScript Language = "typescript"
	LanguageTSX        Language = "tsx"
)

// LanguageFor picks a grammar from the file extension. JavaScript files are
// parsed with the TSX grammar, which accepts plain JavaScript and JSX.
func LanguageFor(path string) (Language, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return LanguageTypeScript, nil
	case ".tsx", ".js", ".jsx", ".mjs", ".cjs":
		return LanguageTSX, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedLanguage, path)
}

func (l Language) grammar() *sitter.Language {
	if l == LanguageTypeScript {
		return sitter.NewLanguage(typescript.LanguageTypescript())
	}
	return sitter.NewLanguage(typescript.LanguageTSX())
}

// ParseError reports source text the grammar could not parse.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
}

// ParseFile reads path and parses it.
func ParseFile(ctx context.Context, path string) (*jsast.Program, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(ctx, path, source)
}

// Parse parses source, choosing the grammar from path's extension. A tree
// with syntax errors yields a *ParseError.
func Parse(ctx context.Context, path string, source []byte) (*jsast.Program, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lang, err := LanguageFor(path)
	if err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(lang.grammar()); err != nil {
		return nil, fmt.Errorf("failed to load %s grammar: %w", lang, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s file: %s", lang, path)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, firstError(path, root)
	}

	c := &converter{src: source}
	prog := &jsast.Program{
		Span: jsast.Span{
			StartLine: 1,
			EndLine:   1 + bytes.Count(source, []byte{'\n'}),
			EndOffset: len(source),
		},
		Body:   c.statements(root),
		Digest: Digest(source),
	}
	if last := bytes.LastIndexByte(source, '\n'); last >= 0 {
		prog.EndColumn = len(source) - last - 1
	} else {
		prog.EndColumn = len(source)
	}
	return prog, nil
}

// firstError finds the earliest ERROR or MISSING node under root.
func firstError(path string, root *sitter.Node) *ParseError {
	var found *sitter.Node
	walkTree(root, func(n *sitter.Node) bool {
		if found != nil {
			return false
		}
		if n.IsError() || n.IsMissing() {
			found = n
			return false
		}
		return n.HasError()
	})

	pe := &ParseError{Path: path, Line: 1, Message: "syntax error"}
	if found == nil {
		return pe
	}
	pos := found.StartPosition()
	pe.Line = int(pos.Row) + 1
	pe.Column = int(pos.Column) + 1
	if found.IsMissing() {
		pe.Message = fmt.Sprintf("missing %q", found.Kind())
	}
	return pe
}

// walkTree recursively walks a tree-sitter tree and calls the visitor for
// each node. Returning false skips the node's children.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		walkTree(node.Child(i), visitor)
	}
}
