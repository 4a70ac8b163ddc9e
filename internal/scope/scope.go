// Package scope classifies the identifiers of a block as used, defined or
// modified. The analysis is purely syntactic: it does not model shadowing.
package scope

import (
	"github.com/mvp-joe/extract-method/internal/jsast"
)

// Used collects every identifier reference in nodes, including names that
// are also declared there. Non-computed member properties and object keys are
// not references and are skipped.
func Used(nodes ...jsast.Node) *Set {
	used := NewSet()
	skip := map[jsast.Node]bool{}
	for _, root := range nodes {
		jsast.Walk(root, func(n, _ jsast.Node) {
			switch n := n.(type) {
			case *jsast.MemberExpression:
				if !n.Computed && n.Property != nil {
					skip[n.Property] = true
				}
			case *jsast.Property:
				if !n.Computed && n.Key != nil {
					skip[n.Key] = true
				}
			case *jsast.Identifier:
				if !skip[n] {
					used.Add(n.Name)
				}
			}
		})
	}
	return used
}

// Defined collects names bound by declarations in nodes: declarators
// (including destructuring), function and class names, parameters of nested
// functions and catch parameters.
func Defined(nodes ...jsast.Node) *Set {
	defined := NewSet()
	for _, root := range nodes {
		jsast.Walk(root, func(n, _ jsast.Node) {
			switch n := n.(type) {
			case *jsast.VariableDeclaration:
				for _, d := range n.Declarations {
					bindingNames(d.ID, defined)
				}
			case *jsast.FunctionDeclaration:
				if n.ID != nil {
					defined.Add(n.ID.Name)
				}
			case *jsast.ClassDeclaration:
				if n.ID != nil {
					defined.Add(n.ID.Name)
				}
			case *jsast.CatchClause:
				bindingNames(n.Param, defined)
			}
			for _, p := range jsast.FunctionParams(n) {
				bindingNames(p, defined)
			}
		})
	}
	return defined
}

// Modified collects names written in nodes: assignment targets (the base
// object for member targets), update operands, loop heads and declarators
// that carry an initializer.
func Modified(nodes ...jsast.Node) *Set {
	modified := NewSet()
	for _, root := range nodes {
		jsast.Walk(root, func(n, _ jsast.Node) {
			switch n := n.(type) {
			case *jsast.AssignmentExpression:
				target(n.Left, modified)
			case *jsast.UpdateExpression:
				target(n.Argument, modified)
			case *jsast.VariableDeclaration:
				for _, d := range n.Declarations {
					if d.Init != nil {
						bindingNames(d.ID, modified)
					}
				}
			case *jsast.ForInStatement:
				target(n.Left, modified)
			case *jsast.ForOfStatement:
				target(n.Left, modified)
			}
		})
	}
	return modified
}

// Bindings returns the names bound by patterns such as function parameters.
func Bindings(patterns ...jsast.Node) *Set {
	out := NewSet()
	for _, p := range patterns {
		bindingNames(p, out)
	}
	return out
}

// FreeVariables is used minus defined: names a block reads but does not bind.
func FreeVariables(used, defined *Set) *Set {
	return used.Difference(defined)
}

// target records the name written by an assignment to n.
func target(n jsast.Node, into *Set) {
	switch n := n.(type) {
	case *jsast.Identifier:
		into.Add(n.Name)
	case *jsast.MemberExpression:
		if base := baseObject(n); base != nil {
			into.Add(base.Name)
		}
	case *jsast.ParenthesizedExpression:
		target(n.Expression, into)
	case *jsast.ObjectPattern, *jsast.ArrayPattern, *jsast.AssignmentPattern, *jsast.RestElement, *jsast.VariableDeclaration:
		bindingNames(n, into)
	// Destructuring targets the grammar left as literals.
	case *jsast.ArrayExpression:
		for _, e := range n.Elements {
			target(e, into)
		}
	case *jsast.ObjectExpression:
		for _, p := range n.Properties {
			if prop, ok := p.(*jsast.Property); ok {
				target(prop.Value, into)
			}
		}
	case *jsast.SpreadElement:
		target(n.Argument, into)
	}
}

// baseObject follows a member chain (a.b[c].d) down to its root identifier.
func baseObject(m *jsast.MemberExpression) *jsast.Identifier {
	var cur jsast.Node = m
	for {
		switch n := cur.(type) {
		case *jsast.MemberExpression:
			cur = n.Object
		case *jsast.ParenthesizedExpression:
			cur = n.Expression
		case *jsast.Identifier:
			return n
		default:
			return nil
		}
	}
}

// bindingNames adds every name bound by a pattern.
func bindingNames(n jsast.Node, into *Set) {
	switch n := n.(type) {
	case *jsast.Identifier:
		into.Add(n.Name)
	case *jsast.ObjectPattern:
		for _, p := range n.Properties {
			if prop, ok := p.(*jsast.Property); ok {
				bindingNames(prop.Value, into)
			} else {
				bindingNames(p, into)
			}
		}
	case *jsast.ArrayPattern:
		for _, e := range n.Elements {
			bindingNames(e, into)
		}
	case *jsast.RestElement:
		bindingNames(n.Argument, into)
	case *jsast.AssignmentPattern:
		bindingNames(n.Left, into)
	case *jsast.VariableDeclaration:
		for _, d := range n.Declarations {
			bindingNames(d.ID, into)
		}
	case *jsast.MemberExpression:
		if base := baseObject(n); base != nil {
			into.Add(base.Name)
		}
	}
}
