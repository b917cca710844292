package symbols

import (
	"errors"
	"fmt"

	"extgen/internal/ast"
	"extgen/internal/source"
)

// ErrNamespaceNotFound is reported for a declaration that sits outside any namespace.
var ErrNamespaceNotFound = errors.New("namespace not found")

// NamespaceNotFoundError names the declaration whose namespace could not be determined.
type NamespaceNotFoundError struct {
	Decl string
	Span source.Span
}

func (e *NamespaceNotFoundError) Error() string {
	return fmt.Sprintf("%s: no enclosing namespace for '%s'", e.Span, e.Decl)
}

func (e *NamespaceNotFoundError) Unwrap() error { return ErrNamespaceNotFound }

// DeclaredNamespace returns the symbol a namespace declaration introduces.
// For namespace a.b.c that is c.
func (m *Model) DeclaredNamespace(t *ast.Tree, ns ast.NodeID) (Symbol, bool) {
	n := t.Node(ns)
	if n == nil || n.Kind != ast.KindNamespace {
		return Symbol{}, false
	}
	id, ok := m.declared[nodeKey{t, ns}]
	if !ok {
		return Symbol{}, false
	}
	return m.Symbol(id)
}

// DeclaredType returns the symbol a type declaration introduces.
func (m *Model) DeclaredType(t *ast.Tree, decl ast.NodeID) (Symbol, bool) {
	n := t.Node(decl)
	if n == nil || !n.Kind.IsTypeDecl() {
		return Symbol{}, false
	}
	id, ok := m.declared[nodeKey{t, decl}]
	if !ok {
		return Symbol{}, false
	}
	return m.Symbol(id)
}

// EnclosingNamespace returns the innermost namespace declaration containing node.
// File-scoped namespaces count. Nodes outside every namespace report false.
func (m *Model) EnclosingNamespace(t *ast.Tree, node ast.NodeID) (Symbol, bool) {
	for _, id := range t.Ancestors(node) {
		if t.Node(id).Kind != ast.KindNamespace {
			continue
		}
		if sym, ok := m.DeclaredNamespace(t, id); ok {
			return sym, true
		}
	}
	return Symbol{}, false
}

// NamespaceOf returns the full name of the namespace enclosing decl.
func (m *Model) NamespaceOf(t *ast.Tree, decl ast.NodeID) (string, error) {
	if sym, ok := m.EnclosingNamespace(t, decl); ok {
		return sym.FullName, nil
	}
	err := &NamespaceNotFoundError{}
	if n := t.Node(decl); n != nil {
		err.Decl = n.Name.Text
		err.Span = n.Span
	}
	return "", err
}

// Members returns the member names of an enum declaration in source order.
func Members(t *ast.Tree, enum ast.NodeID) []string {
	idents := t.Members(enum)
	out := make([]string, len(idents))
	for i, id := range idents {
		out[i] = id.Text
	}
	return out
}
