package symbols

import (
	"fmt"

	"extgen/internal/ast"
	"extgen/internal/diag"
)

func (m *Model) declareItems(t *ast.Tree, parent ast.NodeID, container SymbolID) {
	n := t.Node(parent)
	if n == nil {
		return
	}
	for _, id := range n.Children {
		child := t.Node(id)
		switch {
		case child.Kind == ast.KindNamespace:
			if child.Path.IsEmpty() {
				continue
			}
			ns := container
			for _, part := range child.Path.Parts {
				ns = m.declareNamespace(ns, part, t, id)
			}
			m.declared[nodeKey{t, id}] = ns
			m.declareItems(t, id, ns)
		case child.Kind.IsTypeDecl():
			sym := m.declareType(container, t, id, child)
			if !sym.IsValid() {
				continue
			}
			m.declared[nodeKey{t, id}] = sym
			if child.Kind == ast.KindClass || child.Kind == ast.KindStruct {
				m.declareItems(t, id, sym)
			}
		}
	}
}

// declareNamespace returns the namespace name inside container, creating it
// on first use. Namespaces merge across declarations and files.
func (m *Model) declareNamespace(container SymbolID, name ast.Ident, t *ast.Tree, node ast.NodeID) SymbolID {
	decl := Decl{Tree: t, Node: node, Span: name.Span}
	parent := m.syms.at(container)
	if existing, ok := parent.members[name.Text]; ok {
		prev := m.syms.at(existing)
		if prev.Kind == SymbolNamespace {
			prev.Decls = append(prev.Decls, decl)
			return existing
		}
		m.reportDuplicate(name, prev)
		// detached: reachable through its declaration only
		return m.newSymbol(container, name.Text, SymbolNamespace, decl, false)
	}
	return m.newSymbol(container, name.Text, SymbolNamespace, decl, true)
}

func (m *Model) declareType(container SymbolID, t *ast.Tree, id ast.NodeID, n *ast.Node) SymbolID {
	if n.Name.IsEmpty() || !container.IsValid() {
		return NoSymbolID
	}
	decl := Decl{Tree: t, Node: id, Span: n.Name.Span}
	parent := m.syms.at(container)
	if existing, ok := parent.members[n.Name.Text]; ok {
		m.reportDuplicate(n.Name, m.syms.at(existing))
		return m.newSymbol(container, n.Name.Text, kindOfNode(n.Kind), decl, false)
	}
	return m.newSymbol(container, n.Name.Text, kindOfNode(n.Kind), decl, true)
}

func (m *Model) newSymbol(container SymbolID, name string, kind SymbolKind, decl Decl, index bool) SymbolID {
	parent := m.syms.at(container)
	ns := parent.FullName
	if parent.Kind != SymbolNamespace {
		ns = parent.Namespace
	}
	id := m.syms.add(Symbol{
		Name:      name,
		Kind:      kind,
		Container: container,
		FullName:  joinName(parent.FullName, name),
		Namespace: ns,
		Decls:     []Decl{decl},
		members:   make(map[string]SymbolID),
	})
	if index {
		// New may have grown the arena
		m.syms.at(container).members[name] = id
	}
	return id
}

func (m *Model) reportDuplicate(name ast.Ident, prev *Symbol) {
	msg := fmt.Sprintf("duplicate declaration of '%s'", name.Text)
	b := diag.ReportError(m.reporter, diag.SemaDuplicateSymbol, name.Span, msg)
	if sp := prev.Span(); !sp.Empty() {
		b.WithNote(sp, fmt.Sprintf("previous %s declaration here", prev.Kind))
	}
	b.Emit()
}
