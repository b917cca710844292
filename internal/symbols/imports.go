package symbols

import (
	"fmt"

	"extgen/internal/ast"
	"extgen/internal/diag"
)

// block holds the imports declared directly in a file or namespace body.
type block struct {
	aliases map[string]SymbolID
	imports []SymbolID
}

func (m *Model) bindImports(t *ast.Tree) {
	t.Inspect(t.Root, func(id ast.NodeID, n *ast.Node) bool {
		switch n.Kind {
		case ast.KindFile, ast.KindNamespace:
			m.bindBlock(t, id, n)
			return true
		default:
			return false
		}
	})
}

// namespaceChain lists the namespaces a block sits in, innermost first,
// global namespace last.
func (m *Model) namespaceChain(t *ast.Tree, id ast.NodeID) []SymbolID {
	ns := m.global
	if t.Node(id).Kind == ast.KindNamespace {
		if sym, ok := m.declared[nodeKey{t, id}]; ok {
			ns = sym
		}
	}
	var chain []SymbolID
	for ns.IsValid() {
		chain = append(chain, ns)
		ns = m.syms.at(ns).Container
	}
	return chain
}

func (m *Model) bindBlock(t *ast.Tree, id ast.NodeID, n *ast.Node) {
	var chain []SymbolID
	var b *block
	for _, childID := range n.Children {
		child := t.Node(childID)
		if child.Kind != ast.KindImport || child.Path.IsEmpty() {
			continue
		}
		if chain == nil {
			chain = m.namespaceChain(t, id)
		}
		if b == nil {
			b = &block{aliases: make(map[string]SymbolID)}
		}

		target := m.resolvePath(chain, child.Path)
		if !target.IsValid() {
			msg := fmt.Sprintf("unresolved import '%s'", child.Path)
			diag.ReportError(m.reporter, diag.SemaUnresolvedImport, child.Path.Span, msg).Emit()
			continue
		}

		if child.Name.IsEmpty() {
			sym := m.syms.at(target)
			if sym.Kind != SymbolNamespace {
				msg := fmt.Sprintf("'%s' is a %s; import needs a namespace or an alias", child.Path, sym.Kind)
				diag.ReportError(m.reporter, diag.SemaUnresolvedImport, child.Path.Span, msg).
					WithNote(sym.Span(), "declared here").
					Emit()
				continue
			}
			b.imports = append(b.imports, target)
			continue
		}

		if _, dup := b.aliases[child.Name.Text]; dup {
			msg := fmt.Sprintf("alias '%s' is already declared in this scope", child.Name.Text)
			diag.ReportError(m.reporter, diag.SemaDuplicateAlias, child.Name.Span, msg).Emit()
			continue
		}
		b.aliases[child.Name.Text] = target
	}
	if b != nil {
		m.blocks[nodeKey{t, id}] = b
	}
}

// resolvePath resolves a dotted name against the members of the given
// namespaces, innermost first. Imports do not take part.
func (m *Model) resolvePath(chain []SymbolID, q ast.QualifiedName) SymbolID {
	first := q.Parts[0].Text
	for _, ns := range chain {
		cur := m.member(ns, first, KindMaskAny)
		if !cur.IsValid() {
			continue
		}
		for _, p := range q.Parts[1:] {
			if cur = m.member(cur, p.Text, KindMaskAny); !cur.IsValid() {
				return NoSymbolID
			}
		}
		return cur
	}
	return NoSymbolID
}
