package symbols

import (
	"fmt"
	"strings"

	"extgen/internal/ast"
	"extgen/internal/diag"
)

// AttributeSuffix is appended to an attribute name when the name as written
// does not resolve: @Extend finds ExtendAttribute.
const AttributeSuffix = "Attribute"

// scopeLevel is one step of name lookup: members of container, then the
// imports of the block that declared it, if any.
type scopeLevel struct {
	container SymbolID
	block     *block
}

// scopeChain lists lookup levels for names used inside node from, innermost first.
func (m *Model) scopeChain(t *ast.Tree, from ast.NodeID) []scopeLevel {
	var chain []scopeLevel
	for id := from; id.IsValid(); id = t.Node(id).Parent {
		n := t.Node(id)
		key := nodeKey{t, id}
		switch n.Kind {
		case ast.KindClass, ast.KindStruct:
			if sym, ok := m.declared[key]; ok {
				chain = append(chain, scopeLevel{container: sym})
			}
		case ast.KindNamespace:
			sym, ok := m.declared[key]
			if !ok {
				continue
			}
			chain = append(chain, scopeLevel{container: sym, block: m.blocks[key]})
			// namespace a.b.c { } opens c, then b, then a
			for i := 1; i < len(n.Path.Parts); i++ {
				sym = m.syms.at(sym).Container
				chain = append(chain, scopeLevel{container: sym})
			}
		case ast.KindFile:
			chain = append(chain, scopeLevel{container: m.global, block: m.blocks[key]})
		}
	}
	return chain
}

func attrCandidates(name string) [2]string {
	return [2]string{name, name + AttributeSuffix}
}

// typeMember finds name, or name with the attribute suffix, among the types of container.
func (m *Model) typeMember(container SymbolID, name string) SymbolID {
	for _, cand := range attrCandidates(name) {
		if id := m.member(container, cand, KindMaskType); id.IsValid() {
			return id
		}
	}
	return NoSymbolID
}

// lookupInImports searches the imported namespaces of b. More than one
// distinct hit is returned as ambiguous.
func (m *Model) lookupInImports(b *block, find func(ns SymbolID) SymbolID) (SymbolID, []SymbolID) {
	var found []SymbolID
	for _, ns := range b.imports {
		id := find(ns)
		if !id.IsValid() || containsID(found, id) {
			continue
		}
		found = append(found, id)
	}
	switch len(found) {
	case 0:
		return NoSymbolID, nil
	case 1:
		return found[0], nil
	default:
		return NoSymbolID, found
	}
}

// lookupLast resolves a single-segment attribute name. Only types qualify.
func (m *Model) lookupLast(chain []scopeLevel, name string) (SymbolID, []SymbolID) {
	for _, lvl := range chain {
		if id := m.typeMember(lvl.container, name); id.IsValid() {
			return id, nil
		}
		if lvl.block == nil {
			continue
		}
		for _, cand := range attrCandidates(name) {
			if target, ok := lvl.block.aliases[cand]; ok && m.syms.at(target).Kind.IsType() {
				return target, nil
			}
		}
		id, amb := m.lookupInImports(lvl.block, func(ns SymbolID) SymbolID {
			return m.typeMember(ns, name)
		})
		if id.IsValid() || len(amb) > 0 {
			return id, amb
		}
	}
	return NoSymbolID, nil
}

// lookupFirst resolves the leading segment of a dotted name to a namespace or type.
func (m *Model) lookupFirst(chain []scopeLevel, name string) (SymbolID, []SymbolID) {
	for _, lvl := range chain {
		if id := m.member(lvl.container, name, KindMaskAny); id.IsValid() {
			return id, nil
		}
		if lvl.block == nil {
			continue
		}
		if target, ok := lvl.block.aliases[name]; ok {
			return target, nil
		}
		id, amb := m.lookupInImports(lvl.block, func(ns SymbolID) SymbolID {
			return m.member(ns, name, KindMaskType)
		})
		if id.IsValid() || len(amb) > 0 {
			return id, amb
		}
	}
	return NoSymbolID, nil
}

// resolveAttrName resolves the name of an attribute usage to a type.
// The second result lists the candidates of an ambiguous reference.
func (m *Model) resolveAttrName(chain []scopeLevel, q ast.QualifiedName) (SymbolID, []SymbolID) {
	parts := q.Parts
	if len(parts) == 1 {
		return m.lookupLast(chain, parts[0].Text)
	}
	cur, amb := m.lookupFirst(chain, parts[0].Text)
	if !cur.IsValid() {
		return NoSymbolID, amb
	}
	for _, p := range parts[1 : len(parts)-1] {
		if cur = m.member(cur, p.Text, KindMaskAny); !cur.IsValid() {
			return NoSymbolID, nil
		}
	}
	return m.typeMember(cur, parts[len(parts)-1].Text), nil
}

func (m *Model) bindAttrs(t *ast.Tree) {
	for i := 1; i <= t.NodeCount(); i++ {
		id := ast.NodeID(i)
		n := t.Node(id)
		if len(n.Attrs) == 0 {
			continue
		}
		chain := m.scopeChain(t, n.Parent)
		for _, attrID := range n.Attrs {
			m.bindAttr(t, attrID, chain)
		}
	}
}

func (m *Model) bindAttr(t *ast.Tree, attrID ast.AttrID, chain []scopeLevel) {
	a := t.Attr(attrID)
	if a == nil || a.Name.IsEmpty() {
		return
	}
	sym, amb := m.resolveAttrName(chain, a.Name)
	switch {
	case len(amb) > 0:
		names := make([]string, len(amb))
		for i, id := range amb {
			names[i] = m.syms.at(id).FullName
		}
		msg := fmt.Sprintf("'%s' is ambiguous between %s", a.Name, strings.Join(names, " and "))
		b := diag.ReportError(m.reporter, diag.SemaAmbiguousReference, a.Name.Span, msg)
		for _, id := range amb {
			b.WithNote(m.syms.at(id).Span(), "candidate declared here")
		}
		b.Emit()
		return
	case !sym.IsValid():
		msg := fmt.Sprintf("unresolved attribute '%s'", a.Name)
		diag.ReportWarning(m.reporter, diag.SemaUnresolvedAttribute, a.Name.Span, msg).Emit()
		return
	}

	target := m.syms.at(sym)
	if target.Kind != SymbolAttribute {
		msg := fmt.Sprintf("'%s' is a %s, not an attribute", target.FullName, target.Kind)
		diag.ReportWarning(m.reporter, diag.SemaNotAnAttribute, a.Name.Span, msg).
			WithNote(target.Span(), "declared here").
			Emit()
	}
	m.attrs[attrKey{t, attrID}] = sym
}

// TypeOf returns the type an attribute usage resolves to. Resolution goes
// through declarations and imports; the spelling of the usage alone never
// decides the result.
func (m *Model) TypeOf(t *ast.Tree, attr ast.AttrID) (Symbol, bool) {
	id, ok := m.attrs[attrKey{t, attr}]
	if !ok {
		return Symbol{}, false
	}
	return m.Symbol(id)
}

func containsID(ids []SymbolID, id SymbolID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
