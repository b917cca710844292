package symbols

import (
	"strings"

	"extgen/internal/ast"
	"extgen/internal/diag"
	"extgen/internal/source"
)

// Compilation is a set of parsed trees sharing one semantic model.
type Compilation struct {
	FileSet *source.FileSet
	Trees   []*ast.Tree
	Model   *Model
}

// NewCompilation binds trees into a model, reporting sema diagnostics to r.
func NewCompilation(fs *source.FileSet, trees []*ast.Tree, r diag.Reporter) *Compilation {
	return &Compilation{
		FileSet: fs,
		Trees:   trees,
		Model:   Build(trees, r),
	}
}

type nodeKey struct {
	tree *ast.Tree
	node ast.NodeID
}

type attrKey struct {
	tree *ast.Tree
	attr ast.AttrID
}

// Model answers semantic questions about the trees it was built from.
// It is immutable after Build and safe for concurrent readers.
type Model struct {
	syms     table
	global   SymbolID
	declared map[nodeKey]SymbolID
	blocks   map[nodeKey]*block
	attrs    map[attrKey]SymbolID
	reporter diag.Reporter
}

// Build declares every namespace and type of trees, binds imports, then
// resolves every attribute usage.
func Build(trees []*ast.Tree, r diag.Reporter) *Model {
	m := &Model{
		syms:     newTable(),
		declared: make(map[nodeKey]SymbolID),
		blocks:   make(map[nodeKey]*block),
		attrs:    make(map[attrKey]SymbolID),
		reporter: r,
	}
	m.global = m.syms.add(Symbol{Kind: SymbolNamespace, members: make(map[string]SymbolID)})

	for _, t := range trees {
		if t != nil {
			m.declareItems(t, t.Root, m.global)
		}
	}
	for _, t := range trees {
		if t != nil {
			m.bindImports(t)
		}
	}
	for _, t := range trees {
		if t != nil {
			m.bindAttrs(t)
		}
	}
	m.reporter = nil
	return m
}

// Global returns the root namespace.
func (m *Model) Global() Symbol {
	return *m.syms.at(m.global)
}

// Symbol returns the symbol with the given id.
func (m *Model) Symbol(id SymbolID) (Symbol, bool) {
	sym := m.syms.at(id)
	if sym == nil {
		return Symbol{}, false
	}
	return *sym, true
}

// Symbols returns every declared symbol in declaration order, global namespace first.
func (m *Model) Symbols() []Symbol {
	return append([]Symbol(nil), m.syms.all()...)
}

// Lookup finds a symbol by its dotted full name.
func (m *Model) Lookup(fullName string) (Symbol, bool) {
	cur := m.global
	if fullName != "" {
		for _, part := range strings.Split(fullName, ".") {
			if cur = m.member(cur, part, KindMaskAny); !cur.IsValid() {
				return Symbol{}, false
			}
		}
	}
	return m.Symbol(cur)
}

// Members returns the names of the symbols declared directly in s, sorted.
func (s Symbol) Members() []string {
	out := make([]string, 0, len(s.members))
	for name := range s.members {
		out = append(out, name)
	}
	sortStrings(out)
	return out
}

func (m *Model) member(container SymbolID, name string, mask KindMask) SymbolID {
	c := m.syms.at(container)
	if c == nil {
		return NoSymbolID
	}
	id, ok := c.members[name]
	if !ok {
		return NoSymbolID
	}
	if sym := m.syms.at(id); sym == nil || !matchKind(mask, sym.Kind) {
		return NoSymbolID
	}
	return id
}
