// Package query finds enum declarations that carry the generation marker.
package query

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"extgen/internal/ast"
	"extgen/internal/symbols"
)

// Marker identifies the attribute type that makes an enum eligible.
type Marker struct {
	// Name is compared against the simple name of the resolved type.
	Name string
	// Namespace, when set, must equal the resolved type's namespace.
	Namespace string
}

// Matches reports whether sym is the marker type. Only attribute
// declarations qualify; a class or struct sharing the name does not.
func (mk Marker) Matches(sym symbols.Symbol) bool {
	if sym.Kind != symbols.SymbolAttribute || sym.Name != mk.Name {
		return false
	}
	return mk.Namespace == "" || sym.Namespace == mk.Namespace
}

// Match is one eligible enum.
type Match struct {
	Tree *ast.Tree
	Enum ast.NodeID
	// Attr is the usage that resolved to the marker.
	Attr ast.AttrID
}

// Node returns the matched enum declaration.
func (m Match) Node() *ast.Node { return m.Tree.Node(m.Enum) }

// FindAnnotatedEnums walks every tree and returns the enums carrying marker,
// in tree order and pre-order within a tree.
func FindAnnotatedEnums(trees []*ast.Tree, model *symbols.Model, marker Marker) []Match {
	var out []Match
	for _, t := range trees {
		out = append(out, FindInTree(t, model, marker)...)
	}
	return out
}

// FindInTree is FindAnnotatedEnums for a single tree.
func FindInTree(t *ast.Tree, model *symbols.Model, marker Marker) []Match {
	if t == nil {
		return nil
	}
	var out []Match
	t.Inspect(t.Root, func(id ast.NodeID, n *ast.Node) bool {
		if n.Kind != ast.KindEnum || len(n.Attrs) == 0 {
			return true
		}
		for _, attr := range n.Attrs {
			sym, ok := model.TypeOf(t, attr)
			if ok && marker.Matches(sym) {
				out = append(out, Match{Tree: t, Enum: id, Attr: attr})
				break
			}
		}
		return true
	})
	return out
}

// FindParallel searches trees concurrently. The result equals FindAnnotatedEnums.
func FindParallel(ctx context.Context, trees []*ast.Tree, model *symbols.Model, marker Marker, jobs int) ([]Match, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if len(trees) == 0 {
		return nil, nil
	}

	// каждая горутина пишет только в свой индекс
	perTree := make([][]Match, len(trees))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(trees)))
	for i, t := range trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perTree[i] = FindInTree(t, model, marker)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Match
	for _, ms := range perTree {
		out = append(out, ms...)
	}
	return out, nil
}
