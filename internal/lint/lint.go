// Package lint reports type declarations whose name does not start with an
// upper-case letter. Only the first character is checked.
package lint

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"extgen/internal/ast"
	"extgen/internal/diag"
	"extgen/internal/fix"
	"extgen/internal/naming"
)

// Message is the text of every LNT9001 diagnostic.
const Message = "type name must be written in PascalCase"

// DefaultKinds are the declaration kinds checked when none are configured.
var DefaultKinds = []ast.NodeKind{ast.KindClass, ast.KindStruct, ast.KindEnum}

// Config selects the tracked declaration kinds.
type Config struct {
	Kinds []ast.NodeKind
}

func (c Config) kinds() []ast.NodeKind {
	if len(c.Kinds) == 0 {
		return DefaultKinds
	}
	return c.Kinds
}

// ParseKinds maps keywords such as "class" to kinds. Only type declarations are accepted.
func ParseKinds(names []string) ([]ast.NodeKind, error) {
	out := make([]ast.NodeKind, 0, len(names))
	for _, name := range names {
		k, ok := ast.ParseKind(name)
		if !ok || !k.IsTypeDecl() {
			return nil, fmt.Errorf("lint: %q is not a type declaration kind", name)
		}
		out = append(out, k)
	}
	return out, nil
}

// AnalyzeTree returns the casing diagnostics of one tree in source order.
// It has no side effects and may run concurrently for different trees.
func AnalyzeTree(tree *ast.Tree, cfg Config) []diag.Diagnostic {
	if tree == nil {
		return nil
	}
	var out []diag.Diagnostic
	for _, id := range tree.DeclsOf(cfg.kinds()...) {
		n := tree.Node(id)
		if n.Name.IsEmpty() || !naming.StartsLower(n.Name.Text) {
			continue
		}
		d := diag.NewWarning(diag.LintTypeNameCase, n.Name.Span, Message)
		if _, ok := fix.ComputeFix(tree, d); ok {
			d = d.WithFixSuggestion(fix.NamingSuggestion(tree, id))
		}
		out = append(out, d)
	}
	return out
}

// Run analyzes trees concurrently and returns the union sorted by diag.Less.
// The result does not depend on jobs.
func Run(ctx context.Context, trees []*ast.Tree, cfg Config, jobs int) ([]diag.Diagnostic, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if len(trees) == 0 {
		return nil, nil
	}
	perTree := make([][]diag.Diagnostic, len(trees))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(trees)))
	for i, t := range trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perTree[i] = AnalyzeTree(t, cfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []diag.Diagnostic
	for _, ds := range perTree {
		out = append(out, ds...)
	}
	sort.SliceStable(out, func(i, j int) bool { return diag.Less(out[i], out[j]) })
	return out, nil
}

// Report forwards diagnostics to r.
func Report(r diag.Reporter, diags []diag.Diagnostic) {
	if r == nil {
		return
	}
	for _, d := range diags {
		r.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes, d.Fixes)
	}
}
