package lint

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"extgen/internal/ast"
	"extgen/internal/diag"
	"extgen/internal/fix"
	"extgen/internal/parser"
	"extgen/internal/source"
)

func parseAll(t *testing.T, sources ...string) (*source.FileSet, []*ast.Tree) {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag(0)
	trees := make([]*ast.Tree, 0, len(sources))
	for i, src := range sources {
		id := fs.AddVirtual(fmt.Sprintf("f%d.decl", i), []byte(src))
		trees = append(trees, parser.Parse(fs, id, diag.BagReporter{Bag: bag}))
	}
	if bag.Len() != 0 {
		t.Fatalf("parse diagnostics: %v", bag.Items())
	}
	return fs, trees
}

func spans(fs *source.FileSet, ds []diag.Diagnostic) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, fs.Text(d.Primary))
	}
	return out
}

func TestAnalyzeTree(t *testing.T) {
	fs, trees := parseAll(t, "class myClass {}\nclass MyClass {}\nstruct point { inner: int; enum mode { A } }\nattribute flag;\nenum _hidden { X }\n")
	got := AnalyzeTree(trees[0], Config{})
	if diff := cmp.Diff([]string{"myClass", "point", "mode"}, spans(fs, got)); diff != "" {
		t.Fatalf("flagged names mismatch (-want +got):\n%s", diff)
	}
	for _, d := range got {
		if d.Code != diag.LintTypeNameCase || d.Severity != diag.SevWarning || d.Message != Message {
			t.Fatalf("unexpected diagnostic %+v", d)
		}
		if len(d.Fixes) != 1 || d.Fixes[0].Title != fix.NamingTitle || d.Fixes[0].Thunk == nil {
			t.Fatalf("expected a lazy naming fix, got %+v", d.Fixes)
		}
	}
}

func TestAnalyzeTreeUpperCase(t *testing.T) {
	_, trees := parseAll(t, "class MyClass {}\nenum \u00c9tat { A }\n")
	if got := AnalyzeTree(trees[0], Config{}); len(got) != 0 {
		t.Fatalf("expected no diagnostics, got %v", got)
	}
}

func TestAnalyzeTreeNoFixWithoutUpperCase(t *testing.T) {
	_, trees := parseAll(t, "class ßeta {}\n")
	got := AnalyzeTree(trees[0], Config{})
	if len(got) != 1 {
		t.Fatalf("expected one diagnostic, got %v", got)
	}
	if len(got[0].Fixes) != 0 {
		t.Fatalf("no-op rename offered: %+v", got[0].Fixes)
	}
}

func TestAnalyzeTreeKinds(t *testing.T) {
	kinds, err := ParseKinds([]string{"attribute"})
	if err != nil {
		t.Fatal(err)
	}
	fs, trees := parseAll(t, "class foo {}\nattribute marker;\n")
	got := AnalyzeTree(trees[0], Config{Kinds: kinds})
	if diff := cmp.Diff([]string{"marker"}, spans(fs, got)); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if _, err := ParseKinds([]string{"field"}); err == nil {
		t.Fatal("field must be rejected")
	}
}

func TestRunParallelMatchesSequential(t *testing.T) {
	sources := make([]string, 0, 16)
	for i := range 16 {
		sources = append(sources, fmt.Sprintf("namespace n%d;\nclass c%d {}\nenum E%d { A }\nstruct s%d {}\n", i, i, i, i))
	}
	_, trees := parseAll(t, sources...)

	var want []diag.Diagnostic
	for _, tree := range trees {
		want = append(want, AnalyzeTree(tree, Config{})...)
	}
	for _, jobs := range []int{1, 4, 0} {
		got, err := Run(context.Background(), trees, Config{}, jobs)
		if err != nil {
			t.Fatalf("jobs=%d: %v", jobs, err)
		}
		if len(got) != len(want) {
			t.Fatalf("jobs=%d: %d diagnostics, want %d", jobs, len(got), len(want))
		}
		for i := range got {
			if got[i].Primary != want[i].Primary || got[i].Code != want[i].Code {
				t.Fatalf("jobs=%d: diagnostic %d = %v, want %v", jobs, i, got[i].Primary, want[i].Primary)
			}
		}
	}
}

func TestRunCancelled(t *testing.T) {
	_, trees := parseAll(t, "class a {}", "class b {}")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, trees, Config{}, 2); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestFixThenReanalyze(t *testing.T) {
	fs, trees := parseAll(t, "class myClass {}\n")
	diags := AnalyzeTree(trees[0], Config{})
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	edit, ok := fix.ComputeFix(trees[0], diags[0])
	if !ok {
		t.Fatal("expected a fix")
	}
	renamed, err := edit.Apply(fs, trees[0])
	if err != nil {
		t.Fatal(err)
	}
	if got := AnalyzeTree(renamed, Config{}); len(got) != 0 {
		t.Fatalf("fixed tree still flagged: %v", got)
	}
	if _, ok := fix.ComputeFix(renamed, diags[0]); ok {
		t.Fatal("recomputing on the fixed tree must not offer a fix")
	}
}
