package query

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"extgen/internal/ast"
	"extgen/internal/diag"
	"extgen/internal/parser"
	"extgen/internal/source"
	"extgen/internal/symbols"
)

func build(t *testing.T, sources ...string) ([]*ast.Tree, *symbols.Model) {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag(0)
	var trees []*ast.Tree
	for i, src := range sources {
		id := fs.AddVirtual(fmt.Sprintf("f%d.decl", i), []byte(src))
		trees = append(trees, parser.Parse(fs, id, diag.BagReporter{Bag: bag}))
	}
	if bag.Len() != 0 {
		t.Fatalf("parse diagnostics: %v", bag.Items())
	}
	return trees, symbols.Build(trees, nil)
}

func names(ms []Match) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Node().Name.Text)
	}
	return out
}

const markerDecl = "namespace Gen;\nattribute ExtendAttribute;\n"

func TestFindAnnotatedEnums(t *testing.T) {
	trees, model := build(t,
		markerDecl,
		"namespace Zoo;\nimport Gen;\n@Extend enum Animal { Cat }\nenum Plain { A }\nclass Holder { @Gen.Extend enum Nested { B } }\n",
		"namespace Other;\nattribute ExtendAttribute;\n@Extend enum Impostor { X }\n@Gen.ExtendAttribute enum Real { Y }\n",
	)
	got := FindAnnotatedEnums(trees, model, Marker{Name: "ExtendAttribute"})
	// Impostor resolves to Other.ExtendAttribute, which has the marker's simple name too
	if diff := cmp.Diff([]string{"Animal", "Nested", "Impostor", "Real"}, names(got)); diff != "" {
		t.Fatalf("matches (-want +got):\n%s", diff)
	}

	got = FindAnnotatedEnums(trees, model, Marker{Name: "ExtendAttribute", Namespace: "Gen"})
	if diff := cmp.Diff([]string{"Animal", "Nested", "Real"}, names(got)); diff != "" {
		t.Fatalf("namespace-qualified matches (-want +got):\n%s", diff)
	}
}

func TestFindIgnoresTextualLookalikes(t *testing.T) {
	// the usage reads "ExtendAttribute" but resolves to a class
	trees, model := build(t,
		markerDecl,
		"namespace Zoo;\nclass ExtendAttribute {}\n@ExtendAttribute enum Fake { A }\n",
	)
	got := FindAnnotatedEnums(trees, model, Marker{Name: "ExtendAttribute", Namespace: "Gen"})
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %v", names(got))
	}
}

func TestFindRequiresAttributeKind(t *testing.T) {
	// no marker namespace configured: only the symbol kind tells them apart
	trees, model := build(t,
		"class ExtendAttribute {}\n@ExtendAttribute enum Fake { A }\nstruct Extend {}\n@Extend enum AlsoFake { B }\n",
	)
	got := FindAnnotatedEnums(trees, model, Marker{Name: "ExtendAttribute"})
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %v", names(got))
	}
	got = FindAnnotatedEnums(trees, model, Marker{Name: "Extend"})
	if len(got) != 0 {
		t.Fatalf("struct marker matched: %v", names(got))
	}
}

func TestFindUnresolvedAndEmpty(t *testing.T) {
	trees, model := build(t, "namespace Zoo;\n@Extend enum A { X }\nenum B {}\n")
	if got := FindAnnotatedEnums(trees, model, Marker{Name: "ExtendAttribute"}); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", names(got))
	}
	if got := FindAnnotatedEnums(nil, model, Marker{Name: "ExtendAttribute"}); got != nil {
		t.Fatalf("expected nil for no trees, got %v", got)
	}
}

func TestFindParallelMatchesSequential(t *testing.T) {
	sources := []string{markerDecl}
	for i := 0; i < 12; i++ {
		sources = append(sources, fmt.Sprintf("namespace N%d;\nimport Gen;\n@Extend enum E%d { A, B }\nenum Skip%d { C }\n", i, i, i))
	}
	trees, model := build(t, sources...)
	marker := Marker{Name: "ExtendAttribute"}

	seq := FindAnnotatedEnums(trees, model, marker)
	par, err := FindParallel(context.Background(), trees, model, marker, 4)
	if err != nil {
		t.Fatalf("FindParallel: %v", err)
	}
	if diff := cmp.Diff(names(seq), names(par)); diff != "" {
		t.Fatalf("parallel differs (-seq +par):\n%s", diff)
	}
	if len(seq) != 12 {
		t.Fatalf("expected 12 matches, got %d", len(seq))
	}
}

func TestFindParallelCancelled(t *testing.T) {
	trees, model := build(t, markerDecl, "namespace Z;\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := FindParallel(ctx, trees, model, Marker{Name: "ExtendAttribute"}, 1); err == nil {
		t.Fatal("expected context error")
	}
}
