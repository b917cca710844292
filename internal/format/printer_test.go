package format

import (
	"testing"

	"extgen/internal/ast"
	"extgen/internal/diag"
	"extgen/internal/parser"
	"extgen/internal/source"
)

func parseSource(t *testing.T, src string) (*source.FileSet, *ast.Tree) {
	t.Helper()
	fs := source.NewFileSetWithBase("")
	bag := diag.NewBag(128)
	tree := parser.Parse(fs, fs.AddVirtual("fmt.decl", []byte(src)), diag.BagReporter{Bag: bag})
	if bag.HasErrors() {
		t.Fatalf("parse failed: %v", bag.Items())
	}
	return fs, tree
}

func TestFormatTree(t *testing.T) {
	src := "namespace Zoo;import Gen;import G=Gen.Extra;\n@Extend @G.Tag(1,\"x\")enum Animal:int{Cat,@Old Dog=2,}\n" +
		"class Holder{a:Animal=1;b:int;struct inner{}}attribute Marker{}\nenum Empty{}"
	_, tree := parseSource(t, src)

	got, err := FormatTree(tree, Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := `namespace Zoo;

import Gen;
import G = Gen.Extra;

@Extend
@G.Tag(1, "x")
enum Animal : int {
    Cat,
    @Old Dog = 2,
}

class Holder {
    a: Animal = 1;
    b: int;

    struct inner {}
}

attribute Marker;

enum Empty {}
`
	if string(got) != want {
		t.Fatalf("FormatTree mismatch:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatBlockNamespaceTabs(t *testing.T) {
	_, tree := parseSource(t, "namespace A.B { enum E { X } namespace C { class K {} } }")
	got, err := FormatTree(tree, Options{UseTabs: true})
	if err != nil {
		t.Fatal(err)
	}
	want := "namespace A.B {\n\tenum E {\n\t\tX,\n\t}\n\n\tnamespace C {\n\t\tclass K {}\n\t}\n}\n"
	if string(got) != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestCheckRoundTrip(t *testing.T) {
	fs, tree := parseSource(t, "namespace Zoo { @Extend enum Animal { Cat, Dog } }")
	ok, msg := CheckRoundTrip(fs.Get(tree.File), Options{}, 0)
	if !ok {
		t.Fatal(msg)
	}
}
