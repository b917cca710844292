package parser

import (
	"slices"
	"testing"

	"extgen/internal/ast"
	"extgen/internal/diag"
)

func TestParseEnumWithMarker(t *testing.T) {
	src := `namespace Zoo.Animals {
    @Extend
    enum Animal : int { Dog = 1, Cat, Cow, }
}`
	tree, fs := parseOK(t, src)

	enumIDs := tree.DeclsOf(ast.KindEnum)
	if len(enumIDs) != 1 {
		t.Fatalf("expected one enum, got %d", len(enumIDs))
	}
	enum := tree.Node(enumIDs[0])
	if enum.Name.Text != "Animal" || fs.Text(enum.Name.Span) != "Animal" {
		t.Fatalf("unexpected enum name %q", enum.Name.Text)
	}
	if enum.Path.String() != "int" {
		t.Fatalf("unexpected underlying type %q", enum.Path.String())
	}
	if got := memberNames(tree, enumIDs[0]); !slices.Equal(got, []string{"Dog", "Cat", "Cow"}) {
		t.Fatalf("unexpected members %v", got)
	}
	attrs := tree.Attrs(enumIDs[0])
	if len(attrs) != 1 || attrs[0].Name.String() != "Extend" || attrs[0].Owner != enumIDs[0] {
		t.Fatalf("unexpected attributes %+v", attrs)
	}
	if fs.Text(enum.Span)[:7] != "@Extend" {
		t.Fatalf("enum span must include its attributes: %q", fs.Text(enum.Span))
	}
	ns := tree.Node(tree.Items()[0])
	if ns.Kind != ast.KindNamespace || ns.Path.String() != "Zoo.Animals" || ns.FileScoped {
		t.Fatalf("unexpected namespace %+v", ns)
	}
}

func TestFileScopedNamespaceOwnsFollowingItems(t *testing.T) {
	src := "import Tools;\nnamespace Zoo;\nenum A {}\nclass B {}\n"
	tree, _ := parseOK(t, src)

	items := tree.Items()
	if len(items) != 2 {
		t.Fatalf("expected import and namespace at top level, got %d items", len(items))
	}
	ns := tree.Node(items[1])
	if !ns.FileScoped || len(ns.Children) != 2 {
		t.Fatalf("file-scoped namespace should own 2 declarations, got %+v", ns)
	}
	for _, c := range ns.Children {
		if tree.Node(c).Parent != items[1] {
			t.Fatalf("child %d has wrong parent", c)
		}
	}
}

func TestEmptyEnumAndDuplicates(t *testing.T) {
	tree, _ := parseOK(t, "enum E {}\nenum D { X, Y, X }")
	enums := tree.DeclsOf(ast.KindEnum)
	if got := memberNames(tree, enums[0]); len(got) != 0 {
		t.Fatalf("expected empty enum, got %v", got)
	}
	if got := memberNames(tree, enums[1]); !slices.Equal(got, []string{"X", "Y", "X"}) {
		t.Fatalf("duplicates must be kept in order, got %v", got)
	}
}

func TestImportsAndAliases(t *testing.T) {
	tree, _ := parseOK(t, "import Tools.Generation;\nimport Gen = Tools.Generation;")
	items := tree.Items()
	first, second := tree.Node(items[0]), tree.Node(items[1])
	if first.Kind != ast.KindImport || !first.Name.IsEmpty() || first.Path.String() != "Tools.Generation" {
		t.Fatalf("unexpected import %+v", first)
	}
	if second.Name.Text != "Gen" || second.Path.String() != "Tools.Generation" {
		t.Fatalf("unexpected alias import %+v", second)
	}
}

func TestClassWithFieldsAndNestedTypes(t *testing.T) {
	src := `class myClass {
    @Obsolete("use other", true)
    count: int = -3;
    @Extend enum Inner { A }
    struct point { x: float; }
}`
	tree, _ := parseOK(t, src)
	class := firstOfKind(t, tree, ast.KindClass)
	if len(class.Children) != 3 {
		t.Fatalf("expected 3 members, got %d", len(class.Children))
	}
	field := tree.Node(class.Children[0])
	if field.Kind != ast.KindField || field.Path.String() != "int" || field.Value.Text != "-3" {
		t.Fatalf("unexpected field %+v", field)
	}
	attr := tree.Attrs(class.Children[0])[0]
	if len(attr.Args) != 2 || attr.Args[0].Kind != ast.LitString || attr.Args[1].Kind != ast.LitBool {
		t.Fatalf("unexpected attribute args %+v", attr.Args)
	}
	if tree.Node(class.Children[1]).Kind != ast.KindEnum || tree.Node(class.Children[2]).Name.Text != "point" {
		t.Fatalf("nested declarations lost")
	}
}

func TestAttributeDeclarations(t *testing.T) {
	tree, _ := parseOK(t, "attribute ExtendAttribute;\nattribute Other {}")
	if got := len(tree.DeclsOf(ast.KindAttribute)); got != 2 {
		t.Fatalf("expected 2 attribute declarations, got %d", got)
	}
}

func TestMissingSemicolonOffersFix(t *testing.T) {
	tree, bag, _ := parseSource(t, "import Tools\nenum A { X }")
	if !hasCode(bag, diag.SynExpectSemicolon) {
		t.Fatalf("expected SynExpectSemicolon, got %s", diagnosticsSummary(bag))
	}
	d := bag.Items()[0]
	if len(d.Fixes) != 1 || d.Fixes[0].Edits[0].NewText != ";" || !d.Primary.Empty() {
		t.Fatalf("expected insert-';' fix at an empty span, got %+v", d)
	}
	if len(tree.DeclsOf(ast.KindEnum)) != 1 {
		t.Fatalf("parser must recover and keep the enum")
	}
}

func TestRecovery(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
		keep int // enums that must survive
	}{
		{"stray token", "42 enum A { X }", diag.SynUnexpectedTopLevel, 1},
		{"missing brace", "enum A X, Y }\nenum B { Z }", diag.SynExpectLBrace, 1},
		{"bad separator", "enum A { X Y, Z }", diag.SynEnumExpectSeparator, 1},
		{"unclosed enum", "enum A { X, Y", diag.SynUnclosedBrace, 1},
		{"attribute on import", "@Extend import A;", diag.SynAttributeNotAllowed, 0},
		{"late file-scoped namespace", "enum A {}\nnamespace N;", diag.SynFileScopedNamespace, 1},
		{"nested file-scoped namespace", "namespace A { namespace B; enum C {} }", diag.SynFileScopedNamespace, 1},
		{"missing member name", "enum A { = 1, B }", diag.SynExpectIdentifier, 1},
		{"bad field", "class C { x int; }\nenum E {}", diag.SynExpectType, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, bag, _ := parseSource(t, tt.src)
			if !hasCode(bag, tt.code) {
				t.Fatalf("expected %s, got %s", tt.code.ID(), diagnosticsSummary(bag))
			}
			if got := len(tree.DeclsOf(ast.KindEnum)); got != tt.keep {
				t.Fatalf("expected %d enums after recovery, got %d", tt.keep, got)
			}
		})
	}
}

func TestMaxErrors(t *testing.T) {
	fs, id := newFile("} } } } } } } }")
	bag := diag.NewBag(100)
	r := diag.BagReporter{Bag: bag}
	lx := newLexer(fs, id, r)
	ParseFile(lx, Options{Reporter: r, MaxErrors: 3})
	if bag.Len() != 3 {
		t.Fatalf("expected exactly 3 diagnostics, got %d: %s", bag.Len(), diagnosticsSummary(bag))
	}
}

func TestQualifiedAttributeNames(t *testing.T) {
	tree, _ := parseOK(t, "@Tools.Generation.Extend() enum A { B }")
	attr := tree.Attrs(tree.DeclsOf(ast.KindEnum)[0])[0]
	if attr.Name.String() != "Tools.Generation.Extend" || attr.Name.Last().Text != "Extend" || len(attr.Args) != 0 {
		t.Fatalf("unexpected attribute %+v", attr)
	}
}
