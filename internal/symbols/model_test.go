package symbols_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"extgen/internal/ast"
	"extgen/internal/diag"
	"extgen/internal/parser"
	"extgen/internal/source"
	"extgen/internal/symbols"
)

func compile(t *testing.T, sources ...string) (*symbols.Compilation, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	parseBag := diag.NewBag(0)
	trees := make([]*ast.Tree, 0, len(sources))
	for i, src := range sources {
		id := fs.AddVirtual(fmt.Sprintf("f%d.decl", i), []byte(src))
		trees = append(trees, parser.Parse(fs, id, diag.BagReporter{Bag: parseBag}))
	}
	require.Zero(t, parseBag.Len(), "parse diagnostics: %v", parseBag.Items())
	bag := diag.NewBag(0)
	return symbols.NewCompilation(fs, trees, diag.BagReporter{Bag: bag}), bag
}

// enumAttr returns the first attribute of the enum named name.
func enumAttr(t *testing.T, c *symbols.Compilation, name string) (*ast.Tree, ast.AttrID) {
	t.Helper()
	for _, tree := range c.Trees {
		for _, id := range tree.DeclsOf(ast.KindEnum) {
			n := tree.Node(id)
			if n.Name.Text == name {
				require.NotEmpty(t, n.Attrs, "enum %s has no attributes", name)
				return tree, n.Attrs[0]
			}
		}
	}
	t.Fatalf("enum %s not found", name)
	return nil, 0
}

func codes(bag *diag.Bag) []diag.Code {
	out := make([]diag.Code, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestTypeOfThroughImportAndSuffix(t *testing.T) {
	c, bag := compile(t,
		"namespace Gen;\nattribute ExtendAttribute;\n",
		"namespace Zoo;\nimport Gen;\n@Extend\nenum Animal { Cat, Dog }\n",
	)
	require.Zero(t, bag.Len(), "%v", bag.Items())

	tree, attr := enumAttr(t, c, "Animal")
	sym, ok := c.Model.TypeOf(tree, attr)
	require.True(t, ok)
	require.Equal(t, "Gen.ExtendAttribute", sym.FullName)
	require.Equal(t, "ExtendAttribute", sym.Name)
	require.Equal(t, "Gen", sym.Namespace)
	require.Equal(t, symbols.SymbolAttribute, sym.Kind)
}

func TestTypeOfDistinguishesSameSimpleName(t *testing.T) {
	c, bag := compile(t,
		"namespace Gen { attribute ExtendAttribute; }\nnamespace Other { attribute ExtendAttribute; }\n",
		"namespace Zoo;\nimport Other;\n@Extend enum Plant { Fern }\n",
	)
	require.Zero(t, bag.Len())

	tree, attr := enumAttr(t, c, "Plant")
	sym, ok := c.Model.TypeOf(tree, attr)
	require.True(t, ok)
	require.Equal(t, "Other.ExtendAttribute", sym.FullName)

	gen, ok := c.Model.Lookup("Gen.ExtendAttribute")
	require.True(t, ok)
	require.NotEqual(t, gen.ID, sym.ID)
}

func TestTypeOfAmbiguousImports(t *testing.T) {
	c, bag := compile(t,
		"namespace Gen { attribute Extend; }\nnamespace Other { attribute Extend; }\n",
		"import Gen;\nimport Other;\nnamespace Zoo { @Extend enum Plant { Fern } }\n",
	)
	require.Equal(t, []diag.Code{diag.SemaAmbiguousReference}, codes(bag))
	require.Len(t, bag.Items()[0].Notes, 2)

	tree, attr := enumAttr(t, c, "Plant")
	_, ok := c.Model.TypeOf(tree, attr)
	require.False(t, ok)
}

func TestTypeOfInnerScopeWins(t *testing.T) {
	c, bag := compile(t,
		"namespace Gen { attribute Extend; }\n",
		"namespace Zoo {\n  import Gen;\n  attribute Extend;\n  @Extend enum A { X }\n}\n",
		"import Gen;\nnamespace Zoo.Sub {\n  @Extend enum B { Y }\n}\n",
	)
	require.Zero(t, bag.Len(), "%v", bag.Items())

	tree, attr := enumAttr(t, c, "A")
	sym, ok := c.Model.TypeOf(tree, attr)
	require.True(t, ok)
	require.Equal(t, "Zoo.Extend", sym.FullName)

	// Zoo is an enclosing namespace of Zoo.Sub and is searched before file imports
	tree, attr = enumAttr(t, c, "B")
	sym, ok = c.Model.TypeOf(tree, attr)
	require.True(t, ok)
	require.Equal(t, "Zoo.Extend", sym.FullName)
}

func TestTypeOfAliasAndQualified(t *testing.T) {
	c, bag := compile(t,
		"namespace Tools.Gen { attribute ExtendAttribute; }\n",
		"namespace Zoo;\nimport G = Tools.Gen;\n@G.Extend enum A { X }\n@Tools.Gen.ExtendAttribute enum B { Y }\n",
	)
	require.Zero(t, bag.Len(), "%v", bag.Items())

	for _, name := range []string{"A", "B"} {
		tree, attr := enumAttr(t, c, name)
		sym, ok := c.Model.TypeOf(tree, attr)
		require.True(t, ok, name)
		require.Equal(t, "Tools.Gen.ExtendAttribute", sym.FullName, name)
	}
}

func TestTypeOfNestedTypeScope(t *testing.T) {
	c, bag := compile(t,
		"namespace N;\nclass Outer {\n  attribute Mark;\n  @Mark enum Inner { A }\n}\n",
	)
	require.Zero(t, bag.Len(), "%v", bag.Items())

	tree, attr := enumAttr(t, c, "Inner")
	sym, ok := c.Model.TypeOf(tree, attr)
	require.True(t, ok)
	require.Equal(t, "N.Outer.Mark", sym.FullName)
	require.Equal(t, "N", sym.Namespace)
}

func TestSemaDiagnostics(t *testing.T) {
	_, bag := compile(t,
		"namespace A {\n  class X {}\n  struct X {}\n  class Y {}\n  @Y enum E { One }\n  @Missing enum F { Two }\n}\nimport Nowhere;\nimport A.Y;\n",
	)
	bag.Sort()
	require.ElementsMatch(t, []diag.Code{
		diag.SemaDuplicateSymbol,
		diag.SemaNotAnAttribute,
		diag.SemaUnresolvedAttribute,
		diag.SemaUnresolvedImport,
		diag.SemaUnresolvedImport,
	}, codes(bag))

	for _, d := range bag.Items() {
		switch d.Code {
		case diag.SemaNotAnAttribute, diag.SemaUnresolvedAttribute:
			require.Equal(t, diag.SevWarning, d.Severity)
		default:
			require.Equal(t, diag.SevError, d.Severity)
		}
	}
}

func TestDuplicateKeepsFirstDeclaration(t *testing.T) {
	c, bag := compile(t,
		"namespace Gen;\nattribute ExtendAttribute;\nclass ExtendAttribute {}\n",
		"namespace Zoo;\nimport Gen;\n@Extend enum Animal { Cat }\n",
	)
	require.Equal(t, []diag.Code{diag.SemaDuplicateSymbol}, codes(bag))

	tree, attr := enumAttr(t, c, "Animal")
	sym, ok := c.Model.TypeOf(tree, attr)
	require.True(t, ok)
	require.Equal(t, symbols.SymbolAttribute, sym.Kind)

	byName, ok := c.Model.Lookup("Gen.ExtendAttribute")
	require.True(t, ok)
	require.Equal(t, sym.ID, byName.ID)
}

func TestNamespaceOf(t *testing.T) {
	c, _ := compile(t,
		"namespace A.B {\n  namespace C { enum E1 { X } }\n  enum E2 { Y }\n}\n",
		"namespace A.B;\nenum E3 { Z }\n",
		"enum Loose { Q }\n",
	)
	want := map[string]string{"E1": "A.B.C", "E2": "A.B", "E3": "A.B"}
	for _, tree := range c.Trees {
		for _, id := range tree.DeclsOf(ast.KindEnum) {
			name := tree.Node(id).Name.Text
			ns, err := c.Model.NamespaceOf(tree, id)
			if name == "Loose" {
				require.True(t, errors.Is(err, symbols.ErrNamespaceNotFound))
				var nf *symbols.NamespaceNotFoundError
				require.True(t, errors.As(err, &nf))
				require.Equal(t, "Loose", nf.Decl)
				continue
			}
			require.NoError(t, err)
			require.Equal(t, want[name], ns, name)
		}
	}

	// both declarations of A.B merge into one symbol
	ab, ok := c.Model.Lookup("A.B")
	require.True(t, ok)
	require.Len(t, ab.Decls, 2)
	require.Equal(t, []string{"C", "E2", "E3"}, ab.Members())
}

func TestDeclaredNamespace(t *testing.T) {
	c, _ := compile(t, "namespace Zoo.Animals { }\n")
	tree := c.Trees[0]
	ns := tree.DeclsOf(ast.KindNamespace)
	require.Len(t, ns, 1)

	sym, ok := c.Model.DeclaredNamespace(tree, ns[0])
	require.True(t, ok)
	require.Equal(t, "Animals", sym.Name)
	require.Equal(t, "Zoo.Animals", sym.FullName)

	parent, ok := c.Model.Symbol(sym.Container)
	require.True(t, ok)
	require.Equal(t, "Zoo", parent.FullName)
	require.True(t, c.Model.Global().IsGlobal())
}

func TestMembersKeepOrderAndDuplicates(t *testing.T) {
	c, _ := compile(t, "enum E { Beta, Alpha, Beta = 3, }\nenum Empty {}\n")
	tree := c.Trees[0]
	enums := tree.DeclsOf(ast.KindEnum)
	require.Equal(t, []string{"Beta", "Alpha", "Beta"}, symbols.Members(tree, enums[0]))
	require.Empty(t, symbols.Members(tree, enums[1]))
}
