package gen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"extgen/internal/ast"
	"extgen/internal/diag"
	"extgen/internal/parser"
	"extgen/internal/query"
	"extgen/internal/source"
	"extgen/internal/symbols"
	"extgen/internal/templates"
)

const markerDecl = "namespace Gen;\nattribute ExtendAttribute;\n"

func compile(t *testing.T, sources ...string) *symbols.Compilation {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag(0)
	trees := make([]*ast.Tree, 0, len(sources))
	for i, src := range sources {
		id := fs.AddVirtual(fmt.Sprintf("f%d.decl", i), []byte(src))
		trees = append(trees, parser.Parse(fs, id, diag.BagReporter{Bag: bag}))
	}
	require.Zero(t, bag.Len(), "parse diagnostics: %v", bag.Items())
	return symbols.NewCompilation(fs, trees, nil)
}

func testStore() templates.Store {
	return templates.FSStore{FS: fstest.MapFS{
		"EnumExtensionTemplate.tmpl": {Data: []byte("ns={{NAMESPACE}} type={{ENUM_NAME}}\n{{INITIALIZATION}}end")},
		"EnumValueInit.tmpl":         {Data: []byte("  {{ENUM_NAME}}.{{VALUE}}")},
	}}
}

func initialized(t *testing.T, store templates.Store) *EnumExtension {
	t.Helper()
	g := NewEnumExtension()
	require.NoError(t, g.Initialize(InitContext{Store: store}))
	return g
}

func run(t *testing.T, g *EnumExtension, c *symbols.Compilation, opts Options) (Result, *diag.Bag, *Emitter) {
	t.Helper()
	bag := diag.NewBag(0)
	em := NewEmitter()
	res, err := g.Execute(ExecContext{
		Context:     context.Background(),
		Compilation: c,
		Emitter:     em,
		Reporter:    diag.BagReporter{Bag: bag},
		Options:     opts,
	})
	require.NoError(t, err)
	return res, bag, em
}

func TestGenerateKeepsMemberOrder(t *testing.T) {
	c := compile(t, markerDecl, "namespace Zoo;\nimport Gen;\n@Extend enum Animal { Dog, Cat = 4, Ant, }\n")
	res, bag, em := run(t, initialized(t, testStore()), c, Options{})

	require.Zero(t, bag.Len(), "%v", bag.Items())
	require.Equal(t, 1, res.Matched)
	require.Len(t, res.Units, 1)
	u := res.Units[0]
	require.Equal(t, "AnimalExtension", u.Name)
	require.Equal(t, "Zoo", u.Namespace)
	require.Equal(t, "ns=Zoo type=Animal\n  Animal.Dog\n  Animal.Cat\n  Animal.Ant\nend", u.Text)

	got, ok := em.Get("AnimalExtension")
	require.True(t, ok)
	require.Equal(t, u, got)
}

func TestGenerateEmptyEnum(t *testing.T) {
	c := compile(t, markerDecl, "namespace Zoo;\n@Gen.Extend enum Nothing {}\n")
	res, _, _ := run(t, initialized(t, testStore()), c, Options{})
	require.Len(t, res.Units, 1)
	require.Equal(t, "ns=Zoo type=Nothing\nend", res.Units[0].Text)
}

func TestGenerateNoMatches(t *testing.T) {
	c := compile(t, markerDecl, "namespace Zoo;\nenum Plain { A }\n")
	res, bag, em := run(t, initialized(t, testStore()), c, Options{})
	require.Zero(t, res.Matched)
	require.Empty(t, res.Units)
	require.Zero(t, em.Len())
	require.Zero(t, bag.Len())
}

func TestGenerateIgnoresTextualLookalike(t *testing.T) {
	c := compile(t,
		markerDecl,
		"namespace Other;\nclass ExtendAttribute {}\n",
		"namespace Zoo;\nimport Other;\n@Extend enum Fake { A }\n@Gen.Extend enum Real { B }\n",
	)
	res, _, _ := run(t, initialized(t, testStore()), c, Options{Marker: query.Marker{Name: DefaultMarker, Namespace: "Gen"}})
	require.Equal(t, 1, res.Matched)
	require.Equal(t, "RealExtension", res.Units[0].Name)
}

func TestGenerateDefaultMarkerSkipsClassLookalike(t *testing.T) {
	c := compile(t,
		markerDecl,
		"namespace Other;\nclass ExtendAttribute {}\n",
		"namespace Zoo;\nimport Other;\n@Extend enum Fake { A }\n@Gen.Extend enum Real { B }\n",
	)
	res, _, _ := run(t, initialized(t, testStore()), c, Options{})
	require.Equal(t, 1, res.Matched)
	require.Len(t, res.Units, 1)
	require.Equal(t, "RealExtension", res.Units[0].Name)
}

func TestBuiltinTemplatesRenderCompletely(t *testing.T) {
	c := compile(t, markerDecl, "namespace Zoo.Farm;\nimport Gen;\n@Extend enum Animal { Cow, Hen }\n")
	for _, target := range templates.Targets() {
		t.Run(target, func(t *testing.T) {
			store, err := templates.Embedded(target)
			require.NoError(t, err)
			res, bag, _ := run(t, initialized(t, store), c, Options{StrictPlaceholders: true})
			require.Zero(t, bag.Len(), "%v", bag.Items())
			require.Len(t, res.Units, 1)
			text := res.Units[0].Text
			require.Empty(t, Unresolved(text))
			require.Contains(t, text, "Zoo.Farm")
			require.Less(t, strings.Index(text, "Animal.Cow"), strings.Index(text, "Animal.Hen"))
		})
	}
}

func TestInitializeMissingTemplate(t *testing.T) {
	store := templates.FSStore{FS: fstest.MapFS{
		"EnumExtensionTemplate.tmpl": {Data: []byte("x")},
	}}
	g := NewEnumExtension()
	err := g.Initialize(InitContext{Store: store})
	require.ErrorIs(t, err, templates.ErrTemplateNotFound)
	var nf *templates.NotFoundError
	require.True(t, errors.As(err, &nf))
	require.Equal(t, templates.EnumValueInit, nf.Name)

	_, err = g.Execute(ExecContext{Compilation: compile(t, markerDecl)})
	require.ErrorIs(t, err, ErrNotInitialized)
}

func TestStrictPlaceholders(t *testing.T) {
	store := templates.FSStore{FS: fstest.MapFS{
		"EnumExtensionTemplate.tmpl": {Data: []byte("{{ENUM_NAME}} {{VERSION}}\n{{INITIALIZATION}}")},
		"EnumValueInit.tmpl":         {Data: []byte("{{VALUE}}")},
	}}
	c := compile(t, markerDecl, "namespace Zoo;\nimport Gen;\n@Extend enum Animal { Cat }\n")

	res, bag, _ := run(t, initialized(t, store), c, Options{})
	require.Len(t, res.Units, 1)
	require.Equal(t, "Animal {{VERSION}}\nCat\n", res.Units[0].Text)
	require.Zero(t, bag.Len())

	res, bag, em := run(t, initialized(t, store), c, Options{StrictPlaceholders: true})
	require.Empty(t, res.Units)
	require.Equal(t, 1, res.Failed)
	require.Zero(t, em.Len())
	require.Equal(t, 1, bag.Len())
	require.Equal(t, diag.GenUnresolvedPlaceholder, bag.Items()[0].Code)
	require.Contains(t, bag.Items()[0].Message, "{{VERSION}}")
}

func TestNamespaceNotFoundIsolated(t *testing.T) {
	c := compile(t,
		markerDecl,
		"import Gen;\n@Extend enum Loose { A }\n",
		"namespace Zoo;\nimport Gen;\n@Extend enum Animal { Cat }\n",
	)
	res, bag, _ := run(t, initialized(t, testStore()), c, Options{})

	require.Equal(t, 2, res.Matched)
	require.Equal(t, 1, res.Failed)
	require.Len(t, res.Units, 1)
	require.Equal(t, "AnimalExtension", res.Units[0].Name)

	require.Equal(t, 1, bag.Len())
	d := bag.Items()[0]
	require.Equal(t, diag.GenNamespaceNotFound, d.Code)
	require.Equal(t, diag.SevError, d.Severity)
	require.Equal(t, "Loose", c.FileSet.Text(d.Primary))
}

func TestSameNameLastWriterWins(t *testing.T) {
	c := compile(t,
		markerDecl,
		"namespace A;\nimport Gen;\n@Extend enum Color { Red }\n",
		"namespace B;\nimport Gen;\n@Extend enum Color { Blue }\n",
	)
	res, bag, em := run(t, initialized(t, testStore()), c, Options{})
	require.Len(t, res.Units, 2)
	require.Equal(t, 1, em.Len())
	u, ok := em.Get("ColorExtension")
	require.True(t, ok)
	require.Equal(t, "B", u.Namespace)

	require.Equal(t, 1, bag.Len())
	require.Equal(t, diag.GenUnitOverwritten, bag.Items()[0].Code)
	require.Equal(t, diag.SevWarning, bag.Items()[0].Severity)
}

func TestExecuteCancelled(t *testing.T) {
	c := compile(t, markerDecl, "namespace Zoo;\nimport Gen;\n@Extend enum Animal { Cat }\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := initialized(t, testStore()).Execute(ExecContext{Context: ctx, Compilation: c})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRender(t *testing.T) {
	got := Render("{{A}}-{{B}}-{{C}}", Substitutions{"A": "{{B}}", "B": "b"})
	require.Equal(t, "{{B}}-b-{{C}}", got)
	require.Equal(t, []string{"{{B}}", "{{C}}"}, Unresolved(got))
	require.Nil(t, Unresolved("plain {{lower}} text"))
}

func TestWriteUnits(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	units := []GeneratedUnit{{Name: "AExtension", Text: "a"}, {Name: "BExtension", Text: "b"}}
	paths, err := WriteUnits(dir, units, OutputExt("typescript"))
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "AExtension.ts"), filepath.Join(dir, "BExtension.ts")}, paths)
	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	require.Equal(t, "b", string(data))
	require.Equal(t, ".cs", OutputExt("csharp"))
}
