package parser

import (
	"fmt"
	"strings"
	"testing"

	"extgen/internal/ast"
	"extgen/internal/diag"
	"extgen/internal/lexer"
	"extgen/internal/source"
	"extgen/internal/testkit"
)

func parseSource(t *testing.T, input string) (*ast.Tree, *diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.decl", []byte(input))
	bag := diag.NewBag(100)
	tree := Parse(fs, id, diag.BagReporter{Bag: bag})
	if err := testkit.CheckSpanInvariants(tree, fs.Get(id)); err != nil {
		t.Fatalf("span invariants: %v", err)
	}
	return tree, bag, fs
}

func parseOK(t *testing.T, input string) (*ast.Tree, *source.FileSet) {
	t.Helper()
	tree, bag, fs := parseSource(t, input)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	return tree, fs
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func firstOfKind(t *testing.T, tree *ast.Tree, kind ast.NodeKind) *ast.Node {
	t.Helper()
	ids := tree.DeclsOf(kind)
	if len(ids) == 0 {
		t.Fatalf("no %s node found", kind)
	}
	return tree.Node(ids[0])
}

func memberNames(tree *ast.Tree, enum ast.NodeID) []string {
	var out []string
	for _, m := range tree.Members(enum) {
		out = append(out, m.Text)
	}
	return out
}

func newFile(input string) (*source.FileSet, source.FileID) {
	fs := source.NewFileSet()
	return fs, fs.AddVirtual("test.decl", []byte(input))
}

func newLexer(fs *source.FileSet, id source.FileID, r diag.Reporter) *lexer.Lexer {
	return lexer.New(fs.Get(id), lexer.Options{Reporter: r})
}
