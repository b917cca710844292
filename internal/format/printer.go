package format

import (
	"errors"
	"slices"
	"strings"

	"extgen/internal/ast"
	"extgen/internal/diag"
	"extgen/internal/parser"
	"extgen/internal/source"
)

type Options struct {
	IndentWidth int
	UseTabs     bool
}

func (o Options) withDefaults() Options {
	if o.IndentWidth == 0 {
		o.IndentWidth = 4
	}
	return o
}

type printer struct {
	tree *ast.Tree
	w    *Writer
}

// FormatTree prints tree as canonical source: one item per line group,
// one enum member per line, attributes on their own lines.
func FormatTree(tree *ast.Tree, opt Options) ([]byte, error) {
	if tree == nil {
		return nil, errors.New("format: nil tree")
	}
	root := tree.Node(tree.Root)
	if root == nil {
		return nil, errors.New("format: tree has no root")
	}
	p := printer{tree: tree, w: NewWriter(opt)}
	p.printItems(root.Children)
	p.w.Newline()
	return p.w.Bytes(), nil
}

func (p *printer) printItems(items []ast.NodeID) {
	prev := ast.KindInvalid
	for _, id := range items {
		n := p.tree.Node(id)
		if n == nil {
			continue
		}
		// импорты идут подряд, остальное разделяется пустой строкой
		if prev != ast.KindInvalid && (prev != ast.KindImport || n.Kind != ast.KindImport) {
			p.w.BlankLine()
		}
		p.printItem(id, n)
		prev = n.Kind
	}
}

func (p *printer) printItem(id ast.NodeID, n *ast.Node) {
	switch n.Kind {
	case ast.KindNamespace:
		p.printNamespace(n)
	case ast.KindImport:
		p.w.WriteString("import ")
		if !n.Name.IsEmpty() {
			p.w.WriteString(n.Name.Text + " = ")
		}
		p.w.WriteString(n.Path.String() + ";")
		p.w.Newline()
	case ast.KindEnum:
		p.printAttrs(id, true)
		p.printEnum(n)
	case ast.KindClass, ast.KindStruct:
		p.printAttrs(id, true)
		p.printComposite(n)
	case ast.KindAttribute:
		p.printAttrs(id, true)
		p.w.WriteString("attribute " + n.Name.Text + ";")
		p.w.Newline()
	case ast.KindField:
		p.printAttrs(id, false)
		p.w.WriteString(n.Name.Text + ": " + n.Path.String())
		if n.Value.Kind != ast.LitNone {
			p.w.WriteString(" = " + n.Value.Text)
		}
		p.w.WriteString(";")
		p.w.Newline()
	}
}

func (p *printer) printNamespace(n *ast.Node) {
	p.w.WriteString("namespace " + n.Path.String())
	if n.FileScoped {
		p.w.WriteString(";")
		p.w.Newline()
		if len(n.Children) > 0 {
			p.w.BlankLine()
			p.printItems(n.Children)
		}
		return
	}
	p.printBlock(n.Children, p.printItems)
}

func (p *printer) printEnum(n *ast.Node) {
	p.w.WriteString("enum " + n.Name.Text)
	if !n.Path.IsEmpty() {
		p.w.WriteString(" : " + n.Path.String())
	}
	p.printBlock(n.Children, func(members []ast.NodeID) {
		for _, m := range members {
			p.printMember(m)
		}
	})
}

func (p *printer) printMember(id ast.NodeID) {
	n := p.tree.Node(id)
	if n == nil {
		return
	}
	p.printAttrs(id, false)
	p.w.WriteString(n.Name.Text)
	if n.Value.Kind != ast.LitNone {
		p.w.WriteString(" = " + n.Value.Text)
	}
	p.w.WriteString(",")
	p.w.Newline()
}

func (p *printer) printComposite(n *ast.Node) {
	p.w.WriteString(n.Kind.String() + " " + n.Name.Text)
	p.printBlock(n.Children, func(children []ast.NodeID) {
		var prev ast.NodeKind
		for i, c := range children {
			cn := p.tree.Node(c)
			if cn == nil {
				continue
			}
			// вложенные объявления отделяются пустой строкой, поля идут подряд
			if i > 0 && (cn.Kind != ast.KindField || prev != ast.KindField) {
				p.w.BlankLine()
			}
			p.printItem(c, cn)
			prev = cn.Kind
		}
	})
}

func (p *printer) printBlock(children []ast.NodeID, body func([]ast.NodeID)) {
	if len(children) == 0 {
		p.w.WriteString(" {}")
		p.w.Newline()
		return
	}
	p.w.WriteString(" {")
	p.w.Newline()
	p.w.Indent()
	body(children)
	p.w.Dedent()
	p.w.WriteString("}")
	p.w.Newline()
}

func (p *printer) printAttrs(id ast.NodeID, ownLine bool) {
	for _, a := range p.tree.Attrs(id) {
		p.w.WriteString("@" + a.Name.String())
		if len(a.Args) > 0 {
			args := make([]string, 0, len(a.Args))
			for _, lit := range a.Args {
				args = append(args, lit.Text)
			}
			p.w.WriteString("(" + strings.Join(args, ", ") + ")")
		}
		if ownLine {
			p.w.Newline()
		} else {
			p.w.WriteString(" ")
		}
	}
}

// CheckRoundTrip formats the file and re-parses it, ensuring that the
// sequence of node kinds and names is unchanged.
func CheckRoundTrip(sf *source.File, opt Options, maxDiag int) (ok bool, msg string) {
	fs := source.NewFileSetWithBase("")
	origBag := diag.NewBag(maxDiag)
	orig := parser.Parse(fs, fs.AddVirtual(sf.Path, sf.Content), diag.BagReporter{Bag: origBag})
	if origBag.HasErrors() {
		return false, "fmt-check: initial parse has errors"
	}

	formatted, err := FormatTree(orig, opt)
	if err != nil {
		return false, "fmt-check: formatter failed: " + err.Error()
	}

	newBag := diag.NewBag(maxDiag)
	rebuilt := parser.Parse(fs, fs.AddVirtual(sf.Path, formatted), diag.BagReporter{Bag: newBag})
	if newBag.HasErrors() {
		return false, "fmt-check: reparse failed"
	}
	if !slices.Equal(shape(orig), shape(rebuilt)) {
		return false, "fmt-check: tree shape differs after round-trip"
	}
	return true, "fmt-check: OK"
}

func shape(t *ast.Tree) []string {
	ids := t.Descendants()
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		n := t.Node(id)
		out = append(out, n.Kind.String()+":"+n.Name.Text+":"+n.Path.String()+":"+n.Value.Text)
	}
	return out
}
