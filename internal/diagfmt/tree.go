package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"extgen/internal/ast"
	"extgen/internal/source"
)

type treeNode struct {
	label    string
	children []*treeNode
}

// ASTNodeOutput is the JSON shape of one tree node.
type ASTNodeOutput struct {
	Kind     string          `json:"kind"`
	Span     source.Span     `json:"span"`
	Name     string          `json:"name,omitempty"`
	Path     string          `json:"path,omitempty"`
	Value    string          `json:"value,omitempty"`
	Attrs    []string        `json:"attrs,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

func buildTreeNode(tree *ast.Tree, id ast.NodeID, fs *source.FileSet) *treeNode {
	n := tree.Node(id)
	if n == nil {
		return &treeNode{label: fmt.Sprintf("Node[%d]: <nil>", id)}
	}
	var label string
	if n.Kind == ast.KindFile {
		header := tree.Path
		if fs != nil && fs.Has(tree.File) {
			header = fs.Get(tree.File).FormatPath("auto", fs.BaseDir())
		}
		label = fmt.Sprintf("%s (span: %s)", header, formatSpan(n.Span, fs))
	} else {
		label = fmt.Sprintf("%s%s (span: %s)", n.Kind, nodeSummary(n), formatSpan(n.Span, fs))
	}
	node := &treeNode{label: label}
	for _, a := range tree.Attrs(id) {
		node.children = append(node.children, &treeNode{label: "@" + formatAttrInline(a)})
	}
	for _, c := range n.Children {
		node.children = append(node.children, buildTreeNode(tree, c, fs))
	}
	return node
}

func nodeSummary(n *ast.Node) string {
	var sb strings.Builder
	switch n.Kind {
	case ast.KindNamespace:
		sb.WriteString(" " + n.Path.String())
		if n.FileScoped {
			sb.WriteString(";")
		}
	case ast.KindImport:
		sb.WriteString(" ")
		if !n.Name.IsEmpty() {
			sb.WriteString(n.Name.Text + " = ")
		}
		sb.WriteString(n.Path.String())
	default:
		if !n.Name.IsEmpty() {
			sb.WriteString(" " + n.Name.Text)
		}
		if !n.Path.IsEmpty() {
			sb.WriteString(": " + n.Path.String())
		}
		if n.Value.Kind != ast.LitNone {
			sb.WriteString(" = " + n.Value.Text)
		}
	}
	return sb.String()
}

func formatAttrInline(a *ast.Attr) string {
	if a == nil {
		return "<nil>"
	}
	if len(a.Args) == 0 {
		return a.Name.String()
	}
	args := make([]string, 0, len(a.Args))
	for _, lit := range a.Args {
		args = append(args, lit.Text)
	}
	return fmt.Sprintf("%s(%s)", a.Name.String(), strings.Join(args, ", "))
}

func writeTree(w io.Writer, node *treeNode, prefix string, last, root bool) {
	switch {
	case root:
		fmt.Fprintln(w, node.label)
	case last:
		fmt.Fprintf(w, "%s└─ %s\n", prefix, node.label)
		prefix += "   "
	default:
		fmt.Fprintf(w, "%s├─ %s\n", prefix, node.label)
		prefix += "│  "
	}
	for i, c := range node.children {
		writeTree(w, c, prefix, i == len(node.children)-1, false)
	}
}

// FormatASTPretty prints tree as an indented outline.
func FormatASTPretty(w io.Writer, tree *ast.Tree, fs *source.FileSet) error {
	if tree == nil {
		return fmt.Errorf("nil tree")
	}
	writeTree(w, buildTreeNode(tree, tree.Root, fs), "", true, true)
	return nil
}

func buildNodeJSON(tree *ast.Tree, id ast.NodeID) ASTNodeOutput {
	n := tree.Node(id)
	out := ASTNodeOutput{
		Kind:  n.Kind.String(),
		Span:  n.Span,
		Name:  n.Name.Text,
		Path:  n.Path.String(),
		Value: n.Value.Text,
	}
	for _, a := range tree.Attrs(id) {
		out.Attrs = append(out.Attrs, formatAttrInline(a))
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, buildNodeJSON(tree, c))
	}
	return out
}

// FormatASTJSON writes tree as nested JSON objects.
func FormatASTJSON(w io.Writer, tree *ast.Tree) error {
	if tree == nil || tree.Node(tree.Root) == nil {
		return fmt.Errorf("tree has no root")
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildNodeJSON(tree, tree.Root))
}
