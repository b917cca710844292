// Package testkit holds structural checks shared by parser, fix and fuzz tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"extgen/internal/ast"
	"extgen/internal/source"
)

// CheckSpanInvariants runs the span invariants on a parsed tree:
//  1. every span belongs to sf and lies within its content
//  2. every non-root node span is non-empty and inside its parent's span
//  3. siblings appear in strictly increasing source order
//  4. name, path and attribute spans lie inside their node's span
func CheckSpanInvariants(tree *ast.Tree, sf *source.File) error {
	if tree == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	if tree.File != sf.ID {
		return fmt.Errorf("tree points to different file id: got=%d want=%d", tree.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	inBounds := func(sp source.Span) error {
		if sp.File != sf.ID {
			return fmt.Errorf("span %v file mismatch: want=%d", sp, sf.ID)
		}
		if sp.Start > sp.End || sp.End > lenContent {
			return fmt.Errorf("span %v outside content of length %d", sp, lenContent)
		}
		return nil
	}

	var walkErr error
	tree.Inspect(tree.Root, func(id ast.NodeID, n *ast.Node) bool {
		if walkErr != nil {
			return false
		}
		if walkErr = inBounds(n.Span); walkErr != nil {
			return false
		}
		if id != tree.Root {
			if n.Span.Empty() {
				walkErr = fmt.Errorf("%s node %d has empty span", n.Kind, id)
				return false
			}
			parent := tree.Node(n.Parent)
			if parent == nil || !parent.Span.Contains(n.Span) {
				walkErr = fmt.Errorf("%s node %d span %v is outside its parent", n.Kind, id, n.Span)
				return false
			}
		}
		if !n.Name.IsEmpty() && !n.Span.Contains(n.Name.Span) {
			walkErr = fmt.Errorf("%s node %d name span %v outside node span %v", n.Kind, id, n.Name.Span, n.Span)
			return false
		}
		if !n.Path.IsEmpty() && !n.Span.Contains(n.Path.Span) {
			walkErr = fmt.Errorf("%s node %d path span %v outside node span %v", n.Kind, id, n.Path.Span, n.Span)
			return false
		}
		for _, a := range tree.Attrs(id) {
			if !n.Span.Contains(a.Span) {
				walkErr = fmt.Errorf("attribute @%s span %v outside node %d", a.Name.String(), a.Span, id)
				return false
			}
		}
		var prev source.Span
		for i, c := range n.Children {
			cs := tree.Node(c).Span
			if i > 0 && cs.Start < prev.End {
				walkErr = fmt.Errorf("children of node %d out of order: %v before %v", id, prev, cs)
				return false
			}
			prev = cs
		}
		return true
	})
	return walkErr
}

// CheckSameShape verifies that b has the same nodes, kinds, children order and
// attributes as a. Only node except may differ in its name.
func CheckSameShape(a, b *ast.Tree, except ast.NodeID) error {
	if a.NodeCount() != b.NodeCount() || a.AttrCount() != b.AttrCount() {
		return fmt.Errorf("size mismatch: %d/%d nodes, %d/%d attrs", a.NodeCount(), b.NodeCount(), a.AttrCount(), b.AttrCount())
	}
	for i := 1; i <= a.NodeCount(); i++ {
		id := ast.NodeID(i)
		na, nb := a.Node(id), b.Node(id)
		if na.Kind != nb.Kind || na.Parent != nb.Parent {
			return fmt.Errorf("node %d differs: %s/%s", id, na.Kind, nb.Kind)
		}
		if len(na.Children) != len(nb.Children) {
			return fmt.Errorf("node %d children count differs", id)
		}
		for j := range na.Children {
			if na.Children[j] != nb.Children[j] {
				return fmt.Errorf("node %d child %d reordered", id, j)
			}
		}
		if id != except && na.Name.Text != nb.Name.Text {
			return fmt.Errorf("node %d renamed unexpectedly: %q -> %q", id, na.Name.Text, nb.Name.Text)
		}
		if na.Path.String() != nb.Path.String() || len(na.Attrs) != len(nb.Attrs) {
			return fmt.Errorf("node %d path or attributes differ", id)
		}
	}
	return nil
}
