package ast

// Inspect walks the subtree rooted at id in pre-order (source order).
// Children of a node are skipped when fn returns false.
func (t *Tree) Inspect(id NodeID, fn func(id NodeID, n *Node) bool) {
	n := t.Node(id)
	if n == nil {
		return
	}
	if !fn(id, n) {
		return
	}
	for _, c := range n.Children {
		t.Inspect(c, fn)
	}
}

// Descendants returns every node below the root in pre-order.
func (t *Tree) Descendants() []NodeID {
	out := make([]NodeID, 0, t.NodeCount())
	t.Inspect(t.Root, func(id NodeID, _ *Node) bool {
		if id != t.Root {
			out = append(out, id)
		}
		return true
	})
	return out
}

// DeclsOf returns the nodes of the given kinds in pre-order.
func (t *Tree) DeclsOf(kinds ...NodeKind) []NodeID {
	var out []NodeID
	t.Inspect(t.Root, func(id NodeID, n *Node) bool {
		for _, k := range kinds {
			if n.Kind == k {
				out = append(out, id)
				break
			}
		}
		return true
	})
	return out
}

// Ancestors returns the parents of id, innermost first, root included.
func (t *Tree) Ancestors(id NodeID) []NodeID {
	var out []NodeID
	for n := t.Node(id); n != nil && n.Parent.IsValid(); n = t.Node(n.Parent) {
		out = append(out, n.Parent)
	}
	return out
}

// Members returns the member names of an enum in declaration order.
// Duplicates are kept.
func (t *Tree) Members(enum NodeID) []Ident {
	n := t.Node(enum)
	if n == nil || n.Kind != KindEnum {
		return nil
	}
	out := make([]Ident, 0, len(n.Children))
	for _, c := range n.Children {
		if m := t.Node(c); m != nil && m.Kind == KindEnumMember {
			out = append(out, m.Name)
		}
	}
	return out
}
