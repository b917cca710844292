package ast

import (
	"extgen/internal/source"
)

// Tree is the immutable syntax tree of one file version. Nodes and
// attributes are stored in arenas and addressed by 1-based ids.
// Node and Attr return pointers into the arenas; callers must treat them as
// read-only. Edits go through WithName, which builds a new Tree.
type Tree struct {
	File  source.FileID
	Path  string
	Root  NodeID
	nodes *Arena[Node]
	attrs *Arena[Attr]
}

func (t *Tree) Node(id NodeID) *Node {
	return t.nodes.Get(uint32(id))
}

func (t *Tree) Attr(id AttrID) *Attr {
	return t.attrs.Get(uint32(id))
}

// NodeCount returns the number of nodes, root included.
func (t *Tree) NodeCount() int {
	return int(t.nodes.Len())
}

func (t *Tree) AttrCount() int {
	return int(t.attrs.Len())
}

// Items returns the top-level items of the file.
func (t *Tree) Items() []NodeID {
	if root := t.Node(t.Root); root != nil {
		return root.Children
	}
	return nil
}

// Attrs returns the attribute records attached to id.
func (t *Tree) Attrs(id NodeID) []*Attr {
	n := t.Node(id)
	if n == nil || len(n.Attrs) == 0 {
		return nil
	}
	out := make([]*Attr, 0, len(n.Attrs))
	for _, a := range n.Attrs {
		out = append(out, t.Attr(a))
	}
	return out
}
