package ast

import (
	"extgen/internal/source"
)

type Hints struct{ Nodes, Attrs uint }

// Builder allocates nodes for one file. It is used by the parser and is not
// safe for concurrent use.
type Builder struct {
	file  source.FileID
	path  string
	nodes *Arena[Node]
	attrs *Arena[Attr]
}

func NewBuilder(file source.FileID, path string, hints Hints) *Builder {
	if hints.Nodes == 0 {
		hints.Nodes = 1 << 6
	}
	if hints.Attrs == 0 {
		hints.Attrs = 1 << 3
	}
	return &Builder{
		file:  file,
		path:  path,
		nodes: NewArena[Node](hints.Nodes),
		attrs: NewArena[Attr](hints.Attrs),
	}
}

func (b *Builder) NewNode(n Node) NodeID {
	return NodeID(b.nodes.Allocate(n))
}

func (b *Builder) Node(id NodeID) *Node {
	return b.nodes.Get(uint32(id))
}

// NewAttr stores an attribute owned by owner.
func (b *Builder) NewAttr(owner NodeID, a Attr) AttrID {
	a.Owner = owner
	return AttrID(b.attrs.Allocate(a))
}

// PushChild links child under parent, keeping source order.
func (b *Builder) PushChild(parent, child NodeID) {
	p := b.Node(parent)
	p.Children = append(p.Children, child)
	b.Node(child).Parent = parent
}

// Finish freezes the builder into a Tree rooted at root.
func (b *Builder) Finish(root NodeID) *Tree {
	t := &Tree{File: b.file, Path: b.path, Root: root, nodes: b.nodes, attrs: b.attrs}
	b.nodes, b.attrs = nil, nil
	return t
}
