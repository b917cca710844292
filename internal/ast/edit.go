package ast

import (
	"errors"
	"fmt"

	"extgen/internal/source"
)

// ErrNoName is returned by WithName for nodes that carry no identifier.
var ErrNoName = errors.New("node has no name")

// WithName returns a copy of t in which node id carries name and every span
// is rebased onto name.Span.File, the version holding the edited source.
// name.Span must start where the old identifier started; spans after the
// identifier are shifted by the difference in source length. t is not
// modified. Node ids and the order of children are identical in both trees.
func (t *Tree) WithName(id NodeID, name Ident) (*Tree, error) {
	target := t.Node(id)
	if target == nil {
		return nil, fmt.Errorf("node %d: %w", id, ErrNoName)
	}
	if target.Name.IsEmpty() {
		return nil, fmt.Errorf("%s node %d: %w", target.Kind, id, ErrNoName)
	}

	old := target.Name.Span
	if name.Span.Start != old.Start || name.Span.End < name.Span.Start {
		return nil, fmt.Errorf("rename %q: span %s does not replace %s", name.Text, name.Span, old)
	}
	file := name.Span.File
	pivot := old.End
	delta := int64(name.Span.Len()) - int64(old.Len())
	shift := func(sp source.Span) source.Span {
		return sp.Shift(file, pivot, delta)
	}

	nodes := t.nodes.Map(func(n Node) Node {
		n.Span = shift(n.Span)
		n.Name.Span = shift(n.Name.Span)
		n.Path = shiftQName(n.Path, shift)
		n.Value.Span = shift(n.Value.Span)
		return n
	})
	attrs := t.attrs.Map(func(a Attr) Attr {
		a.Span = shift(a.Span)
		a.Name = shiftQName(a.Name, shift)
		if len(a.Args) > 0 {
			args := make([]Literal, len(a.Args))
			for i, l := range a.Args {
				l.Span = shift(l.Span)
				args[i] = l
			}
			a.Args = args
		}
		return a
	})

	renamed := nodes.Get(uint32(id))
	renamed.Name = name

	return &Tree{File: file, Path: t.Path, Root: t.Root, nodes: nodes, attrs: attrs}, nil
}

func shiftQName(q QualifiedName, shift func(source.Span) source.Span) QualifiedName {
	if q.IsEmpty() {
		return q
	}
	parts := make([]Ident, len(q.Parts))
	for i, p := range q.Parts {
		p.Span = shift(p.Span)
		parts[i] = p
	}
	return QualifiedName{Parts: parts, Span: shift(q.Span)}
}
