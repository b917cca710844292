package ast

import (
	"strings"

	"extgen/internal/source"
)

// Ident is an identifier occurrence. Text is normalised; Span covers the raw bytes.
type Ident struct {
	Text string
	Span source.Span
}

func (id Ident) IsEmpty() bool { return id.Text == "" }

// QualifiedName is a dotted name such as Zoo.Animals.
type QualifiedName struct {
	Parts []Ident
	Span  source.Span
}

func (q QualifiedName) IsEmpty() bool { return len(q.Parts) == 0 }

func (q QualifiedName) String() string {
	switch len(q.Parts) {
	case 0:
		return ""
	case 1:
		return q.Parts[0].Text
	}
	var sb strings.Builder
	for i, p := range q.Parts {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// Last returns the final segment.
func (q QualifiedName) Last() Ident {
	if len(q.Parts) == 0 {
		return Ident{}
	}
	return q.Parts[len(q.Parts)-1]
}

type LiteralKind uint8

const (
	LitNone LiteralKind = iota
	LitInt
	LitString
	LitBool
)

type Literal struct {
	Kind LiteralKind
	Text string
	Span source.Span
}

// Node is one syntax node. Which fields are meaningful depends on Kind:
//
//	namespace  Path, FileScoped, Children
//	import     Path (target), Name (alias, optional)
//	enum       Name, Path (underlying type, optional), Attrs, Children (members)
//	member     Name, Value (optional), Attrs
//	class      Name, Attrs, Children (fields and nested decls)
//	struct     same as class
//	attribute  Name, Attrs
//	field      Name, Path (type), Value (optional), Attrs
type Node struct {
	Kind       NodeKind
	Span       source.Span
	Name       Ident
	Path       QualifiedName
	FileScoped bool
	Value      Literal
	Attrs      []AttrID
	Children   []NodeID
	Parent     NodeID
}

// Attr is an annotation usage `@Name(args...)`.
type Attr struct {
	Name  QualifiedName
	Args  []Literal
	Span  source.Span
	Owner NodeID
}
