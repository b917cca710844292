package symbols

import (
	"extgen/internal/ast"
	"extgen/internal/source"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolNamespace
	SymbolAttribute
	SymbolEnum
	SymbolClass
	SymbolStruct
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolNamespace:
		return "namespace"
	case SymbolAttribute:
		return "attribute"
	case SymbolEnum:
		return "enum"
	case SymbolClass:
		return "class"
	case SymbolStruct:
		return "struct"
	default:
		return "invalid"
	}
}

// IsType reports whether k names a type.
func (k SymbolKind) IsType() bool {
	return k >= SymbolAttribute && k <= SymbolStruct
}

// KindMask restricts lookup to specific symbol kinds.
type KindMask uint32

const (
	// KindMaskNone filters out all kinds.
	KindMaskNone KindMask = 0
	// KindMaskAny allows all kinds.
	KindMaskAny KindMask = ^KindMask(0)
	// KindMaskType allows every type kind.
	KindMaskType = KindMask(1<<SymbolAttribute | 1<<SymbolEnum | 1<<SymbolClass | 1<<SymbolStruct)
)

// Mask converts a symbol kind into a KindMask bit.
func (k SymbolKind) Mask() KindMask {
	return KindMask(1 << uint(k))
}

func matchKind(mask KindMask, kind SymbolKind) bool {
	return mask == KindMaskAny || mask&kind.Mask() != 0
}

func kindOfNode(k ast.NodeKind) SymbolKind {
	switch k {
	case ast.KindNamespace:
		return SymbolNamespace
	case ast.KindAttribute:
		return SymbolAttribute
	case ast.KindEnum:
		return SymbolEnum
	case ast.KindClass:
		return SymbolClass
	case ast.KindStruct:
		return SymbolStruct
	default:
		return SymbolInvalid
	}
}

// Decl points at one declaration of a symbol. Namespaces may have many.
type Decl struct {
	Tree *ast.Tree
	Node ast.NodeID
	Span source.Span
}

// Symbol describes a namespace or a type known to the model.
type Symbol struct {
	ID        SymbolID
	Name      string
	Kind      SymbolKind
	Container SymbolID
	// FullName is the dotted path from the global namespace, "" for the global namespace itself.
	FullName string
	// Namespace is the full name of the nearest enclosing namespace.
	Namespace string
	Decls     []Decl

	members map[string]SymbolID
}

// IsGlobal reports whether s is the unnamed root namespace.
func (s Symbol) IsGlobal() bool {
	return s.Kind == SymbolNamespace && s.Container == NoSymbolID
}

// Span returns the location of the first declaration.
func (s Symbol) Span() source.Span {
	if len(s.Decls) == 0 {
		return source.Span{}
	}
	return s.Decls[0].Span
}
