package ast

// NodeKind classifies tree nodes.
type NodeKind uint8

const (
	KindInvalid NodeKind = iota
	KindFile
	KindNamespace
	KindImport
	KindEnum
	KindEnumMember
	KindClass
	KindStruct
	KindAttribute
	KindField
)

var kindNames = [...]string{
	KindInvalid:    "invalid",
	KindFile:       "file",
	KindNamespace:  "namespace",
	KindImport:     "import",
	KindEnum:       "enum",
	KindEnumMember: "member",
	KindClass:      "class",
	KindStruct:     "struct",
	KindAttribute:  "attribute",
	KindField:      "field",
}

func (k NodeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// ParseKind maps a declaration keyword to its kind.
func ParseKind(s string) (NodeKind, bool) {
	for k, name := range kindNames {
		if name == s && NodeKind(k) != KindInvalid {
			return NodeKind(k), true
		}
	}
	return KindInvalid, false
}

// IsTypeDecl reports whether k declares a named type.
func (k NodeKind) IsTypeDecl() bool {
	switch k {
	case KindEnum, KindClass, KindStruct, KindAttribute:
		return true
	default:
		return false
	}
}

// CanHaveAttrs reports whether attributes may be attached to k.
func (k NodeKind) CanHaveAttrs() bool {
	return k.IsTypeDecl() || k == KindEnumMember || k == KindField
}
