package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// IntLit represents an integer literal.
	IntLit
	// StringLit represents a double-quoted string literal.
	StringLit

	KwNamespace // namespace
	KwImport    // import
	KwEnum      // enum
	KwClass     // class
	KwStruct    // struct
	KwAttribute // attribute
	KwTrue      // true
	KwFalse     // false

	At        // @
	Dot       // .
	Comma     // ,
	Semicolon // ;
	Colon     // :
	Assign    // =
	Minus     // -
	LBrace    // {
	RBrace    // }
	LParen    // (
	RParen    // )
)

var kindNames = [...]string{
	Invalid:     "Invalid",
	EOF:         "EOF",
	Ident:       "Ident",
	IntLit:      "IntLit",
	StringLit:   "StringLit",
	KwNamespace: "KwNamespace",
	KwImport:    "KwImport",
	KwEnum:      "KwEnum",
	KwClass:     "KwClass",
	KwStruct:    "KwStruct",
	KwAttribute: "KwAttribute",
	KwTrue:      "KwTrue",
	KwFalse:     "KwFalse",
	At:          "At",
	Dot:         "Dot",
	Comma:       "Comma",
	Semicolon:   "Semicolon",
	Colon:       "Colon",
	Assign:      "Assign",
	Minus:       "Minus",
	LBrace:      "LBrace",
	RBrace:      "RBrace",
	LParen:      "LParen",
	RParen:      "RParen",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
