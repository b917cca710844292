package token

import (
	"extgen/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is an integer, boolean, or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, StringLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsPunct reports whether the token is punctuation.
func (t Token) IsPunct() bool {
	switch t.Kind {
	case At, Dot, Comma, Semicolon, Colon, Assign, Minus, LBrace, RBrace, LParen, RParen:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwNamespace, KwImport, KwEnum, KwClass, KwStruct, KwAttribute, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// StartsDecl reports whether the token can begin a type declaration.
func (t Token) StartsDecl() bool {
	switch t.Kind {
	case KwEnum, KwClass, KwStruct, KwAttribute, At:
		return true
	default:
		return false
	}
}
