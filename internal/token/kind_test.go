package token_test

import (
	"testing"

	"extgen/internal/source"
	"extgen/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}}
}

func TestClassification(t *testing.T) {
	for _, k := range []token.Kind{token.IntLit, token.StringLit, token.KwTrue, token.KwFalse} {
		if !tok(k).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	for _, k := range []token.Kind{token.At, token.LBrace, token.Semicolon, token.Minus} {
		if !tok(k).IsPunct() {
			t.Fatalf("%v should be punctuation", k)
		}
		if tok(k).IsKeyword() {
			t.Fatalf("%v must NOT be keyword", k)
		}
	}
	for _, k := range []token.Kind{token.KwEnum, token.KwClass, token.KwStruct, token.KwAttribute, token.At} {
		if !tok(k).StartsDecl() {
			t.Fatalf("%v should start a declaration", k)
		}
	}
	if tok(token.KwNamespace).StartsDecl() {
		t.Fatalf("namespace is not a type declaration")
	}
}

func TestLookupKeywordIsCaseSensitive(t *testing.T) {
	if k, ok := token.LookupKeyword("enum"); !ok || k != token.KwEnum {
		t.Fatalf("enum: got %v %v", k, ok)
	}
	if _, ok := token.LookupKeyword("Enum"); ok {
		t.Fatalf("Enum must be an identifier")
	}
}

func TestKindString(t *testing.T) {
	if token.KwNamespace.String() != "KwNamespace" || token.RParen.String() != "RParen" {
		t.Fatalf("unexpected names: %s %s", token.KwNamespace, token.RParen)
	}
}
