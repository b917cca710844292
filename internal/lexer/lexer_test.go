package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"extgen/internal/diag"
	"extgen/internal/lexer"
	"extgen/internal/source"
	"extgen/internal/token"
)

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string, opts lexer.Options) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.decl", []byte(input))
	bag := diag.NewBag(100)
	opts.Reporter = diag.BagReporter{Bag: bag}
	return lexer.New(fs.Get(fileID), opts), bag
}

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind == token.EOF {
			break
		}
		out = append(out, tok.Kind)
	}
	return out
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func expectTokens(t *testing.T, input string, expected ...token.Kind) {
	t.Helper()
	lx, bag := makeTestLexer(input, lexer.Options{})
	tokens := lx.All()
	got := kinds(tokens)
	if len(got) != len(expected) {
		t.Fatalf("expected %d tokens, got %d\ninput: %q\ntokens: %v\ndiags: %d",
			len(expected), len(got), input, tokensToString(tokens), bag.Len())
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Errorf("token %d: expected %v, got %v (text %q)", i, expected[i], got[i], tokens[i].Text)
		}
	}
}

func TestEnumDeclaration(t *testing.T) {
	expectTokens(t, `@Extend enum Animal : int { Dog = 1, Cat, }`,
		token.At, token.Ident, token.KwEnum, token.Ident, token.Colon, token.Ident,
		token.LBrace, token.Ident, token.Assign, token.IntLit, token.Comma, token.Ident, token.Comma, token.RBrace)
}

func TestNamespaceAndImports(t *testing.T) {
	expectTokens(t, "namespace Zoo.Animals;\nimport Gen = Tools.Generation;",
		token.KwNamespace, token.Ident, token.Dot, token.Ident, token.Semicolon,
		token.KwImport, token.Ident, token.Assign, token.Ident, token.Dot, token.Ident, token.Semicolon)
}

func TestAttributeArguments(t *testing.T) {
	expectTokens(t, `@Obsolete("old", -1, true)`,
		token.At, token.Ident, token.LParen, token.StringLit, token.Comma,
		token.Minus, token.IntLit, token.Comma, token.KwTrue, token.RParen)
}

func TestTriviaIsAttachedAsLeading(t *testing.T) {
	lx, bag := makeTestLexer("// header\n/* a /* nested */ b */\n  class", lexer.Options{})
	tok := lx.Next()
	if tok.Kind != token.KwClass {
		t.Fatalf("expected class, got %v", tok.Kind)
	}
	want := []token.TriviaKind{token.TriviaLineComment, token.TriviaNewline, token.TriviaBlockComment, token.TriviaNewline, token.TriviaSpace}
	if len(tok.Leading) != len(want) {
		t.Fatalf("expected %d trivia, got %d", len(want), len(tok.Leading))
	}
	for i, k := range want {
		if tok.Leading[i].Kind != k {
			t.Errorf("trivia %d: want %v, got %v", i, k, tok.Leading[i].Kind)
		}
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestKeywordsAreCaseSensitive(t *testing.T) {
	expectTokens(t, "Enum enum CLASS class", token.Ident, token.KwEnum, token.Ident, token.KwClass)
}

func TestSpansCoverText(t *testing.T) {
	input := "class  myClass{}"
	lx, _ := makeTestLexer(input, lexer.Options{})
	for _, tok := range lx.All() {
		if got := input[tok.Span.Start:tok.Span.End]; got != tok.Text {
			t.Fatalf("span %v covers %q, text is %q", tok.Span, got, tok.Text)
		}
	}
}

func TestIdentifiersAreNFCNormalised(t *testing.T) {
	decomposed := "Cafe\u0301"
	lx, _ := makeTestLexer(decomposed, lexer.Options{})
	tok := lx.Next()
	if tok.Kind != token.Ident || tok.Text != "Caf\u00e9" {
		t.Fatalf("expected composed identifier, got %v %q", tok.Kind, tok.Text)
	}
	if tok.Span.Len() != uint32(len(decomposed)) {
		t.Fatalf("span must cover raw bytes, got %v", tok.Span)
	}

	lx, _ = makeTestLexer(decomposed, lexer.Options{KeepRawIdents: true})
	if tok := lx.Next(); tok.Text != decomposed {
		t.Fatalf("KeepRawIdents: got %q", tok.Text)
	}
}

func TestUnicodeIdentifiers(t *testing.T) {
	expectTokens(t, "enum Животное { кот, Собака }",
		token.KwEnum, token.Ident, token.LBrace, token.Ident, token.Comma, token.Ident, token.RBrace)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		input string
		code  diag.Code
	}{
		{`"open`, diag.LexUnterminatedString},
		{"\"line\nbreak\"", diag.LexUnterminatedString},
		{"/* never closed", diag.LexUnterminatedBlockComment},
		{"12abc", diag.LexBadNumber},
		{"0x", diag.LexBadNumber},
		{"#", diag.LexUnknownChar},
		{"a / b", diag.LexUnknownChar},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lx, bag := makeTestLexer(tt.input, lexer.Options{})
			lx.All()
			if bag.Len() == 0 {
				t.Fatalf("expected a diagnostic for %q", tt.input)
			}
			if got := bag.Items()[0].Code; got != tt.code {
				t.Fatalf("expected %s, got %s", tt.code.ID(), got.ID())
			}
		})
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("enum A", lexer.Options{})
	if p := lx.Peek(); p.Kind != token.KwEnum {
		t.Fatalf("peek: got %v", p.Kind)
	}
	if n := lx.Next(); n.Kind != token.KwEnum {
		t.Fatalf("next after peek: got %v", n.Kind)
	}
	lx.Next()
	for i := 0; i < 3; i++ {
		if tok := lx.Next(); tok.Kind != token.EOF {
			t.Fatalf("expected sticky EOF, got %v", tok.Kind)
		}
	}
}

func TestNumbers(t *testing.T) {
	for _, in := range []string{"0", "42", "1_000", "0xFF", "0x_ff"} {
		lx, bag := makeTestLexer(in, lexer.Options{})
		tok := lx.Next()
		if tok.Kind != token.IntLit || tok.Text != in || bag.Len() != 0 {
			t.Errorf("%q: got %v %q (%d diags)", in, tok.Kind, tok.Text, bag.Len())
		}
	}
}
