package lexer

import (
	"fmt"

	"extgen/internal/diag"
	"extgen/internal/token"
)

var punct = [utf8RuneSelf]token.Kind{
	'@': token.At,
	'.': token.Dot,
	',': token.Comma,
	';': token.Semicolon,
	':': token.Colon,
	'=': token.Assign,
	'-': token.Minus,
	'{': token.LBrace,
	'}': token.RBrace,
	'(': token.LParen,
	')': token.RParen,
}

// scanPunct scans a single-byte punctuation token. Anything else becomes an
// Invalid token covering one rune.
func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Peek()
	if b < utf8RuneSelf {
		if k := punct[b]; k != token.Invalid {
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: k, Span: sp, Text: lx.text(sp)}
		}
	}
	r, _ := lx.peekRune()
	lx.bumpRune()
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, fmt.Sprintf("unknown character %q", r))
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
