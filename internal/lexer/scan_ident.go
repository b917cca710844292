package lexer

import (
	"golang.org/x/text/unicode/norm"

	"extgen/internal/token"
)

// scanIdentOrKeyword scans an identifier and checks it against the keyword table.
// Identifier text is NFC-normalised unless Options.KeepRawIdents is set.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.peekRune()
	if sz == 0 {
		return token.Token{Kind: token.Invalid, Span: lx.cursor.SpanFrom(start)}
	}
	if r < utf8RuneSelf {
		lx.cursor.Bump()
	} else {
		if !isIdentStartRune(r) {
			return lx.scanPunct()
		}
		lx.bumpRune()
	}
	for {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r2, sz2 := lx.peekRune()
		if sz2 == 0 || !isIdentContinueRune(r2) {
			break
		}
		lx.bumpRune()
	}

	sp := lx.cursor.SpanFrom(start)
	raw := lx.file.Content[sp.Start:sp.End]

	if k, ok := token.LookupKeyword(string(raw)); ok {
		return token.Token{Kind: k, Span: sp, Text: string(raw)}
	}

	text := string(raw)
	if !lx.opts.KeepRawIdents && !norm.NFC.IsNormal(raw) {
		text = norm.NFC.String(text)
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}
