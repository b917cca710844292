package parser

import (
	"fmt"

	"extgen/internal/ast"
	"extgen/internal/diag"
	"extgen/internal/fix"
	"extgen/internal/source"
	"extgen/internal/token"
)

// advance consumes the next token and updates lastSpan.
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

// getDiagnosticSpan picks the best span for a diagnostic at the current
// position: at EOF it points just after the last consumed token.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return p.afterLast()
	}
	return peek.Span
}

func (p *Parser) afterLast() source.Span {
	return source.Span{File: p.file, Start: p.lastSpan.End, End: p.lastSpan.End}
}

// expect consumes a token of kind k or reports msg.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.getDiagnosticSpan()
	p.report(code, diag.SevError, sp, msg+", got "+describe(p.lx.Peek()))
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

// expectSemicolon consumes ';' or reports an error with an insert fix.
func (p *Parser) expectSemicolon(after string) (token.Token, bool) {
	if p.at(token.Semicolon) {
		return p.advance(), true
	}
	insertPos := p.afterLast()
	if p.opts.Reporter != nil && p.countError() {
		suggestion := fix.InsertText(
			"insert semicolon",
			insertPos,
			";",
			"",
			fix.WithID(fix.MakeFixID(diag.SynExpectSemicolon, insertPos)),
			fix.Preferred(),
		)
		diag.ReportError(p.opts.Reporter, diag.SynExpectSemicolon, insertPos, "expected ';' after "+after).
			WithFixSuggestion(suggestion).
			Emit()
	}
	return token.Token{Kind: token.Invalid, Span: insertPos}, false
}

func (p *Parser) parseIdent(what string) (ast.Ident, bool) {
	if p.at(token.Ident) {
		tok := p.advance()
		return ast.Ident{Text: tok.Text, Span: tok.Span}, true
	}
	p.err(diag.SynExpectIdentifier, fmt.Sprintf("expected %s, got %s", what, describe(p.lx.Peek())))
	return ast.Ident{}, false
}

// parseQualifiedName parses ident {'.' ident}.
func (p *Parser) parseQualifiedName(what string) (ast.QualifiedName, bool) {
	first, ok := p.parseIdent(what)
	if !ok {
		return ast.QualifiedName{}, false
	}
	q := ast.QualifiedName{Parts: []ast.Ident{first}, Span: first.Span}
	for p.at(token.Dot) {
		p.advance()
		part, ok := p.parseIdent("identifier after '.'")
		if !ok {
			return q, false
		}
		q.Parts = append(q.Parts, part)
		q.Span = q.Span.Cover(part.Span)
	}
	return q, true
}

// resyncUntil skips tokens until one of kinds (or EOF) is next.
func (p *Parser) resyncUntil(kinds ...token.Kind) {
	for !p.at(token.EOF) && !p.atOr(kinds...) {
		p.advance()
	}
}

// ensureProgress consumes one token when an item loop did not move.
func (p *Parser) ensureProgress(before source.Span) {
	if next := p.lx.Peek(); next.Kind != token.EOF && next.Span == before {
		p.advance()
	}
}

func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if p.opts.Reporter == nil {
		return false
	}
	if sev == diag.SevError && !p.countError() {
		return false
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil, nil)
	return true
}

// countError bumps the error counter and reports whether the error may still be emitted.
func (p *Parser) countError() bool {
	if p.opts.Enough() {
		return false
	}
	p.opts.CurrentErrors++
	return true
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident:
		return fmt.Sprintf("identifier %q", tok.Text)
	case token.Invalid:
		return "invalid token"
	}
	return fmt.Sprintf("%q", tok.Text)
}
