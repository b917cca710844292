package parser

import (
	"extgen/internal/ast"
	"extgen/internal/diag"
	"extgen/internal/token"
)

// parseLiteral parses an integer (optionally negated), string or boolean literal.
func (p *Parser) parseLiteral() (ast.Literal, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		return ast.Literal{Kind: ast.LitInt, Text: tok.Text, Span: tok.Span}, true
	case token.Minus:
		minus := p.advance()
		num, ok := p.expect(token.IntLit, diag.SynExpectLiteral, "expected integer after '-'")
		if !ok {
			return ast.Literal{}, false
		}
		return ast.Literal{Kind: ast.LitInt, Text: "-" + num.Text, Span: minus.Span.Cover(num.Span)}, true
	case token.StringLit:
		p.advance()
		return ast.Literal{Kind: ast.LitString, Text: tok.Text, Span: tok.Span}, true
	case token.KwTrue, token.KwFalse:
		p.advance()
		return ast.Literal{Kind: ast.LitBool, Text: tok.Text, Span: tok.Span}, true
	}
	p.err(diag.SynExpectLiteral, "expected literal, got "+describe(tok))
	return ast.Literal{}, false
}
