package parser

import (
	"extgen/internal/ast"
	"extgen/internal/diag"
	"extgen/internal/token"
)

// parseEnumRest parses `[: Type] { A, B = 1, }` after the enum name.
// Member order is kept exactly and duplicate names are not rejected.
func (p *Parser) parseEnumRest(kw token.Token, name ast.Ident) (ast.NodeID, bool) {
	node := ast.Node{Kind: ast.KindEnum, Span: kw.Span, Name: name}
	if p.at(token.Colon) {
		p.advance()
		base, ok := p.parseQualifiedName("underlying type")
		if !ok {
			return ast.NoNodeID, false
		}
		node.Path = base
	}
	if _, ok := p.expect(token.LBrace, diag.SynExpectLBrace, "expected '{' to open enum "+name.Text); !ok {
		return ast.NoNodeID, false
	}
	id := p.b.NewNode(node)

	for !p.at(token.RBrace) && !p.at(token.EOF) && !p.opts.Enough() {
		before := p.lx.Peek().Span
		if member, ok := p.parseEnumMember(); ok {
			p.b.PushChild(id, member)
		} else {
			p.resyncUntil(token.Comma, token.RBrace, token.Semicolon)
		}
		switch {
		case p.at(token.Comma):
			p.advance()
		case p.at(token.RBrace), p.at(token.EOF):
		default:
			p.err(diag.SynEnumExpectSeparator, "expected ',' or '}' after enum member, got "+describe(p.lx.Peek()))
			p.resyncUntil(token.Comma, token.RBrace, token.Semicolon)
			if p.atOr(token.Comma, token.Semicolon) {
				p.advance()
			}
		}
		p.ensureProgress(before)
	}

	if closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close enum "+name.Text); ok {
		p.b.Node(id).Span = kw.Span.Cover(closeTok.Span)
	} else {
		p.b.Node(id).Span = kw.Span.Cover(p.lastSpan)
	}
	return id, true
}

func (p *Parser) parseEnumMember() (ast.NodeID, bool) {
	attrs := p.parseAttrs()
	name, ok := p.parseIdent("enum member name")
	if !ok {
		return ast.NoNodeID, false
	}
	node := ast.Node{Kind: ast.KindEnumMember, Span: name.Span, Name: name}
	if p.at(token.Assign) {
		p.advance()
		lit, ok := p.parseLiteral()
		if !ok {
			return ast.NoNodeID, false
		}
		node.Value = lit
		node.Span = node.Span.Cover(lit.Span)
	}
	id := p.b.NewNode(node)
	p.attach(id, attrs)
	return id, true
}
