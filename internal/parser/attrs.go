package parser

import (
	"extgen/internal/ast"
	"extgen/internal/diag"
	"extgen/internal/token"
)

// parseAttrs parses a run of `@Name` / `@Name(args)` annotations.
func (p *Parser) parseAttrs() []ast.Attr {
	var attrs []ast.Attr
	for p.at(token.At) {
		at := p.advance()
		name, ok := p.parseQualifiedName("attribute name")
		if !ok {
			p.resyncUntil(token.At, token.KwEnum, token.KwClass, token.KwStruct, token.KwAttribute, token.Ident, token.RBrace)
			continue
		}
		attr := ast.Attr{Name: name, Span: at.Span.Cover(name.Span)}
		if p.at(token.LParen) {
			p.advance()
			for !p.at(token.RParen) && !p.at(token.EOF) {
				lit, ok := p.parseLiteral()
				if !ok {
					p.resyncUntil(token.Comma, token.RParen, token.RBrace)
				} else {
					attr.Args = append(attr.Args, lit)
				}
				if !p.at(token.Comma) {
					break
				}
				p.advance()
			}
			if closeTok, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close attribute arguments"); ok {
				attr.Span = attr.Span.Cover(closeTok.Span)
			}
		}
		attrs = append(attrs, attr)
	}
	return attrs
}

func (p *Parser) rejectAttrs(attrs []ast.Attr, where string) {
	for _, a := range attrs {
		p.report(diag.SynAttributeNotAllowed, diag.SevError, a.Span, "attributes are not allowed on "+where)
	}
}

// attach stores attrs on node id and widens its span to include them.
func (p *Parser) attach(id ast.NodeID, attrs []ast.Attr) {
	if len(attrs) == 0 {
		return
	}
	ids := make([]ast.AttrID, 0, len(attrs))
	for _, a := range attrs {
		ids = append(ids, p.b.NewAttr(id, a))
	}
	n := p.b.Node(id)
	n.Attrs = ids
	n.Span = attrs[0].Span.Cover(n.Span)
}
