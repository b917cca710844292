package parser

import (
	"extgen/internal/ast"
	"extgen/internal/diag"
	"extgen/internal/token"
)

// parseTypeDecl parses enum, class, struct and attribute declarations.
// attrs were already consumed by the caller.
func (p *Parser) parseTypeDecl(attrs []ast.Attr) (ast.NodeID, bool) {
	kw := p.advance()
	name, ok := p.parseIdent("type name")
	if !ok {
		return ast.NoNodeID, false
	}

	var id ast.NodeID
	switch kw.Kind {
	case token.KwEnum:
		id, ok = p.parseEnumRest(kw, name)
	case token.KwClass:
		id, ok = p.parseBodyRest(ast.KindClass, kw, name)
	case token.KwStruct:
		id, ok = p.parseBodyRest(ast.KindStruct, kw, name)
	case token.KwAttribute:
		id, ok = p.parseAttributeRest(kw, name)
	}
	if !ok {
		return ast.NoNodeID, false
	}
	p.attach(id, attrs)
	return id, true
}

// parseAttributeRest parses `attribute Name;` or `attribute Name { }`.
func (p *Parser) parseAttributeRest(kw token.Token, name ast.Ident) (ast.NodeID, bool) {
	end := name.Span
	switch {
	case p.at(token.Semicolon):
		end = p.advance().Span
	case p.at(token.LBrace):
		p.advance()
		closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "attribute body must be empty")
		if !ok {
			p.resyncUntil(token.RBrace)
			if !p.at(token.RBrace) {
				return ast.NoNodeID, false
			}
			closeTok = p.advance()
		}
		end = closeTok.Span
	default:
		p.expectSemicolon("attribute declaration")
	}
	return p.b.NewNode(ast.Node{Kind: ast.KindAttribute, Span: kw.Span.Cover(end), Name: name}), true
}

// parseBodyRest parses the `{ fields and nested declarations }` part of a class or struct.
func (p *Parser) parseBodyRest(kind ast.NodeKind, kw token.Token, name ast.Ident) (ast.NodeID, bool) {
	if _, ok := p.expect(token.LBrace, diag.SynExpectLBrace, "expected '{' after "+kind.String()+" name"); !ok {
		return ast.NoNodeID, false
	}
	id := p.b.NewNode(ast.Node{Kind: kind, Span: kw.Span, Name: name})

	for !p.at(token.RBrace) && !p.at(token.EOF) && !p.opts.Enough() {
		before := p.lx.Peek().Span
		attrs := p.parseAttrs()
		switch tok := p.lx.Peek(); {
		case tok.Kind == token.Ident:
			if field, ok := p.parseField(attrs); ok {
				p.b.PushChild(id, field)
			} else {
				p.resyncMember()
			}
		case tok.Kind == token.KwEnum || tok.Kind == token.KwClass || tok.Kind == token.KwStruct || tok.Kind == token.KwAttribute:
			if nested, ok := p.parseTypeDecl(attrs); ok {
				p.b.PushChild(id, nested)
			} else {
				p.resyncMember()
			}
		default:
			p.err(diag.SynUnexpectedToken, "expected field or nested declaration, got "+describe(tok))
			p.resyncMember()
		}
		p.ensureProgress(before)
	}

	if closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close "+kind.String()+" "+name.Text); ok {
		p.b.Node(id).Span = kw.Span.Cover(closeTok.Span)
	} else {
		p.b.Node(id).Span = kw.Span.Cover(p.lastSpan)
	}
	return id, true
}

// parseField parses `name: Type [= literal];`.
func (p *Parser) parseField(attrs []ast.Attr) (ast.NodeID, bool) {
	name, _ := p.parseIdent("field name")
	if _, ok := p.expect(token.Colon, diag.SynExpectType, "expected ':' after field name"); !ok {
		return ast.NoNodeID, false
	}
	typ, ok := p.parseQualifiedName("field type")
	if !ok {
		return ast.NoNodeID, false
	}
	node := ast.Node{Kind: ast.KindField, Name: name, Path: typ, Span: name.Span.Cover(typ.Span)}
	if p.at(token.Assign) {
		p.advance()
		lit, ok := p.parseLiteral()
		if !ok {
			return ast.NoNodeID, false
		}
		node.Value = lit
		node.Span = node.Span.Cover(lit.Span)
	}
	if semi, ok := p.expectSemicolon("field " + name.Text); ok {
		node.Span = node.Span.Cover(semi.Span)
	}
	id := p.b.NewNode(node)
	p.attach(id, attrs)
	return id, true
}

func (p *Parser) resyncMember() {
	p.resyncUntil(token.Semicolon, token.RBrace, token.KwEnum, token.KwClass, token.KwStruct, token.KwAttribute, token.At)
	if p.at(token.Semicolon) {
		p.advance()
	}
}
