package parser

import (
	"extgen/internal/ast"
	"extgen/internal/diag"
	"extgen/internal/token"
)

// parseNamespace parses `namespace Q;` or `namespace Q { items }`.
func (p *Parser) parseNamespace(topLevel bool) (ast.NodeID, bool) {
	kw := p.advance()
	name, ok := p.parseQualifiedName("namespace name")
	if !ok {
		return ast.NoNodeID, false
	}

	if p.at(token.Semicolon) {
		semi := p.advance()
		id := p.b.NewNode(ast.Node{
			Kind:       ast.KindNamespace,
			Span:       kw.Span.Cover(semi.Span),
			Path:       name,
			FileScoped: true,
		})
		switch {
		case !topLevel:
			p.report(diag.SynFileScopedNamespace, diag.SevError, kw.Span.Cover(semi.Span),
				"file-scoped namespace cannot be nested in a namespace block")
		case p.fileScopedNS.IsValid():
			p.report(diag.SynFileScopedNamespace, diag.SevError, kw.Span.Cover(semi.Span),
				"only one file-scoped namespace is allowed per file")
		case p.sawTypeDecl:
			p.report(diag.SynFileScopedNamespace, diag.SevError, kw.Span.Cover(semi.Span),
				"file-scoped namespace must precede all type declarations")
		}
		if topLevel && !p.fileScopedNS.IsValid() {
			// parent is the file root; later items are pushed into this namespace
			p.fileScopedNS = id
		}
		return id, true
	}

	if _, ok := p.expect(token.LBrace, diag.SynExpectLBrace, "expected ';' or '{' after namespace name"); !ok {
		return ast.NoNodeID, false
	}
	id := p.b.NewNode(ast.Node{Kind: ast.KindNamespace, Span: kw.Span, Path: name})
	p.parseBlockItems(id)
	if closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close namespace "+name.String()); ok {
		p.b.Node(id).Span = kw.Span.Cover(closeTok.Span)
	} else {
		p.b.Node(id).Span = kw.Span.Cover(p.lastSpan)
	}
	return id, true
}

// parseBlockItems parses items until '}' or EOF.
func (p *Parser) parseBlockItems(parent ast.NodeID) {
	for !p.at(token.RBrace) && !p.at(token.EOF) && !p.opts.Enough() {
		before := p.lx.Peek().Span
		id, ok := p.parseItem(parent, false)
		if ok {
			p.b.PushChild(parent, id)
		} else {
			p.resyncTop()
		}
		p.ensureProgress(before)
	}
}

// parseImport parses `import Q;` or `import Alias = Q;`.
func (p *Parser) parseImport() (ast.NodeID, bool) {
	kw := p.advance()
	target, ok := p.parseQualifiedName("imported namespace")
	if !ok {
		return ast.NoNodeID, false
	}
	var alias ast.Ident
	if p.at(token.Assign) {
		if len(target.Parts) != 1 {
			p.report(diag.SynExpectIdentifier, diag.SevError, target.Span, "import alias must be a simple identifier")
			return ast.NoNodeID, false
		}
		p.advance()
		alias = target.Parts[0]
		if target, ok = p.parseQualifiedName("aliased name"); !ok {
			return ast.NoNodeID, false
		}
	}
	end := target.Span
	if semi, ok := p.expectSemicolon("import"); ok {
		end = semi.Span
	}
	return p.b.NewNode(ast.Node{
		Kind: ast.KindImport,
		Span: kw.Span.Cover(end),
		Name: alias,
		Path: target,
	}), true
}
