package parser

import (
	"slices"

	"extgen/internal/ast"
	"extgen/internal/diag"
	"extgen/internal/lexer"
	"extgen/internal/source"
	"extgen/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error limit has been reached.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Parser holds the state for parsing one file.
type Parser struct {
	lx       *lexer.Lexer
	b        *ast.Builder
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
	file     source.FileID

	root         ast.NodeID
	fileScopedNS ast.NodeID
	sawTypeDecl  bool
}

// ParseFile parses one file into an immutable tree. Syntax errors are
// reported through opts.Reporter; the returned tree contains every item
// that could be recovered.
func ParseFile(lx *lexer.Lexer, opts Options) *ast.Tree {
	f := lx.File()
	p := Parser{
		lx:       lx,
		b:        ast.NewBuilder(f.ID, f.Path, ast.Hints{Nodes: uint(len(f.Content)/16 + 8)}),
		opts:     opts,
		lastSpan: lx.EmptySpan(),
		file:     f.ID,
	}
	p.root = p.b.NewNode(ast.Node{Kind: ast.KindFile, Span: source.Span{File: f.ID, Start: 0, End: uint32(len(f.Content))}})
	p.parseTopLevel()
	return p.b.Finish(p.root)
}

// Parse lexes and parses the file id of fs, reporting into r.
func Parse(fs *source.FileSet, id source.FileID, r diag.Reporter) *ast.Tree {
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: r})
	return ParseFile(lx, Options{Reporter: r})
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

func (p *Parser) IsError() bool {
	return p.opts.CurrentErrors != 0
}

// parseTopLevel is the top-level loop. After a file-scoped namespace every
// following item becomes a child of that namespace.
func (p *Parser) parseTopLevel() {
	for !p.at(token.EOF) && !p.opts.Enough() {
		parent := p.root
		if p.fileScopedNS.IsValid() {
			parent = p.fileScopedNS
		}
		before := p.lx.Peek().Span
		id, ok := p.parseItem(parent, true)
		if ok {
			p.b.PushChild(parent, id)
		} else {
			p.resyncTop()
		}
		p.ensureProgress(before)
	}
	if p.fileScopedNS.IsValid() {
		ns := p.b.Node(p.fileScopedNS)
		ns.Span = ns.Span.Cover(p.lastSpan)
	}
}

// parseItem dispatches on the first token of an item.
func (p *Parser) parseItem(parent ast.NodeID, topLevel bool) (ast.NodeID, bool) {
	attrs := p.parseAttrs()
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.KwNamespace:
		p.rejectAttrs(attrs, "namespace declarations")
		return p.parseNamespace(topLevel)
	case token.KwImport:
		p.rejectAttrs(attrs, "imports")
		return p.parseImport()
	case token.KwEnum, token.KwClass, token.KwStruct, token.KwAttribute:
		p.sawTypeDecl = true
		return p.parseTypeDecl(attrs)
	default:
		if len(attrs) > 0 {
			p.err(diag.SynUnexpectedToken, "expected declaration after attributes, got "+describe(tok))
		} else {
			p.report(diag.SynUnexpectedTopLevel, diag.SevError, tok.Span, "unexpected "+describe(tok)+", expected namespace, import or declaration")
		}
		return ast.NoNodeID, false
	}
}

// resyncTop skips to the next item starter or past the next ';'.
func (p *Parser) resyncTop() {
	p.resyncUntil(token.Semicolon, token.RBrace, token.KwNamespace, token.KwImport,
		token.KwEnum, token.KwClass, token.KwStruct, token.KwAttribute, token.At)
	if p.at(token.Semicolon) {
		p.advance()
	}
}
