package driver

import (
	"fortio.org/safecast"

	"extgen/internal/ast"
	"extgen/internal/diag"
	"extgen/internal/lexer"
	"extgen/internal/parser"
	"extgen/internal/source"
	"extgen/internal/token"
)

// single is one file loaded into its own FileSet, used by the tokenize and
// parse commands.
type single struct {
	FileSet *source.FileSet
	File    *source.File
	Bag     *diag.Bag
}

func loadSingle(path string, maxDiagnostics int) (single, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return single{}, err
	}
	return single{FileSet: fs, File: fs.Get(id), Bag: diag.NewBag(maxDiagnostics)}, nil
}

type TokenizeResult struct {
	single
	Tokens []token.Token
}

// Tokenize lexes path to EOF. The EOF token is included.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	s, err := loadSingle(path, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	lx := lexer.New(s.File, lexer.Options{Reporter: diag.BagReporter{Bag: s.Bag}})
	return &TokenizeResult{single: s, Tokens: lx.All()}, nil
}

type ParseResult struct {
	single
	Tree *ast.Tree
}

// Parse loads and parses a single file.
func Parse(path string, maxDiagnostics int) (*ParseResult, error) {
	s, err := loadSingle(path, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	tree, err := parseFile(s.File, s.Bag, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	return &ParseResult{single: s, Tree: tree}, nil
}

// parseFile reports into bag; the parser stops after maxDiagnostics errors.
func parseFile(file *source.File, bag *diag.Bag, maxDiagnostics int) (*ast.Tree, error) {
	maxErrors, err := safecast.Conv[uint](max(maxDiagnostics, 0))
	if err != nil {
		return nil, err
	}
	r := diag.BagReporter{Bag: bag}
	return parser.ParseFile(lexer.New(file, lexer.Options{Reporter: r}), parser.Options{
		Reporter:  r,
		MaxErrors: maxErrors,
	}), nil
}
