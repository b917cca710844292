package driver

import (
	"context"
	"fmt"

	"extgen/internal/ast"
	"extgen/internal/diag"
	"extgen/internal/lexer"
	"extgen/internal/lint"
	"extgen/internal/observ"
	"extgen/internal/source"
	"extgen/internal/symbols"
	"extgen/internal/trace"
)

// DiagnoseStage определяет уровень диагностики
type DiagnoseStage string

const (
	DiagnoseStageTokenize DiagnoseStage = "tokenize"
	DiagnoseStageSyntax   DiagnoseStage = "syntax"
	DiagnoseStageSema     DiagnoseStage = "sema"
	DiagnoseStageLint     DiagnoseStage = "lint"
	DiagnoseStageAll      DiagnoseStage = "all"
)

// ParseStage validates a stage name given on the command line.
func ParseStage(s string) (DiagnoseStage, error) {
	switch st := DiagnoseStage(s); st {
	case DiagnoseStageTokenize, DiagnoseStageSyntax, DiagnoseStageSema, DiagnoseStageLint, DiagnoseStageAll:
		return st, nil
	case "":
		return DiagnoseStageAll, nil
	default:
		return "", fmt.Errorf("unknown stage %q (want tokenize|syntax|sema|lint|all)", s)
	}
}

func (s DiagnoseStage) parses() bool { return s != DiagnoseStageTokenize }
func (s DiagnoseStage) binds() bool  { return s == DiagnoseStageSema || s == DiagnoseStageAll }
func (s DiagnoseStage) lints() bool  { return s == DiagnoseStageLint || s == DiagnoseStageAll }

// DiagnoseOptions содержит опции для диагностики
type DiagnoseOptions struct {
	Stage            DiagnoseStage
	MaxDiagnostics   int
	IgnoreWarnings   bool
	WarningsAsErrors bool
	EnableTimings    bool
	// Jobs bounds parse and lint workers; 0 means GOMAXPROCS.
	Jobs int
	// SkipLint turns off the naming analyzer for the all stage.
	SkipLint bool
	Lint     lint.Config
	BaseDir  string

	PhaseObserver PhaseObserver
}

type DiagnoseResult struct {
	FileSet     *source.FileSet
	Files       []FileResult
	Trees       []*ast.Tree
	Compilation *symbols.Compilation
	Bag         *diag.Bag
	// TimingReport is nil unless EnableTimings was set.
	TimingReport *observ.Report
}

// Diagnose runs the pipeline over paths up to opts.Stage. Source problems end
// up in the result bag; only cancellation and internal failures are errors.
func Diagnose(ctx context.Context, paths []string, opts DiagnoseOptions) (*DiagnoseResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Stage == "" {
		opts.Stage = DiagnoseStageAll
	}
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "diagnose")
	defer span.End(string(opts.Stage))

	ph := newPhases(opts.EnableTimings, opts.PhaseObserver)
	res, err := diagnose(ctx, paths, opts, ph)
	if err != nil {
		return nil, err
	}
	finishBag(res.Bag, opts)
	res.TimingReport = ph.report()
	return res, nil
}

func diagnose(ctx context.Context, paths []string, opts DiagnoseOptions, ph *phases) (*DiagnoseResult, error) {
	fs := source.NewFileSet()
	if opts.BaseDir != "" {
		fs.SetBaseDir(opts.BaseDir)
	}
	bag := diag.NewBag(opts.MaxDiagnostics)
	res := &DiagnoseResult{FileSet: fs, Bag: bag}

	idx := ph.begin("load_file")
	res.Files = loadFiles(fs, paths, bag)
	ph.end(idx, fmt.Sprintf("files=%d", len(paths)))

	if !opts.Stage.parses() {
		idx = ph.begin("tokenize")
		for _, f := range res.Files {
			if !f.Loaded {
				continue
			}
			lexer.New(fs.Get(f.FileID), lexer.Options{Reporter: diag.BagReporter{Bag: bag}}).All()
		}
		ph.end(idx, fmt.Sprintf("diags=%d", bag.Len()))
		return res, nil
	}

	idx = ph.begin("parse")
	err := parseFiles(ctx, fs, res.Files, bag, opts.MaxDiagnostics, opts.Jobs)
	ph.end(idx, fmt.Sprintf("diags=%d", bag.Len()))
	if err != nil {
		return nil, err
	}
	res.Trees = treesOf(res.Files)

	if opts.Stage.binds() {
		idx = ph.begin("symbols")
		res.Compilation = symbols.NewCompilation(fs, res.Trees, diag.BagReporter{Bag: bag})
		ph.end(idx, fmt.Sprintf("symbols=%d", len(res.Compilation.Model.Symbols())))
	}

	if opts.Stage.lints() && !(opts.Stage == DiagnoseStageAll && opts.SkipLint) {
		idx = ph.begin("lint")
		diags, err := lint.Run(ctx, res.Trees, opts.Lint, opts.Jobs)
		ph.end(idx, fmt.Sprintf("diags=%d", len(diags)))
		if err != nil {
			return nil, err
		}
		lint.Report(diag.BagReporter{Bag: bag}, diags)
	}
	return res, nil
}

// finishBag applies the warning policy and puts the bag in canonical order.
func finishBag(bag *diag.Bag, opts DiagnoseOptions) {
	if opts.IgnoreWarnings {
		bag.Filter(func(d diag.Diagnostic) bool { return d.Severity >= diag.SevError })
	}
	if opts.WarningsAsErrors {
		items := bag.Items()
		for i := range items {
			if items[i].Severity == diag.SevWarning {
				items[i].Severity = diag.SevError
			}
		}
	}
	bag.Sort()
	bag.Dedup()
}
