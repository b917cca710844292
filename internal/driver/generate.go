package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"extgen/internal/ast"
	"extgen/internal/diag"
	"extgen/internal/gen"
	"extgen/internal/project"
	"extgen/internal/query"
	"extgen/internal/source"
	"extgen/internal/templates"
	"extgen/internal/trace"
)

type GenerateOptions struct {
	Diagnose DiagnoseOptions
	Marker   query.Marker
	// Templates is consulted for both generator templates. Nil means the
	// built-in set for Target.
	Templates templates.Store
	Target    string
	Strict    bool
	// Cache is optional; a nil cache always regenerates.
	Cache *GenCache
}

type GenerateResult struct {
	*DiagnoseResult
	// Units are ordered by unit name.
	Units   []gen.GeneratedUnit
	Matched int
	Failed  int
	// Skipped counts eligible enums in files with errors; they get no unit.
	Skipped  int
	CacheHit bool
}

// Generate diagnoses paths with the sema stage and runs the enum extension
// generator over the compilation. When a template is missing the returned
// result carries GEN5003 and the error wraps templates.ErrTemplateNotFound.
// A file with lex, syntax or semantic errors contributes no units; enums in
// the other files are still generated.
func Generate(ctx context.Context, paths []string, opts GenerateOptions) (*GenerateResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "generate")
	defer span.End("")

	dopts := opts.Diagnose
	dopts.Stage = DiagnoseStageAll
	ph := newPhases(dopts.EnableTimings, dopts.PhaseObserver)

	dres, err := diagnose(ctx, paths, dopts, ph)
	if err != nil {
		return nil, err
	}
	res := &GenerateResult{DiagnoseResult: dres}
	finish := func(err error) (*GenerateResult, error) {
		finishBag(res.Bag, dopts)
		res.TimingReport = ph.report()
		return res, err
	}
	store := opts.Templates
	if store == nil {
		if store, err = templates.Embedded(opts.Target); err != nil {
			return nil, err
		}
	}
	cached := templates.NewCached(store)

	idx := ph.begin("templates")
	g := gen.NewEnumExtension()
	err = g.Initialize(gen.InitContext{Store: cached, Tracer: trace.FromContext(ctx)})
	ph.end(idx, "")
	if err != nil {
		var nf *templates.NotFoundError
		if errors.As(err, &nf) {
			id := dres.FileSet.AddVirtual(nf.Name+templates.Ext, nil)
			res.Bag.Add(diag.NewError(diag.GenTemplateNotFound, source.Span{File: id}, err.Error()))
		}
		return finish(err)
	}

	x := newSpanIndex(dres.Files)
	key, err := generationKey(dres, cached, opts)
	if err != nil {
		return nil, err
	}

	idx = ph.begin("generate")
	if opts.Cache != nil {
		var payload GenPayload
		ok, err := opts.Cache.Get(key, &payload)
		if err == nil && ok {
			if units, diags, ok := unpackRun(x, &payload); ok {
				res.Units, res.CacheHit = units, true
				res.Matched, res.Failed, res.Skipped = payload.Matched, payload.Failed, payload.Skipped
				for _, d := range diags {
					res.Bag.Add(d)
				}
				ph.end(idx, "cache hit")
				return finish(nil)
			}
		}
	}

	genBag := diag.NewBag(dopts.MaxDiagnostics)
	emitter := gen.NewEmitter()
	out, err := g.Execute(gen.ExecContext{
		Context:     ctx,
		Compilation: dres.Compilation,
		Emitter:     emitter,
		Reporter:    diag.BagReporter{Bag: genBag},
		Tracer:      trace.FromContext(ctx),
		Options: gen.Options{
			Marker:             opts.Marker,
			StrictPlaceholders: opts.Strict,
			Jobs:               dopts.Jobs,
			SkipTree:           brokenTrees(dres),
		},
	})
	ph.end(idx, fmt.Sprintf("units=%d failed=%d", emitter.Len(), out.Failed))
	if err != nil {
		return nil, err
	}
	res.Units, res.Matched, res.Failed, res.Skipped = emitter.Units(), out.Matched, out.Failed, out.Skipped
	res.Bag.Merge(genBag)

	if opts.Cache != nil {
		// ошибка кэша не должна ломать генерацию
		_ = opts.Cache.Put(key, packRun(x, res.Units, genBag.Items(), out))
	}
	return finish(nil)
}

// generationKey digests everything a generator run depends on: the input
// files in order, both templates and the options that change output.
func generationKey(dres *DiagnoseResult, store *templates.Cached, opts GenerateOptions) (project.Digest, error) {
	marker := opts.Marker
	if marker.Name == "" {
		marker.Name = gen.DefaultMarker
	}
	settings := strings.Join([]string{
		strconv.Itoa(int(genCacheSchemaVersion)),
		marker.Name,
		marker.Namespace,
		opts.Target,
		strconv.FormatBool(opts.Strict),
	}, "\x00")

	parts := make([]project.Digest, 0, len(dres.Files)+2)
	for _, f := range dres.Files {
		file := dres.FileSet.Get(f.FileID)
		parts = append(parts, project.Combine(project.Sum([]byte(file.Path)), file.Hash))
	}
	for _, name := range []string{templates.EnumExtensionTemplate, templates.EnumValueInit} {
		tpl, err := store.Get(name)
		if err != nil {
			return project.Digest{}, err
		}
		parts = append(parts, project.Sum([]byte(tpl.Text)))
	}
	return project.Combine(project.Sum([]byte(settings)), parts...), nil
}

// brokenTrees reports the trees whose own file carries an error diagnostic.
// Errors elsewhere in the compilation do not block a tree.
func brokenTrees(dres *DiagnoseResult) func(*ast.Tree) bool {
	bad := make(map[source.FileID]bool)
	for _, d := range dres.Bag.Items() {
		if d.Severity >= diag.SevError {
			bad[d.Primary.File] = true
		}
	}
	return func(t *ast.Tree) bool { return bad[t.File] }
}
