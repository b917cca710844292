package buildpipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"extgen/internal/diag"
	"extgen/internal/driver"
	"extgen/internal/gen"
	"extgen/internal/lint"
	"extgen/internal/observ"
	"extgen/internal/project"
	"extgen/internal/query"
	"extgen/internal/templates"
)

// Overrides are command-line values that win over the manifest. Empty
// strings and nil pointers keep the manifest value.
type Overrides struct {
	Marker          string
	MarkerNamespace string
	Target          string
	TemplatesDir    string
	OutDir          string
	Strict          *bool
	Lint            *bool
}

// GenerateRequest configures the generation pipeline.
type GenerateRequest struct {
	// Dir is where the manifest search starts. Defaults to ".".
	Dir string
	// Args are explicit files or directories; empty means the manifest sources.
	Args []string
	// Manifest skips discovery when set.
	Manifest       *project.Manifest
	Overrides      Overrides
	MaxDiagnostics int
	Jobs           int
	Cache          *driver.GenCache
	// DryRun generates without writing.
	DryRun   bool
	Progress ProgressSink
}

// GenerateResult captures the artefacts of one pipeline run.
type GenerateResult struct {
	Manifest *project.Manifest
	Config   project.Config
	Sources  []string
	Generate *driver.GenerateResult
	OutDir   string
	Written  []string
	Timings  Timings
}

// ProjectError is a pipeline failure outside the sources, tagged with a diagnostic code.
type ProjectError struct {
	Code diag.Code
	Err  error
}

func (e *ProjectError) Error() string {
	return fmt.Sprintf("%s: %v", e.Code.ID(), e.Err)
}

func (e *ProjectError) Unwrap() error { return e.Err }

// Generate resolves the project configuration, collects sources, runs the
// generator and writes the units.
func Generate(ctx context.Context, req *GenerateRequest) (GenerateResult, error) {
	var result GenerateResult
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return result, fmt.Errorf("missing generate request")
	}
	dir := req.Dir
	if dir == "" {
		dir = "."
	}

	m := req.Manifest
	if m == nil {
		var err error
		m, _, err = project.Discover(dir)
		if err != nil {
			return result, &ProjectError{Code: diag.ProjManifestInvalid, Err: err}
		}
	}
	result.Manifest = m
	cfg := applyOverrides(m.Config, req.Overrides)
	result.Config = cfg

	sources, err := collect(m.Root, req.Args, cfg)
	if err != nil {
		return result, err
	}
	result.Sources = sources

	kinds, err := lint.ParseKinds(cfg.Lint.Kinds)
	if err != nil {
		return result, &ProjectError{Code: diag.ProjManifestInvalid, Err: err}
	}
	store, err := templateStore(m.Root, cfg.Generator)
	if err != nil {
		return result, err
	}

	files := displayNames(sources, m.Root)
	emitQueued(req.Progress, files)
	phase := &phaseObserver{sink: req.Progress, files: files}

	gres, err := driver.Generate(ctx, sources, driver.GenerateOptions{
		Diagnose: driver.DiagnoseOptions{
			MaxDiagnostics: req.MaxDiagnostics,
			Jobs:           req.Jobs,
			SkipLint:       !cfg.Lint.LintEnabled(),
			Lint:           lint.Config{Kinds: kinds},
			BaseDir:        m.Root,
			EnableTimings:  true,
			PhaseObserver:  phase.OnPhase,
		},
		Marker: query.Marker{
			Name:      cfg.Generator.Marker,
			Namespace: cfg.Generator.MarkerNamespace,
		},
		Templates: store,
		Target:    cfg.Generator.Target,
		Strict:    cfg.Generator.StrictPlaceholders,
		Cache:     req.Cache,
	})
	result.Generate = gres
	if gres != nil {
		recordTimings(&result.Timings, gres.TimingReport)
	}
	if err != nil {
		emitFiles(req.Progress, files, gres, StageGenerate, err)
		return result, err
	}

	result.OutDir = cfg.Generator.OutDir
	if !filepath.IsAbs(result.OutDir) {
		result.OutDir = filepath.Join(m.Root, result.OutDir)
	}
	if !req.DryRun && len(gres.Units) > 0 {
		emitStage(req.Progress, nil, StageWrite, StatusWorking, nil, 0)
		start := time.Now()
		written, err := gen.WriteUnits(result.OutDir, gres.Units, gen.OutputExt(cfg.Generator.Target))
		result.Written = written
		result.Timings.Set(StageWrite, time.Since(start))
		if err != nil {
			err = &ProjectError{Code: diag.IOWriteFileError, Err: err}
			emitStage(req.Progress, nil, StageWrite, StatusError, err, 0)
			return result, err
		}
	}
	emitFiles(req.Progress, files, gres, StageWrite, nil)
	return result, nil
}

func applyOverrides(cfg project.Config, o Overrides) project.Config {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Generator.Marker, o.Marker)
	set(&cfg.Generator.MarkerNamespace, o.MarkerNamespace)
	set(&cfg.Generator.Target, o.Target)
	set(&cfg.Generator.TemplatesDir, o.TemplatesDir)
	set(&cfg.Generator.OutDir, o.OutDir)
	if o.Strict != nil {
		cfg.Generator.StrictPlaceholders = *o.Strict
	}
	if o.Lint != nil {
		enabled := *o.Lint
		cfg.Lint.Enabled = &enabled
	}
	return cfg
}

func collect(root string, args []string, cfg project.Config) ([]string, error) {
	var (
		sources []string
		err     error
	)
	if len(args) > 0 {
		sources, err = project.ExpandArgs(args, cfg.Sources.Include, cfg.Sources.Exclude)
	} else {
		sources, err = project.CollectSources(root, cfg.Sources.Include, cfg.Sources.Exclude)
	}
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, &ProjectError{Code: diag.ProjNoSources, Err: fmt.Errorf("no source files match %v under %s", cfg.Sources.Include, root)}
	}
	return sources, nil
}

// templateStore layers templates_dir over the built-in set for the target.
func templateStore(root string, g project.GeneratorConfig) (templates.Store, error) {
	builtin, err := templates.Embedded(g.Target)
	if err != nil {
		return nil, &ProjectError{Code: diag.ProjManifestInvalid, Err: err}
	}
	if g.TemplatesDir == "" {
		return builtin, nil
	}
	dir := g.TemplatesDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	return templates.Layered{templates.Dir(dir), builtin}, nil
}

type phaseObserver struct {
	sink    ProgressSink
	files   []string
	started map[Stage]bool
}

// OnPhase turns driver phase events into stage progress.
func (p *phaseObserver) OnPhase(ev driver.PhaseEvent) {
	if p == nil || p.sink == nil || ev.Done {
		return
	}
	var stage Stage
	switch ev.Name {
	case "load_file", "tokenize", "parse":
		stage = StageParse
	case "symbols":
		stage = StageSema
	case "lint":
		stage = StageLint
	case "templates", "generate":
		stage = StageGenerate
	default:
		return
	}
	if p.started == nil {
		p.started = make(map[Stage]bool)
	}
	if p.started[stage] {
		return
	}
	p.started[stage] = true
	emitStage(p.sink, p.files, stage, StatusWorking, nil, 0)
}

func recordTimings(t *Timings, report *observ.Report) {
	if report == nil {
		return
	}
	for _, phase := range report.Phases {
		dur := durationFromMillis(phase.DurationMS)
		switch phase.Name {
		case "load_file", "tokenize", "parse":
			t.Add(StageParse, dur)
		case "symbols":
			t.Add(StageSema, dur)
		case "lint":
			t.Add(StageLint, dur)
		case "templates", "generate":
			t.Add(StageGenerate, dur)
		}
	}
}

func durationFromMillis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

func emitQueued(sink ProgressSink, files []string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: StageParse, Status: StatusQueued})
	}
}

func emitStage(sink ProgressSink, files []string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	}
}
