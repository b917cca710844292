package buildpipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"extgen/internal/diag"
)

const manifest = `[package]
name = "zoo"

[generator]
out_dir = "out"
`

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnEvent(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// final returns the last status seen for every file.
func (r *recorder) final() map[string]Status {
	out := map[string]Status{}
	for _, ev := range r.events {
		if ev.File != "" {
			out[ev.File] = ev.Status
		}
	}
	return out
}

func makeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	return dir
}

func TestGenerateWritesUnits(t *testing.T) {
	dir := makeProject(t, map[string]string{
		"extgen.toml":  manifest,
		"src/gen.decl": "namespace Gen;\nattribute ExtendAttribute;\n",
		"src/zoo.decl": "namespace Zoo;\nimport Gen;\n@Extend enum Animal { Dog, Cat }\n@Extend enum Plant { Fern }\n",
		"notes/readme": "not a source",
	})
	rec := &recorder{}
	res, err := Generate(context.Background(), &GenerateRequest{Dir: dir, Progress: rec})
	require.NoError(t, err)

	require.Equal(t, "zoo", res.Config.Package.Name)
	require.Len(t, res.Sources, 2)
	require.Len(t, res.Generate.Units, 2)
	require.Equal(t, filepath.Join(dir, "out"), res.OutDir)
	require.Equal(t, []string{
		filepath.Join(dir, "out", "AnimalExtension.cs"),
		filepath.Join(dir, "out", "PlantExtension.cs"),
	}, res.Written)

	data, err := os.ReadFile(res.Written[0])
	require.NoError(t, err)
	require.Contains(t, string(data), "Animal.Dog,")

	require.Equal(t, map[string]Status{
		"src/gen.decl": StatusDone,
		"src/zoo.decl": StatusDone,
	}, rec.final())
	require.True(t, res.Timings.Has(StageParse))
	require.True(t, res.Timings.Has(StageGenerate))
	require.True(t, res.Timings.Has(StageWrite))

	var stages []Stage
	for _, ev := range rec.events {
		if ev.File == "" && ev.Status == StatusWorking {
			stages = append(stages, ev.Stage)
		}
	}
	require.Equal(t, Stages, stages)
}

func TestGenerateOverrides(t *testing.T) {
	dir := makeProject(t, map[string]string{
		"a.decl": "namespace Gen;\nattribute ExtendAttribute;\nclass lower {}\n@Extend enum Kind { A }\n",
	})
	strict := true
	off := false
	res, err := Generate(context.Background(), &GenerateRequest{
		Dir: dir,
		Overrides: Overrides{
			Target: "typescript",
			OutDir: "ts",
			Strict: &strict,
			Lint:   &off,
		},
	})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "ts", "KindExtension.ts")}, res.Written)
	require.Zero(t, res.Generate.Bag.Len())
}

func TestGenerateDryRun(t *testing.T) {
	dir := makeProject(t, map[string]string{
		"a.decl": "namespace Gen;\nattribute ExtendAttribute;\n@Extend enum Kind { A }\n",
	})
	res, err := Generate(context.Background(), &GenerateRequest{Dir: dir, DryRun: true})
	require.NoError(t, err)
	require.Len(t, res.Generate.Units, 1)
	require.Empty(t, res.Written)
	_, err = os.Stat(res.OutDir)
	require.True(t, os.IsNotExist(err))
}

func TestGenerateNoSources(t *testing.T) {
	dir := makeProject(t, map[string]string{"extgen.toml": manifest})
	_, err := Generate(context.Background(), &GenerateRequest{Dir: dir})

	var perr *ProjectError
	require.True(t, errors.As(err, &perr), "err = %v", err)
	require.Equal(t, diag.ProjNoSources, perr.Code)
}

func TestGenerateInvalidManifest(t *testing.T) {
	dir := makeProject(t, map[string]string{"extgen.toml": "[package]\nname = \"x\"\nbogus = 1\n"})
	_, err := Generate(context.Background(), &GenerateRequest{Dir: dir})

	var perr *ProjectError
	require.True(t, errors.As(err, &perr), "err = %v", err)
	require.Equal(t, diag.ProjManifestInvalid, perr.Code)
}

func TestGenerateSourceErrorsMarkFiles(t *testing.T) {
	dir := makeProject(t, map[string]string{
		"good.decl": "namespace Gen;\nattribute ExtendAttribute;\n",
		"bad.decl":  "namespace Zoo;\nenum Broken { A\n",
	})
	rec := &recorder{}
	res, err := Generate(context.Background(), &GenerateRequest{Dir: dir, Progress: rec})
	require.NoError(t, err)
	require.True(t, res.Generate.Bag.HasErrors())
	require.Equal(t, map[string]Status{
		"bad.decl":  StatusError,
		"good.decl": StatusDone,
	}, rec.final())
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{Stage: StageLint, Status: StatusDone})
	require.Equal(t, StageLint, (<-ch).Stage)
	ChannelSink{}.OnEvent(Event{})
}
