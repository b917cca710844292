package driver

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"extgen/internal/ast"
	"extgen/internal/diag"
	"extgen/internal/source"
	"extgen/internal/trace"
)

// FileResult describes one input path of a run.
type FileResult struct {
	Path   string
	FileID source.FileID
	// Loaded is false when the file could not be read; FileID then names an
	// empty placeholder that carries the IO diagnostic.
	Loaded bool
	Tree   *ast.Tree
}

// loadFiles reads every path into fs sequentially. FileSet is not safe for
// concurrent writers, parsing happens afterwards.
func loadFiles(fs *source.FileSet, paths []string, bag *diag.Bag) []FileResult {
	out := make([]FileResult, len(paths))
	for i, path := range paths {
		id, err := fs.Load(path)
		if err != nil {
			id = fs.AddVirtual(path, nil)
			bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: id}, "failed to load file: "+err.Error()))
			out[i] = FileResult{Path: path, FileID: id}
			continue
		}
		out[i] = FileResult{Path: path, FileID: id, Loaded: true}
	}
	return out
}

func resolveJobs(jobs, n int) int {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, n))
}

// parseFiles parses the loaded files with up to jobs workers. Every worker
// fills its own bag; bags are merged in input order so output does not
// depend on scheduling.
func parseFiles(ctx context.Context, fs *source.FileSet, files []FileResult, bag *diag.Bag, maxDiagnostics, jobs int) error {
	bags := make([]*diag.Bag, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveJobs(jobs, len(files)))

	for i := range files {
		if !files[i].Loaded {
			continue
		}
		file := fs.Get(files[i].FileID)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, span := trace.Start(gctx, trace.ScopeFile, "parse")
			span.WithExtra("path", file.Path)
			local := diag.NewBag(maxDiagnostics)
			tree, err := parseFile(file, local, maxDiagnostics)
			if err != nil {
				span.End("failed")
				return fmt.Errorf("parse %s: %w", file.Path, err)
			}
			files[i].Tree = tree
			bags[i] = local
			span.End(fmt.Sprintf("diags=%d", local.Len()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, b := range bags {
		bag.Merge(b)
	}
	return nil
}

func treesOf(files []FileResult) []*ast.Tree {
	trees := make([]*ast.Tree, 0, len(files))
	for _, f := range files {
		if f.Tree != nil {
			trees = append(trees, f.Tree)
		}
	}
	return trees
}
