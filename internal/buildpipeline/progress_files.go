package buildpipeline

import (
	"path/filepath"
	"strings"

	"extgen/internal/diag"
	"extgen/internal/driver"
	"extgen/internal/source"
)

// displayNames shortens source paths against root, keeping input order so
// names line up with driver.FileResult positions.
func displayNames(files []string, root string) []string {
	base := strings.TrimSpace(root)
	if base != "" {
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
	}
	out := make([]string, len(files))
	for i, file := range files {
		path := filepath.Clean(file)
		if base != "" {
			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}
			if rel, err := filepath.Rel(base, path); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
				path = rel
			}
		}
		out[i] = filepath.ToSlash(path)
	}
	return out
}

// emitFiles reports the final state of every file. A file whose sources
// carry an error diagnostic ends in StatusError even when the run succeeded.
func emitFiles(sink ProgressSink, files []string, res *driver.GenerateResult, stage Stage, runErr error) {
	if sink == nil {
		return
	}
	failed := failedFiles(res, len(files))
	status := StatusDone
	if runErr != nil {
		status = StatusError
	}
	sink.OnEvent(Event{Stage: stage, Status: status, Err: runErr})
	for i, file := range files {
		ev := Event{File: file, Stage: stage, Status: StatusDone}
		if failed[i] || (runErr != nil && res == nil) {
			ev.Status, ev.Err = StatusError, runErr
		}
		sink.OnEvent(ev)
	}
}

func failedFiles(res *driver.GenerateResult, n int) []bool {
	failed := make([]bool, n)
	if res == nil || res.DiagnoseResult == nil {
		return failed
	}
	pos := make(map[source.FileID]int, len(res.Files))
	for i, f := range res.Files {
		pos[f.FileID] = i
	}
	for _, d := range res.Bag.Items() {
		if d.Severity < diag.SevError {
			continue
		}
		if i, ok := pos[d.Primary.File]; ok && i < n {
			failed[i] = true
		}
	}
	return failed
}
