package fix

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"extgen/internal/diag"
	"extgen/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeID
)

// ApplyOptions configures how fixes are selected and where results go.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	// MaxApplicability is the least safe class ApplyModeAll will take.
	// Zero value means AlwaysSafe only.
	MaxApplicability diag.FixApplicability
	// DryRun keeps files on disk untouched; new versions still land in the FileSet.
	DryRun bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Message       string
	Applicability diag.FixApplicability
	PrimaryPath   string
	EditCount     int
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
	// Prev is the version the edits were computed against, Next the version
	// registered in the FileSet with the result.
	Prev   source.FileID
	Next   source.FileID
	Before []byte
	After  []byte
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply collects fixes from diagnostics, selects a subset according to opts, and applies them.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{
		Applied:     make([]AppliedFix, 0),
		Skipped:     make([]SkippedFix, 0),
		FileChanges: make([]FileChange, 0),
	}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates, buildSkips := gatherCandidates(diag.FixBuildContext{FileSet: fs}, diagnostics)
	result.Skipped = append(result.Skipped, buildSkips...)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}

	sortCandidates(candidates)

	selected, selectionSkips := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, selectionSkips...)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	ws := newWorkspace(fs, opts.DryRun)
	for _, cand := range selected {
		if reason := ws.stage(cand.fix.Edits); reason != "" {
			result.Skipped = append(result.Skipped, SkippedFix{ID: cand.fix.ID, Title: cand.fix.Title, Reason: reason})
			continue
		}
		result.Applied = append(result.Applied, AppliedFix{
			ID:            cand.fix.ID,
			Title:         cand.fix.Title,
			Code:          cand.diag.Code,
			Message:       cand.diag.Message,
			Applicability: cand.fix.Applicability,
			PrimaryPath:   formatFilePath(fs, cand.diag.Primary.File),
			EditCount:     len(cand.fix.Edits),
		})
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}

	changes, err := ws.commit()
	result.FileChanges = append(result.FileChanges, changes...)
	return result, err
}

// gatherCandidates materializes the fixes attached to diagnostics. Fixes that
// fail to build, carry no edits or repeat an earlier id are reported as skips.
// Missing ids are synthesized from the diagnostic position and fix index.
func gatherCandidates(ctx diag.FixBuildContext, diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	cands := make([]candidate, 0)
	skips := make([]SkippedFix, 0)
	seen := make(map[string]struct{})

	order := 0
	for _, d := range diagnostics {
		if len(d.Fixes) == 0 {
			continue
		}

		resolved, err := diag.MaterializeFixes(ctx, d.Fixes)
		if err != nil {
			skips = append(skips, SkippedFix{
				Title:  d.Message,
				Reason: fmt.Sprintf("failed to build fixes: %v", err),
			})
			continue
		}

		for idx, f := range resolved {
			if len(f.Edits) == 0 {
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: "fix has no edits"})
				continue
			}
			if f.ID == "" {
				f.ID = fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
			}
			if _, dup := seen[f.ID]; dup {
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: "duplicate fix id"})
				continue
			}
			seen[f.ID] = struct{}{}
			cands = append(cands, candidate{diag: d, fix: f, order: order})
			order++
		}
	}
	return cands, skips
}

// sortCandidates orders by file, span, insertion order, code, preference, id
// and title.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		ci, cj := candidates[i], candidates[j]
		di, dj := ci.diag, cj.diag
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if ci.order != cj.order {
			return ci.order < cj.order
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		if ci.fix.IsPreferred != cj.fix.IsPreferred {
			return ci.fix.IsPreferred
		}
		if ci.fix.ID != cj.fix.ID {
			return ci.fix.ID < cj.fix.ID
		}
		return ci.fix.Title < cj.fix.Title
	})
}

func selectCandidates(candidates []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		for _, cand := range candidates {
			if cand.fix.ID != opts.TargetID {
				continue
			}
			if cand.fix.RequiresAll { // такой fix имеет смысл только пачкой
				return nil, []SkippedFix{{ID: opts.TargetID, Reason: "fix requires all fixes to be applied"}}
			}
			return []candidate{cand}, nil
		}
		return nil, []SkippedFix{{ID: opts.TargetID, Reason: "fix id not found"}}
	case ApplyModeAll:
		selected := make([]candidate, 0, len(candidates))
		skipped := make([]SkippedFix, 0)
		for _, cand := range candidates {
			if cand.fix.Applicability <= opts.MaxApplicability {
				selected = append(selected, cand)
				continue
			}
			skipped = append(skipped, SkippedFix{
				ID:     cand.fix.ID,
				Title:  cand.fix.Title,
				Reason: fmt.Sprintf("applicability is %s", cand.fix.Applicability),
			})
		}
		return selected, skipped
	case ApplyModeOnce:
		skipped := make([]SkippedFix, 0)
		var fallback *candidate
		for i := range candidates {
			cand := candidates[i]
			if cand.fix.RequiresAll {
				skipped = append(skipped, SkippedFix{ID: cand.fix.ID, Title: cand.fix.Title, Reason: "fix requires all fixes to be applied"})
				continue
			}
			if cand.fix.Applicability == diag.FixApplicabilityAlwaysSafe {
				return []candidate{cand}, skipped
			}
			if fallback == nil {
				fallback = &candidates[i]
			}
		}
		if fallback != nil {
			return []candidate{*fallback}, skipped
		}
		return nil, skipped
	default:
		return nil, nil
	}
}

// workspace accumulates edited buffers per file until commit.
type workspace struct {
	fs     *source.FileSet
	dryRun bool

	buffers map[source.FileID][]byte
	applied map[source.FileID][]diag.TextEdit
	counts  map[source.FileID]int
}

func newWorkspace(fs *source.FileSet, dryRun bool) *workspace {
	return &workspace{
		fs:      fs,
		dryRun:  dryRun,
		buffers: make(map[source.FileID][]byte),
		applied: make(map[source.FileID][]diag.TextEdit),
		counts:  make(map[source.FileID]int),
	}
}

// stage applies all edits of one fix or none of them. A non-empty return is
// the reason the fix was rejected.
func (w *workspace) stage(edits []diag.TextEdit) string {
	buckets := groupEditsByFile(edits)
	stagedBuf := make(map[source.FileID][]byte, len(buckets))
	stagedApplied := make(map[source.FileID][]diag.TextEdit, len(buckets))

	for fileID, fileEdits := range buckets {
		if !w.fs.Has(fileID) {
			return "target file is unknown"
		}
		file := w.fs.Get(fileID)
		if file.Flags&source.FileVirtual != 0 && !w.dryRun {
			return "target file is virtual"
		}
		if conflictsWithExisting(w.applied[fileID], fileEdits) {
			return fmt.Sprintf("conflicts with previously applied edits in %s", file.FormatPath("auto", w.fs.BaseDir()))
		}

		working := w.buffers[fileID]
		if working == nil {
			working = file.Content
		}
		working = append([]byte(nil), working...)

		// с конца, чтобы не пересчитывать смещения внутри одного fix
		sort.SliceStable(fileEdits, func(i, j int) bool {
			if fileEdits[i].Span.Start == fileEdits[j].Span.Start {
				return fileEdits[i].Span.End > fileEdits[j].Span.End
			}
			return fileEdits[i].Span.Start > fileEdits[j].Span.Start
		})

		done := append([]diag.TextEdit(nil), w.applied[fileID]...)
		for _, edit := range fileEdits {
			start := int(edit.Span.Start) + cumulativeDelta(done, int(edit.Span.Start))
			end := int(edit.Span.End) + cumulativeDelta(done, int(edit.Span.End))
			if start < 0 || end < start || end > len(working) {
				return "edit span out of range"
			}
			if edit.OldText != "" && string(working[start:end]) != edit.OldText {
				return "existing text does not match expected content"
			}
			suffix := append([]byte(nil), working[end:]...)
			working = append(append(working[:start], edit.NewText...), suffix...)
			done = insertEditSorted(done, edit)
		}
		stagedBuf[fileID] = working
		stagedApplied[fileID] = done
	}

	for fileID, buf := range stagedBuf {
		w.buffers[fileID] = buf
		w.counts[fileID] += len(buckets[fileID])
		w.applied[fileID] = stagedApplied[fileID]
	}
	return ""
}

// commit registers a new version of every dirty file and, unless dry-running,
// writes it back to disk.
func (w *workspace) commit() ([]FileChange, error) {
	ids := make([]source.FileID, 0, len(w.buffers))
	for id := range w.buffers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	changes := make([]FileChange, 0, len(ids))
	for _, id := range ids {
		file := w.fs.Get(id)
		buf := w.buffers[id]
		if !w.dryRun {
			if err := writeAtomic(file.Path, buf); err != nil {
				return changes, fmt.Errorf("write %s: %w", file.Path, err)
			}
		}
		next := w.fs.Rewrite(id, buf)
		changes = append(changes, FileChange{
			Path:      file.FormatPath("relative", w.fs.BaseDir()),
			EditCount: w.counts[id],
			Prev:      id,
			Next:      next,
			Before:    file.Content,
			After:     buf,
		})
	}
	sort.SliceStable(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes, nil
}

func writeAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

func conflictsWithExisting(existing, edits []diag.TextEdit) bool {
	for _, prev := range existing {
		for _, cand := range edits {
			if spansConflict(prev, cand) {
				return true
			}
		}
	}
	return false
}

// spansConflict treats spans as half-open. Two insertions never conflict; an
// insertion conflicts with a span strictly containing its position.
func spansConflict(a, b diag.TextEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	switch {
	case aStart == aEnd && bStart == bEnd:
		return false
	case aStart == aEnd:
		return bStart <= aStart && aStart < bEnd
	case bStart == bEnd:
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

func groupEditsByFile(edits []diag.TextEdit) map[source.FileID][]diag.TextEdit {
	buckets := make(map[source.FileID][]diag.TextEdit)
	for _, edit := range edits {
		buckets[edit.Span.File] = append(buckets[edit.Span.File], edit)
	}
	return buckets
}

// cumulativeDelta is the net length change of already applied edits that end
// at or before pos.
func cumulativeDelta(edits []diag.TextEdit, pos int) int {
	delta := 0
	for _, e := range edits {
		if int(e.Span.Start) > pos {
			break
		}
		if int(e.Span.End) <= pos {
			delta += len(e.NewText) - int(e.Span.Len())
		}
	}
	return delta
}

func insertEditSorted(edits []diag.TextEdit, edit diag.TextEdit) []diag.TextEdit {
	idx := sort.Search(len(edits), func(i int) bool {
		if edits[i].Span.Start == edit.Span.Start {
			return edits[i].Span.End >= edit.Span.End
		}
		return edits[i].Span.Start > edit.Span.Start
	})
	edits = append(edits, diag.TextEdit{})
	copy(edits[idx+1:], edits[idx:])
	edits[idx] = edit
	return edits
}

func formatFilePath(fs *source.FileSet, fileID source.FileID) string {
	if !fs.Has(fileID) {
		return ""
	}
	return fs.Get(fileID).FormatPath("auto", fs.BaseDir())
}
