package diagfmt

import (
	"encoding/json"
	"io"

	"extgen/internal/diag"
	"extgen/internal/source"
)

// LocationJSON is a span with optional 1-based line/column positions.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// FixEditJSON is one text edit; Before/AfterLines are set with IncludePreviews.
type FixEditJSON struct {
	Location    LocationJSON `json:"location"`
	NewText     string       `json:"new_text"`
	OldText     string       `json:"old_text,omitempty"`
	BeforeLines []string     `json:"before_lines,omitempty"`
	AfterLines  []string     `json:"after_lines,omitempty"`
}

type FixJSON struct {
	ID             string        `json:"id,omitempty"`
	Title          string        `json:"title"`
	Kind           string        `json:"kind"`
	Applicability  string        `json:"applicability"`
	IsPreferred    bool          `json:"is_preferred,omitempty"`
	EquivalenceKey string        `json:"equivalence_key,omitempty"`
	BuildError     string        `json:"build_error,omitempty"`
	Edits          []FixEditJSON `json:"edits,omitempty"`
}

type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Title    string       `json:"title,omitempty"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
	Fixes    []FixJSON    `json:"fixes,omitempty"`
}

// DiagnosticsOutput is the root of `extgen diag --format json`.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
}

func makeLocation(span source.Span, fs *source.FileSet, pathMode PathMode, includePositions bool) LocationJSON {
	loc := LocationJSON{
		File:      displayPath(fs, span.File, pathMode),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if includePositions && fs != nil && fs.Has(span.File) {
		start, end := fs.Resolve(span)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

type jsonBuilder struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (b jsonBuilder) location(span source.Span) LocationJSON {
	return makeLocation(span, b.fs, b.opts.PathMode, b.opts.IncludePositions)
}

func (b jsonBuilder) diagnostic(d *diag.Diagnostic) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Title:    d.Code.Title(),
		Message:  d.Message,
		Location: b.location(d.Primary),
	}
	if b.opts.IncludeNotes {
		for _, note := range d.Notes {
			out.Notes = append(out.Notes, NoteJSON{Message: note.Msg, Location: b.location(note.Span)})
		}
	}
	if b.opts.IncludeFixes && len(d.Fixes) > 0 {
		fixes := append([]diag.Fix(nil), d.Fixes...)
		sortFixes(fixes)
		for _, f := range fixes {
			out.Fixes = append(out.Fixes, b.fix(f))
		}
	}
	return out
}

// fix resolves lazy fixes; a failed resolution keeps the metadata and
// records the error instead of edits.
func (b jsonBuilder) fix(f diag.Fix) FixJSON {
	resolved, err := f.Resolve(diag.FixBuildContext{FileSet: b.fs})
	if err != nil {
		resolved = f
	}
	out := FixJSON{
		ID:             resolved.ID,
		Title:          resolved.Title,
		Kind:           resolved.Kind.String(),
		Applicability:  resolved.Applicability.String(),
		IsPreferred:    resolved.IsPreferred,
		EquivalenceKey: resolved.EquivalenceKey,
	}
	if err != nil {
		out.BuildError = err.Error()
		return out
	}
	for _, edit := range resolved.Edits {
		ej := FixEditJSON{
			Location: b.location(edit.Span),
			NewText:  edit.NewText,
			OldText:  edit.OldText,
		}
		if b.opts.IncludePreviews {
			if pv, err := previewEdit(b.fs, edit); err == nil {
				ej.BeforeLines, ej.AfterLines = pv.before, pv.after
			}
		}
		out.Edits = append(out.Edits, ej)
	}
	return out
}

// BuildDiagnosticsOutput builds the JSON document without encoding it.
// opts.Max trims the output only; the summary counts the whole bag.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) (DiagnosticsOutput, error) {
	items := bag.Items()
	n := len(items)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	b := jsonBuilder{fs: fs, opts: opts}
	out := DiagnosticsOutput{
		Diagnostics: make([]DiagnosticJSON, 0, n),
		Count:       n,
		Errors:      bag.ErrorCount(),
		Warnings:    bag.WarningCount(),
	}
	for i := range n {
		out.Diagnostics = append(out.Diagnostics, b.diagnostic(&items[i]))
	}
	return out, nil
}

// JSON writes the diagnostics as one indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	output, err := BuildDiagnosticsOutput(bag, fs, opts)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
