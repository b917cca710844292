package diagfmt

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"extgen/internal/diag"
	"extgen/internal/source"
)

type palette struct {
	sev      map[diag.Severity]*color.Color
	location *color.Color
	gutter   *color.Color
	caret    *color.Color
	note     *color.Color
	fix      *color.Color
	removed  *color.Color
	added    *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgCyan, color.Bold),
		},
		location: color.New(color.Bold),
		gutter:   color.New(color.FgBlue),
		caret:    color.New(color.FgGreen, color.Bold),
		note:     color.New(color.FgCyan),
		fix:      color.New(color.FgMagenta),
		removed:  color.New(color.FgRed),
		added:    color.New(color.FgGreen),
	}
	all := []*color.Color{p.location, p.gutter, p.caret, p.note, p.fix, p.removed, p.added}
	for _, c := range p.sev {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	if c, ok := p.sev[s]; ok {
		return c
	}
	return p.location
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	loc := location(fs, d.Primary, opts.PathMode)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.location.Sprint(loc),
		p.severity(d.Severity).Sprint(d.Severity.String()),
		p.severity(d.Severity).Sprint(d.Code.ID()),
		d.Message,
	)
	if fs != nil && fs.Has(d.Primary.File) {
		writeSnippet(w, fs, d.Primary, opts, p)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(fs, n.Span, opts.PathMode), n.Msg)
		}
	}
	if opts.ShowFixes && len(d.Fixes) > 0 {
		writeFixes(w, d.Fixes, fs, opts, p)
	}
}

func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	path := displayPath(fs, sp.File, mode)
	if fs == nil || !fs.Has(sp.File) {
		return path
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
}

func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts, p palette) {
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	ctx := uint32(max(opts.Context, 0))
	first := start.Line - min(ctx, start.Line-1)
	last := min(start.Line+ctx, uint32(len(f.LineIdx))+1)
	gutterWidth := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := f.GetLine(ln)
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, ln), clip(text, opts.Width))
		if ln != start.Line {
			continue
		}
		col := int(start.Col) - 1
		col = min(col, len(text))
		width := 1
		if end.Line == start.Line && end.Col > start.Col {
			stop := min(int(end.Col)-1, len(text))
			width = max(runewidth.StringWidth(text[col:stop]), 1)
		} else if end.Line > start.Line {
			width = max(runewidth.StringWidth(text[col:]), 1)
		}
		pad := caretPadding(text[:col])
		marker := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", gutterWidth, ""), pad, p.caret.Sprint(marker))
	}
}

// caretPadding keeps tabs so the marker lines up with the printed source.
func caretPadding(prefix string) string {
	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return sb.String()
}

func clip(text string, width uint8) string {
	if width == 0 || runewidth.StringWidth(text) <= int(width) {
		return text
	}
	return runewidth.Truncate(text, int(width), "…")
}

func writeFixes(w io.Writer, fixes []diag.Fix, fs *source.FileSet, opts PrettyOpts, p palette) {
	ordered := append([]diag.Fix(nil), fixes...)
	sortFixes(ordered)
	ctx := diag.FixBuildContext{FileSet: fs}
	for i, f := range ordered {
		resolved, err := f.Resolve(ctx)
		header := fmt.Sprintf("fix #%d: %s", i+1, f.Title)
		fmt.Fprintf(w, "  %s [%s, %s]", p.fix.Sprint(header), f.Kind, f.Applicability)
		if id := resolved.ID; id != "" {
			fmt.Fprintf(w, " id=%s", id)
		} else if f.ID != "" {
			fmt.Fprintf(w, " id=%s", f.ID)
		}
		if f.IsPreferred {
			fmt.Fprint(w, " preferred")
		}
		fmt.Fprintln(w)
		if err != nil {
			fmt.Fprintf(w, "    unavailable: %v\n", err)
			continue
		}
		for _, e := range resolved.Edits {
			fmt.Fprintf(w, "    edit %s apply=%q\n", formatSpan(e.Span, fs), e.NewText)
			if !opts.ShowPreview || fs == nil {
				continue
			}
			pv, err := previewEdit(fs, e)
			if err != nil {
				continue
			}
			fmt.Fprintln(w, "    preview:")
			for _, line := range pv.before {
				fmt.Fprintf(w, "      %s\n", p.removed.Sprint("- "+line))
			}
			for _, line := range pv.after {
				fmt.Fprintf(w, "      %s\n", p.added.Sprint("+ "+line))
			}
		}
	}
}

func sortFixes(fixes []diag.Fix) {
	sort.SliceStable(fixes, func(i, j int) bool {
		fi, fj := fixes[i], fixes[j]
		if fi.IsPreferred != fj.IsPreferred {
			return fi.IsPreferred
		}
		if fi.Applicability != fj.Applicability {
			return fi.Applicability < fj.Applicability
		}
		if fi.Kind != fj.Kind {
			return fi.Kind < fj.Kind
		}
		if fi.Title != fj.Title {
			return fi.Title < fj.Title
		}
		return fi.ID < fj.ID
	})
}
