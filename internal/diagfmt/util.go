package diagfmt

import (
	"fmt"

	"extgen/internal/source"
)

// formatSpan formats a source.Span into a string.
// If fs is non-nil, it resolves the span to start and end positions and returns "startLine:startCol-endLine:endCol".
// If fs is nil, it returns "span(start-end)".
func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil && fs.Has(span.File) {
		start, end := fs.Resolve(span)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}

func displayPath(fs *source.FileSet, file source.FileID, mode PathMode) string {
	if fs == nil || !fs.Has(file) {
		return fmt.Sprintf("<file %d>", file)
	}
	f := fs.Get(file)
	if mode == PathModeRelative {
		return f.FormatPath(mode.mode(), fs.BaseDir())
	}
	return f.FormatPath(mode.mode(), "")
}
