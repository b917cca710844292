package fix

import (
	"fmt"

	"extgen/internal/diag"
	"extgen/internal/source"
)

// Option adjusts fix metadata at construction.
type Option func(*diag.Fix)

func WithApplicability(app diag.FixApplicability) Option {
	return func(f *diag.Fix) { f.Applicability = app }
}

func WithKind(kind diag.FixKind) Option {
	return func(f *diag.Fix) { f.Kind = kind }
}

func Preferred() Option {
	return func(f *diag.Fix) { f.IsPreferred = true }
}

func WithID(id string) Option {
	return func(f *diag.Fix) { f.ID = id }
}

// WithEquivalenceKey groups fixes that --all may apply as one batch.
func WithEquivalenceKey(key string) Option {
	return func(f *diag.Fix) { f.EquivalenceKey = key }
}

// MakeFixID derives a stable id from the code and the targeted span.
func MakeFixID(code diag.Code, at source.Span) string {
	return fmt.Sprintf("%s-%d-%d-%d", code.ID(), at.File, at.Start, at.End)
}

// quickFix is the default shape: an always-safe quick fix.
func quickFix(title string, opts []Option) diag.Fix {
	f := diag.Fix{
		Title:         title,
		Kind:          diag.FixKindQuickFix,
		Applicability: diag.FixApplicabilityAlwaysSafe,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	return f
}

// InsertText inserts text at an empty span. guard, when set, must match
// the text currently at the span.
func InsertText(title string, at source.Span, text, guard string, opts ...Option) diag.Fix {
	f := quickFix(title, opts)
	f.Edits = []diag.TextEdit{{Span: at, NewText: text, OldText: guard}}
	return f
}

// Lazy defers edit computation to thunk until the fix is resolved.
func Lazy(title string, thunk diag.FixThunk, opts ...Option) diag.Fix {
	f := quickFix(title, opts)
	f.Thunk = thunk
	return f
}
