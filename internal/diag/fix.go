package diag

import (
	"errors"
	"fmt"

	"extgen/internal/source"
)

// FixKind is a coarse classification of a fix.
type FixKind uint8

const (
	FixKindQuickFix FixKind = iota
	FixKindRefactor
	FixKindRefactorRewrite
	FixKindSourceAction
)

func (k FixKind) String() string {
	switch k {
	case FixKindQuickFix:
		return "quickfix"
	case FixKindRefactor:
		return "refactor"
	case FixKindRefactorRewrite:
		return "refactor.rewrite"
	case FixKindSourceAction:
		return "source"
	}
	return "unknown"
}

// FixApplicability describes how confident the producer is that a fix is correct.
type FixApplicability uint8

const (
	FixApplicabilityAlwaysSafe FixApplicability = iota
	FixApplicabilitySafeWithHeuristics
	FixApplicabilityManualReview
)

func (a FixApplicability) String() string {
	switch a {
	case FixApplicabilityAlwaysSafe:
		return "always-safe"
	case FixApplicabilitySafeWithHeuristics:
		return "safe-with-heuristics"
	case FixApplicabilityManualReview:
		return "manual-review"
	}
	return "unknown"
}

// TextEdit replaces Span with NewText. OldText, when set, must match the
// current content of Span for the edit to apply.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// FixBuildContext is what a lazy fix needs to compute its edits.
type FixBuildContext struct {
	FileSet *source.FileSet
}

// FixThunk builds a fix on demand.
type FixThunk func(ctx FixBuildContext) (Fix, error)

// ErrEmptyFix is returned when a fix resolves to neither edits nor a thunk.
var ErrEmptyFix = errors.New("fix has no edits")

type Fix struct {
	ID             string
	Title          string
	Kind           FixKind
	Applicability  FixApplicability
	IsPreferred    bool
	RequiresAll    bool
	EquivalenceKey string
	Edits          []TextEdit
	Thunk          FixThunk
}

// Resolve expands a lazy fix. Metadata set on the receiver wins over metadata
// produced by the thunk, except for edits.
func (f Fix) Resolve(ctx FixBuildContext) (Fix, error) {
	if f.Thunk == nil {
		return f, nil
	}
	built, err := f.Thunk(ctx)
	if err != nil {
		return Fix{}, fmt.Errorf("fix %q: %w", f.Title, err)
	}
	if f.ID != "" {
		built.ID = f.ID
	}
	if f.Title != "" {
		built.Title = f.Title
	}
	if f.EquivalenceKey != "" {
		built.EquivalenceKey = f.EquivalenceKey
	}
	if f.IsPreferred {
		built.IsPreferred = true
	}
	built.Thunk = nil
	return built, nil
}

// MaterializeFixes resolves every fix in order.
func MaterializeFixes(ctx FixBuildContext, fixes []Fix) ([]Fix, error) {
	out := make([]Fix, 0, len(fixes))
	for _, f := range fixes {
		resolved, err := f.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}
