package diag

import (
	"errors"
	"testing"

	"extgen/internal/source"
)

func TestBagLimitSortAndDedup(t *testing.T) {
	b := NewBag(3)
	r := BagReporter{Bag: b}
	ReportWarning(r, LintTypeNameCase, source.Span{File: 0, Start: 10, End: 12}, "late").Emit()
	ReportError(r, SynExpectSemicolon, source.Span{File: 0, Start: 1, End: 1}, "early").Emit()
	ReportWarning(r, LintTypeNameCase, source.Span{File: 0, Start: 10, End: 12}, "late").Emit()
	if b.Add(NewError(SemaError, source.Span{}, "overflow")) {
		t.Fatalf("bag must refuse diagnostics beyond its limit")
	}

	b.Sort()
	b.Dedup()
	items := b.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 diagnostics after dedup, got %d", len(items))
	}
	if items[0].Message != "early" || items[1].Message != "late" {
		t.Fatalf("unexpected order: %q, %q", items[0].Message, items[1].Message)
	}
	if !b.HasErrors() || b.ErrorCount() != 1 {
		t.Fatalf("expected one error")
	}
}

func TestBuilderEmitsOnce(t *testing.T) {
	b := NewBag(0)
	rb := ReportInfo(BagReporter{Bag: b}, GenInfo, source.Span{}, "x").
		WithNote(source.Span{Start: 1, End: 2}, "here").
		WithFix("do it", TextEdit{NewText: "y"})
	rb.Emit()
	rb.Emit()
	if b.Len() != 1 {
		t.Fatalf("expected single emission, got %d", b.Len())
	}
	d := b.Items()[0]
	if len(d.Notes) != 1 || len(d.Fixes) != 1 || d.Fixes[0].Applicability != FixApplicabilityAlwaysSafe {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
}

func TestResolveLazyFix(t *testing.T) {
	calls := 0
	lazy := Fix{
		Title:          "outer",
		EquivalenceKey: "key",
		Thunk: func(ctx FixBuildContext) (Fix, error) {
			calls++
			return Fix{Title: "inner", Edits: []TextEdit{{NewText: "A", OldText: "a"}}}, nil
		},
	}
	fixes, err := MaterializeFixes(FixBuildContext{}, []Fix{lazy})
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if calls != 1 || fixes[0].Title != "outer" || fixes[0].EquivalenceKey != "key" || len(fixes[0].Edits) != 1 || fixes[0].Thunk != nil {
		t.Fatalf("unexpected resolved fix %+v", fixes[0])
	}

	failing := Fix{Title: "bad", Thunk: func(FixBuildContext) (Fix, error) { return Fix{}, ErrEmptyFix }}
	if _, err := MaterializeFixes(FixBuildContext{}, []Fix{failing}); !errors.Is(err, ErrEmptyFix) {
		t.Fatalf("expected ErrEmptyFix, got %v", err)
	}
}
