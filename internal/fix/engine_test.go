package fix

import (
	"testing"

	"extgen/internal/diag"
	"extgen/internal/source"
)

func TestGatherCandidatesSkipsDuplicateFixIDs(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.decl", []byte(""))
	span := source.Span{File: fileID}

	diagnostics := []diag.Diagnostic{{
		Code:    diag.SynExpectSemicolon,
		Message: "missing semicolon",
		Primary: span,
		Fixes: []diag.Fix{
			InsertText("insert semicolon", span, ";", "", WithID("fix-duplicate")),
			InsertText("insert semicolon again", span, ";", "", WithID("fix-duplicate")),
		},
	}}

	candidates, skips := gatherCandidates(diag.FixBuildContext{FileSet: fs}, diagnostics)
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if len(skips) != 1 {
		t.Fatalf("expected 1 skipped fix, got %d", len(skips))
	}
	if skips[0].ID != "fix-duplicate" || skips[0].Reason != "duplicate fix id" {
		t.Fatalf("unexpected skip: %+v", skips[0])
	}
}

func TestSpansConflict(t *testing.T) {
	edit := func(start, end uint32) diag.TextEdit {
		return diag.TextEdit{Span: source.Span{Start: start, End: end}}
	}
	cases := []struct {
		a, b diag.TextEdit
		want bool
	}{
		{edit(1, 1), edit(1, 1), false},
		{edit(2, 2), edit(1, 4), true},
		{edit(4, 4), edit(1, 4), false},
		{edit(1, 3), edit(3, 5), false},
		{edit(1, 4), edit(3, 5), true},
	}
	for i, tc := range cases {
		if got := spansConflict(tc.a, tc.b); got != tc.want {
			t.Fatalf("case %d: got %v, want %v", i, got, tc.want)
		}
	}
}

func TestCumulativeDelta(t *testing.T) {
	applied := []diag.TextEdit{
		{Span: source.Span{Start: 2, End: 2}, NewText: "xx"},
		{Span: source.Span{Start: 5, End: 8}, NewText: "y"},
	}
	if got := cumulativeDelta(applied, 1); got != 0 {
		t.Fatalf("delta before edits: %d", got)
	}
	if got := cumulativeDelta(applied, 4); got != 2 {
		t.Fatalf("delta after insert: %d", got)
	}
	if got := cumulativeDelta(applied, 9); got != 0 {
		t.Fatalf("delta after both: %d", got)
	}
}

func TestSelectOnceFallsBackToUnsafe(t *testing.T) {
	cands := []candidate{
		{fix: diag.Fix{ID: "a", Applicability: diag.FixApplicabilityManualReview}},
		{fix: diag.Fix{ID: "b", RequiresAll: true}},
	}
	selected, skipped := selectCandidates(cands, ApplyOptions{Mode: ApplyModeOnce})
	if len(selected) != 1 || selected[0].fix.ID != "a" {
		t.Fatalf("unexpected selection: %+v", selected)
	}
	if len(skipped) != 1 || skipped[0].ID != "b" {
		t.Fatalf("unexpected skips: %+v", skipped)
	}
}

func TestMakeFixID(t *testing.T) {
	got := MakeFixID(diag.LintTypeNameCase, source.Span{File: 2, Start: 6, End: 9})
	if got != "LNT9001-2-6-9" {
		t.Fatalf("MakeFixID = %q", got)
	}
}
