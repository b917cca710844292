package ui

import (
	"errors"
	"strings"
	"testing"

	"extgen/internal/buildpipeline"
)

func TestApplyEventTracksFiles(t *testing.T) {
	m := NewProgressModel("gen", []string{"a.decl", "b.decl"}, nil).(*progressModel)

	m.applyEvent(buildpipeline.Event{Stage: buildpipeline.StageLint, Status: buildpipeline.StatusWorking})
	if m.stageLabel != "linting" {
		t.Fatalf("stage label = %q", m.stageLabel)
	}
	m.applyEvent(buildpipeline.Event{File: "a.decl", Stage: buildpipeline.StageSema, Status: buildpipeline.StatusWorking})
	m.applyEvent(buildpipeline.Event{File: "b.decl", Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusDone})
	m.applyEvent(buildpipeline.Event{File: "unknown.decl", Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusDone})

	if m.items[0].status != "binding" || m.items[1].status != "done" {
		t.Fatalf("statuses = %q, %q", m.items[0].status, m.items[1].status)
	}
	want := (2.0/6.0 + 1) / 2
	if got := m.percent(); got != want {
		t.Fatalf("percent = %v, want %v", got, want)
	}
}

func TestViewShowsFailure(t *testing.T) {
	m := NewProgressModel("gen", []string{"a.decl"}, nil).(*progressModel)
	m.applyEvent(buildpipeline.Event{Stage: buildpipeline.StageSema, Status: buildpipeline.StatusError, Err: errors.New("boom")})
	m.done = true

	view := m.View()
	if !strings.Contains(view, "failed: gen") || !strings.Contains(view, "boom") {
		t.Fatalf("unexpected view:\n%s", view)
	}
	if !strings.Contains(view, "a.decl") {
		t.Fatalf("file missing from view:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefghij", 6); got != "abc..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("\u4e16\u754c\u4e16\u754c", 5); got != "\u4e16..." {
		t.Fatalf("wide truncate = %q", got)
	}
	if got := truncate("abc", 0); got != "abc" {
		t.Fatalf("zero width = %q", got)
	}
}

func TestQueuedEventAddsFile(t *testing.T) {
	m := NewProgressModel("gen", nil, nil).(*progressModel)
	m.applyEvent(buildpipeline.Event{File: "late.decl", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusQueued})
	m.applyEvent(buildpipeline.Event{File: "late.decl", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusQueued})

	if len(m.items) != 1 || m.items[0].path != "late.decl" || m.items[0].status != "queued" {
		t.Fatalf("items = %+v", m.items)
	}
}
