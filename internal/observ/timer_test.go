package observ

import (
	"strings"
	"sync"
	"testing"
)

func TestTimerReport(t *testing.T) {
	timer := NewTimer()
	idx := timer.Begin("parse")
	timer.End(idx, "3 files")
	idx = timer.Begin("sema")
	timer.End(idx, "")
	timer.End(42, "ignored")

	rep := timer.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(rep.Phases))
	}
	if rep.Phases[0].Name != "parse" || rep.Phases[0].Note != "3 files" {
		t.Fatalf("unexpected first phase: %+v", rep.Phases[0])
	}
	sum := rep.String()
	if !strings.Contains(sum, "parse") || !strings.Contains(sum, "// 3 files") || !strings.Contains(sum, "total") {
		t.Fatalf("unexpected summary:\n%s", sum)
	}
}

func TestTimerConcurrentAndNil(t *testing.T) {
	timer := NewTimer()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			timer.End(timer.Begin("file"), "")
		}()
	}
	wg.Wait()
	if n := len(timer.Report().Phases); n != 16 {
		t.Fatalf("expected 16 phases, got %d", n)
	}

	var none *Timer
	none.End(none.Begin("x"), "")
	if len(none.Report().Phases) != 0 {
		t.Fatal("nil timer must report nothing")
	}
}
