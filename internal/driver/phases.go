package driver

import (
	"time"

	"extgen/internal/observ"
)

// PhaseEvent is sent once when a phase begins and once when it ends.
type PhaseEvent struct {
	Name string
	Done bool
	// Elapsed and Note are set on the closing event only.
	Elapsed time.Duration
	Note    string
}

// PhaseObserver is called synchronously from the goroutine running the pipeline.
type PhaseObserver func(PhaseEvent)

type openPhase struct {
	name  string
	start time.Time
}

// phases feeds the optional timer and observer from begin/end pairs.
type phases struct {
	timer    *observ.Timer
	observer PhaseObserver
	open     []openPhase
}

func newPhases(enableTimings bool, observer PhaseObserver) *phases {
	p := &phases{observer: observer}
	if enableTimings {
		p.timer = observ.NewTimer()
	}
	return p
}

func (p *phases) begin(name string) int {
	if p.timer != nil {
		p.timer.Begin(name)
	}
	p.open = append(p.open, openPhase{name: name, start: time.Now()})
	if p.observer != nil {
		p.observer(PhaseEvent{Name: name})
	}
	return len(p.open) - 1
}

func (p *phases) end(idx int, note string) {
	if p.timer != nil {
		p.timer.End(idx, note)
	}
	if p.observer != nil {
		ph := p.open[idx]
		p.observer(PhaseEvent{Name: ph.name, Done: true, Elapsed: time.Since(ph.start), Note: note})
	}
}

// report is nil when timings are off.
func (p *phases) report() *observ.Report {
	if p.timer == nil {
		return nil
	}
	r := p.timer.Report()
	return &r
}
