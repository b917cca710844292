package buildpipeline

import "time"

// Stage names a pipeline phase in progress events and timing reports.
type Stage string

const (
	StageParse    Stage = "parse"    // load + parse
	StageSema     Stage = "sema"     // symbol binding
	StageLint     Stage = "lint"     // naming analyzer
	StageGenerate Stage = "generate" // templates + rendering
	StageWrite    Stage = "write"
)

// Stages lists the stages in pipeline order.
var Stages = []Stage{StageParse, StageSema, StageLint, StageGenerate, StageWrite}

// Status is the state of one file (or the whole run) within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event is a progress report. An empty File means the run as a whole.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

type ProgressSink interface {
	OnEvent(Event)
}

// Timings accumulates wall time per stage. The zero value is ready to use.
type Timings map[Stage]time.Duration

// Set replaces the duration recorded for stage.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	if *t == nil {
		*t = make(Timings, len(Stages))
	}
	(*t)[stage] = dur
}

// Add accumulates dur onto stage.
func (t *Timings) Add(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	if *t == nil {
		*t = make(Timings, len(Stages))
	}
	(*t)[stage] += dur
}

func (t Timings) Has(stage Stage) bool {
	_, ok := t[stage]
	return ok
}

func (t Timings) Duration(stage Stage) time.Duration { return t[stage] }

// Sum totals the given stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	var total time.Duration
	for _, s := range stages {
		total += t[s]
	}
	return total
}
