// Package driver wires the pipeline stages together for the CLI: each
// function runs the stages up to its own, returning a result struct that
// carries every intermediate artifact a caller may want to display.
package driver

import (
	"toyc/internal/observ"
	"toyc/internal/trace"
)

// Options configure a pipeline run.
type Options struct {
	// MaxDiagnostics caps the diagnostic bag; 0 means the default limit.
	MaxDiagnostics int
	// TraceSink receives trace steps from every stage when set.
	TraceSink trace.Sink
	// Timer collects per-phase durations when set.
	Timer *observ.Timer
}

func (o Options) recorder() *trace.Recorder {
	if o.TraceSink == nil {
		return nil
	}
	return trace.NewRecorder(o.TraceSink)
}

// phases shares one recorder and timer across chained stages so step ids
// stay monotonic within a run.
type phases struct {
	rec   *trace.Recorder
	timer *observ.Timer
}

func (p *phases) begin(name string) int {
	if p.timer == nil {
		return -1
	}
	return p.timer.Begin(name)
}

func (p *phases) end(idx int, note string) {
	if p.timer != nil {
		p.timer.End(idx, note)
	}
}
