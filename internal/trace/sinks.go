package trace

import (
	"encoding/json"
	"io"
)

// List collects steps in memory, in emission order.
type List struct {
	steps []Step
}

// NewList creates an empty in-memory sink.
func NewList() *List { return &List{} }

func (l *List) Emit(s Step) {
	l.steps = append(l.steps, s)
}

// Steps returns the collected steps. The slice aliases internal storage.
func (l *List) Steps() []Step { return l.steps }

func (l *List) Len() int { return len(l.steps) }

// Stream writes each step immediately as one NDJSON line. Write errors are
// swallowed: tracing must never fail the compilation.
type Stream struct {
	w io.Writer
}

// NewStream creates a sink writing NDJSON to w.
func NewStream(w io.Writer) *Stream { return &Stream{w: w} }

func (s *Stream) Emit(step Step) {
	data, err := json.Marshal(step)
	if err != nil {
		return
	}
	data = append(data, '\n')
	_, _ = s.w.Write(data) //nolint:errcheck
}

// Multi fans a step out to several sinks.
type Multi struct {
	sinks []Sink
}

// NewMulti creates a fan-out sink.
func NewMulti(sinks ...Sink) *Multi { return &Multi{sinks: sinks} }

func (m *Multi) Emit(s Step) {
	for _, sink := range m.sinks {
		sink.Emit(s)
	}
}
