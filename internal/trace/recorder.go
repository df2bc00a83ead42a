package trace

// Sink receives trace steps. Implementations must not block the pipeline;
// emission is purely observational and never alters stage results.
type Sink interface {
	Emit(Step)
}

// Recorder assigns step ids and forwards steps to a sink. One Recorder is
// created per pipeline run so ids restart at 0 for every invocation. A nil
// *Recorder is valid and records nothing, which keeps the instrumentation
// optional at every call site.
type Recorder struct {
	sink Sink
	next int
}

// NewRecorder creates a recorder writing to sink.
func NewRecorder(sink Sink) *Recorder {
	return &Recorder{sink: sink}
}

// Enabled reports whether steps are being recorded.
func (r *Recorder) Enabled() bool {
	return r != nil && r.sink != nil
}

// Step emits one step without a source position.
func (r *Recorder) Step(phase Phase, description string, state map[string]string) {
	r.emit(phase, nil, description, state)
}

// StepAt emits one step tied to a byte offset in the source.
func (r *Recorder) StepAt(phase Phase, pos int, description string, state map[string]string) {
	r.emit(phase, &pos, description, state)
}

func (r *Recorder) emit(phase Phase, pos *int, description string, state map[string]string) {
	if !r.Enabled() {
		return
	}
	r.sink.Emit(Step{
		Phase:       phase,
		PhaseTag:    phase.String(),
		ID:          r.next,
		Pos:         pos,
		Description: description,
		State:       state,
	})
	r.next++
}
