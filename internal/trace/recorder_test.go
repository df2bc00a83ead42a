package trace_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"toyc/internal/trace"
)

func TestRecorder_IDsStartAtZero(t *testing.T) {
	list := trace.NewList()
	rec := trace.NewRecorder(list)

	rec.Step(trace.PhaseLexing, "first", nil)
	rec.StepAt(trace.PhaseParsing, 7, "second", map[string]string{"k": "v"})
	rec.Step(trace.PhaseExecution, "third", nil)

	steps := list.Steps()
	if len(steps) != 3 {
		t.Fatalf("steps = %d, want 3", len(steps))
	}
	for i, s := range steps {
		if s.ID != i {
			t.Errorf("step %d has id %d", i, s.ID)
		}
	}
	if steps[0].Pos != nil {
		t.Errorf("Step() set a position")
	}
	if steps[1].Pos == nil || *steps[1].Pos != 7 {
		t.Errorf("StepAt position = %v, want 7", steps[1].Pos)
	}
	if steps[1].PhaseTag != "parsing" {
		t.Errorf("PhaseTag = %q, want parsing", steps[1].PhaseTag)
	}
}

func TestRecorder_NilIsSafe(t *testing.T) {
	var rec *trace.Recorder
	if rec.Enabled() {
		t.Errorf("nil recorder reports enabled")
	}
	// must not panic
	rec.Step(trace.PhaseLexing, "ignored", nil)
	rec.StepAt(trace.PhaseLexing, 0, "ignored", nil)
}

func TestRecorder_FreshRecorderRestartsIDs(t *testing.T) {
	list := trace.NewList()
	trace.NewRecorder(list).Step(trace.PhaseLexing, "a", nil)
	trace.NewRecorder(list).Step(trace.PhaseLexing, "b", nil)
	steps := list.Steps()
	if steps[0].ID != 0 || steps[1].ID != 0 {
		t.Errorf("ids = %d, %d; each run restarts at 0", steps[0].ID, steps[1].ID)
	}
}

func TestMulti_FansOut(t *testing.T) {
	a, b := trace.NewList(), trace.NewList()
	rec := trace.NewRecorder(trace.NewMulti(a, b))
	rec.Step(trace.PhaseSemantic, "x", nil)
	if a.Len() != 1 || b.Len() != 1 {
		t.Errorf("lens = %d, %d; want 1, 1", a.Len(), b.Len())
	}
}

func TestStream_EmitsNDJSON(t *testing.T) {
	var buf bytes.Buffer
	rec := trace.NewRecorder(trace.NewStream(&buf))
	rec.StepAt(trace.PhaseExecution, 3, "write", map[string]string{"result": "5"})

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if decoded["phase"] != "direct-execution" {
		t.Errorf("phase = %v, want direct-execution", decoded["phase"])
	}
	if decoded["step_id"] != float64(0) {
		t.Errorf("step_id = %v, want 0", decoded["step_id"])
	}
	if decoded["position"] != float64(3) {
		t.Errorf("position = %v, want 3", decoded["position"])
	}
}
