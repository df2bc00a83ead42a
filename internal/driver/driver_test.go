package driver_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"toyc/internal/codegen"
	"toyc/internal/diag"
	"toyc/internal/driver"
	"toyc/internal/interp"
	"toyc/internal/symbols"
	"toyc/internal/tac"
	"toyc/internal/trace"
)

func TestTokenizeSource_NormalizedCode(t *testing.T) {
	res, err := driver.TokenizeSource("t.tc", "counter := counter + incr; write counter;", driver.Options{})
	if err != nil {
		t.Fatalf("TokenizeSource failed: %v", err)
	}
	want := "id1 := id1 + id2 ; write id1 ;"
	if res.NormalizedCode != want {
		t.Errorf("NormalizedCode = %q, want %q", res.NormalizedCode, want)
	}
	if res.Norms.Len() != 2 {
		t.Errorf("Norms.Len() = %d, want 2", res.Norms.Len())
	}
}

func TestTokenizeSource_MapOrderFollowsTokenStream(t *testing.T) {
	// first appearance in the token stream decides idN, not declaration order
	res, err := driver.TokenizeSource("t.tc", "if (limit > 0) then count := limit; end", driver.Options{})
	if err != nil {
		t.Fatalf("TokenizeSource failed: %v", err)
	}
	want := []symbols.NormEntry{
		{Original: "limit", Norm: "id1"},
		{Original: "count", Norm: "id2"},
	}
	if diff := cmp.Diff(want, res.Norms.Mapping()); diff != "" {
		t.Errorf("Mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSource_SyntaxErrorShortCircuits(t *testing.T) {
	pr, err := driver.ParseSource("t.tc", "x := ;", driver.Options{})
	if err != nil {
		t.Fatalf("ParseSource failed: %v", err)
	}
	if pr.SyntaxError == nil {
		t.Fatalf("SyntaxError is nil for a broken program")
	}
	if !pr.Bag.HasErrors() {
		t.Errorf("bag has no errors")
	}

	// later stages skip instead of failing
	ar, err := driver.AnalyzeSource("t.tc", "x := ;", nil, driver.Options{})
	if err != nil {
		t.Fatalf("AnalyzeSource failed: %v", err)
	}
	if ar.Analyzed != nil {
		t.Errorf("Analyzed set despite syntax error")
	}
	tr, err := driver.GenerateTACSource("t.tc", "x := ;", nil, driver.Options{})
	if err != nil {
		t.Fatalf("GenerateTACSource failed: %v", err)
	}
	if tr.Code != nil {
		t.Errorf("TAC generated despite syntax error")
	}
}

func TestAnalyzeSource_UndefinedReported(t *testing.T) {
	ar, err := driver.AnalyzeSource("t.tc", "x := y + z;", nil, driver.Options{})
	if err != nil {
		t.Fatalf("AnalyzeSource failed: %v", err)
	}
	if diff := cmp.Diff([]string{"y", "z"}, ar.Undefined); diff != "" {
		t.Errorf("Undefined mismatch (-want +got):\n%s", diff)
	}
	if ar.Analyzed != nil {
		t.Errorf("Analyzed set despite undefined variables")
	}

	// declarations resolve the retry
	ar, err = driver.AnalyzeSource("t.tc", "x := y + z;",
		map[string]symbols.Type{"y": symbols.TypeInt, "z": symbols.TypeFloat}, driver.Options{})
	if err != nil {
		t.Fatalf("AnalyzeSource retry failed: %v", err)
	}
	if len(ar.Undefined) != 0 || ar.Analyzed == nil {
		t.Fatalf("retry: Undefined = %v, Analyzed = %v", ar.Undefined, ar.Analyzed)
	}
	types := ar.TypeMap()
	if types["id2"] != symbols.TypeInt || types["id3"] != symbols.TypeFloat {
		t.Errorf("TypeMap = %v", types)
	}
}

func TestOptimizeSource_Pipeline(t *testing.T) {
	or, err := driver.OptimizeSource("t.tc", "x := 5 + 3 * 2;", nil, driver.Options{})
	if err != nil {
		t.Fatalf("OptimizeSource failed: %v", err)
	}
	wantRaw := []string{
		"temp1 = #3 * #2",
		"temp2 = #5 + temp1",
		"id1 = temp2",
	}
	if diff := cmp.Diff(wantRaw, tac.Render(or.Code)); diff != "" {
		t.Errorf("raw TAC mismatch (-want +got):\n%s", diff)
	}
	wantOpt := []string{
		"temp1 = #3 * #2",
		"id1 = #5 + temp1",
	}
	if diff := cmp.Diff(wantOpt, tac.Render(or.Optimized)); diff != "" {
		t.Errorf("optimized TAC mismatch (-want +got):\n%s", diff)
	}
	if or.Stats.OriginalCount != 3 || or.Stats.OptimizedCount != 2 {
		t.Errorf("stats = %+v", or.Stats)
	}
}

func TestCodegenSource_FloatProgram(t *testing.T) {
	cr, err := driver.CodegenSource("t.tc", "y := 1.5; x := y + 3.5;", nil, driver.Options{})
	if err != nil {
		t.Fatalf("CodegenSource failed: %v", err)
	}
	want := []string{
		"STRF id1, #1.5",
		"LOADF R1, id1",
		"ADDF R1, R1, #3.5",
		"STRF id2, R1",
	}
	if diff := cmp.Diff(want, codegen.Render(cr.Assembly)); diff != "" {
		t.Errorf("assembly mismatch (-want +got):\n%s", diff)
	}
}

func TestCodegenSource_ControlFlowRejectedWithDiagnostic(t *testing.T) {
	cr, err := driver.CodegenSource("t.tc", "x := 1; if (x > 0) then y := 2; end", nil, driver.Options{})
	var unsupported *codegen.UnsupportedError
	if !errors.As(err, &unsupported) {
		t.Fatalf("err = %v, want *codegen.UnsupportedError", err)
	}
	if cr == nil {
		t.Fatalf("result is nil, rejection should still carry the bag")
	}
	found := false
	for _, d := range cr.Bag.Items() {
		if d.Code == diag.GenUnsupportedInstruction {
			found = true
			if d.Severity != diag.SevError {
				t.Errorf("severity = %v, want SevError", d.Severity)
			}
		}
	}
	if !found {
		t.Errorf("bag has no GenUnsupportedInstruction diagnostic: %+v", cr.Bag.Items())
	}
}

func TestExecuteSource_WithInputs(t *testing.T) {
	in, err := driver.ParseInputs(`
max_iterations = 200

[vars]
seed = "2.5"
scale = 4

[reads]
n = [10, "20.5"]
`)
	if err != nil {
		t.Fatalf("ParseInputs failed: %v", err)
	}
	if in.MaxIterations != 200 {
		t.Errorf("MaxIterations = %d, want 200", in.MaxIterations)
	}
	if v := in.Vars["seed"]; !v.IsFloat() || v.F != 2.5 {
		t.Errorf("seed = %+v, want float 2.5", v)
	}
	if v := in.Vars["scale"]; v.IsFloat() || v.I != 4 {
		t.Errorf("scale = %+v, want int 4", v)
	}
	if len(in.Reads["n"]) != 2 || in.Reads["n"][1].F != 20.5 {
		t.Errorf("reads n = %+v", in.Reads["n"])
	}

	er, err := driver.ExecuteSource("t.tc", "read n; x := n * scale + seed;", in, driver.Options{})
	if err != nil {
		t.Fatalf("ExecuteSource failed: %v", err)
	}
	if er.Run == nil {
		t.Fatalf("Run is nil; Undefined = %v", er.Undefined)
	}
	if got := er.Run.Variables["x"].String(); got != "42.5" {
		t.Errorf("x = %s, want 42.5", got)
	}
}

func TestInputs_SetVar(t *testing.T) {
	in := &driver.Inputs{}
	if err := in.SetVar("x=3.5"); err != nil {
		t.Fatalf("SetVar failed: %v", err)
	}
	if v := in.Vars["x"]; !v.IsFloat() || v.F != 3.5 {
		t.Errorf("x = %+v", v)
	}
	if err := in.SetVar("nonsense"); err == nil {
		t.Errorf("SetVar accepted a spec without =")
	}
}

func TestInputs_DeclarationsFromValues(t *testing.T) {
	in := &driver.Inputs{
		Vars: map[string]interp.Value{"a": interp.FloatValue(1)},
		Reads: map[string][]interp.Value{
			"b": {interp.IntValue(2)},
		},
	}
	decls := in.Declarations()
	if decls["a"] != symbols.TypeFloat || decls["b"] != symbols.TypeInt {
		t.Errorf("Declarations = %v", decls)
	}
}

func TestTraceSource_StepsAreMonotonic(t *testing.T) {
	tr, err := driver.TraceSource("t.tc", "x := 1; write x + 1;", nil, driver.Options{})
	if err != nil {
		t.Fatalf("TraceSource failed: %v", err)
	}
	if len(tr.Steps) == 0 {
		t.Fatalf("no steps recorded")
	}
	phases := make(map[trace.Phase]bool)
	for i, s := range tr.Steps {
		if s.ID != i {
			t.Fatalf("step %d has id %d; ids must be dense from 0", i, s.ID)
		}
		phases[s.Phase] = true
	}
	for _, phase := range []trace.Phase{
		trace.PhaseLexing, trace.PhaseParsing, trace.PhaseSemantic, trace.PhaseExecution,
	} {
		if !phases[phase] {
			t.Errorf("no steps from phase %s", phase)
		}
	}
}

func TestTraceSource_ExternalSinkSeesSteps(t *testing.T) {
	list := trace.NewList()
	_, err := driver.TraceSource("t.tc", "x := 1;", nil, driver.Options{TraceSink: list})
	if err != nil {
		t.Fatalf("TraceSource failed: %v", err)
	}
	if list.Len() == 0 {
		t.Errorf("external sink received no steps")
	}
}
