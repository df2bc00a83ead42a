package optimizer_test

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"toyc/internal/optimizer"
	"toyc/internal/tac"
)

func binary(op, arg1, arg2, result string) tac.Instruction {
	return tac.Instruction{Op: op, Arg1: arg1, Arg2: arg2, Result: result}
}

func assign(src, dst string) tac.Instruction {
	return tac.Instruction{Op: tac.OpAssign, Arg1: src, Result: dst}
}

func optimize(code ...tac.Instruction) ([]string, optimizer.Stats) {
	out, stats := optimizer.Optimize(code)
	return tac.Render(out), stats
}

func TestOptimize_Int2FloatLiteralFolds(t *testing.T) {
	got, stats := optimize(
		tac.Instruction{Op: tac.OpInt2Float, Arg1: "#2", Result: "temp1"},
		binary("+", "id1", "temp1", "temp2"),
		assign("temp2", "id2"),
	)
	want := []string{"id2 = id1 + #2.0"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TAC mismatch (-want +got):\n%s", diff)
	}
	if stats.Int2FloatInlined != 1 {
		t.Errorf("Int2FloatInlined = %d, want 1", stats.Int2FloatInlined)
	}
	if stats.TempsEliminated != 1 {
		t.Errorf("TempsEliminated = %d, want 1", stats.TempsEliminated)
	}
}

func TestOptimize_Int2FloatVariableAnnotates(t *testing.T) {
	got, _ := optimize(
		tac.Instruction{Op: tac.OpInt2Float, Arg1: "id1", Result: "temp1"},
		binary("*", "temp1", "#2.5", "temp2"),
		assign("temp2", "id2"),
	)
	want := []string{"id2 = id1(f) * #2.5"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TAC mismatch (-want +got):\n%s", diff)
	}
}

func TestOptimize_SingleUseTempFusion(t *testing.T) {
	got, stats := optimize(
		binary("+", "id2", "#3.5", "temp1"),
		assign("temp1", "id1"),
	)
	want := []string{"id1 = id2 + #3.5"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TAC mismatch (-want +got):\n%s", diff)
	}
	if stats.TempsEliminated != 1 {
		t.Errorf("TempsEliminated = %d, want 1", stats.TempsEliminated)
	}
}

func TestOptimize_MultiUseTempSurvives(t *testing.T) {
	got, _ := optimize(
		binary("+", "id1", "#1", "temp1"),
		assign("temp1", "id2"),
		binary("*", "temp1", "#2", "temp2"),
		assign("temp2", "id3"),
	)
	// temp1 has two uses; only the temp2 chain fuses
	want := []string{
		"temp1 = id1 + #1",
		"id2 = temp1",
		"id3 = temp1 * #2",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TAC mismatch (-want +got):\n%s", diff)
	}
}

func TestOptimize_AlgebraicIdentities(t *testing.T) {
	tests := []struct {
		name string
		in   tac.Instruction
		want string
	}{
		{"add zero right", binary("+", "id1", "#0", "id2"), "id2 = id1"},
		{"add zero left", binary("+", "#0", "id1", "id2"), "id2 = id1"},
		{"sub zero", binary("-", "id1", "#0", "id2"), "id2 = id1"},
		{"mul one right", binary("*", "id1", "#1", "id2"), "id2 = id1"},
		{"mul one left", binary("*", "#1", "id1", "id2"), "id2 = id1"},
		{"mul zero", binary("*", "id1", "#0", "id2"), "id2 = #0"},
		{"div one", binary("/", "id1", "#1", "id2"), "id2 = id1"},
	}
	for _, tt := range tests {
		got, stats := optimize(tt.in)
		if len(got) != 1 || got[0] != tt.want {
			t.Errorf("%s: got %v, want [%s]", tt.name, got, tt.want)
		}
		if stats.AlgebraicSimplifications != 1 {
			t.Errorf("%s: AlgebraicSimplifications = %d, want 1", tt.name, stats.AlgebraicSimplifications)
		}
	}
}

func TestOptimize_NoUnsoundIdentities(t *testing.T) {
	// #0 - x and #1 / x must not simplify
	for _, in := range []tac.Instruction{
		binary("-", "#0", "id1", "id2"),
		binary("/", "#1", "id1", "id2"),
	} {
		got, stats := optimize(in)
		if got[0] != in.String() {
			t.Errorf("unsound rewrite: %s became %s", in, got[0])
		}
		if stats.AlgebraicSimplifications != 0 {
			t.Errorf("counted a simplification for %s", in)
		}
	}
}

func TestOptimize_CopyPropagation(t *testing.T) {
	got, stats := optimize(
		assign("id1", "temp1"),
		binary("+", "temp1", "#2", "temp2"),
		assign("temp2", "id2"),
	)
	want := []string{"id2 = id1 + #2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TAC mismatch (-want +got):\n%s", diff)
	}
	if stats.CopiesPropagated != 1 {
		t.Errorf("CopiesPropagated = %d, want 1", stats.CopiesPropagated)
	}
}

func TestOptimize_CopyNotPropagatedAcrossLabel(t *testing.T) {
	code := []tac.Instruction{
		assign("id1", "temp1"),
		{Op: tac.OpLabel, Label: "L1"},
		binary("+", "temp1", "#1", "id2"),
		{Op: tac.OpIfFalse, Arg1: "id2", Arg2: "L1"},
	}
	got, stats := optimizer.Optimize(code)
	// the copy's use lives past the label, so it must stay
	if stats.CopiesPropagated != 0 {
		t.Errorf("CopiesPropagated = %d, want 0", stats.CopiesPropagated)
	}
	if len(got) != len(code) {
		t.Errorf("sequence length = %d, want %d:\n%v", len(got), len(code), tac.Render(got))
	}
}

func TestOptimize_DeadTempRemoved(t *testing.T) {
	got, stats := optimize(
		binary("+", "id1", "#1", "temp1"), // never used
		assign("#5", "id2"),
	)
	want := []string{"id2 = #5"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TAC mismatch (-want +got):\n%s", diff)
	}
	if stats.DeadCodeEliminated == 0 {
		t.Errorf("DeadCodeEliminated = 0, want > 0")
	}
}

func TestOptimize_VariableAssignmentsAlwaysStay(t *testing.T) {
	got, _ := optimize(
		assign("#1", "id1"), // overwritten immediately, still an observable store
		assign("#2", "id1"),
	)
	want := []string{"id1 = #1", "id1 = #2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TAC mismatch (-want +got):\n%s", diff)
	}
}

func TestOptimize_SideEffectsUntouched(t *testing.T) {
	code := []tac.Instruction{
		{Op: tac.OpRead, Arg1: "id1"},
		{Op: tac.OpLabel, Label: "L1"},
		{Op: tac.OpWrite, Arg1: "id1"},
		{Op: tac.OpGoto, Arg1: "L1"},
	}
	got, _ := optimizer.Optimize(code)
	if diff := cmp.Diff(tac.Render(code), tac.Render(got)); diff != "" {
		t.Errorf("side-effecting sequence changed (-want +got):\n%s", diff)
	}
}

func TestOptimize_TempsRenumberDensely(t *testing.T) {
	got, _ := optimize(
		binary("+", "id1", "#1", "temp3"),
		tac.Instruction{Op: tac.OpWrite, Arg1: "temp3"},
		binary("*", "id1", "#2", "temp7"),
		tac.Instruction{Op: tac.OpWrite, Arg1: "temp7"},
	)
	want := []string{
		"temp1 = id1 + #1",
		"write temp1",
		"temp2 = id1 * #2",
		"write temp2",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TAC mismatch (-want +got):\n%s", diff)
	}
}

func TestOptimize_Counts(t *testing.T) {
	code := []tac.Instruction{
		binary("*", "#3", "#2", "temp1"),
		binary("+", "#5", "temp1", "temp2"),
		assign("temp2", "id1"),
	}
	out, stats := optimizer.Optimize(code)
	if stats.OriginalCount != 3 {
		t.Errorf("OriginalCount = %d, want 3", stats.OriginalCount)
	}
	if stats.OptimizedCount != len(out) {
		t.Errorf("OptimizedCount = %d, len = %d", stats.OptimizedCount, len(out))
	}
	if saved := stats.InstructionsSaved(); saved != stats.OriginalCount-stats.OptimizedCount {
		t.Errorf("InstructionsSaved = %d", saved)
	}
}

func TestOptimize_Idempotent(t *testing.T) {
	code := []tac.Instruction{
		{Op: tac.OpInt2Float, Arg1: "#2", Result: "temp1"},
		binary("+", "id1", "temp1", "temp2"),
		assign("temp2", "id2"),
		{Op: tac.OpLabel, Label: "L1"},
		binary("-", "id2", "#0", "temp3"),
		assign("temp3", "id3"),
		{Op: tac.OpIfFalse, Arg1: "id3", Arg2: "L1"},
	}
	once, _ := optimizer.Optimize(code)
	twice, _ := optimizer.Optimize(once)
	if diff := cmp.Diff(tac.Render(once), tac.Render(twice)); diff != "" {
		t.Errorf("second round changed the sequence (-once +twice):\n%s", diff)
	}
}

func TestOptimize_InputNotMutated(t *testing.T) {
	code := []tac.Instruction{
		{Op: tac.OpInt2Float, Arg1: "#2", Result: "temp1"},
		assign("temp1", "id1"),
	}
	before := tac.Render(code)
	optimizer.Optimize(code)
	if diff := cmp.Diff(before, tac.Render(code)); diff != "" {
		t.Errorf("input slice mutated (-before +after):\n%s", diff)
	}
}

// evalTAC interprets a sequence, returning the write output and the final
// variable values. It understands the optimizer's operand forms ((f)
// annotations, folded float literals), so a raw sequence and its optimized
// form can be compared behaviorally.
func evalTAC(t *testing.T, code []tac.Instruction) ([]float64, map[string]float64) {
	t.Helper()
	env := make(map[string]float64)
	var out []float64

	labels := make(map[string]int)
	for i, in := range code {
		if in.Op == tac.OpLabel {
			labels[in.Label] = i
		}
	}
	load := func(operand string) float64 {
		operand = strings.TrimSuffix(operand, "(f)")
		if lit, ok := strings.CutPrefix(operand, "#"); ok {
			v, err := strconv.ParseFloat(lit, 64)
			if err != nil {
				t.Fatalf("bad literal %q: %v", operand, err)
			}
			return v
		}
		return env[operand]
	}
	truth := func(b bool) float64 {
		if b {
			return 1
		}
		return 0
	}

	for pc := 0; pc < len(code); pc++ {
		in := code[pc]
		switch in.Op {
		case tac.OpLabel:
		case tac.OpGoto:
			pc = labels[in.Arg1]
		case tac.OpIfFalse:
			if load(in.Arg1) == 0 {
				pc = labels[in.Arg2]
			}
		case tac.OpIfTrue:
			if load(in.Arg1) != 0 {
				pc = labels[in.Arg2]
			}
		case tac.OpWrite:
			out = append(out, load(in.Arg1))
		case tac.OpAssign, tac.OpInt2Float:
			env[in.Result] = load(in.Arg1)
		default:
			a, b := load(in.Arg1), load(in.Arg2)
			switch in.Op {
			case "+":
				env[in.Result] = a + b
			case "-":
				env[in.Result] = a - b
			case "*":
				env[in.Result] = a * b
			case "/":
				env[in.Result] = a / b
			case "%":
				env[in.Result] = math.Mod(a, b)
			case "<":
				env[in.Result] = truth(a < b)
			case ">":
				env[in.Result] = truth(a > b)
			case "<=":
				env[in.Result] = truth(a <= b)
			case ">=":
				env[in.Result] = truth(a >= b)
			case "==":
				env[in.Result] = truth(a == b)
			case "!=":
				env[in.Result] = truth(a != b)
			case "&&":
				env[in.Result] = truth(a != 0 && b != 0)
			case "||":
				env[in.Result] = truth(a != 0 || b != 0)
			default:
				t.Fatalf("evalTAC: unknown op %q", in.Op)
			}
		}
	}

	// temps are interior state, not observable behavior
	vars := make(map[string]float64)
	for name, v := range env {
		if !tac.IsTemp(name) {
			vars[name] = v
		}
	}
	return out, vars
}

func TestOptimize_PreservesBehavior(t *testing.T) {
	programs := []struct {
		name string
		code []tac.Instruction
	}{
		{
			name: "straight-line with coercion",
			code: []tac.Instruction{
				assign("#1.5", "id1"),
				{Op: tac.OpInt2Float, Arg1: "#2", Result: "temp1"},
				binary("+", "id1", "temp1", "temp2"),
				assign("temp2", "id2"),
				{Op: tac.OpWrite, Arg1: "id2"},
			},
		},
		{
			name: "copy propagation and dead code",
			code: []tac.Instruction{
				assign("#4", "id1"),
				assign("id1", "temp1"),
				binary("*", "temp1", "#3", "temp2"),
				assign("temp2", "id2"),
				binary("+", "id1", "#9", "temp3"), // dead
				{Op: tac.OpWrite, Arg1: "id2"},
			},
		},
		{
			name: "summation loop",
			code: []tac.Instruction{
				assign("#5", "id1"),
				assign("#0", "id2"),
				{Op: tac.OpLabel, Label: "L1"},
				binary("+", "id2", "id1", "temp1"),
				assign("temp1", "id2"),
				binary("-", "id1", "#1", "temp2"),
				assign("temp2", "id1"),
				{Op: tac.OpWrite, Arg1: "id2"},
				binary("<=", "id1", "#0", "temp3"),
				{Op: tac.OpIfFalse, Arg1: "temp3", Arg2: "L1"},
				binary("*", "id2", "#2", "temp4"),
				assign("temp4", "id3"),
				{Op: tac.OpWrite, Arg1: "id3"},
			},
		},
	}
	for _, tt := range programs {
		optimized, _ := optimizer.Optimize(tt.code)
		rawOut, rawVars := evalTAC(t, tt.code)
		optOut, optVars := evalTAC(t, optimized)
		if diff := cmp.Diff(rawOut, optOut); diff != "" {
			t.Errorf("%s: write output diverged (-raw +optimized):\n%s", tt.name, diff)
		}
		if diff := cmp.Diff(rawVars, optVars); diff != "" {
			t.Errorf("%s: final variables diverged (-raw +optimized):\n%s", tt.name, diff)
		}
	}
}

func TestOptimize_EmptyInput(t *testing.T) {
	out, stats := optimizer.Optimize(nil)
	if len(out) != 0 {
		t.Errorf("output = %v, want empty", out)
	}
	if stats.OriginalCount != 0 || stats.OptimizedCount != 0 {
		t.Errorf("stats = %+v, want zeros", stats)
	}
}
