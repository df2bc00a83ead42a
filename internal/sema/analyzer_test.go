package sema_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"toyc/internal/ast"
	"toyc/internal/diag"
	"toyc/internal/lexer"
	"toyc/internal/parser"
	"toyc/internal/sema"
	"toyc/internal/source"
	"toyc/internal/symbols"
	"toyc/internal/token"
)

func parseForAnalysis(t *testing.T, input string) (*ast.Program, *symbols.NormTable) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.tc", []byte(input))
	file := fs.Get(fileID)

	lx := lexer.New(file, lexer.Options{})
	norms := symbols.NewNormTable()
	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.Ident {
			norms.Intern(tok.Text)
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	prog := parser.Parse(file, tokens, parser.Options{})
	if errNode := ast.FirstError(prog); errNode != nil {
		t.Fatalf("parse(%q) failed: %s", input, errNode.Message)
	}
	return prog, norms
}

func analyze(t *testing.T, input string, decls map[string]symbols.Type) (*sema.Result, *diag.Bag, error) {
	t.Helper()
	prog, norms := parseForAnalysis(t, input)
	bag := diag.NewBag(100)
	res, err := sema.Analyze(prog, norms, sema.Options{
		Reporter:     &diag.BagReporter{Bag: bag},
		Declarations: decls,
	})
	return res, bag, err
}

func mustAnalyze(t *testing.T, input string, decls map[string]symbols.Type) *sema.Result {
	t.Helper()
	res, bag, err := analyze(t, input, decls)
	if err != nil {
		t.Fatalf("Analyze(%q) failed: %v", input, err)
	}
	if bag.HasErrors() {
		t.Fatalf("Analyze(%q) reported errors: %v", input, bag.Items())
	}
	return res
}

func TestAnalyze_TypesFromLiterals(t *testing.T) {
	res := mustAnalyze(t, "a := 1; b := 2.5; c := a + a;", nil)
	tests := []struct {
		name string
		want symbols.Type
	}{
		{"a", symbols.TypeInt},
		{"b", symbols.TypeFloat},
		{"c", symbols.TypeInt},
	}
	for _, tt := range tests {
		e, ok := res.Symbols.Lookup(tt.name)
		if !ok {
			t.Fatalf("%s not in symbol table", tt.name)
		}
		if e.Type != tt.want {
			t.Errorf("type of %s = %s, want %s", tt.name, e.Type, tt.want)
		}
	}
}

func TestAnalyze_CoercesIntSideOfMixedOp(t *testing.T) {
	res := mustAnalyze(t, "f := 1.5; i := 2; m := f + i;", nil)

	assign := res.Program.Statements[2].(*ast.Assignment)
	bin := assign.Value.(*ast.BinaryOp)
	if _, ok := bin.Left.(*ast.Int2Float); ok {
		t.Errorf("float side wrapped in Int2Float")
	}
	coerced, ok := bin.Right.(*ast.Int2Float)
	if !ok {
		t.Fatalf("int side = %T, want *ast.Int2Float", bin.Right)
	}
	if id, ok := coerced.Child.(*ast.Identifier); !ok || id.Name != "i" {
		t.Errorf("coercion child = %#v, want identifier i", coerced.Child)
	}

	// the mixed expression types as float
	e, _ := res.Symbols.Lookup("m")
	if e.Type != symbols.TypeFloat {
		t.Errorf("type of m = %s, want float", e.Type)
	}
}

func TestAnalyze_CoercesLiteralOperand(t *testing.T) {
	res := mustAnalyze(t, "x := 2 + 3.5;", nil)
	bin := res.Program.Statements[0].(*ast.Assignment).Value.(*ast.BinaryOp)
	if _, ok := bin.Left.(*ast.Int2Float); !ok {
		t.Errorf("left literal not coerced: %T", bin.Left)
	}
	if _, ok := bin.Right.(*ast.Float); !ok {
		t.Errorf("right side = %T, want *ast.Float untouched", bin.Right)
	}
}

func TestAnalyze_NoCoercionWhenTypesAgree(t *testing.T) {
	res := mustAnalyze(t, "a := 1 + 2; b := 1.5 * 2.5;", nil)
	for i, stmt := range res.Program.Statements {
		bin := stmt.(*ast.Assignment).Value.(*ast.BinaryOp)
		if _, ok := bin.Left.(*ast.Int2Float); ok {
			t.Errorf("statement %d: spurious coercion on left", i)
		}
		if _, ok := bin.Right.(*ast.Int2Float); ok {
			t.Errorf("statement %d: spurious coercion on right", i)
		}
	}
}

func TestAnalyze_CoercionInNestedExpression(t *testing.T) {
	// (i * 2) is int; multiplying by a float coerces the whole subtree once
	res := mustAnalyze(t, "i := 4; x := 0.5 * (i * 2);", nil)
	outer := res.Program.Statements[1].(*ast.Assignment).Value.(*ast.BinaryOp)
	coerced, ok := outer.Right.(*ast.Int2Float)
	if !ok {
		t.Fatalf("right side = %T, want *ast.Int2Float", outer.Right)
	}
	inner, ok := coerced.Child.(*ast.BinaryOp)
	if !ok || inner.Op != "*" {
		t.Fatalf("coercion wraps %T, want the inner product", coerced.Child)
	}
	if _, ok := inner.Left.(*ast.Int2Float); ok {
		t.Errorf("inner operand coerced; the wrap belongs on the subtree root")
	}
}

func TestAnalyze_InputTreeNotMutated(t *testing.T) {
	prog, norms := parseForAnalysis(t, "f := 1.5; m := f + 2;")
	originalBin := prog.Statements[1].(*ast.Assignment).Value.(*ast.BinaryOp)

	if _, err := sema.Analyze(prog, norms, sema.Options{}); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if _, ok := originalBin.Right.(*ast.Int2Float); ok {
		t.Errorf("analysis mutated the input tree")
	}
}

func TestAnalyze_UndefinedVariables(t *testing.T) {
	_, bag, err := analyze(t, "x := y + z; z := w;", nil)
	var undef *sema.UndefinedError
	if !errors.As(err, &undef) {
		t.Fatalf("err = %v, want *sema.UndefinedError", err)
	}
	// order of first use, each name once
	want := []string{"y", "z", "w"}
	if diff := cmp.Diff(want, undef.Names); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}

	// each name also lands in the bag, located at its first use
	items := bag.Items()
	if len(items) != 3 {
		t.Fatalf("diagnostics = %d, want 3: %v", len(items), items)
	}
	wantSpans := []struct{ start, end uint32 }{{5, 6}, {9, 10}, {17, 18}}
	for i, d := range items {
		if d.Code != diag.SemaUndefinedVariable {
			t.Errorf("diagnostic %d code = %s, want SEM3001", i, d.Code)
		}
		if d.Primary.Start != wantSpans[i].start || d.Primary.End != wantSpans[i].end {
			t.Errorf("diagnostic %d span = [%d,%d), want [%d,%d)",
				i, d.Primary.Start, d.Primary.End, wantSpans[i].start, wantSpans[i].end)
		}
	}
}

func TestReadTargets(t *testing.T) {
	prog, _ := parseForAnalysis(t,
		"read n; if (n > 0) then read m; end repeat read n; until n == 0;")
	got := sema.ReadTargets(prog)
	if diff := cmp.Diff([]string{"n", "m"}, got); diff != "" {
		t.Errorf("ReadTargets mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyze_DeclarationsCoverUndefined(t *testing.T) {
	res := mustAnalyze(t, "x := y + 1;", map[string]symbols.Type{"y": symbols.TypeFloat})
	e, ok := res.Symbols.Lookup("y")
	if !ok || e.Type != symbols.TypeFloat {
		t.Fatalf("y = %+v, %v; want declared float", e, ok)
	}
	// y is float, so the int literal gets coerced
	bin := res.Program.Statements[0].(*ast.Assignment).Value.(*ast.BinaryOp)
	if _, ok := bin.Right.(*ast.Int2Float); !ok {
		t.Errorf("literal not coerced against declared float: %T", bin.Right)
	}
}

func TestAnalyze_PartialDeclarationsStillFail(t *testing.T) {
	_, _, err := analyze(t, "x := y + z;", map[string]symbols.Type{"y": symbols.TypeInt})
	var undef *sema.UndefinedError
	if !errors.As(err, &undef) {
		t.Fatalf("err = %v, want *sema.UndefinedError", err)
	}
	if diff := cmp.Diff([]string{"z"}, undef.Names); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyze_AssignmentRHSIsUseBeforeDefine(t *testing.T) {
	// n on the right of its own first assignment is a use of an undefined n
	_, _, err := analyze(t, "n := n + 1;", nil)
	var undef *sema.UndefinedError
	if !errors.As(err, &undef) {
		t.Fatalf("err = %v, want *sema.UndefinedError", err)
	}
}

func TestAnalyze_ReadDefines(t *testing.T) {
	res := mustAnalyze(t, "read n; x := n + 1;",
		map[string]symbols.Type{"n": symbols.TypeInt})
	e, _ := res.Symbols.Lookup("x")
	if e.Type != symbols.TypeInt {
		t.Errorf("type of x = %s, want int", e.Type)
	}
}

func TestAnalyze_ReadWithoutTypeReports(t *testing.T) {
	_, bag, err := analyze(t, "read n; write n;", nil)
	if err != nil {
		t.Fatalf("Analyze failed hard: %v", err)
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SemaReadUntypedVar {
			found = true
		}
	}
	if !found {
		t.Errorf("no SEM3002 diagnostic for untyped read target")
	}
}

func TestAnalyze_RepeatBodyRunsBeforeCondition(t *testing.T) {
	// i is defined by the body before the condition reads it
	res := mustAnalyze(t, "repeat i := 1; until i > 0;", nil)
	if res == nil {
		t.Fatalf("nil result")
	}
}

func TestAnalyze_RejectsParseErrors(t *testing.T) {
	norms := symbols.NewNormTable()
	prog := &ast.Program{Statements: []ast.Node{&ast.Error{Message: "boom"}}}
	if _, err := sema.Analyze(prog, norms, sema.Options{}); err == nil {
		t.Errorf("Analyze accepted a tree with parse errors")
	}
}
