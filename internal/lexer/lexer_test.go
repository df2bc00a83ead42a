package lexer_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"toyc/internal/diag"
	"toyc/internal/lexer"
	"toyc/internal/source"
	"toyc/internal/token"
)

// testReporter collects every diagnostic the lexer reports.
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
	})
}

func (r *testReporter) codes() []diag.Code {
	out := make([]diag.Code, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.tc", []byte(input))
	reporter := &testReporter{}
	return lexer.New(fs.Get(fileID), lexer.Options{Reporter: reporter}), reporter
}

func collectAllTokens(lx *lexer.Lexer) []token.Token {
	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens
}

// lex returns the kind/text pairs for input, EOF included.
func lex(t *testing.T, input string) ([]token.Kind, []string) {
	t.Helper()
	lx, reporter := makeTestLexer(input)
	tokens := collectAllTokens(lx)
	for _, d := range reporter.diagnostics {
		t.Logf("diagnostic: [%s] %s", d.Code, d.Message)
	}
	kinds := make([]token.Kind, len(tokens))
	texts := make([]string, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
		texts[i] = tok.Text
	}
	return kinds, texts
}

func TestLexer_Keywords(t *testing.T) {
	kinds, _ := lex(t, "if then else end repeat until read write")
	want := []token.Kind{
		token.KwIf, token.KwThen, token.KwElse, token.KwEnd,
		token.KwRepeat, token.KwUntil, token.KwRead, token.KwWrite,
		token.EOF,
	}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("keyword kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestLexer_OperatorsMaximalMunch(t *testing.T) {
	tests := []struct {
		input string
		want  []token.Kind
	}{
		{":=", []token.Kind{token.Assign, token.EOF}},
		{"<=", []token.Kind{token.LtEq, token.EOF}},
		{">=", []token.Kind{token.GtEq, token.EOF}},
		{"==", []token.Kind{token.EqEq, token.EOF}},
		{"!=", []token.Kind{token.BangEq, token.EOF}},
		{"&&", []token.Kind{token.AndAnd, token.EOF}},
		{"||", []token.Kind{token.OrOr, token.EOF}},
		{"< =", []token.Kind{token.Lt, token.Illegal, token.EOF}},
		{"<<=", []token.Kind{token.Lt, token.LtEq, token.EOF}},
		{"+-*/%();", []token.Kind{
			token.Plus, token.Minus, token.Star, token.Slash, token.Percent,
			token.LParen, token.RParen, token.Semicolon, token.EOF,
		}},
	}
	for _, tt := range tests {
		kinds, _ := lex(t, tt.input)
		if diff := cmp.Diff(tt.want, kinds); diff != "" {
			t.Errorf("lex(%q) mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestLexer_TwoCharPrefixAloneIsIllegal(t *testing.T) {
	for _, input := range []string{":", "=", "!", "&", "|"} {
		lx, reporter := makeTestLexer(input)
		tok := lx.Next()
		if tok.Kind != token.Illegal {
			t.Errorf("lex(%q): kind = %s, want ILLEGAL", input, tok.Kind)
		}
		if len(reporter.diagnostics) != 1 || reporter.diagnostics[0].Code != diag.LexUnknownChar {
			t.Errorf("lex(%q): codes = %v, want [LEX1001]", input, reporter.codes())
		}
	}
}

func TestLexer_Numbers(t *testing.T) {
	kinds, texts := lex(t, "0 42 3.14 10.0")
	wantKinds := []token.Kind{token.Number, token.Number, token.Float, token.Float, token.EOF}
	wantTexts := []string{"0", "42", "3.14", "10.0", ""}
	if diff := cmp.Diff(wantKinds, kinds); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantTexts, texts); diff != "" {
		t.Errorf("texts mismatch (-want +got):\n%s", diff)
	}
}

func TestLexer_MalformedNumbers(t *testing.T) {
	tests := []struct {
		input    string
		wantText string
	}{
		{"12ab", "12ab"},
		{"3.", "3."},
		{"1.5x", "1.5x"},
	}
	for _, tt := range tests {
		lx, reporter := makeTestLexer(tt.input)
		tok := lx.Next()
		if tok.Kind != token.Illegal {
			t.Errorf("lex(%q): kind = %s, want ILLEGAL", tt.input, tok.Kind)
		}
		if tok.Text != tt.wantText {
			t.Errorf("lex(%q): text = %q, want %q", tt.input, tok.Text, tt.wantText)
		}
		if len(reporter.diagnostics) == 0 || reporter.diagnostics[0].Code != diag.LexMalformedNumber {
			t.Errorf("lex(%q): codes = %v, want LEX1003 first", tt.input, reporter.codes())
		}
		// the malformed run is consumed whole, the stream continues
		if next := lx.Next(); next.Kind != token.EOF {
			t.Errorf("lex(%q): token after illegal = %s, want EOF", tt.input, next.Kind)
		}
	}
}

func TestLexer_FloatDotMustBeFollowedByDigit(t *testing.T) {
	// "3.x" is one malformed run, not FLOAT then IDENT
	kinds, _ := lex(t, "a := 3.x;")
	want := []token.Kind{token.Ident, token.Assign, token.Illegal, token.Semicolon, token.EOF}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestLexer_Comments(t *testing.T) {
	input := "x := 1; %% trailing comment\n" +
		"{ block comment\nspanning lines } y := 2;"
	kinds, _ := lex(t, input)
	want := []token.Kind{
		token.Ident, token.Assign, token.Number, token.Semicolon,
		token.Ident, token.Assign, token.Number, token.Semicolon,
		token.EOF,
	}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestLexer_SinglePercentIsModulo(t *testing.T) {
	kinds, _ := lex(t, "x := a % b;")
	want := []token.Kind{
		token.Ident, token.Assign, token.Ident, token.Percent, token.Ident,
		token.Semicolon, token.EOF,
	}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestLexer_UnterminatedBlockComment(t *testing.T) {
	lx, reporter := makeTestLexer("x := 1; { never closed")
	tokens := collectAllTokens(lx)
	if tokens[len(tokens)-1].Kind != token.EOF {
		t.Fatalf("stream does not end in EOF")
	}
	found := false
	for _, d := range reporter.diagnostics {
		if d.Code == diag.LexUnterminatedBlockComment {
			found = true
		}
	}
	if !found {
		t.Errorf("codes = %v, want LEX1002 reported", reporter.codes())
	}
}

func TestLexer_EOFIsSticky(t *testing.T) {
	lx, _ := makeTestLexer("x")
	collectAllTokens(lx)
	for i := 0; i < 3; i++ {
		if tok := lx.Next(); tok.Kind != token.EOF {
			t.Fatalf("Next() after EOF = %s, want EOF", tok.Kind)
		}
	}
}

func TestLexer_Spans(t *testing.T) {
	lx, _ := makeTestLexer("ab := 12;")
	tok := lx.Next()
	if tok.Span.Start != 0 || tok.Span.End != 2 {
		t.Errorf("ident span = [%d,%d), want [0,2)", tok.Span.Start, tok.Span.End)
	}
	tok = lx.Next() // :=
	if tok.Span.Start != 3 || tok.Span.End != 5 {
		t.Errorf("assign span = [%d,%d), want [3,5)", tok.Span.Start, tok.Span.End)
	}
}

func TestLexer_SpansReconstructSource(t *testing.T) {
	input := "x := 12; %% trailing note\n{ block } y := x + 2.5;\nwrite y;"
	lx, _ := makeTestLexer(input)

	var rebuilt strings.Builder
	prev := uint32(0)
	for _, tok := range collectAllTokens(lx) {
		if tok.Kind == token.EOF {
			break
		}
		if tok.Span.Start < prev {
			t.Fatalf("span %s overlaps the previous token", tok.Span)
		}
		slice := input[tok.Span.Start:tok.Span.End]
		if slice != tok.Text {
			t.Errorf("token %s text %q != source slice %q", tok.Kind, tok.Text, slice)
		}
		// trivia between tokens comes straight from the source
		rebuilt.WriteString(input[prev:tok.Span.Start])
		rebuilt.WriteString(tok.Text)
		prev = tok.Span.End
	}
	rebuilt.WriteString(input[prev:])
	if rebuilt.String() != input {
		t.Errorf("reconstruction mismatch:\ngot:  %q\nwant: %q", rebuilt.String(), input)
	}
}

func TestLexer_KeywordsAreCaseSensitive(t *testing.T) {
	kinds, _ := lex(t, "IF If if")
	want := []token.Kind{token.Ident, token.Ident, token.KwIf, token.EOF}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
}
