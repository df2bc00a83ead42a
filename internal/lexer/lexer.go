// Package lexer turns toyc source text into a token stream. Scanning is
// resilient: unknown characters become ILLEGAL tokens and are reported, the
// stream always ends with EOF, and tracing never changes the result.
package lexer

import (
	"toyc/internal/diag"
	"toyc/internal/source"
	"toyc/internal/token"
	"toyc/internal/trace"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
}

// New creates a lexer for the given file.
func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next returns the next significant token. After EOF it always returns EOF.
func (lx *Lexer) Next() token.Token {
	lx.skipTrivia()

	if lx.cursor.EOF() {
		tok := token.Token{Kind: token.EOF, Span: lx.emptySpan(), Text: ""}
		lx.traceIdentify(tok.Kind, int(lx.cursor.Off), "")
		lx.traceCreated(tok)
		return tok
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case isLetter(ch):
		tok = lx.scanIdentOrKeyword()
	case isDigit(ch):
		tok = lx.scanNumber()
	default:
		tok = lx.scanOperatorOrDelim()
	}

	lx.traceCreated(tok)
	return tok
}

// skipTrivia consumes whitespace and comments. A `%%` comment runs to end of
// line; a `{` comment runs to the matching `}` and may span lines. An
// unterminated block comment is a fatal lexical error reported against the
// opening brace.
func (lx *Lexer) skipTrivia() {
	for {
		switch {
		case isWhitespace(lx.cursor.Peek()):
			lx.cursor.Bump()

		case lx.isLineComment():
			lx.cursor.Bump() // '%'
			lx.cursor.Bump() // '%'
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}

		case lx.cursor.Peek() == '{':
			open := lx.cursor.Mark()
			lx.cursor.Bump() // '{'
			for !lx.cursor.EOF() && lx.cursor.Peek() != '}' {
				lx.cursor.Bump()
			}
			if !lx.cursor.Eat('}') {
				lx.report(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(open),
					"unterminated block comment: missing closing '}'")
			}

		default:
			return
		}
	}
}

func (lx *Lexer) isLineComment() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == '%' && b1 == '%'
}

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	lx.traceIdentify(token.Ident, int(lx.cursor.Off), "")
	for isLetter(lx.cursor.Peek()) || isDigit(lx.cursor.Peek()) {
		lx.cursor.Bump()
		lx.traceBuild(token.Ident, start)
	}
	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	kind := token.Ident
	if kw, ok := token.LookupKeyword(text); ok {
		kind = kw
	}
	return token.Token{Kind: kind, Span: sp, Text: text}
}

// scanNumber scans NUMBER (digits) or FLOAT (digits '.' digits). A run that
// continues with letters, or a float missing fractional digits, yields one
// ILLEGAL token covering the whole run.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	lx.traceIdentify(token.Number, int(lx.cursor.Off), "")
	for isDigit(lx.cursor.Peek()) {
		lx.cursor.Bump()
		lx.traceBuild(token.Number, start)
	}

	kind := token.Number
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDigit(b1) {
		kind = token.Float
		lx.cursor.Bump() // '.'
		for isDigit(lx.cursor.Peek()) {
			lx.cursor.Bump()
			lx.traceBuild(token.Float, start)
		}
	} else if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		sp := lx.cursor.SpanFrom(start)
		lx.report(diag.LexMalformedNumber, sp, "malformed number: expected digit after '.'")
		return token.Token{Kind: token.Illegal, Span: sp, Text: lx.text(sp)}
	}

	// a letter glued to a number makes the whole run illegal: "12ab", "1.5x"
	if isLetter(lx.cursor.Peek()) {
		for isLetter(lx.cursor.Peek()) || isDigit(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.report(diag.LexMalformedNumber, sp, "malformed number: trailing identifier characters")
		return token.Token{Kind: token.Illegal, Span: sp, Text: lx.text(sp)}
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

// scanOperatorOrDelim scans operators and delimiters with maximal munch:
// two-character forms win over their one-character prefixes. A prefix that
// only exists in a two-character form (':', '=', '!', '&', '|') is ILLEGAL
// on its own.
func (lx *Lexer) scanOperatorOrDelim() token.Token {
	start := lx.cursor.Mark()
	ch := lx.cursor.Bump()

	kind := token.Illegal
	switch ch {
	case '+':
		kind = token.Plus
	case '-':
		kind = token.Minus
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '%':
		kind = token.Percent
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case ';':
		kind = token.Semicolon
	case ':':
		if lx.cursor.Eat('=') {
			kind = token.Assign
		}
	case '<':
		kind = token.Lt
		if lx.cursor.Eat('=') {
			kind = token.LtEq
		}
	case '>':
		kind = token.Gt
		if lx.cursor.Eat('=') {
			kind = token.GtEq
		}
	case '=':
		if lx.cursor.Eat('=') {
			kind = token.EqEq
		}
	case '!':
		if lx.cursor.Eat('=') {
			kind = token.BangEq
		}
	case '&':
		if lx.cursor.Eat('&') {
			kind = token.AndAnd
		}
	case '|':
		if lx.cursor.Eat('|') {
			kind = token.OrOr
		}
	}

	sp := lx.cursor.SpanFrom(start)
	lx.traceIdentify(kind, int(sp.Start), lx.text(sp))
	if kind == token.Illegal {
		lx.report(diag.LexUnknownChar, sp, "unrecognized character "+quoteText(lx.text(sp)))
	}
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}

func (lx *Lexer) traceIdentify(kind token.Kind, pos int, text string) {
	if !lx.opts.Trace.Enabled() {
		return
	}
	state := map[string]string{
		"action":     "identify_token",
		"token_type": kind.String(),
	}
	if text != "" {
		state["current_lexeme"] = text
	}
	lx.opts.Trace.StepAt(trace.PhaseLexing, pos,
		"Identifying "+kind.String()+" token", state)
}

func (lx *Lexer) traceBuild(kind token.Kind, start Mark) {
	if !lx.opts.Trace.Enabled() {
		return
	}
	lexeme := lx.text(lx.cursor.SpanFrom(start))
	lx.opts.Trace.StepAt(trace.PhaseLexing, int(start),
		"Building "+kind.String()+": '"+lexeme+"'",
		map[string]string{
			"action":         "build_token",
			"token_type":     kind.String(),
			"current_lexeme": lexeme,
		})
}

func (lx *Lexer) traceCreated(tok token.Token) {
	if !lx.opts.Trace.Enabled() {
		return
	}
	lx.opts.Trace.StepAt(trace.PhaseLexing, int(tok.Span.Start),
		"Created "+tok.Kind.String()+" token: '"+tok.Text+"'",
		map[string]string{
			"action":     "token_created",
			"token_type": tok.Kind.String(),
			"literal":    tok.Text,
		})
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func quoteText(s string) string {
	return "'" + s + "'"
}
