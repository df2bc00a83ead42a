// Package parser turns a token sequence into an AST. Parse errors are data:
// a failed construct yields an ast.Error node carrying the expected token
// set, the found token and a source snippet, and the enclosing construct
// halts instead of attempting recovery.
package parser

import (
	"fmt"

	"toyc/internal/ast"
	"toyc/internal/diag"
	"toyc/internal/source"
	"toyc/internal/token"
	"toyc/internal/trace"
)

// Options configure a single parse call.
type Options struct {
	Reporter diag.Reporter
	Trace    *trace.Recorder
}

// Parser holds the state for one program.
type Parser struct {
	file   *source.File
	tokens []token.Token
	pos    int
	opts   Options

	stack []string // active grammar rules, innermost last
}

// Parse builds a Program from the full token sequence. tokens must end in
// an EOF token; file is used only for error snippets and may be the virtual
// file the tokens were lexed from.
func Parse(file *source.File, tokens []token.Token, opts Options) *ast.Program {
	p := &Parser{file: file, tokens: tokens, opts: opts}
	return p.parseProgram()
}

func (p *Parser) cur() token.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return p.tokens[len(p.tokens)-1] // EOF
}

func (p *Parser) peek() token.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) advance() token.Token {
	tok := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	p.traceStep("consume", tok)
	return tok
}

// expect consumes a token of kind k or builds an Error node at the current
// token.
func (p *Parser) expect(k token.Kind) (token.Token, *ast.Error) {
	if p.at(k) {
		tok := p.advance()
		return tok, nil
	}
	return token.Token{}, p.errorNode(fmt.Sprintf("expected %s, got %s", k, p.cur().Kind), k)
}

// errorNode reports a syntax diagnostic and returns the Error node that
// stands in for the failed construct.
func (p *Parser) errorNode(msg string, expected ...token.Kind) *ast.Error {
	return p.errorNodeWith(diag.SynUnexpectedToken, msg, expected...)
}

func (p *Parser) errorNodeWith(code diag.Code, msg string, expected ...token.Kind) *ast.Error {
	found := p.cur()
	if found.Kind == token.EOF {
		code = diag.SynUnexpectedEOF
	}
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(code, diag.SevError, found.Span, msg)
	}
	ctx := ""
	if p.file != nil {
		ctx = p.file.Snippet(found.Span, 12)
	}
	return &ast.Error{
		Message:  msg,
		Expected: expected,
		Found:    found,
		Context:  ctx,
		Sp:       found.Span,
	}
}

func isError(n ast.Node) bool {
	_, ok := n.(*ast.Error)
	return ok
}

// parseProgram is the entry rule: Program → Statement* EOF. The first
// statement-level error ends the parse; the Error node becomes the last
// statement so callers see exactly where parsing stopped.
func (p *Parser) parseProgram() *ast.Program {
	p.enter("program")
	defer p.exit("program")

	start := p.cur().Span
	var stmts []ast.Node
	for !p.at(token.EOF) {
		stmt := p.parseStatement()
		stmts = append(stmts, stmt)
		if isError(stmt) {
			break
		}
	}
	return &ast.Program{Statements: stmts, Sp: start.Cover(p.cur().Span)}
}

// parseStatement dispatches on the leading token.
func (p *Parser) parseStatement() ast.Node {
	p.enter("statement")
	defer p.exit("statement")

	switch p.cur().Kind {
	case token.KwIf:
		return p.parseIf()
	case token.KwRepeat:
		return p.parseRepeatUntil()
	case token.KwRead:
		return p.parseRead()
	case token.KwWrite:
		return p.parseWrite()
	case token.Ident:
		if p.peek().Kind == token.Assign {
			return p.parseAssignment()
		}
		return p.errorNode(
			fmt.Sprintf("expected %s after identifier %q", token.Assign, p.cur().Text),
			token.Assign,
		)
	default:
		return p.errorNode(
			fmt.Sprintf("expected statement, got %s", p.cur().Kind),
			token.KwIf, token.KwRepeat, token.KwRead, token.KwWrite, token.Ident,
		)
	}
}

// parseBlock parses statements until one of the terminator keywords. The
// terminators are left for the caller to consume.
func (p *Parser) parseBlock(terminators ...token.Kind) (*ast.Block, *ast.Error) {
	p.enter("block")
	defer p.exit("block")

	start := p.cur().Span
	var stmts []ast.Node
	for {
		for _, t := range terminators {
			if p.at(t) {
				return &ast.Block{Statements: stmts, Sp: start.Cover(p.cur().Span)}, nil
			}
		}
		if p.at(token.EOF) {
			return nil, p.errorNode("unexpected end of input inside block", terminators...)
		}
		stmt := p.parseStatement()
		stmts = append(stmts, stmt)
		if err, ok := stmt.(*ast.Error); ok {
			return nil, err
		}
	}
}

// parseIf: IF LPAREN Expression RPAREN THEN Block (ELSE Block)? END
func (p *Parser) parseIf() ast.Node {
	p.enter("if")
	defer p.exit("if")

	start := p.cur().Span
	p.advance() // if
	if _, err := p.expect(token.LParen); err != nil {
		return err
	}
	cond := p.parseExpression()
	if isError(cond) {
		return cond
	}
	if _, err := p.expect(token.RParen); err != nil {
		return err
	}
	if _, err := p.expect(token.KwThen); err != nil {
		return err
	}
	then, errNode := p.parseBlock(token.KwElse, token.KwEnd)
	if errNode != nil {
		return errNode
	}
	var elseBlock *ast.Block
	if p.at(token.KwElse) {
		p.advance()
		elseBlock, errNode = p.parseBlock(token.KwEnd)
		if errNode != nil {
			return errNode
		}
	}
	end, err := p.expect(token.KwEnd)
	if err != nil {
		return err
	}
	return &ast.If{Cond: cond, Then: then, Else: elseBlock, Sp: start.Cover(end.Span)}
}

// parseRepeatUntil: REPEAT Block UNTIL Expression SEMICOLON
func (p *Parser) parseRepeatUntil() ast.Node {
	p.enter("repeat")
	defer p.exit("repeat")

	start := p.cur().Span
	p.advance() // repeat
	body, errNode := p.parseBlock(token.KwUntil)
	if errNode != nil {
		return errNode
	}
	p.advance() // until
	cond := p.parseExpression()
	if isError(cond) {
		return cond
	}
	semi, err := p.expect(token.Semicolon)
	if err != nil {
		return err
	}
	return &ast.RepeatUntil{Body: body, Cond: cond, Sp: start.Cover(semi.Span)}
}

// parseRead: READ IDENTIFIER SEMICOLON
func (p *Parser) parseRead() ast.Node {
	p.enter("read")
	defer p.exit("read")

	start := p.cur().Span
	p.advance() // read
	ident, err := p.expect(token.Ident)
	if err != nil {
		return err
	}
	semi, err := p.expect(token.Semicolon)
	if err != nil {
		return err
	}
	return &ast.Read{Name: ident.Text, Sp: start.Cover(semi.Span)}
}

// parseWrite: WRITE Expression SEMICOLON
func (p *Parser) parseWrite() ast.Node {
	p.enter("write")
	defer p.exit("write")

	start := p.cur().Span
	p.advance() // write
	expr := p.parseExpression()
	if isError(expr) {
		return expr
	}
	semi, err := p.expect(token.Semicolon)
	if err != nil {
		return err
	}
	return &ast.Write{Expr: expr, Sp: start.Cover(semi.Span)}
}

// parseAssignment: IDENTIFIER ASSIGN Expression SEMICOLON
func (p *Parser) parseAssignment() ast.Node {
	p.enter("assignment")
	defer p.exit("assignment")

	ident := p.advance()
	p.advance() // :=
	value := p.parseExpression()
	if isError(value) {
		return value
	}
	semi, err := p.expect(token.Semicolon)
	if err != nil {
		return err
	}
	return &ast.Assignment{Name: ident.Text, Value: value, Sp: ident.Span.Cover(semi.Span)}
}
