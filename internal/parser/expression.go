package parser

import (
	"fmt"
	"strconv"

	"toyc/internal/ast"
	"toyc/internal/diag"
	"toyc/internal/token"
)

// parseExpression is the entry point for expressions.
func (p *Parser) parseExpression() ast.Node {
	p.enter("expression")
	defer p.exit("expression")
	return p.parseBinaryExpr(0)
}

// parseBinaryExpr implements precedence climbing over the binaryPrec table.
// minPrec is the weakest binding this level may consume.
func (p *Parser) parseBinaryExpr(minPrec int) ast.Node {
	left := p.parsePrimary()
	if isError(left) {
		return left
	}

	for {
		prec := binaryPrec(p.cur().Kind)
		if prec < minPrec || prec < 0 {
			return left
		}
		opTok := p.advance()
		p.traceStep("match", opTok)

		// left-associative: the right side binds strictly tighter
		right := p.parseBinaryExpr(prec + 1)
		if isError(right) {
			return right
		}

		left = &ast.BinaryOp{
			Op:    opTok.Text,
			Left:  left,
			Right: right,
			Sp:    left.Span().Cover(right.Span()),
		}
	}
}

// parsePrimary: NUMBER | FLOAT | IDENTIFIER | LPAREN Expression RPAREN
func (p *Parser) parsePrimary() ast.Node {
	p.enter("primary")
	defer p.exit("primary")

	tok := p.cur()
	switch tok.Kind {
	case token.Number:
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			// report before advancing so the Error node points at the literal
			return p.errorNode(fmt.Sprintf("integer literal %q out of range", tok.Text))
		}
		p.advance()
		return &ast.Number{Value: v, Sp: tok.Span}

	case token.Float:
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return p.errorNode(fmt.Sprintf("float literal %q out of range", tok.Text))
		}
		p.advance()
		return &ast.Float{Value: v, Sp: tok.Span}

	case token.Ident:
		p.advance()
		return &ast.Identifier{Name: tok.Text, Sp: tok.Span}

	case token.LParen:
		p.advance()
		expr := p.parseExpression()
		if isError(expr) {
			return expr
		}
		if _, err := p.expect(token.RParen); err != nil {
			return err
		}
		return expr

	default:
		return p.errorNodeWith(
			diag.SynExpectExpression,
			fmt.Sprintf("expected expression, got %s", tok.Kind),
			token.Number, token.Float, token.Ident, token.LParen,
		)
	}
}
