package parser

import "toyc/internal/token"

// Binding strengths, weakest first. All binary operators in this language
// are left-associative.
const (
	precLogicalOr      = 1 // ||
	precLogicalAnd     = 2 // &&
	precComparison     = 3 // < > <= >= == !=
	precAdditive       = 4 // + -
	precMultiplicative = 5 // * / %
)

// binaryPrec returns the precedence of kind as a binary operator, or -1
// when kind is not one.
func binaryPrec(kind token.Kind) int {
	switch kind {
	case token.OrOr:
		return precLogicalOr
	case token.AndAnd:
		return precLogicalAnd
	case token.Lt, token.Gt, token.LtEq, token.GtEq, token.EqEq, token.BangEq:
		return precComparison
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative
	default:
		return -1
	}
}
