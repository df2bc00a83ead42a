package token

import "toyc/internal/source"

// Token is a single source token. Tokens are immutable once produced;
// line/column positions are resolved from the span through the FileSet.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a numeric literal.
func (t Token) IsLiteral() bool {
	return t.Kind == Number || t.Kind == Float
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwIf, KwThen, KwElse, KwEnd, KwRepeat, KwUntil, KwRead, KwWrite:
		return true
	default:
		return false
	}
}

// IsComparison reports whether the token is a relational operator.
func (t Token) IsComparison() bool {
	switch t.Kind {
	case Lt, Gt, LtEq, GtEq, EqEq, BangEq:
		return true
	default:
		return false
	}
}
