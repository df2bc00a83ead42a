package token

// Kind is the category of a source token. The set is closed: every stage
// switches exhaustively over it.
type Kind uint8

const (
	// Illegal marks a character run matching no lexical rule. Illegal tokens
	// are returned inline; lexing never aborts on them.
	Illegal Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident is an identifier token.
	Ident
	// Number is an integer literal token.
	Number
	// Float is a floating-point literal token.
	Float

	// KwIf is the 'if' keyword.
	KwIf // if
	// KwThen is the 'then' keyword.
	KwThen // then
	// KwElse is the 'else' keyword.
	KwElse // else
	// KwEnd is the 'end' keyword.
	KwEnd // end
	// KwRepeat is the 'repeat' keyword.
	KwRepeat // repeat
	// KwUntil is the 'until' keyword.
	KwUntil // until
	// KwRead is the 'read' keyword.
	KwRead // read
	// KwWrite is the 'write' keyword.
	KwWrite // write

	// Plus is the plus operator token.
	Plus // +
	// Minus is the minus operator token.
	Minus // -
	// Star is the star operator token.
	Star // *
	// Slash is the slash operator token.
	Slash // /
	// Percent is the percent operator token.
	Percent // %
	// Assign is the ':=' operator token.
	Assign // :=
	// Lt is the less-than operator token.
	Lt // <
	// Gt is the greater-than operator token.
	Gt // >
	// LtEq is the less-or-equal operator token.
	LtEq // <=
	// GtEq is the greater-or-equal operator token.
	GtEq // >=
	// EqEq is the equality operator token.
	EqEq // ==
	// BangEq is the inequality operator token.
	BangEq // !=
	// AndAnd is the logical-and operator token.
	AndAnd // &&
	// OrOr is the logical-or operator token.
	OrOr // ||

	// LParen is the left parenthesis token.
	LParen // (
	// RParen is the right parenthesis token.
	RParen // )
	// Semicolon is the semicolon token.
	Semicolon // ;
)

var kindNames = [...]string{
	Illegal:   "ILLEGAL",
	EOF:       "EOF",
	Ident:     "IDENTIFIER",
	Number:    "NUMBER",
	Float:     "FLOAT",
	KwIf:      "IF",
	KwThen:    "THEN",
	KwElse:    "ELSE",
	KwEnd:     "END",
	KwRepeat:  "REPEAT",
	KwUntil:   "UNTIL",
	KwRead:    "READ",
	KwWrite:   "WRITE",
	Plus:      "PLUS",
	Minus:     "MINUS",
	Star:      "ASTERISK",
	Slash:     "SLASH",
	Percent:   "PERCENT",
	Assign:    "ASSIGN",
	Lt:        "LT",
	Gt:        "GT",
	LtEq:      "LT_EQ",
	GtEq:      "GT_EQ",
	EqEq:      "EQ",
	BangEq:    "NEQ",
	AndAnd:    "AND",
	OrOr:      "OR",
	LParen:    "LPAREN",
	RParen:    "RPAREN",
	Semicolon: "SEMICOLON",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "UNKNOWN"
}
