package token

var keywords = map[string]Kind{
	"if":     KwIf,
	"then":   KwThen,
	"else":   KwElse,
	"end":    KwEnd,
	"repeat": KwRepeat,
	"until":  KwUntil,
	"read":   KwRead,
	"write":  KwWrite,
}

// LookupKeyword returns the keyword kind for ident. Keywords are
// case-sensitive; only lowercase spellings are recognized.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
