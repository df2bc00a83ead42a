package driver

import (
	"strings"

	"toyc/internal/diag"
	"toyc/internal/lexer"
	"toyc/internal/source"
	"toyc/internal/symbols"
	"toyc/internal/token"
)

// TokenizeResult carries the token stream and everything derived from it.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	// Norms maps identifiers to id1, id2, ... by first appearance in the
	// token stream; it is shared read-only by all later stages.
	Norms *symbols.NormTable
	// NormalizedCode is the source re-rendered as space-joined token texts
	// with identifiers normalized.
	NormalizedCode string
	Bag            *diag.Bag
}

// Tokenize loads path and lexes it to EOF.
func Tokenize(path string, opts Options) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return tokenizeFile(fs, fs.Get(fileID), opts, &phases{rec: opts.recorder(), timer: opts.Timer})
}

// TokenizeSource lexes an in-memory snippet under a virtual file name.
func TokenizeSource(name, src string, opts Options) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, []byte(src))
	return tokenizeFile(fs, fs.Get(fileID), opts, &phases{rec: opts.recorder(), timer: opts.Timer})
}

func tokenizeFile(fs *source.FileSet, file *source.File, opts Options, ph *phases) (*TokenizeResult, error) {
	t := ph.begin("tokenize")

	bag := diag.NewBag(opts.MaxDiagnostics)
	lx := lexer.New(file, lexer.Options{
		Reporter: &diag.BagReporter{Bag: bag},
		Trace:    ph.rec,
	})

	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}

	norms := symbols.NewNormTable()
	var normalized []string
	for _, tok := range tokens {
		switch tok.Kind {
		case token.Ident:
			normalized = append(normalized, norms.Intern(tok.Text))
		case token.EOF:
		default:
			normalized = append(normalized, tok.Text)
		}
	}

	ph.end(t, "")
	return &TokenizeResult{
		FileSet:        fs,
		File:           file,
		Tokens:         tokens,
		Norms:          norms,
		NormalizedCode: strings.Join(normalized, " "),
		Bag:            bag,
	}, nil
}
