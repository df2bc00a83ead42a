package driver

import (
	"toyc/internal/ast"
	"toyc/internal/diag"
	"toyc/internal/parser"
	"toyc/internal/source"
)

// ParseResult carries the AST plus the tokenize artifacts it was built from.
type ParseResult struct {
	*TokenizeResult
	Program *ast.Program
	// SyntaxError is the first Error node in the tree, nil for a clean parse.
	SyntaxError *ast.Error
}

// Parse loads path, lexes and parses it.
func Parse(path string, opts Options) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	ph := &phases{rec: opts.recorder(), timer: opts.Timer}
	return parseFile(fs, fs.Get(fileID), opts, ph)
}

// ParseSource parses an in-memory snippet.
func ParseSource(name, src string, opts Options) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, []byte(src))
	ph := &phases{rec: opts.recorder(), timer: opts.Timer}
	return parseFile(fs, fs.Get(fileID), opts, ph)
}

func parseFile(fs *source.FileSet, file *source.File, opts Options, ph *phases) (*ParseResult, error) {
	tr, err := tokenizeFile(fs, file, opts, ph)
	if err != nil {
		return nil, err
	}

	t := ph.begin("parse")
	prog := parser.Parse(tr.File, tr.Tokens, parser.Options{
		Reporter: &diag.BagReporter{Bag: tr.Bag},
		Trace:    ph.rec,
	})
	ph.end(t, "")

	return &ParseResult{
		TokenizeResult: tr,
		Program:        prog,
		SyntaxError:    ast.FirstError(prog),
	}, nil
}
