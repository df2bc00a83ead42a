package driver

import (
	"errors"

	"toyc/internal/ast"
	"toyc/internal/diag"
	"toyc/internal/sema"
	"toyc/internal/source"
	"toyc/internal/symbols"
)

// AnalyzeResult carries the coercion-annotated tree and the symbol table.
type AnalyzeResult struct {
	*ParseResult
	// Analyzed is the rebuilt tree with Int2Float nodes in place.
	Analyzed *ast.Program
	Symbols  *symbols.SymbolTable
	// Undefined lists variables that still need a declaration; when
	// non-empty, Analyzed and Symbols are nil.
	Undefined []string
}

// Analyze runs the pipeline through semantic analysis. decls seeds types
// for variables the program cannot infer (undefined variables and read
// targets); pass nil first and inspect Undefined to learn what is needed.
func Analyze(path string, decls map[string]symbols.Type, opts Options) (*AnalyzeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	ph := &phases{rec: opts.recorder(), timer: opts.Timer}
	return analyzeFile(fs, fs.Get(fileID), decls, opts, ph)
}

// AnalyzeSource analyzes an in-memory snippet.
func AnalyzeSource(name, src string, decls map[string]symbols.Type, opts Options) (*AnalyzeResult, error) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, []byte(src))
	ph := &phases{rec: opts.recorder(), timer: opts.Timer}
	return analyzeFile(fs, fs.Get(fileID), decls, opts, ph)
}

func analyzeFile(fs *source.FileSet, file *source.File, decls map[string]symbols.Type, opts Options, ph *phases) (*AnalyzeResult, error) {
	pr, err := parseFile(fs, file, opts, ph)
	if err != nil {
		return nil, err
	}
	out := &AnalyzeResult{ParseResult: pr}
	if pr.SyntaxError != nil {
		return out, nil
	}

	t := ph.begin("analyze")
	res, err := sema.Analyze(pr.Program, pr.Norms, sema.Options{
		Reporter:     &diag.BagReporter{Bag: pr.Bag},
		Trace:        ph.rec,
		Declarations: decls,
	})
	ph.end(t, "")

	var undef *sema.UndefinedError
	if errors.As(err, &undef) {
		out.Undefined = undef.Names
		return out, nil
	}
	if err != nil {
		return nil, err
	}

	out.Analyzed = res.Program
	out.Symbols = res.Symbols
	return out, nil
}

// TypeMap builds the normalized-name type map the code generator consumes.
func (r *AnalyzeResult) TypeMap() map[string]symbols.Type {
	out := make(map[string]symbols.Type)
	for _, name := range r.Symbols.Names() {
		e, _ := r.Symbols.Lookup(name)
		out[e.Norm] = e.Type
	}
	return out
}
