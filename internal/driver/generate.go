package driver

import (
	"errors"
	"fmt"

	"toyc/internal/codegen"
	"toyc/internal/diag"
	"toyc/internal/optimizer"
	"toyc/internal/source"
	"toyc/internal/symbols"
	"toyc/internal/tac"
)

// TACResult carries raw TAC plus the analysis artifacts before it.
type TACResult struct {
	*AnalyzeResult
	Code   []tac.Instruction
	Temps  int
	Labels int
}

// OptimizeResult carries both the raw and the optimized sequences.
type OptimizeResult struct {
	*TACResult
	Optimized []tac.Instruction
	Stats     optimizer.Stats
}

// CodegenResult carries the final assembly listing.
type CodegenResult struct {
	*OptimizeResult
	Assembly []codegen.Instruction
}

// GenerateTAC runs the pipeline through intermediate code generation.
func GenerateTAC(path string, decls map[string]symbols.Type, opts Options) (*TACResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	ph := &phases{rec: opts.recorder(), timer: opts.Timer}
	return generateFile(fs, fs.Get(fileID), decls, opts, ph)
}

// GenerateTACSource generates TAC for an in-memory snippet.
func GenerateTACSource(name, src string, decls map[string]symbols.Type, opts Options) (*TACResult, error) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, []byte(src))
	ph := &phases{rec: opts.recorder(), timer: opts.Timer}
	return generateFile(fs, fs.Get(fileID), decls, opts, ph)
}

func generateFile(fs *source.FileSet, file *source.File, decls map[string]symbols.Type, opts Options, ph *phases) (*TACResult, error) {
	ar, err := analyzeFile(fs, file, decls, opts, ph)
	if err != nil {
		return nil, err
	}
	out := &TACResult{AnalyzeResult: ar}
	if ar.SyntaxError != nil || len(ar.Undefined) > 0 {
		return out, nil
	}

	t := ph.begin("tac")
	res, err := tac.Generate(ar.Analyzed, ar.Norms)
	ph.end(t, "")
	if err != nil {
		return nil, err
	}

	out.Code = res.Instructions
	out.Temps = res.Temps
	out.Labels = res.Labels
	return out, nil
}

// Optimize runs the pipeline through the optimizer.
func Optimize(path string, decls map[string]symbols.Type, opts Options) (*OptimizeResult, error) {
	tr, err := GenerateTAC(path, decls, opts)
	if err != nil {
		return nil, err
	}
	return optimizeResult(tr, opts)
}

// OptimizeSource optimizes an in-memory snippet.
func OptimizeSource(name, src string, decls map[string]symbols.Type, opts Options) (*OptimizeResult, error) {
	tr, err := GenerateTACSource(name, src, decls, opts)
	if err != nil {
		return nil, err
	}
	return optimizeResult(tr, opts)
}

func optimizeResult(tr *TACResult, opts Options) (*OptimizeResult, error) {
	out := &OptimizeResult{TACResult: tr}
	if tr.Code == nil {
		return out, nil
	}
	ph := &phases{timer: opts.Timer}
	t := ph.begin("optimize")
	out.Optimized, out.Stats = optimizer.Optimize(tr.Code)
	ph.end(t, fmt.Sprintf("%d -> %d", out.Stats.OriginalCount, out.Stats.OptimizedCount))
	return out, nil
}

// Codegen runs the full compile pipeline down to assembly.
func Codegen(path string, decls map[string]symbols.Type, opts Options) (*CodegenResult, error) {
	or, err := Optimize(path, decls, opts)
	if err != nil {
		return nil, err
	}
	return codegenResult(or, opts)
}

// CodegenSource compiles an in-memory snippet to assembly.
func CodegenSource(name, src string, decls map[string]symbols.Type, opts Options) (*CodegenResult, error) {
	or, err := OptimizeSource(name, src, decls, opts)
	if err != nil {
		return nil, err
	}
	return codegenResult(or, opts)
}

func codegenResult(or *OptimizeResult, opts Options) (*CodegenResult, error) {
	out := &CodegenResult{OptimizeResult: or}
	if or.Optimized == nil {
		return out, nil
	}
	ph := &phases{timer: opts.Timer}
	t := ph.begin("codegen")
	asm, err := codegen.Generate(or.Optimized, or.TypeMap())
	ph.end(t, "")
	var unsupported *codegen.UnsupportedError
	if errors.As(err, &unsupported) {
		// the capability limit is a diagnostic as well as an error; keep
		// the result so callers can render the bag
		or.Bag.Add(diag.Diagnostic{
			Code:     diag.GenUnsupportedInstruction,
			Severity: diag.SevError,
			Message:  unsupported.Error(),
			Primary:  or.Analyzed.Sp,
		})
		return out, err
	}
	if err != nil {
		return nil, err
	}
	out.Assembly = asm
	return out, nil
}
