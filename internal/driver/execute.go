package driver

import (
	"toyc/internal/diag"
	"toyc/internal/interp"
	"toyc/internal/source"
	"toyc/internal/symbols"
)

// ExecuteResult carries a direct-execution run.
type ExecuteResult struct {
	*AnalyzeResult
	Run *interp.Result
}

// Execute analyzes path and direct-executes it. in supplies the variable
// values and read queues; declarations for undefined variables are derived
// from the supplied values (a decimal point means float).
func Execute(path string, in *Inputs, opts Options) (*ExecuteResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	ph := &phases{rec: opts.recorder(), timer: opts.Timer}
	return executeFile(fs, fs.Get(fileID), in, opts, ph)
}

// ExecuteSource direct-executes an in-memory snippet.
func ExecuteSource(name, src string, in *Inputs, opts Options) (*ExecuteResult, error) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, []byte(src))
	ph := &phases{rec: opts.recorder(), timer: opts.Timer}
	return executeFile(fs, fs.Get(fileID), in, opts, ph)
}

func executeFile(fs *source.FileSet, file *source.File, in *Inputs, opts Options, ph *phases) (*ExecuteResult, error) {
	if in == nil {
		in = &Inputs{}
	}
	ar, err := analyzeFile(fs, file, in.Declarations(), opts, ph)
	if err != nil {
		return nil, err
	}
	out := &ExecuteResult{AnalyzeResult: ar}
	if ar.SyntaxError != nil || len(ar.Undefined) > 0 {
		return out, nil
	}

	t := ph.begin("execute")
	run, err := interp.Execute(ar.Analyzed, interp.Options{
		Reporter:      &diag.BagReporter{Bag: ar.Bag},
		Trace:         ph.rec,
		Inputs:        in.Reads,
		Initial:       in.Vars,
		MaxIterations: in.MaxIterations,
	})
	ph.end(t, "")
	if err != nil {
		return nil, err
	}
	out.Run = run
	return out, nil
}

// Declarations derives the type seeds semantic analysis needs from the
// supplied values: initial variables type as themselves, read queues type
// as their first value.
func (in *Inputs) Declarations() map[string]symbols.Type {
	decls := make(map[string]symbols.Type)
	for name, v := range in.Vars {
		decls[name] = v.Type
	}
	for name, queue := range in.Reads {
		if len(queue) > 0 {
			decls[name] = queue[0].Type
		}
	}
	return decls
}
