package driver

import (
	"toyc/internal/source"
	"toyc/internal/trace"
)

// TraceResult carries the full step log of an instrumented run.
type TraceResult struct {
	*ExecuteResult
	Steps []trace.Step
}

// Trace runs lexing, parsing, analysis and direct execution with the step
// recorder attached and returns the ordered step log alongside the run
// itself. Any TraceSink already present in opts receives the steps too.
func Trace(path string, in *Inputs, opts Options) (*TraceResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return traceFile(fs, fs.Get(fileID), in, opts)
}

// TraceSource traces an in-memory snippet.
func TraceSource(name, src string, in *Inputs, opts Options) (*TraceResult, error) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, []byte(src))
	return traceFile(fs, fs.Get(fileID), in, opts)
}

func traceFile(fs *source.FileSet, file *source.File, in *Inputs, opts Options) (*TraceResult, error) {
	list := trace.NewList()
	var sink trace.Sink = list
	if opts.TraceSink != nil {
		sink = trace.NewMulti(list, opts.TraceSink)
	}
	opts.TraceSink = sink

	ph := &phases{rec: trace.NewRecorder(sink), timer: opts.Timer}
	er, err := executeFile(fs, file, in, opts, ph)
	if err != nil {
		return nil, err
	}
	return &TraceResult{ExecuteResult: er, Steps: list.Steps()}, nil
}
