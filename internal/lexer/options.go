package lexer

import (
	"toyc/internal/diag"
	"toyc/internal/source"
	"toyc/internal/trace"
)

// Options configures a Lexer. Reporter and Trace may both be nil; scanning
// proceeds identically, it just reports and records nothing.
type Options struct {
	Reporter diag.Reporter
	Trace    *trace.Recorder
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg)
	}
}
