package diag

import "toyc/internal/source"

// Reporter is the minimal contract stages use to hand back diagnostics.
// Implementations: BagReporter (collects into a Bag), NopReporter.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string)
}

// BagReporter forwards reports into a Bag.
type BagReporter struct {
	Bag *Bag
}

func (r *BagReporter) Report(code Code, sev Severity, primary source.Span, msg string) {
	r.Bag.Add(Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary})
}

// NopReporter drops every report.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, source.Span, string) {}
