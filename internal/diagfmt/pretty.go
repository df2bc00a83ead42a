package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"toyc/internal/diag"
	"toyc/internal/source"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan, color.Bold)
	posColor  = color.New(color.Bold)
)

// Pretty renders diagnostics in the classic compiler shape:
//
//	<path>:<line>:<col>: <severity> <CODE>: <message>
//	  <source line>
//	  ^~~~
//
// Call bag.Sort() first for stable ordering. The caret line accounts for
// wide runes in the source prefix so it lines up in any terminal.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		writeDiagnostic(w, d, fs, opts)
	}
}

func writeDiagnostic(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	file := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)

	sev := d.Severity.String()
	code := d.Code.ID()
	if opts.Color {
		sev = severityColor(d.Severity).Sprint(sev)
		code = severityColor(d.Severity).Sprint(code)
	}

	loc := fmt.Sprintf("%s:%d:%d", file.Path, start.Line, start.Col)
	if opts.Color {
		loc = posColor.Sprint(loc)
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n", loc, sev, code, d.Message)

	writeSourceLine(w, file, start, end, opts)

	for _, n := range d.Notes {
		npos, _ := fs.Resolve(n.Span)
		fmt.Fprintf(w, "  note: %s (%s:%d:%d)\n", n.Msg, file.Path, npos.Line, npos.Col)
	}
}

func writeSourceLine(w io.Writer, file *source.File, start, end source.LineCol, opts PrettyOpts) {
	line := string(file.Line(start.Line))
	if line == "" {
		return
	}
	fmt.Fprintf(w, "  %s\n", line)

	// pad up to the caret using display width, not byte count
	prefix := line
	if int(start.Col-1) <= len(line) {
		prefix = line[:start.Col-1]
	}
	pad := strings.Repeat(" ", runewidth.StringWidth(prefix))

	span := 1
	if end.Line == start.Line && end.Col > start.Col {
		span = int(end.Col - start.Col)
	}
	marker := "^" + strings.Repeat("~", span-1)
	if opts.Color {
		marker = errColor.Sprint(marker)
	}
	fmt.Fprintf(w, "  %s%s\n", pad, marker)
}

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return errColor
	case diag.SevWarning:
		return warnColor
	default:
		return infoColor
	}
}
