package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"toyc/internal/codegen"
	"toyc/internal/symbols"
)

// AsmOutput is the JSON view of one assembly instruction.
type AsmOutput struct {
	Op       string   `json:"op"`
	Operands []string `json:"operands"`
	Text     string   `json:"text"`
}

// FormatAsmPretty writes a numbered assembly listing.
func FormatAsmPretty(w io.Writer, code []codegen.Instruction, norms *symbols.NormTable, opts PrettyOpts) error {
	for i, in := range code {
		line := in.String()
		if opts.Denormalize && norms != nil {
			line = norms.Denormalize(line)
		}
		if _, err := fmt.Fprintf(w, "%3d: %s\n", i+1, line); err != nil {
			return err
		}
	}
	return nil
}

// FormatAsmJSON writes the listing as an indented JSON array.
func FormatAsmJSON(w io.Writer, code []codegen.Instruction) error {
	out := make([]AsmOutput, len(code))
	for i, in := range code {
		out[i] = AsmOutput{Op: in.Op, Operands: in.Operands, Text: in.String()}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
