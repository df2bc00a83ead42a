package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"toyc/internal/optimizer"
	"toyc/internal/symbols"
	"toyc/internal/tac"
)

// TACOutput is the JSON view of one TAC instruction, structured record
// plus its rendered text.
type TACOutput struct {
	Op     string `json:"op"`
	Arg1   string `json:"arg1,omitempty"`
	Arg2   string `json:"arg2,omitempty"`
	Result string `json:"result,omitempty"`
	Label  string `json:"label,omitempty"`
	Text   string `json:"text"`
}

// FormatTACPretty writes a numbered TAC listing. With opts.Denormalize set,
// normalized names are replaced by the original identifiers from norms.
func FormatTACPretty(w io.Writer, code []tac.Instruction, norms *symbols.NormTable, opts PrettyOpts) error {
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

// FormatTACJSON writes the instruction sequence as an indented JSON array.
func FormatTACJSON(w io.Writer, code []tac.Instruction) error {
	out := make([]TACOutput, len(code))
	for i, in := range code {
		out[i] = TACOutput{
			Op:     in.Op,
			Arg1:   in.Arg1,
			Arg2:   in.Arg2,
			Result: in.Result,
			Label:  in.Label,
			Text:   in.String(),
		}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// FormatStats writes the optimizer's per-pass counters and total reduction.
func FormatStats(w io.Writer, stats optimizer.Stats) error {
	_, err := fmt.Fprintf(w,
		"optimization: %d -> %d instructions (%.1f%% reduction)\n"+
			"  int2float inlined:         %d\n"+
			"  temps eliminated:          %d\n"+
			"  copies propagated:         %d\n"+
			"  algebraic simplifications: %d\n"+
			"  dead code eliminated:      %d\n",
		stats.OriginalCount, stats.OptimizedCount, stats.ReductionPercent(),
		stats.Int2FloatInlined,
		stats.TempsEliminated,
		stats.CopiesPropagated,
		stats.AlgebraicSimplifications,
		stats.DeadCodeEliminated)
	return err
}
