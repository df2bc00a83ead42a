package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"toyc/internal/trace"
)

// FormatTracePretty writes one step per line: id, phase, description and a
// compact state dump with keys in stable order.
func FormatTracePretty(w io.Writer, steps []trace.Step) error {
	for _, s := range steps {
		pos := "-"
		if s.Pos != nil {
			pos = fmt.Sprint(*s.Pos)
		}
		if _, err := fmt.Fprintf(w, "%4d [%s] @%s %s%s\n",
			s.ID, s.PhaseTag, pos, s.Description, stateString(s.State)); err != nil {
			return err
		}
	}
	return nil
}

// FormatTraceJSON writes the step list as an indented JSON array.
func FormatTraceJSON(w io.Writer, steps []trace.Step) error {
	if steps == nil {
		steps = []trace.Step{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(steps)
}

func stateString(state map[string]string) string {
	if len(state) == 0 {
		return ""
	}
	keys := make([]string, 0, len(state))
	for k := range state {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := " {"
	for i, k := range keys {
		if i > 0 {
			out += ", "
		}
		out += k + "=" + state[k]
	}
	return out + "}"
}
