package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"toyc/internal/symbols"
)

// FormatIdentifierMap writes original -> normalized pairs in
// first-appearance order.
func FormatIdentifierMap(w io.Writer, norms *symbols.NormTable) error {
	for _, e := range norms.Mapping() {
		if _, err := fmt.Fprintf(w, "%s -> %s\n", e.Original, e.Norm); err != nil {
			return err
		}
	}
	return nil
}

// IdentifierMapJSON builds an ordered representation of the map.
func IdentifierMapJSON(w io.Writer, norms *symbols.NormTable) error {
	type entry struct {
		Original string `json:"original"`
		Norm     string `json:"normalized"`
	}
	out := make([]entry, 0, norms.Len())
	for _, e := range norms.Mapping() {
		out = append(out, entry{Original: e.Original, Norm: e.Norm})
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// FormatSymbolTable writes each declared variable with its inferred type
// and normalized name, in declaration order.
func FormatSymbolTable(w io.Writer, table *symbols.SymbolTable) error {
	for _, name := range table.Names() {
		e, _ := table.Lookup(name)
		if _, err := fmt.Fprintf(w, "%-12s %-8s %s\n", name, e.Type, e.Norm); err != nil {
			return err
		}
	}
	return nil
}
