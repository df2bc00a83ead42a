package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"toyc/internal/source"
	"toyc/internal/token"
)

// TokenOutput is the JSON view of one token.
type TokenOutput struct {
	Kind   string `json:"kind"`
	Text   string `json:"text,omitempty"`
	Start  uint32 `json:"start"`
	End    uint32 `json:"end"`
	Line   uint32 `json:"line"`
	Column uint32 `json:"column"`
}

// FormatTokensPretty writes one token per line with kind, text and the
// resolved line:column range.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)

		fmt.Fprintf(w, "%3d: %-15s", i+1, tok.Kind.String())
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d\n",
			startPos.Line, startPos.Col,
			endPos.Line, endPos.Col)

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON writes the token sequence as an indented JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		pos, _ := fs.Resolve(tok.Span)
		output = append(output, TokenOutput{
			Kind:   tok.Kind.String(),
			Text:   tok.Text,
			Start:  tok.Span.Start,
			End:    tok.Span.End,
			Line:   pos.Line,
			Column: pos.Col,
		})
		if tok.Kind == token.EOF {
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
