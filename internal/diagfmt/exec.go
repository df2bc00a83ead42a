package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"toyc/internal/ast"
	"toyc/internal/interp"
)

// FormatExecution writes the outcome of a direct-execution run: the write
// output in order, the final variable environment, and per-statement
// control flow annotations.
func FormatExecution(w io.Writer, prog *ast.Program, res *interp.Result) error {
	if len(res.Output) > 0 {
		fmt.Fprintln(w, "output:")
		for _, v := range res.Output {
			fmt.Fprintf(w, "  %s\n", v)
		}
	}

	if len(res.Variables) > 0 {
		names := make([]string, 0, len(res.Variables))
		for name := range res.Variables {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintln(w, "variables:")
		for _, name := range names {
			fmt.Fprintf(w, "  %s = %s\n", name, res.Variables[name])
		}
	}

	writeControlFlow(w, prog, res)
	return nil
}

// FormatExecutionJSON writes the run outcome as indented JSON. Values keep
// their source spelling, so floats always carry a decimal part.
func FormatExecutionJSON(w io.Writer, prog *ast.Program, res *interp.Result) error {
	output := make([]string, 0, len(res.Output))
	for _, v := range res.Output {
		output = append(output, v.String())
	}
	variables := make(map[string]string, len(res.Variables))
	for name, v := range res.Variables {
		variables[name] = v.String()
	}

	payload := map[string]any{
		"output":    output,
		"variables": variables,
	}
	var control []map[string]any
	collectControlFlow(prog, res, &control)
	if len(control) > 0 {
		payload["control_flow"] = control
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

// collectControlFlow gathers the records writeControlFlow prints, in the
// same statement order.
func collectControlFlow(n ast.Node, res *interp.Result, out *[]map[string]any) {
	a := res.Annotations[n]
	switch n := n.(type) {
	case *ast.Program:
		for _, s := range n.Statements {
			collectControlFlow(s, res, out)
		}
	case *ast.Block:
		for _, s := range n.Statements {
			collectControlFlow(s, res, out)
		}
	case *ast.If:
		if a != nil && a.Branch != "" {
			*out = append(*out, map[string]any{"statement": "if", "branch": a.Branch})
		}
		if a != nil && a.Err != "" {
			*out = append(*out, map[string]any{"statement": "if", "error": a.Err})
		}
		collectControlFlow(n.Then, res, out)
		if n.Else != nil {
			collectControlFlow(n.Else, res, out)
		}
	case *ast.RepeatUntil:
		if a != nil {
			record := map[string]any{"statement": "repeat-until", "iterations": a.Iterations}
			if a.Err != "" {
				record["error"] = a.Err
			}
			*out = append(*out, record)
		}
		collectControlFlow(n.Body, res, out)
	default:
		if a != nil && a.Err != "" {
			*out = append(*out, map[string]any{"statement": "statement", "error": a.Err})
		}
	}
}

// writeControlFlow reports branch decisions, loop iteration counts and
// runtime errors attached to statements.
func writeControlFlow(w io.Writer, n ast.Node, res *interp.Result) {
	a := res.Annotations[n]
	switch n := n.(type) {
	case *ast.Program:
		for _, s := range n.Statements {
			writeControlFlow(w, s, res)
		}
	case *ast.Block:
		for _, s := range n.Statements {
			writeControlFlow(w, s, res)
		}
	case *ast.If:
		if a != nil && a.Branch != "" {
			fmt.Fprintf(w, "if: branch taken = %s\n", a.Branch)
		}
		if a != nil && a.Err != "" {
			fmt.Fprintf(w, "runtime error: %s\n", a.Err)
		}
		writeControlFlow(w, n.Then, res)
		if n.Else != nil {
			writeControlFlow(w, n.Else, res)
		}
	case *ast.RepeatUntil:
		if a != nil {
			fmt.Fprintf(w, "repeat-until: %d iterations\n", a.Iterations)
		}
		writeControlFlow(w, n.Body, res)
	default:
		if a != nil && a.Err != "" {
			fmt.Fprintf(w, "runtime error: %s\n", a.Err)
		}
	}
}
