package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"toyc/internal/diagfmt"
	"toyc/internal/driver"
	"toyc/internal/trace"
)

var traceCmd = &cobra.Command{
	Use:   "trace [flags] (file.tc | -c code)",
	Short: "Run the pipeline with step-by-step instrumentation",
	Long:  `Trace records every lexing, parsing, analysis and execution step as a self-describing record with a monotonic step id, suitable for replay in a visualizer`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTrace,
}

func init() {
	addCodeFlag(traceCmd)
	traceCmd.Flags().String("format", "pretty", "output format (pretty|json|ndjson)")
	traceCmd.Flags().String("inputs", "", "TOML inputs manifest with [vars] and [reads] tables")
	traceCmd.Flags().StringArray("var", nil, "set an initial variable value (name=value), repeatable")
}

func runTrace(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	inputsPath, _ := cmd.Flags().GetString("inputs")
	vars, _ := cmd.Flags().GetStringArray("var")

	in, err := gatherInputs(inputsPath, vars, 0)
	if err != nil {
		return err
	}

	path, code, inline, err := sourceArg(cmd, args)
	if err != nil {
		return err
	}

	opts, timer := pipelineOptions(cmd)
	if format == "ndjson" {
		// stream steps as they happen instead of collecting first
		opts.TraceSink = trace.NewStream(os.Stdout)
	}

	var result *driver.TraceResult
	if inline {
		result, err = driver.TraceSource("<code>", code, in, opts)
	} else {
		result, err = driver.Trace(path, in, opts)
	}
	if err != nil {
		return fmt.Errorf("trace failed: %w", err)
	}
	defer printTimings(timer)

	reportDiagnostics(cmd, result.Bag, result.FileSet)

	switch format {
	case "pretty":
		return diagfmt.FormatTracePretty(os.Stdout, result.Steps)
	case "json":
		return diagfmt.FormatTraceJSON(os.Stdout, result.Steps)
	case "ndjson":
		return nil // already streamed
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
