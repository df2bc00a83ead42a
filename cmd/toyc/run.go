package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"toyc/internal/diagfmt"
	"toyc/internal/driver"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] (file.tc | -c code)",
	Short: "Execute a ToyC source file directly on the analyzed AST",
	Long:  `Run evaluates the program without going through TAC. Free variables take their values from an inputs manifest (--inputs) or --var flags; read statements consume queued values from the manifest`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRun,
}

func init() {
	addCodeFlag(runCmd)
	runCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	runCmd.Flags().String("inputs", "", "TOML inputs manifest with [vars] and [reads] tables")
	runCmd.Flags().StringArray("var", nil, "set an initial variable value (name=value), repeatable")
	runCmd.Flags().Int("max-iterations", 0, "cap repeat-until iterations (default 1000)")
}

func runRun(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	inputsPath, _ := cmd.Flags().GetString("inputs")
	vars, _ := cmd.Flags().GetStringArray("var")
	maxIterations, _ := cmd.Flags().GetInt("max-iterations")

	in, err := gatherInputs(inputsPath, vars, maxIterations)
	if err != nil {
		return err
	}

	path, code, inline, err := sourceArg(cmd, args)
	if err != nil {
		return err
	}

	opts, timer := pipelineOptions(cmd)
	var result *driver.ExecuteResult
	if inline {
		result, err = driver.ExecuteSource("<code>", code, in, opts)
	} else {
		result, err = driver.Execute(path, in, opts)
	}
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	defer printTimings(timer)

	reportDiagnostics(cmd, result.Bag, result.FileSet)
	if result.SyntaxError != nil {
		return fmt.Errorf("parse stopped at: %s", result.SyntaxError.Message)
	}
	if len(result.Undefined) > 0 {
		return undefinedError(result.Program, result.Undefined)
	}

	switch format {
	case "pretty":
		return diagfmt.FormatExecution(os.Stdout, result.Analyzed, result.Run)
	case "json":
		return diagfmt.FormatExecutionJSON(os.Stdout, result.Analyzed, result.Run)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
