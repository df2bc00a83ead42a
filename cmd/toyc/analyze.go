package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"toyc/internal/diagfmt"
	"toyc/internal/driver"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] (file.tc | -c code)",
	Short: "Run semantic analysis on a ToyC source file",
	Long:  `Analyze infers variable types, inserts int-to-float coercion nodes and prints the annotated AST and symbol table`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	addCodeFlag(analyzeCmd)
	analyzeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	analyzeCmd.Flags().StringArray("declare", nil, "declare a variable type (name=int|float), repeatable")
	analyzeCmd.Flags().Bool("symbols", false, "print the symbol table instead of the AST")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	declSpecs, _ := cmd.Flags().GetStringArray("declare")
	showSymbols, _ := cmd.Flags().GetBool("symbols")

	decls, err := parseDecls(declSpecs)
	if err != nil {
		return err
	}

	path, code, inline, err := sourceArg(cmd, args)
	if err != nil {
		return err
	}

	opts, timer := pipelineOptions(cmd)
	var result *driver.AnalyzeResult
	if inline {
		result, err = driver.AnalyzeSource("<code>", code, decls, opts)
	} else {
		result, err = driver.Analyze(path, decls, opts)
	}
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	defer printTimings(timer)

	hadErrors := reportDiagnostics(cmd, result.Bag, result.FileSet)
	if result.SyntaxError != nil {
		return fmt.Errorf("parse stopped at: %s", result.SyntaxError.Message)
	}
	if len(result.Undefined) > 0 {
		return undefinedError(result.Program, result.Undefined)
	}
	if hadErrors {
		return fmt.Errorf("analysis failed")
	}

	if showSymbols {
		return diagfmt.FormatSymbolTable(os.Stdout, result.Symbols)
	}
	switch format {
	case "pretty":
		return diagfmt.FormatASTPretty(os.Stdout, result.Analyzed)
	case "json":
		return diagfmt.FormatASTJSON(os.Stdout, result.Analyzed)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
