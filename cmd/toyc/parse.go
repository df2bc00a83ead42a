package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"toyc/internal/diagfmt"
	"toyc/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] (file.tc | -c code)",
	Short: "Parse a ToyC source file into an AST",
	Long:  `Parse builds the abstract syntax tree. Syntax errors appear as Error nodes in the tree, not as aborts`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

func init() {
	addCodeFlag(parseCmd)
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	path, code, inline, err := sourceArg(cmd, args)
	if err != nil {
		return err
	}

	opts, timer := pipelineOptions(cmd)
	var result *driver.ParseResult
	if inline {
		result, err = driver.ParseSource("<code>", code, opts)
	} else {
		result, err = driver.Parse(path, opts)
	}
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	defer printTimings(timer)

	reportDiagnostics(cmd, result.Bag, result.FileSet)

	switch format {
	case "pretty":
		if err := diagfmt.FormatASTPretty(os.Stdout, result.Program); err != nil {
			return err
		}
	case "json":
		if err := diagfmt.FormatASTJSON(os.Stdout, result.Program); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if result.SyntaxError != nil {
		return fmt.Errorf("parse stopped at: %s", result.SyntaxError.Message)
	}
	return nil
}
