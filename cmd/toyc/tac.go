package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"toyc/internal/diagfmt"
	"toyc/internal/driver"
)

var tacCmd = &cobra.Command{
	Use:   "tac [flags] (file.tc | -c code)",
	Short: "Generate three-address code for a ToyC source file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTAC,
}

func init() {
	addCodeFlag(tacCmd)
	tacCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tacCmd.Flags().StringArray("declare", nil, "declare a variable type (name=int|float), repeatable")
	tacCmd.Flags().Bool("denormalize", false, "show original identifier names instead of id1, id2, ...")
}

func runTAC(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	declSpecs, _ := cmd.Flags().GetStringArray("declare")
	denormalize, _ := cmd.Flags().GetBool("denormalize")

	decls, err := parseDecls(declSpecs)
	if err != nil {
		return err
	}

	path, code, inline, err := sourceArg(cmd, args)
	if err != nil {
		return err
	}

	opts, timer := pipelineOptions(cmd)
	var result *driver.TACResult
	if inline {
		result, err = driver.GenerateTACSource("<code>", code, decls, opts)
	} else {
		result, err = driver.GenerateTAC(path, decls, opts)
	}
	if err != nil {
		return fmt.Errorf("code generation failed: %w", err)
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

	switch format {
	case "pretty":
		return diagfmt.FormatTACPretty(os.Stdout, result.Code, result.Norms,
			diagfmt.PrettyOpts{Denormalize: denormalize})
	case "json":
		return diagfmt.FormatTACJSON(os.Stdout, result.Code)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
