package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"toyc/internal/codegen"
	"toyc/internal/diagfmt"
	"toyc/internal/driver"
)

var codegenCmd = &cobra.Command{
	Use:   "codegen [flags] (file.tc | -c code)",
	Short: "Compile a ToyC source file to two-register assembly",
	Long:  `Codegen lowers optimized TAC to assembly for a two-register machine. Programs with control flow, I/O or comparisons are rejected: the target stage handles straight-line arithmetic only`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCodegen,
}

func init() {
	addCodeFlag(codegenCmd)
	codegenCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	codegenCmd.Flags().StringArray("declare", nil, "declare a variable type (name=int|float), repeatable")
	codegenCmd.Flags().Bool("denormalize", false, "show original identifier names instead of id1, id2, ...")
}

func runCodegen(cmd *cobra.Command, args []string) error {
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
	var result *driver.CodegenResult
	if inline {
		result, err = driver.CodegenSource("<code>", code, decls, opts)
	} else {
		result, err = driver.Codegen(path, decls, opts)
	}
	if err != nil {
		var unsupported *codegen.UnsupportedError
		if errors.As(err, &unsupported) {
			if result != nil {
				reportDiagnostics(cmd, result.Bag, result.FileSet)
			}
			return fmt.Errorf("codegen: %w", err)
		}
		return fmt.Errorf("compilation failed: %w", err)
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
		return diagfmt.FormatAsmPretty(os.Stdout, result.Assembly, result.Norms,
			diagfmt.PrettyOpts{Denormalize: denormalize})
	case "json":
		return diagfmt.FormatAsmJSON(os.Stdout, result.Assembly)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
