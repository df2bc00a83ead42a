package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"toyc/internal/diagfmt"
	"toyc/internal/driver"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize [flags] (file.tc | -c code)",
	Short: "Generate and optimize three-address code",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runOptimize,
}

func init() {
	addCodeFlag(optimizeCmd)
	optimizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	optimizeCmd.Flags().StringArray("declare", nil, "declare a variable type (name=int|float), repeatable")
	optimizeCmd.Flags().Bool("denormalize", false, "show original identifier names instead of id1, id2, ...")
	optimizeCmd.Flags().Bool("stats", false, "print per-pass optimization statistics")
	optimizeCmd.Flags().Bool("before", false, "also print the raw TAC before optimization")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	declSpecs, _ := cmd.Flags().GetStringArray("declare")
	denormalize, _ := cmd.Flags().GetBool("denormalize")
	showStats, _ := cmd.Flags().GetBool("stats")
	showBefore, _ := cmd.Flags().GetBool("before")

	decls, err := parseDecls(declSpecs)
	if err != nil {
		return err
	}

	path, code, inline, err := sourceArg(cmd, args)
	if err != nil {
		return err
	}

	opts, timer := pipelineOptions(cmd)
	var result *driver.OptimizeResult
	if inline {
		result, err = driver.OptimizeSource("<code>", code, decls, opts)
	} else {
		result, err = driver.Optimize(path, decls, opts)
	}
	if err != nil {
		return fmt.Errorf("optimization failed: %w", err)
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

	prettyOpts := diagfmt.PrettyOpts{Denormalize: denormalize}

	if format == "json" {
		if err := diagfmt.FormatTACJSON(os.Stdout, result.Optimized); err != nil {
			return err
		}
	} else {
		if showBefore {
			fmt.Fprintln(os.Stdout, "before:")
			if err := diagfmt.FormatTACPretty(os.Stdout, result.Code, result.Norms, prettyOpts); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, "after:")
		}
		if err := diagfmt.FormatTACPretty(os.Stdout, result.Optimized, result.Norms, prettyOpts); err != nil {
			return err
		}
	}

	if showStats {
		return diagfmt.FormatStats(os.Stderr, result.Stats)
	}
	return nil
}
