package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"toyc/internal/diagfmt"
	"toyc/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] (file.tc | -c code)",
	Short: "Tokenize a ToyC source file",
	Long:  `Tokenize breaks a ToyC source file into tokens and builds the identifier normalization map`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTokenize,
}

func init() {
	addCodeFlag(tokenizeCmd)
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Bool("map", false, "print the identifier normalization map")
	tokenizeCmd.Flags().Bool("normalized", false, "print the normalized source")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	showMap, _ := cmd.Flags().GetBool("map")
	showNormalized, _ := cmd.Flags().GetBool("normalized")

	path, code, inline, err := sourceArg(cmd, args)
	if err != nil {
		return err
	}

	opts, timer := pipelineOptions(cmd)
	var result *driver.TokenizeResult
	if inline {
		result, err = driver.TokenizeSource("<code>", code, opts)
	} else {
		result, err = driver.Tokenize(path, opts)
	}
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	defer printTimings(timer)

	// illegal tokens and unterminated comments show up here, but the
	// token listing is still printed: lexing is resilient
	reportDiagnostics(cmd, result.Bag, result.FileSet)

	if showNormalized {
		fmt.Fprintln(os.Stdout, result.NormalizedCode)
		return nil
	}
	if showMap {
		if format == "json" {
			return diagfmt.IdentifierMapJSON(os.Stdout, result.Norms)
		}
		return diagfmt.FormatIdentifierMap(os.Stdout, result.Norms)
	}

	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(os.Stdout, result.Tokens, result.FileSet)
	case "json":
		return diagfmt.FormatTokensJSON(os.Stdout, result.Tokens, result.FileSet)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
