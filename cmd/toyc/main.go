package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"toyc/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "toyc",
	Short: "ToyC compiler and direct executor",
	Long:  `toyc compiles a small imperative language through lexing, parsing, semantic analysis, TAC generation, optimization and two-register code generation, or runs programs directly on the analyzed AST`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(tacCmd)
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(codegenCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
