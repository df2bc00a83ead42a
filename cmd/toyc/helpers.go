package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"toyc/internal/ast"
	"toyc/internal/diag"
	"toyc/internal/diagfmt"
	"toyc/internal/driver"
	"toyc/internal/observ"
	"toyc/internal/sema"
	"toyc/internal/source"
	"toyc/internal/symbols"
)

// pipelineOptions builds driver options from the persistent flags. The
// returned timer is non-nil only when --timings is set.
func pipelineOptions(cmd *cobra.Command) (driver.Options, *observ.Timer) {
	maxDiagnostics, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	opts := driver.Options{MaxDiagnostics: maxDiagnostics}

	var timer *observ.Timer
	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
		timer = observ.NewTimer()
		opts.Timer = timer
	}
	return opts, timer
}

func useColor(cmd *cobra.Command, f *os.File) bool {
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(f))
}

// reportDiagnostics prints the bag to stderr and reports whether errors
// were present.
func reportDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) bool {
	if bag.Len() == 0 {
		return false
	}
	bag.Sort()
	diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{Color: useColor(cmd, os.Stderr)})
	return bag.HasErrors()
}

func printTimings(timer *observ.Timer) {
	if timer != nil {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
}

// addCodeFlag registers the inline-source flag every stage verb carries.
func addCodeFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("code", "c", "", "use the given source text instead of a file")
}

// sourceArg resolves a verb's source: the positional file argument or the
// inline -c text, exactly one of which must be present. Inline code runs
// under the virtual file name "<code>".
func sourceArg(cmd *cobra.Command, args []string) (path, code string, inline bool, err error) {
	code, _ = cmd.Flags().GetString("code")
	switch {
	case code != "" && len(args) > 0:
		return "", "", false, fmt.Errorf("pass a source file or -c code, not both")
	case code == "" && len(args) == 0:
		return "", "", false, fmt.Errorf("pass a source file, or inline code with -c")
	case code != "":
		return "", code, true, nil
	}
	return args[0], "", false, nil
}

// parseDecls turns --declare name=int|float flags into a type seed map.
func parseDecls(specs []string) (map[string]symbols.Type, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	decls := make(map[string]symbols.Type, len(specs))
	for _, spec := range specs {
		name, typeName, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("invalid declaration %q: expected name=int or name=float", spec)
		}
		switch strings.TrimSpace(typeName) {
		case "int":
			decls[strings.TrimSpace(name)] = symbols.TypeInt
		case "float":
			decls[strings.TrimSpace(name)] = symbols.TypeFloat
		default:
			return nil, fmt.Errorf("invalid declaration %q: type must be int or float", spec)
		}
	}
	return decls, nil
}

// gatherInputs combines an --inputs manifest with --var overrides.
func gatherInputs(inputsPath string, vars []string, maxIterations int) (*driver.Inputs, error) {
	in := &driver.Inputs{}
	if inputsPath != "" {
		loaded, err := driver.LoadInputs(inputsPath)
		if err != nil {
			return nil, err
		}
		in = loaded
	}
	for _, spec := range vars {
		if err := in.SetVar(spec); err != nil {
			return nil, err
		}
	}
	if maxIterations > 0 {
		in.MaxIterations = maxIterations
	}
	return in, nil
}

// undefinedError formats the retry guidance when analysis stops on
// undefined variables. Read targets need their own declarations too: their
// types cannot be inferred from the program text.
func undefinedError(prog *ast.Program, names []string) error {
	msg := fmt.Sprintf("undefined variables: %s (supply types with --declare name=int|float, or values with --var name=value)",
		strings.Join(names, ", "))
	if reads := sema.ReadTargets(prog); len(reads) > 0 {
		msg += fmt.Sprintf("; read targets %s also need a declaration", strings.Join(reads, ", "))
	}
	return fmt.Errorf("%s", msg)
}
