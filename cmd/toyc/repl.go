package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"toyc/internal/driver"
	"toyc/internal/interp"
	"toyc/internal/token"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Evaluate statements interactively",
	Long: `The repl reads statements from stdin and direct-executes each complete
entry. Variable values carry over between entries; an entry that ends in
an unexpected end of file keeps buffering on a continuation prompt.`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

type replSession struct {
	vars  map[string]interp.Value
	reads map[string][]interp.Value
}

func runRepl(cmd *cobra.Command, args []string) error {
	session := &replSession{
		vars:  make(map[string]interp.Value),
		reads: make(map[string][]interp.Value),
	}

	fmt.Println("toyc repl — :help for commands, :quit to leave")
	scanner := bufio.NewScanner(os.Stdin)
	var pending []string

	for {
		prompt := "toyc> "
		if len(pending) > 0 {
			prompt = "  ... "
		}
		fmt.Print(prompt)
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := scanner.Text()

		if len(pending) == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
			if quit := session.command(strings.TrimSpace(line)); quit {
				return nil
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			if len(pending) == 0 {
				continue
			}
			// a blank line forces the buffered entry through, errors and all
			session.evaluate(cmd, strings.Join(pending, "\n"), true)
			pending = pending[:0]
			continue
		}

		pending = append(pending, line)
		entry := strings.Join(pending, "\n")
		if session.evaluate(cmd, entry, false) {
			continue // incomplete, keep buffering
		}
		pending = pending[:0]
	}
}

// evaluate runs one entry and reports whether it should keep buffering.
// force pushes an incomplete entry through instead of waiting for more
// lines.
func (s *replSession) evaluate(cmd *cobra.Command, entry string, force bool) bool {
	opts, _ := pipelineOptions(cmd)
	in := &driver.Inputs{Vars: s.vars, Reads: s.reads}

	result, err := driver.ExecuteSource("repl", entry, in, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return false
	}
	if !force && result.SyntaxError != nil && result.SyntaxError.Found.Kind == token.EOF {
		return true
	}

	reportDiagnostics(cmd, result.Bag, result.FileSet)
	if result.SyntaxError != nil || len(result.Undefined) > 0 || result.Run == nil {
		if len(result.Undefined) > 0 {
			fmt.Fprintf(os.Stderr, "undefined: %s (assign first, or queue reads with :feed)\n",
				strings.Join(result.Undefined, ", "))
		}
		return false
	}

	for _, v := range result.Run.Output {
		fmt.Println(v)
	}
	for name, v := range result.Run.Variables {
		s.vars[name] = v
	}
	// queued reads feed exactly one entry
	s.reads = make(map[string][]interp.Value)
	return false
}

// command handles a colon directive; it reports whether to exit.
func (s *replSession) command(line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":exit", ":q":
		return true
	case ":reset":
		s.vars = make(map[string]interp.Value)
		s.reads = make(map[string][]interp.Value)
		fmt.Println("session cleared")
	case ":vars":
		if len(s.vars) == 0 {
			fmt.Println("no variables set")
			break
		}
		names := make([]string, 0, len(s.vars))
		for name := range s.vars {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %s = %s\n", name, s.vars[name])
		}
	case ":feed":
		if len(fields) < 3 {
			fmt.Fprintln(os.Stderr, "usage: :feed name value [value...]")
			break
		}
		name := fields[1]
		for _, raw := range fields[2:] {
			v, err := interp.ParseValue(raw)
			if err != nil {
				fmt.Fprintf(os.Stderr, "bad value %q: %v\n", raw, err)
				continue
			}
			s.reads[name] = append(s.reads[name], v)
		}
		fmt.Printf("%d value(s) queued for read %s\n", len(s.reads[name]), name)
	case ":help":
		fmt.Print(`commands:
  :vars              show carried variable values
  :feed name v...    queue values for the next entry's reads
  :reset             clear variables and read queues
  :quit              leave the repl
`)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %s (:help lists commands)\n", fields[0])
	}
	return false
}
