// Package sema resolves variable types, inserts int→float coercion nodes and
// builds the symbol table. Analysis never mutates its input: every statement
// and expression is rebuilt into a fresh tree, with Int2Float wrappers added
// where an int operand meets a float operand.
package sema

import (
	"fmt"
	"sort"
	"strings"

	"toyc/internal/ast"
	"toyc/internal/diag"
	"toyc/internal/symbols"
	"toyc/internal/trace"
)

// Options configure one Analyze call.
type Options struct {
	Reporter diag.Reporter
	Trace    *trace.Recorder
	// Declarations seed variable types that cannot be inferred from the
	// program text: undefined variables and read targets. Keys are original
	// identifier spellings.
	Declarations map[string]symbols.Type
}

// Result is the output of a successful analysis.
type Result struct {
	Program *ast.Program
	Symbols *symbols.SymbolTable
}

// UndefinedError reports variables used before definition. The caller must
// supply a declaration (or a value) per name and re-run Analyze.
type UndefinedError struct {
	Names []string // order of first use
}

func (e *UndefinedError) Error() string {
	return "undefined variables: " + strings.Join(e.Names, ", ")
}

// Analyze checks prog and returns a new coercion-annotated tree plus the
// finalized symbol table. norms is the shared identifier-normalization
// table built during lexing. Analysis fails with *UndefinedError when a
// variable is used before definition and no declaration covers it.
func Analyze(prog *ast.Program, norms *symbols.NormTable, opts Options) (*Result, error) {
	if err := ast.FirstError(prog); err != nil {
		return nil, fmt.Errorf("cannot analyze a program with parse errors: %s", err.Message)
	}

	var missing []string
	for _, use := range FindUndefinedUses(prog) {
		if _, ok := opts.Declarations[use.Name]; ok {
			continue
		}
		missing = append(missing, use.Name)
		if opts.Reporter != nil {
			opts.Reporter.Report(diag.SemaUndefinedVariable, diag.SevError, use.Sp,
				fmt.Sprintf("variable %q is used before it is assigned or read", use.Name))
		}
	}
	if len(missing) > 0 {
		return nil, &UndefinedError{Names: missing}
	}

	a := &analyzer{
		table: symbols.NewSymbolTable(norms),
		opts:  opts,
	}
	a.step("start_analysis", map[string]string{
		"statements": fmt.Sprint(len(prog.Statements)),
	})

	// Seed caller-supplied declarations in a deterministic order.
	seeded := make([]string, 0, len(opts.Declarations))
	for name := range opts.Declarations {
		seeded = append(seeded, name)
	}
	sort.Strings(seeded)
	for _, name := range seeded {
		a.table.Declare(name, opts.Declarations[name])
	}

	stmts := make([]ast.Node, 0, len(prog.Statements))
	for _, s := range prog.Statements {
		stmts = append(stmts, a.statement(s))
	}

	a.step("complete_analysis", map[string]string{
		"variables": strings.Join(a.table.Names(), ", "),
	})
	return &Result{
		Program: &ast.Program{Statements: stmts, Sp: prog.Sp},
		Symbols: a.table,
	}, nil
}

type analyzer struct {
	table *symbols.SymbolTable
	opts  Options
}

func (a *analyzer) statement(n ast.Node) ast.Node {
	a.step("analyze_statement", map[string]string{"node": nodeName(n)})

	switch n := n.(type) {
	case *ast.Assignment:
		value := a.expression(n.Value)
		typ := a.typeOf(value)
		entry := a.table.Declare(n.Name, typ)
		a.step("update_symbol_table", map[string]string{
			"variable": n.Name,
			"type":     entry.Type.String(),
		})
		return &ast.Assignment{Name: n.Name, Value: value, Sp: n.Sp}

	case *ast.If:
		cond := a.expression(n.Cond)
		then := a.block(n.Then)
		var elseBlock *ast.Block
		if n.Else != nil {
			elseBlock = a.block(n.Else)
		}
		return &ast.If{Cond: cond, Then: then, Else: elseBlock, Sp: n.Sp}

	case *ast.RepeatUntil:
		body := a.block(n.Body)
		cond := a.expression(n.Cond)
		return &ast.RepeatUntil{Body: body, Cond: cond, Sp: n.Sp}

	case *ast.Read:
		entry := a.table.Declare(n.Name, symbols.TypeUnknown)
		if entry.Type == symbols.TypeUnknown && a.opts.Reporter != nil {
			a.opts.Reporter.Report(diag.SemaReadUntypedVar, diag.SevError, n.Sp,
				fmt.Sprintf("type of %q is unknown: read targets need a declaration", n.Name))
		}
		return &ast.Read{Name: n.Name, Sp: n.Sp}

	case *ast.Write:
		return &ast.Write{Expr: a.expression(n.Expr), Sp: n.Sp}

	default:
		panic(fmt.Sprintf("sema: unknown statement variant %T", n))
	}
}

func (a *analyzer) block(b *ast.Block) *ast.Block {
	stmts := make([]ast.Node, 0, len(b.Statements))
	for _, s := range b.Statements {
		stmts = append(stmts, a.statement(s))
	}
	return &ast.Block{Statements: stmts, Sp: b.Sp}
}

func (a *analyzer) expression(n ast.Node) ast.Node {
	switch n := n.(type) {
	case *ast.BinaryOp:
		return a.binaryOp(n)
	case *ast.Number, *ast.Float, *ast.Identifier:
		return n
	default:
		panic(fmt.Sprintf("sema: unknown expression variant %T", n))
	}
}

// binaryOp rebuilds the node, wrapping the int-typed side in Int2Float when
// the two sides disagree. Float always dominates; comparisons and logical
// operators follow the same rule since their results stay numeric.
func (a *analyzer) binaryOp(n *ast.BinaryOp) ast.Node {
	left := a.expression(n.Left)
	right := a.expression(n.Right)

	lt := a.typeOf(left)
	rt := a.typeOf(right)
	a.step("check_operand_types", map[string]string{
		"operator": n.Op,
		"left":     lt.String(),
		"right":    rt.String(),
	})

	switch {
	case lt == symbols.TypeFloat && rt == symbols.TypeInt:
		a.step("coercion_needed", map[string]string{"side": "right"})
		right = a.coerce(right)
	case lt == symbols.TypeInt && rt == symbols.TypeFloat:
		a.step("coercion_needed", map[string]string{"side": "left"})
		left = a.coerce(left)
	default:
		a.step("no_coercion", map[string]string{"operator": n.Op})
	}

	return &ast.BinaryOp{Op: n.Op, Left: left, Right: right, Sp: n.Sp}
}

func (a *analyzer) coerce(n ast.Node) ast.Node {
	a.step("create_coercion_node", map[string]string{"child": nodeName(n)})
	return &ast.Int2Float{Child: n, Sp: n.Span()}
}

// typeOf computes the static type of an analyzed expression.
func (a *analyzer) typeOf(n ast.Node) symbols.Type {
	switch n := n.(type) {
	case *ast.Number:
		return symbols.TypeInt
	case *ast.Float, *ast.Int2Float:
		return symbols.TypeFloat
	case *ast.Identifier:
		if e, ok := a.table.Lookup(n.Name); ok {
			return e.Type
		}
		return symbols.TypeUnknown
	case *ast.BinaryOp:
		lt := a.typeOf(n.Left)
		rt := a.typeOf(n.Right)
		switch {
		case lt == symbols.TypeFloat || rt == symbols.TypeFloat:
			return symbols.TypeFloat
		case lt == symbols.TypeInt && rt == symbols.TypeInt:
			return symbols.TypeInt
		default:
			return symbols.TypeUnknown
		}
	default:
		return symbols.TypeUnknown
	}
}

func (a *analyzer) step(action string, state map[string]string) {
	if !a.opts.Trace.Enabled() {
		return
	}
	if state == nil {
		state = map[string]string{}
	}
	state["action"] = action
	a.opts.Trace.Step(trace.PhaseSemantic, action, state)
}

func nodeName(n ast.Node) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast.")
}
