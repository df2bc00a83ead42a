package tac

import (
	"fmt"
	"strconv"

	"toyc/internal/ast"
	"toyc/internal/symbols"
)

// Result carries the generated sequence and how many temporaries and labels
// it allocated.
type Result struct {
	Instructions []Instruction
	Temps        int
	Labels       int
}

// Generate linearizes an analyzed program into TAC. Identifiers are emitted
// under their normalized names from norms; expression evaluation is strictly
// left operand then right operand. Counters live on the generator, so
// repeated calls are independent and temp/label numbering always restarts
// at 1.
func Generate(prog *ast.Program, norms *symbols.NormTable) (*Result, error) {
	if errNode := ast.FirstError(prog); errNode != nil {
		return nil, fmt.Errorf("cannot generate code for a program with parse errors: %s", errNode.Message)
	}
	g := &generator{norms: norms}
	for _, s := range prog.Statements {
		g.statement(s)
	}
	return &Result{Instructions: g.code, Temps: g.temps, Labels: g.labels}, nil
}

type generator struct {
	norms  *symbols.NormTable
	code   []Instruction
	temps  int
	labels int
}

func (g *generator) newTemp() string {
	g.temps++
	return fmt.Sprintf("temp%d", g.temps)
}

func (g *generator) newLabel() string {
	g.labels++
	return fmt.Sprintf("L%d", g.labels)
}

func (g *generator) emit(in Instruction) {
	g.code = append(g.code, in)
}

func (g *generator) ident(name string) string {
	return g.norms.Intern(name)
}

func (g *generator) statement(n ast.Node) {
	switch n := n.(type) {
	case *ast.Assignment:
		value := g.expression(n.Value)
		g.emit(Instruction{Op: OpAssign, Arg1: value, Result: g.ident(n.Name)})

	case *ast.Block:
		for _, s := range n.Statements {
			g.statement(s)
		}

	case *ast.If:
		g.ifStatement(n)

	case *ast.RepeatUntil:
		// label L: body; cond; if_false cond goto L
		// the loop re-runs while the condition is still false
		start := g.newLabel()
		g.emit(Instruction{Op: OpLabel, Label: start})
		g.statement(n.Body)
		cond := g.expression(n.Cond)
		g.emit(Instruction{Op: OpIfFalse, Arg1: cond, Arg2: start})

	case *ast.Read:
		g.emit(Instruction{Op: OpRead, Arg1: g.ident(n.Name)})

	case *ast.Write:
		value := g.expression(n.Expr)
		g.emit(Instruction{Op: OpWrite, Arg1: value})

	default:
		panic(fmt.Sprintf("tac: unknown statement variant %T", n))
	}
}

// ifStatement lowers to:
//
//	if_false cond goto L_else
//	<then>
//	goto L_end        (only when an else branch exists)
//	label L_else:
//	<else>
//	label L_end:      (only when an else branch exists)
func (g *generator) ifStatement(n *ast.If) {
	cond := g.expression(n.Cond)
	elseLabel := g.newLabel()
	endLabel := ""
	if n.Else != nil {
		endLabel = g.newLabel()
	}

	g.emit(Instruction{Op: OpIfFalse, Arg1: cond, Arg2: elseLabel})
	g.statement(n.Then)
	if n.Else != nil {
		g.emit(Instruction{Op: OpGoto, Arg1: endLabel})
	}
	g.emit(Instruction{Op: OpLabel, Label: elseLabel})
	if n.Else != nil {
		g.statement(n.Else)
		g.emit(Instruction{Op: OpLabel, Label: endLabel})
	}
}

// expression emits code for n and returns its result location: a #literal,
// a normalized identifier, or a fresh temporary.
func (g *generator) expression(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Number:
		return "#" + strconv.FormatInt(n.Value, 10)

	case *ast.Float:
		return "#" + ast.FormatFloat(n.Value)

	case *ast.Identifier:
		return g.ident(n.Name)

	case *ast.BinaryOp:
		left := g.expression(n.Left)
		right := g.expression(n.Right)
		temp := g.newTemp()
		g.emit(Instruction{Op: n.Op, Arg1: left, Arg2: right, Result: temp})
		return temp

	case *ast.Int2Float:
		child := g.expression(n.Child)
		temp := g.newTemp()
		g.emit(Instruction{Op: OpInt2Float, Arg1: child, Result: temp})
		return temp

	default:
		panic(fmt.Sprintf("tac: unknown expression variant %T", n))
	}
}
