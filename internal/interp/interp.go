// Package interp evaluates an analyzed AST directly, without going through
// TAC. It annotates every node with its computed result, records the final
// variable environment and the ordered write output, and reports runtime
// errors per node: a failed expression aborts its containing statement but
// not the rest of the program.
package interp

import (
	"fmt"
	"math"

	"toyc/internal/ast"
	"toyc/internal/diag"
	"toyc/internal/trace"
)

// DefaultMaxIterations bounds repeat-until loops against runaway programs.
const DefaultMaxIterations = 1000

// Options configure one Execute call.
type Options struct {
	Reporter diag.Reporter
	Trace    *trace.Recorder
	// Inputs queues the values each read statement consumes, per original
	// identifier, in program order.
	Inputs map[string][]Value
	// Initial seeds variable values before execution, for free variables
	// that are used before any assignment.
	Initial map[string]Value
	// MaxIterations caps each repeat-until loop; 0 means
	// DefaultMaxIterations.
	MaxIterations int
}

// Annotation is the per-node execution record.
type Annotation struct {
	Result     Value
	HasResult  bool
	Err        string // runtime error text, empty when the node succeeded
	Branch     string // if statements: "then", "else" or "none"
	Iterations int    // repeat statements: how many times the body ran
}

// Result is the outcome of executing a whole program.
type Result struct {
	Annotations map[ast.Node]*Annotation
	Variables   map[string]Value // final value per touched variable
	Output      []Value          // write statements, in order
}

// Execute runs prog. The program must be free of parse errors; analysis
// must have run first so coercion nodes are in place.
func Execute(prog *ast.Program, opts Options) (*Result, error) {
	if errNode := ast.FirstError(prog); errNode != nil {
		return nil, fmt.Errorf("cannot execute a program with parse errors: %s", errNode.Message)
	}
	if opts.MaxIterations == 0 {
		opts.MaxIterations = DefaultMaxIterations
	}

	ex := &executor{
		opts:   opts,
		result: &Result{Annotations: make(map[ast.Node]*Annotation), Variables: make(map[string]Value)},
		inputs: make(map[string][]Value, len(opts.Inputs)),
	}
	for name, queue := range opts.Inputs {
		ex.inputs[name] = append([]Value(nil), queue...)
	}
	for name, v := range opts.Initial {
		ex.result.Variables[name] = v
	}

	for _, s := range prog.Statements {
		ex.statement(s)
	}
	return ex.result, nil
}

type executor struct {
	opts   Options
	result *Result
	inputs map[string][]Value
}

// runtimeErr aborts the containing statement.
type runtimeErr struct {
	code diag.Code
	msg  string
	node ast.Node
}

func (ex *executor) annotate(n ast.Node) *Annotation {
	a, ok := ex.result.Annotations[n]
	if !ok {
		a = &Annotation{}
		ex.result.Annotations[n] = a
	}
	return a
}

func (ex *executor) fail(n ast.Node, code diag.Code, msg string) *runtimeErr {
	a := ex.annotate(n)
	a.Err = msg
	if ex.opts.Reporter != nil {
		ex.opts.Reporter.Report(code, diag.SevError, n.Span(), msg)
	}
	return &runtimeErr{code: code, msg: msg, node: n}
}

func (ex *executor) statement(n ast.Node) {
	switch n := n.(type) {
	case *ast.Assignment:
		v, err := ex.expression(n.Value)
		if err != nil {
			ex.annotate(n).Err = err.msg
			return
		}
		ex.result.Variables[n.Name] = v
		ex.setResult(n, v)
		ex.step(fmt.Sprintf("Assigned %s = %s", n.Name, v), "Assignment", v.String())

	case *ast.Block:
		for _, s := range n.Statements {
			ex.statement(s)
		}

	case *ast.If:
		ex.ifStatement(n)

	case *ast.RepeatUntil:
		ex.repeatStatement(n)

	case *ast.Read:
		queue := ex.inputs[n.Name]
		if len(queue) == 0 {
			ex.fail(n, diag.RunMissingInput,
				fmt.Sprintf("no input value supplied for read %s", n.Name))
			return
		}
		v := queue[0]
		ex.inputs[n.Name] = queue[1:]
		ex.result.Variables[n.Name] = v
		ex.setResult(n, v)
		ex.step(fmt.Sprintf("Read %s = %s", n.Name, v), "Read", v.String())

	case *ast.Write:
		v, err := ex.expression(n.Expr)
		if err != nil {
			ex.annotate(n).Err = err.msg
			return
		}
		ex.result.Output = append(ex.result.Output, v)
		ex.setResult(n, v)
		ex.step(fmt.Sprintf("Write output: %s", v), "Write", v.String())

	default:
		panic(fmt.Sprintf("interp: unknown statement variant %T", n))
	}
}

func (ex *executor) ifStatement(n *ast.If) {
	cond, err := ex.expression(n.Cond)
	if err != nil {
		ex.annotate(n).Err = err.msg
		return
	}
	taken := cond.Truthy()
	ex.step(fmt.Sprintf("If condition evaluated to %v", taken), "If", cond.String())

	a := ex.annotate(n)
	a.Result = boolValue(taken)
	a.HasResult = true
	switch {
	case taken:
		a.Branch = "then"
		ex.statement(n.Then)
	case n.Else != nil:
		a.Branch = "else"
		ex.statement(n.Else)
	default:
		a.Branch = "none"
	}
}

func (ex *executor) repeatStatement(n *ast.RepeatUntil) {
	iterations := 0
	for {
		if iterations >= ex.opts.MaxIterations {
			ex.fail(n, diag.RunIterationOverflow,
				fmt.Sprintf("repeat-until exceeded %d iterations", ex.opts.MaxIterations))
			break
		}
		ex.statement(n.Body)
		iterations++

		cond, err := ex.expression(n.Cond)
		if err != nil {
			ex.annotate(n).Err = err.msg
			break
		}
		if cond.Truthy() {
			break
		}
	}
	a := ex.annotate(n)
	a.Iterations = iterations
	a.Result = IntValue(int64(iterations))
	a.HasResult = true
	ex.step(fmt.Sprintf("Repeat-until completed after %d iterations", iterations),
		"RepeatUntil", fmt.Sprint(iterations))
}

func (ex *executor) setResult(n ast.Node, v Value) {
	a := ex.annotate(n)
	a.Result = v
	a.HasResult = true
}

// expression evaluates left then right, matching the TAC generator's order.
func (ex *executor) expression(n ast.Node) (Value, *runtimeErr) {
	switch n := n.(type) {
	case *ast.Number:
		v := IntValue(n.Value)
		ex.setResult(n, v)
		ex.step(fmt.Sprintf("Evaluated number: %s", v), "Number", v.String())
		return v, nil

	case *ast.Float:
		v := FloatValue(n.Value)
		ex.setResult(n, v)
		ex.step(fmt.Sprintf("Evaluated float: %s", v), "Float", v.String())
		return v, nil

	case *ast.Identifier:
		v, ok := ex.result.Variables[n.Name]
		if !ok {
			v = IntValue(0)
		}
		ex.setResult(n, v)
		ex.step(fmt.Sprintf("Looked up %s: %s", n.Name, v), "Identifier", v.String())
		return v, nil

	case *ast.Int2Float:
		child, err := ex.expression(n.Child)
		if err != nil {
			return Value{}, err
		}
		v := FloatValue(child.Float64())
		ex.setResult(n, v)
		ex.step(fmt.Sprintf("Converted %s to float: %s", child, v), "Int2Float", v.String())
		return v, nil

	case *ast.BinaryOp:
		return ex.binaryOp(n)

	default:
		panic(fmt.Sprintf("interp: unknown expression variant %T", n))
	}
}

func (ex *executor) binaryOp(n *ast.BinaryOp) (Value, *runtimeErr) {
	left, err := ex.expression(n.Left)
	if err != nil {
		return Value{}, err
	}
	right, err := ex.expression(n.Right)
	if err != nil {
		return Value{}, err
	}

	v, rerr := ex.apply(n, n.Op, left, right)
	if rerr != nil {
		return Value{}, rerr
	}
	ex.setResult(n, v)
	ex.step(fmt.Sprintf("Computed %s %s %s = %s", left, n.Op, right, v), "BinaryOp", v.String())
	return v, nil
}

// apply computes one operator over two values. Mixed int/float operands do
// not occur here: analysis inserts Int2Float nodes, so both sides agree on
// a tag for arithmetic. Comparisons and logical operators yield 0 or 1;
// the language has no boolean type.
func (ex *executor) apply(n ast.Node, op string, left, right Value) (Value, *runtimeErr) {
	float := left.IsFloat() || right.IsFloat()
	switch op {
	case "+":
		if float {
			return FloatValue(left.Float64() + right.Float64()), nil
		}
		return IntValue(left.I + right.I), nil
	case "-":
		if float {
			return FloatValue(left.Float64() - right.Float64()), nil
		}
		return IntValue(left.I - right.I), nil
	case "*":
		if float {
			return FloatValue(left.Float64() * right.Float64()), nil
		}
		return IntValue(left.I * right.I), nil
	case "/":
		if !right.Truthy() {
			return Value{}, ex.fail(n, diag.RunDivisionByZero, "division by zero")
		}
		if float {
			return FloatValue(left.Float64() / right.Float64()), nil
		}
		return IntValue(left.I / right.I), nil
	case "%":
		if !right.Truthy() {
			return Value{}, ex.fail(n, diag.RunModuloByZero, "modulo by zero")
		}
		if float {
			return FloatValue(math.Mod(left.Float64(), right.Float64())), nil
		}
		return IntValue(left.I % right.I), nil
	case "<":
		if float {
			return boolValue(left.Float64() < right.Float64()), nil
		}
		return boolValue(left.I < right.I), nil
	case ">":
		if float {
			return boolValue(left.Float64() > right.Float64()), nil
		}
		return boolValue(left.I > right.I), nil
	case "<=":
		if float {
			return boolValue(left.Float64() <= right.Float64()), nil
		}
		return boolValue(left.I <= right.I), nil
	case ">=":
		if float {
			return boolValue(left.Float64() >= right.Float64()), nil
		}
		return boolValue(left.I >= right.I), nil
	case "==":
		if float {
			return boolValue(left.Float64() == right.Float64()), nil
		}
		return boolValue(left.I == right.I), nil
	case "!=":
		if float {
			return boolValue(left.Float64() != right.Float64()), nil
		}
		return boolValue(left.I != right.I), nil
	case "&&":
		return boolValue(left.Truthy() && right.Truthy()), nil
	case "||":
		return boolValue(left.Truthy() || right.Truthy()), nil
	default:
		panic(fmt.Sprintf("interp: unknown operator %q", op))
	}
}

func (ex *executor) step(description, nodeType, result string) {
	if !ex.opts.Trace.Enabled() {
		return
	}
	ex.opts.Trace.Step(trace.PhaseExecution, description, map[string]string{
		"node_type": nodeType,
		"result":    result,
		"action":    "execute",
	})
}
