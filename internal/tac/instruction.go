// Package tac defines three-address code instructions and the generator
// that linearizes an analyzed AST into them. An instruction has at most two
// source operands and one destination; instruction order defines evaluation
// and control order.
package tac

import "fmt"

// Non-arithmetic operations. Arithmetic, comparison and logical instructions
// carry their source operator spelling ("+", "<=", "&&", ...) as Op.
const (
	OpAssign    = "assign"
	OpInt2Float = "int2float"
	OpLabel     = "label"
	OpGoto      = "goto"
	OpIfFalse   = "if_false"
	OpIfTrue    = "if_true"
	OpRead      = "read"
	OpWrite     = "write"
)

// Instruction is one TAC instruction. Operands are rendered strings: a
// literal carries a leading '#', a temporary is tempN, a variable is its
// normalized name. Label instructions use the Label field; branches name
// their target in Arg2 (if_false/if_true) or Arg1 (goto).
type Instruction struct {
	Op     string
	Arg1   string
	Arg2   string
	Result string
	Label  string
}

// String renders the instruction in the canonical display form, e.g.
// "temp1 = id1 >= #3" or "if_false temp1 goto L1".
func (in Instruction) String() string {
	switch in.Op {
	case OpLabel:
		return fmt.Sprintf("label %s:", in.Label)
	case OpGoto:
		return fmt.Sprintf("goto %s", in.Arg1)
	case OpIfFalse:
		return fmt.Sprintf("if_false %s goto %s", in.Arg1, in.Arg2)
	case OpIfTrue:
		return fmt.Sprintf("if_true %s goto %s", in.Arg1, in.Arg2)
	case OpAssign:
		return fmt.Sprintf("%s = %s", in.Result, in.Arg1)
	case OpRead:
		return fmt.Sprintf("read %s", in.Arg1)
	case OpWrite:
		return fmt.Sprintf("write %s", in.Arg1)
	case OpInt2Float:
		return fmt.Sprintf("%s = int2float(%s)", in.Result, in.Arg1)
	default:
		if in.Arg2 == "" {
			return fmt.Sprintf("%s = %s %s", in.Result, in.Op, in.Arg1)
		}
		return fmt.Sprintf("%s = %s %s %s", in.Result, in.Arg1, in.Op, in.Arg2)
	}
}

// IsBinary reports whether the instruction applies a binary operator.
func (in Instruction) IsBinary() bool {
	switch in.Op {
	case OpAssign, OpInt2Float, OpLabel, OpGoto, OpIfFalse, OpIfTrue, OpRead, OpWrite:
		return false
	default:
		return true
	}
}

// HasSideEffect reports whether removing the instruction could change
// observable behavior regardless of who reads its result.
func (in Instruction) HasSideEffect() bool {
	switch in.Op {
	case OpRead, OpWrite, OpLabel, OpGoto, OpIfFalse, OpIfTrue:
		return true
	default:
		return false
	}
}

// Render formats a whole instruction sequence one per line.
func Render(code []Instruction) []string {
	out := make([]string, len(code))
	for i, in := range code {
		out[i] = in.String()
	}
	return out
}
