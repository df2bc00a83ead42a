// Package codegen lowers straight-line arithmetic TAC to an assembly-like
// listing for a machine with two symbolic registers, R1 and R2. Temporaries
// live in registers and are never stored; only assignments to program
// variables produce stores.
package codegen

import "strings"

// Register names of the target machine.
const (
	R1 = "R1"
	R2 = "R2"
)

// Integer and float mnemonic variants per TAC operator.
var (
	opMapInt = map[string]string{
		"+": "ADD", "-": "SUB", "*": "MUL", "/": "DIV", "%": "MOD",
	}
	opMapFloat = map[string]string{
		"+": "ADDF", "-": "SUBF", "*": "MULF", "/": "DIVF", "%": "MODF",
	}
)

// Instruction is one assembly instruction: a mnemonic and its operands,
// destination first.
type Instruction struct {
	Op       string
	Operands []string
}

func (in Instruction) String() string {
	return in.Op + " " + strings.Join(in.Operands, ", ")
}

// Render formats a listing one instruction per line.
func Render(code []Instruction) []string {
	out := make([]string, len(code))
	for i, in := range code {
		out[i] = in.String()
	}
	return out
}

func loadOp(isFloat bool) string {
	if isFloat {
		return "LOADF"
	}
	return "LOAD"
}

func storeOp(isFloat bool) string {
	if isFloat {
		return "STRF"
	}
	return "STR"
}

func arithOp(tacOp string, isFloat bool) string {
	if isFloat {
		return opMapFloat[tacOp]
	}
	return opMapInt[tacOp]
}

func isCommutative(tacOp string) bool {
	return tacOp == "+" || tacOp == "*"
}
