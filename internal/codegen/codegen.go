package codegen

import (
	"fmt"
	"strings"

	"toyc/internal/symbols"
	"toyc/internal/tac"
)

// UnsupportedError reports a TAC instruction outside this generator's
// capability. The target stage handles only straight-line arithmetic and
// assignment; control flow, I/O and comparison instructions are rejected
// rather than silently dropped.
type UnsupportedError struct {
	Index       int
	Instruction tac.Instruction
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("instruction %d not supported by code generation: %s",
		e.Index, e.Instruction)
}

// Generate lowers TAC to assembly. types maps normalized variable names to
// their inferred types; temporaries and literals carry their own typing
// (decimal point, (f) annotation).
func Generate(code []tac.Instruction, types map[string]symbols.Type) ([]Instruction, error) {
	g := &generator{
		types:     types,
		registers: make(map[string]string),
	}
	for i, in := range code {
		switch {
		case in.Op == tac.OpAssign:
			g.assign(in)
		case opMapInt[in.Op] != "":
			g.binaryOp(in)
		default:
			return nil, &UnsupportedError{Index: i, Instruction: in}
		}
	}
	return g.code, nil
}

type generator struct {
	types map[string]symbols.Type
	code  []Instruction
	// registers maps a temporary to the register currently holding it
	registers map[string]string
}

func (g *generator) emit(op string, operands ...string) {
	g.code = append(g.code, Instruction{Op: op, Operands: operands})
}

func (g *generator) inRegister(operand string) (string, bool) {
	reg, ok := g.registers[operand]
	return reg, ok
}

// isFloat decides the mnemonic variant for one operand: float literals by
// their decimal point, (f)-annotated operands by the annotation, variables
// by the type map.
func (g *generator) isFloat(operand string) bool {
	if operand == "" {
		return false
	}
	if tac.IsLiteral(operand) {
		return strings.Contains(operand, ".")
	}
	if strings.HasSuffix(operand, "(f)") {
		return true
	}
	return g.types[operand] == symbols.TypeFloat
}

// freeRegister picks a register not holding a live temporary, preferring R1.
func (g *generator) freeRegister() string {
	inR1, inR2 := false, false
	for _, reg := range g.registers {
		switch reg {
		case R1:
			inR1 = true
		case R2:
			inR2 = true
		}
	}
	if !inR1 {
		return R1
	}
	if !inR2 {
		return R2
	}
	return R1
}

func (g *generator) busy(reg string) bool {
	for _, r := range g.registers {
		if r == reg {
			return true
		}
	}
	return false
}

// assign lowers result = arg1. A literal stored to a variable needs no
// register; a temporary source is already in one; everything else goes
// through a load.
func (g *generator) assign(in tac.Instruction) {
	isFloat := g.isFloat(in.Arg1) || g.isFloat(in.Result)
	load := loadOp(isFloat)
	store := storeOp(isFloat)

	if tac.IsTemp(in.Result) {
		// temps stay in registers, no store
		if reg, ok := g.inRegister(in.Arg1); ok {
			g.registers[in.Result] = reg
			return
		}
		g.emit(load, R1, in.Arg1)
		g.registers[in.Result] = R1
		return
	}

	if reg, ok := g.inRegister(in.Arg1); ok {
		g.emit(store, in.Result, reg)
	} else if tac.IsLiteral(in.Arg1) {
		g.emit(store, in.Result, in.Arg1)
	} else {
		g.emit(load, R1, in.Arg1)
		g.emit(store, in.Result, R1)
	}
}

// binaryOp lowers result = arg1 op arg2. Operands already in registers are
// used in place; for commutative operators a leading literal is swapped
// into the immediate position to save a load.
func (g *generator) binaryOp(in tac.Instruction) {
	isFloat := g.isFloat(in.Arg1) || g.isFloat(in.Arg2) || g.isFloat(in.Result)
	load := loadOp(isFloat)
	store := storeOp(isFloat)
	arith := arithOp(in.Op, isFloat)

	reg1, arg1InReg := g.inRegister(in.Arg1)
	reg2, arg2InReg := g.inRegister(in.Arg2)
	resultReg := R1

	switch {
	case arg1InReg && arg2InReg:
		g.emit(arith, R1, reg1, reg2)

	case arg1InReg:
		if tac.IsLiteral(in.Arg2) {
			g.emit(arith, reg1, reg1, in.Arg2)
			resultReg = reg1
		} else {
			g.emit(load, R2, in.Arg2)
			g.emit(arith, reg1, reg1, R2)
			resultReg = reg1
		}

	case arg2InReg:
		if tac.IsLiteral(in.Arg1) && isCommutative(in.Op) {
			g.emit(arith, reg2, reg2, in.Arg1)
			resultReg = reg2
		} else if reg2 == R1 {
			g.emit(load, R2, in.Arg1)
			g.emit(arith, R1, R2, R1)
		} else {
			g.emit(load, R1, in.Arg1)
			g.emit(arith, R1, R1, reg2)
		}

	default:
		primary := g.freeRegister()
		secondary := R2
		if primary == R2 {
			secondary = R1
		}
		switch {
		case tac.IsLiteral(in.Arg1) && tac.IsLiteral(in.Arg2):
			g.emit(load, primary, in.Arg1)
			g.emit(arith, primary, primary, in.Arg2)
		case tac.IsLiteral(in.Arg1) && isCommutative(in.Op):
			// swap so the literal becomes the immediate operand
			g.emit(load, primary, in.Arg2)
			g.emit(arith, primary, primary, in.Arg1)
		case tac.IsLiteral(in.Arg2) || tac.IsLiteral(in.Arg1):
			g.emit(load, primary, in.Arg1)
			g.emit(arith, primary, primary, in.Arg2)
		default:
			if g.busy(secondary) {
				g.emit(load, primary, in.Arg1)
				g.emit(arith, primary, primary, in.Arg2)
			} else {
				g.emit(load, primary, in.Arg1)
				g.emit(load, secondary, in.Arg2)
				g.emit(arith, primary, primary, secondary)
			}
		}
		resultReg = primary
	}

	if tac.IsTemp(in.Result) {
		g.registers[in.Result] = resultReg
	} else {
		g.emit(store, in.Result, resultReg)
	}
}
