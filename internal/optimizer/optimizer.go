// Package optimizer shortens TAC sequences while preserving observable
// behavior: variable assignments and I/O order are untouched, only
// redundant temporaries and identity operations go away.
package optimizer

import (
	"fmt"
	"strconv"
	"strings"

	"toyc/internal/tac"
)

// maxIterations bounds the fixed-point loop; in practice the passes
// converge within two or three rounds.
const maxIterations = 10

// Optimize applies all passes to code until no pass shrinks the sequence,
// then renumbers temporaries for a dense temp1..tempN display. The input
// slice is never mutated.
func Optimize(code []tac.Instruction) ([]tac.Instruction, Stats) {
	o := &optimizer{}
	o.stats.OriginalCount = len(code)

	out := make([]tac.Instruction, len(code))
	copy(out, code)

	for i := 0; i < maxIterations; i++ {
		before := len(out)
		out = o.inlineInt2Float(out)
		out = o.eliminateSingleUseTemps(out)
		out = o.algebraicSimplification(out)
		out = o.copyPropagation(out)
		out = o.deadCodeElimination(out)
		if len(out) == before {
			break
		}
	}

	out = renumberTemps(out)
	o.stats.OptimizedCount = len(out)
	return out, o.stats
}

type optimizer struct {
	stats Stats
}

// inlineInt2Float removes int2float instructions entirely. A literal
// operand folds into a float literal (#5 becomes #5.0); a variable or
// temporary operand is annotated with (f) so later stages still see the
// conversion.
func (o *optimizer) inlineInt2Float(code []tac.Instruction) []tac.Instruction {
	out := code[:0:0]
	repl := make(map[string]string)

	for _, in := range code {
		if in.Op == tac.OpInt2Float && in.Arg1 != "" && in.Result != "" {
			repl[in.Result] = foldInt2Float(in.Arg1)
			o.stats.Int2FloatInlined++
			continue
		}
		out = append(out, applyReplacements(in, repl))
	}
	return out
}

func foldInt2Float(operand string) string {
	if tac.IsLiteral(operand) {
		if v, err := strconv.ParseInt(tac.LiteralValue(operand), 10, 64); err == nil {
			return fmt.Sprintf("#%d.0", v)
		}
		return operand // already a float literal
	}
	return operand + "(f)"
}

// eliminateSingleUseTemps fuses the pattern
//
//	tempN = <op>
//	x     = tempN
//
// into a single instruction writing x directly, when tempN has exactly that
// one use.
func (o *optimizer) eliminateSingleUseTemps(code []tac.Instruction) []tac.Instruction {
	uses := countUses(code)
	out := code[:0:0]

	for i := 0; i < len(code); i++ {
		in := code[i]
		if in.HasSideEffect() {
			out = append(out, in)
			continue
		}
		if tac.IsTemp(in.Result) && uses[in.Result] == 1 && i+1 < len(code) {
			next := code[i+1]
			if next.Op == tac.OpAssign && next.Arg1 == in.Result && next.Arg2 == "" {
				fused := in
				fused.Result = next.Result
				out = append(out, fused)
				o.stats.TempsEliminated++
				i++ // the assignment is consumed too
				continue
			}
		}
		out = append(out, in)
	}
	return out
}

// algebraicSimplification rewrites identity operations on literal operands
// into plain assignments: x+#0, #0+x, x-#0, x*#1, #1*x become x; x*#0 and
// #0*x become #0.
func (o *optimizer) algebraicSimplification(code []tac.Instruction) []tac.Instruction {
	out := code[:0:0]
	for _, in := range code {
		simplified, changed := simplify(in)
		if changed {
			o.stats.AlgebraicSimplifications++
		}
		out = append(out, simplified)
	}
	return out
}

func simplify(in tac.Instruction) (tac.Instruction, bool) {
	assignOf := func(src string) tac.Instruction {
		return tac.Instruction{Op: tac.OpAssign, Arg1: src, Result: in.Result}
	}
	switch in.Op {
	case "+":
		if in.Arg2 == "#0" {
			return assignOf(in.Arg1), true
		}
		if in.Arg1 == "#0" {
			return assignOf(in.Arg2), true
		}
	case "-":
		if in.Arg2 == "#0" {
			return assignOf(in.Arg1), true
		}
	case "*":
		if in.Arg2 == "#1" {
			return assignOf(in.Arg1), true
		}
		if in.Arg1 == "#1" {
			return assignOf(in.Arg2), true
		}
		if in.Arg1 == "#0" || in.Arg2 == "#0" {
			return assignOf("#0"), true
		}
	case "/":
		if in.Arg2 == "#1" {
			return assignOf(in.Arg1), true
		}
	}
	return in, false
}

// copyPropagation drops the pattern tempN = src and substitutes src at
// tempN's use sites. A copy is only dropped when every use of tempN sits
// before the next label, since the propagation map cannot cross a control
// flow boundary.
func (o *optimizer) copyPropagation(code []tac.Instruction) []tac.Instruction {
	uses := countUses(code)
	out := code[:0:0]
	copies := make(map[string]string)

	for i, in := range code {
		if in.Op == tac.OpLabel {
			clear(copies)
			out = append(out, in)
			continue
		}
		if in.Op == tac.OpAssign && in.Arg2 == "" && in.Arg1 != "" &&
			tac.IsTemp(in.Result) && !tac.IsLiteral(in.Arg1) &&
			usesBeforeNextLabel(code, i, in.Result) == uses[in.Result] {
			src := in.Arg1
			if v, ok := copies[src]; ok {
				src = v // chained copy
			}
			copies[in.Result] = src
			o.stats.CopiesPropagated++
			continue
		}
		out = append(out, applyReplacements(in, copies))
	}
	return out
}

// usesBeforeNextLabel counts uses of v strictly after index i and before
// the next label instruction.
func usesBeforeNextLabel(code []tac.Instruction, i int, v string) int {
	n := 0
	for _, in := range code[i+1:] {
		if in.Op == tac.OpLabel {
			break
		}
		if in.Arg1 == v {
			n++
		}
		if in.Arg2 == v {
			n++
		}
	}
	return n
}

// deadCodeElimination removes instructions whose result temporary is never
// read. Assignments to user variables are program outputs and always stay,
// as do labels, branches and I/O.
func (o *optimizer) deadCodeElimination(code []tac.Instruction) []tac.Instruction {
	uses := countUses(code)
	out := code[:0:0]

	for _, in := range code {
		if in.HasSideEffect() {
			out = append(out, in)
			continue
		}
		if tac.IsTemp(in.Result) && uses[in.Result] == 0 {
			o.stats.DeadCodeEliminated++
			continue
		}
		out = append(out, in)
	}
	return out
}

// renumberTemps renames temporaries densely (temp1, temp2, ...) in order
// of first appearance. Purely cosmetic; makes optimized listings stable.
func renumberTemps(code []tac.Instruction) []tac.Instruction {
	names := make(map[string]string)
	assign := func(v string) {
		if tac.IsTemp(bare(v)) {
			if _, ok := names[bare(v)]; !ok {
				names[bare(v)] = fmt.Sprintf("temp%d", len(names)+1)
			}
		}
	}
	for _, in := range code {
		assign(in.Result)
		assign(in.Arg1)
		assign(in.Arg2)
	}

	out := make([]tac.Instruction, 0, len(code))
	for _, in := range code {
		in.Result = rename(in.Result, names)
		in.Arg1 = rename(in.Arg1, names)
		in.Arg2 = rename(in.Arg2, names)
		out = append(out, in)
	}
	return out
}

// bare strips a (f) conversion annotation so annotated temps renumber
// consistently with their bare occurrences.
func bare(v string) string {
	return strings.TrimSuffix(v, "(f)")
}

func rename(v string, names map[string]string) string {
	b := bare(v)
	n, ok := names[b]
	if !ok {
		return v
	}
	if b != v {
		return n + "(f)"
	}
	return n
}

// countUses counts operand occurrences per variable; result positions are
// definitions, not uses.
func countUses(code []tac.Instruction) map[string]int {
	uses := make(map[string]int)
	for _, in := range code {
		if in.Arg1 != "" && !tac.IsLiteral(in.Arg1) {
			uses[in.Arg1]++
		}
		if in.Arg2 != "" && !tac.IsLiteral(in.Arg2) {
			uses[in.Arg2]++
		}
	}
	return uses
}

func applyReplacements(in tac.Instruction, repl map[string]string) tac.Instruction {
	if v, ok := repl[in.Arg1]; ok {
		in.Arg1 = v
	}
	if v, ok := repl[in.Arg2]; ok {
		in.Arg2 = v
	}
	return in
}
