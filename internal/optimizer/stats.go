package optimizer

// Stats counts what each pass did, plus overall instruction totals.
type Stats struct {
	OriginalCount            int `json:"original_instruction_count"`
	OptimizedCount           int `json:"optimized_instruction_count"`
	Int2FloatInlined         int `json:"int2float_inlined"`
	TempsEliminated          int `json:"temps_eliminated"`
	CopiesPropagated         int `json:"copies_propagated"`
	AlgebraicSimplifications int `json:"algebraic_simplifications"`
	DeadCodeEliminated       int `json:"dead_code_eliminated"`
}

// InstructionsSaved is the net reduction in instruction count.
func (s Stats) InstructionsSaved() int {
	return s.OriginalCount - s.OptimizedCount
}

// ReductionPercent is the saved fraction as a percentage of the original
// count, 0 for an empty input.
func (s Stats) ReductionPercent() float64 {
	if s.OriginalCount == 0 {
		return 0
	}
	return float64(s.InstructionsSaved()) / float64(s.OriginalCount) * 100
}
