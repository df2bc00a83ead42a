package trace

// Phase tags the pipeline stage a step belongs to.
type Phase uint8

const (
	// PhaseLexing covers token scanning steps.
	PhaseLexing Phase = iota + 1
	// PhaseParsing covers grammar rule steps.
	PhaseParsing
	// PhaseSemantic covers semantic analysis steps.
	PhaseSemantic
	// PhaseExecution covers direct-execution steps.
	PhaseExecution
)

func (p Phase) String() string {
	switch p {
	case PhaseLexing:
		return "lexing"
	case PhaseParsing:
		return "parsing"
	case PhaseSemantic:
		return "semantic-analysis"
	case PhaseExecution:
		return "direct-execution"
	default:
		return "unknown"
	}
}

// Step is a single observational record of a pipeline stage's state. Steps
// are append-only: ids increase monotonically within one run, starting at 0,
// and a step is never mutated after emission. Each record is self-describing
// so viewers can replay or seek into the sequence.
type Step struct {
	Phase       Phase             `json:"-"`
	PhaseTag    string            `json:"phase"`
	ID          int               `json:"step_id"`
	Pos         *int              `json:"position"` // byte offset, nil when not tied to source
	Description string            `json:"description"`
	State       map[string]string `json:"state"`
}
