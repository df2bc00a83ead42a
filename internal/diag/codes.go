package diag

import "fmt"

// Code identifies a diagnostic kind. Codes are stable across releases; the
// numeric bands mirror the pipeline stages.
type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexUnknownChar              Code = 1001
	LexUnterminatedBlockComment Code = 1002
	LexMalformedNumber          Code = 1003

	// Syntax
	SynUnexpectedToken  Code = 2001
	SynUnexpectedEOF    Code = 2002
	SynExpectExpression Code = 2003

	// Semantic
	SemaUndefinedVariable Code = 3001
	SemaReadUntypedVar    Code = 3002

	// Code generation
	GenUnsupportedInstruction Code = 4001

	// Direct execution
	RunDivisionByZero    Code = 5001
	RunModuloByZero      Code = 5002
	RunMissingInput      Code = 5003
	RunIterationOverflow Code = 5004
)

var codeIDs = map[Code]string{
	UnknownCode:                 "TOY0000",
	LexUnknownChar:              "LEX1001",
	LexUnterminatedBlockComment: "LEX1002",
	LexMalformedNumber:          "LEX1003",
	SynUnexpectedToken:          "SYN2001",
	SynUnexpectedEOF:            "SYN2002",
	SynExpectExpression:         "SYN2003",
	SemaUndefinedVariable:       "SEM3001",
	SemaReadUntypedVar:          "SEM3002",
	GenUnsupportedInstruction:   "GEN4001",
	RunDivisionByZero:           "RUN5001",
	RunModuloByZero:             "RUN5002",
	RunMissingInput:             "RUN5003",
	RunIterationOverflow:        "RUN5004",
}

// ID returns the stable short identifier printed in diagnostics.
func (c Code) ID() string {
	if id, ok := codeIDs[c]; ok {
		return id
	}
	return fmt.Sprintf("TOY%04d", uint16(c))
}

func (c Code) String() string { return c.ID() }
