package ast

import "toyc/internal/source"

// Number is an integer literal.
type Number struct {
	Value int64
	Sp    source.Span
}

// Float is a floating-point literal.
type Float struct {
	Value float64
	Sp    source.Span
}

// Identifier is a variable reference.
type Identifier struct {
	Name string
	Sp   source.Span
}

// BinaryOp is a binary operation. Op holds the operator's source spelling
// ("+", "<=", "&&", ...), which is also its TAC operation name.
type BinaryOp struct {
	Op    string
	Left  Node
	Right Node
	Sp    source.Span
}

// Int2Float is the synthetic coercion node wrapping an int-typed
// subexpression whose context requires a float. Only semantic analysis
// creates it; the parser never does.
type Int2Float struct {
	Child Node
	Sp    source.Span
}

func (n *Number) Span() source.Span     { return n.Sp }
func (n *Float) Span() source.Span      { return n.Sp }
func (n *Identifier) Span() source.Span { return n.Sp }
func (n *BinaryOp) Span() source.Span   { return n.Sp }
func (n *Int2Float) Span() source.Span  { return n.Sp }

func (*Number) node()     {}
func (*Float) node()      {}
func (*Identifier) node() {}
func (*BinaryOp) node()   {}
func (*Int2Float) node()  {}
