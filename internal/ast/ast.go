// Package ast defines the toyc syntax tree. The variant set is closed:
// every stage dispatches over it with an exhaustive type switch and treats
// an unknown variant as a programming error. Trees are immutable once a
// stage has produced them; later stages build new trees instead of mutating
// in place.
package ast

import "toyc/internal/source"

// Node is implemented by every AST variant.
type Node interface {
	Span() source.Span
	node()
}

// Program is the root node holding the top-level statement list.
type Program struct {
	Statements []Node
	Sp         source.Span
}

// Block is a statement list inside if/else/repeat bodies.
type Block struct {
	Statements []Node
	Sp         source.Span
}

func (n *Program) Span() source.Span { return n.Sp }
func (n *Block) Span() source.Span   { return n.Sp }

func (*Program) node() {}
func (*Block) node()   {}
