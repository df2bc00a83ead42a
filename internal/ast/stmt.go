package ast

import "toyc/internal/source"

// Assignment is `name := value ;`.
type Assignment struct {
	Name  string
	Value Node
	Sp    source.Span
}

// If is `if ( cond ) then ... [else ...] end`. Else is nil when absent.
type If struct {
	Cond Node
	Then *Block
	Else *Block
	Sp   source.Span
}

// RepeatUntil is `repeat ... until cond ;`. The body runs at least once and
// the loop exits when cond becomes true.
type RepeatUntil struct {
	Body *Block
	Cond Node
	Sp   source.Span
}

// Read is `read name ;`.
type Read struct {
	Name string
	Sp   source.Span
}

// Write is `write expr ;`.
type Write struct {
	Expr Node
	Sp   source.Span
}

func (n *Assignment) Span() source.Span  { return n.Sp }
func (n *If) Span() source.Span          { return n.Sp }
func (n *RepeatUntil) Span() source.Span { return n.Sp }
func (n *Read) Span() source.Span        { return n.Sp }
func (n *Write) Span() source.Span       { return n.Sp }

func (*Assignment) node()  {}
func (*If) node()          {}
func (*RepeatUntil) node() {}
func (*Read) node()        {}
func (*Write) node()       {}
