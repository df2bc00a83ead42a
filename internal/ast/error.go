package ast

import (
	"strings"

	"toyc/internal/source"
	"toyc/internal/token"
)

// Error is a parse failure represented as data. It records what the parser
// expected, what it found, and the surrounding source slice. An Error node
// halts parsing of its enclosing construct and propagates to the root; no
// recovery is attempted past it.
type Error struct {
	Message  string
	Expected []token.Kind
	Found    token.Token
	Context  string
	Sp       source.Span
}

func (n *Error) Span() source.Span { return n.Sp }
func (*Error) node()               {}

// ExpectedList renders the expected-kind set for messages.
func (n *Error) ExpectedList() string {
	if len(n.Expected) == 0 {
		return ""
	}
	parts := make([]string, len(n.Expected))
	for i, k := range n.Expected {
		parts[i] = k.String()
	}
	return strings.Join(parts, ", ")
}

// FirstError returns the first Error node in the tree, or nil. Statement
// order is tree order, which matches source order.
func FirstError(root Node) *Error {
	if root == nil {
		return nil
	}
	switch n := root.(type) {
	case *Error:
		return n
	case *Program:
		for _, s := range n.Statements {
			if e := FirstError(s); e != nil {
				return e
			}
		}
	case *Block:
		for _, s := range n.Statements {
			if e := FirstError(s); e != nil {
				return e
			}
		}
	case *Assignment:
		return FirstError(n.Value)
	case *BinaryOp:
		if e := FirstError(n.Left); e != nil {
			return e
		}
		return FirstError(n.Right)
	case *Int2Float:
		return FirstError(n.Child)
	case *If:
		if e := FirstError(n.Cond); e != nil {
			return e
		}
		if e := FirstError(n.Then); e != nil {
			return e
		}
		if n.Else != nil {
			return FirstError(n.Else)
		}
	case *RepeatUntil:
		if e := FirstError(n.Body); e != nil {
			return e
		}
		return FirstError(n.Cond)
	case *Write:
		return FirstError(n.Expr)
	case *Number, *Float, *Identifier, *Read:
		return nil
	}
	return nil
}
