package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders a tree back to parseable source text. The output uses one
// canonical formatting (single spaces, one statement per line), so
// parse(Print(parse(s))) is structurally identical to parse(s) for valid
// programs.
func Print(root Node) string {
	var b strings.Builder
	printNode(&b, root, 0)
	return b.String()
}

func printNode(b *strings.Builder, n Node, depth int) {
	switch n := n.(type) {
	case *Program:
		for _, s := range n.Statements {
			printNode(b, s, depth)
		}
	case *Block:
		for _, s := range n.Statements {
			printNode(b, s, depth)
		}
	case *Assignment:
		indent(b, depth)
		b.WriteString(n.Name + " := " + ExprString(n.Value) + ";\n")
	case *If:
		indent(b, depth)
		b.WriteString("if (" + ExprString(n.Cond) + ") then\n")
		printNode(b, n.Then, depth+1)
		if n.Else != nil {
			indent(b, depth)
			b.WriteString("else\n")
			printNode(b, n.Else, depth+1)
		}
		indent(b, depth)
		b.WriteString("end\n")
	case *RepeatUntil:
		indent(b, depth)
		b.WriteString("repeat\n")
		printNode(b, n.Body, depth+1)
		indent(b, depth)
		b.WriteString("until " + ExprString(n.Cond) + ";\n")
	case *Read:
		indent(b, depth)
		b.WriteString("read " + n.Name + ";\n")
	case *Write:
		indent(b, depth)
		b.WriteString("write " + ExprString(n.Expr) + ";\n")
	case *Error:
		indent(b, depth)
		b.WriteString("%% parse error: " + n.Message + "\n")
	default:
		panic(fmt.Sprintf("ast: unknown statement variant %T", n))
	}
}

// ExprString renders an expression fully parenthesized except at the leaves.
func ExprString(n Node) string {
	switch n := n.(type) {
	case *Number:
		return strconv.FormatInt(n.Value, 10)
	case *Float:
		return FormatFloat(n.Value)
	case *Identifier:
		return n.Name
	case *BinaryOp:
		return "(" + ExprString(n.Left) + " " + n.Op + " " + ExprString(n.Right) + ")"
	case *Int2Float:
		// coercions are synthetic; print the underlying expression
		return ExprString(n.Child)
	case *Error:
		return "<error>"
	default:
		panic(fmt.Sprintf("ast: unknown expression variant %T", n))
	}
}

// FormatFloat renders a float literal with at least one fractional digit
// and no exponent, so it re-lexes as a single FLOAT token.
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if strings.ContainsAny(s, "eE") {
		s = strconv.FormatFloat(v, 'f', -1, 64)
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("    ")
	}
}
