package sema

import (
	"toyc/internal/ast"
	"toyc/internal/source"
)

// UndefinedUse pairs an undefined variable with its first use site.
type UndefinedUse struct {
	Name string
	Sp   source.Span
}

// FindUndefined returns the variables used before any assignment or read
// defines them, in order of first such use, without duplicates. Callers
// must resolve every reported name (by supplying a declaration or a value)
// before Analyze can succeed.
func FindUndefined(prog *ast.Program) []string {
	uses := FindUndefinedUses(prog)
	names := make([]string, 0, len(uses))
	for _, u := range uses {
		names = append(names, u.Name)
	}
	return names
}

// FindUndefinedUses is FindUndefined with the first use site per name.
func FindUndefinedUses(prog *ast.Program) []UndefinedUse {
	u := &useScan{defined: make(map[string]bool)}
	u.node(prog)
	return u.undefined
}

// ReadTargets returns the identifiers named by read statements, in order of
// first appearance, without duplicates. Their types cannot be inferred from
// the program text, so callers supply them alongside undefined variables.
func ReadTargets(prog *ast.Program) []string {
	var out []string
	seen := make(map[string]bool)
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		switch n := n.(type) {
		case *ast.Program:
			for _, s := range n.Statements {
				walk(s)
			}
		case *ast.Block:
			for _, s := range n.Statements {
				walk(s)
			}
		case *ast.If:
			walk(n.Then)
			if n.Else != nil {
				walk(n.Else)
			}
		case *ast.RepeatUntil:
			walk(n.Body)
		case *ast.Read:
			if !seen[n.Name] {
				seen[n.Name] = true
				out = append(out, n.Name)
			}
		}
	}
	walk(prog)
	return out
}

type useScan struct {
	defined   map[string]bool
	undefined []UndefinedUse
	flagged   map[string]bool
}

func (u *useScan) node(n ast.Node) {
	switch n := n.(type) {
	case *ast.Program:
		for _, s := range n.Statements {
			u.node(s)
		}
	case *ast.Block:
		for _, s := range n.Statements {
			u.node(s)
		}
	case *ast.Assignment:
		// uses on the right-hand side happen before the define
		u.node(n.Value)
		u.defined[n.Name] = true
	case *ast.Identifier:
		if !u.defined[n.Name] {
			u.flag(n.Name, n.Sp)
		}
	case *ast.BinaryOp:
		u.node(n.Left)
		u.node(n.Right)
	case *ast.Int2Float:
		u.node(n.Child)
	case *ast.If:
		u.node(n.Cond)
		u.node(n.Then)
		if n.Else != nil {
			u.node(n.Else)
		}
	case *ast.RepeatUntil:
		// the body runs before the condition is first checked
		u.node(n.Body)
		u.node(n.Cond)
	case *ast.Read:
		u.defined[n.Name] = true
	case *ast.Write:
		u.node(n.Expr)
	}
}

func (u *useScan) flag(name string, sp source.Span) {
	if u.flagged == nil {
		u.flagged = make(map[string]bool)
	}
	if u.flagged[name] {
		return
	}
	u.flagged[name] = true
	u.undefined = append(u.undefined, UndefinedUse{Name: name, Sp: sp})
}
