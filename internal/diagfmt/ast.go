package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"toyc/internal/ast"
)

// ASTToJSON builds the serializable view of a tree. Nodes become maps with
// a "type" discriminator; key names follow the structured record shape
// ("identifier", "then_branch", ...).
func ASTToJSON(n ast.Node) map[string]any {
	switch n := n.(type) {
	case *ast.Program:
		return map[string]any{"type": "Program", "statements": nodeList(n.Statements)}
	case *ast.Block:
		return map[string]any{"type": "Block", "statements": nodeList(n.Statements)}
	case *ast.Number:
		return map[string]any{"type": "Number", "value": n.Value}
	case *ast.Float:
		return map[string]any{"type": "Float", "value": n.Value}
	case *ast.Identifier:
		return map[string]any{"type": "Identifier", "name": n.Name}
	case *ast.BinaryOp:
		return map[string]any{
			"type":     "BinaryOp",
			"operator": n.Op,
			"left":     ASTToJSON(n.Left),
			"right":    ASTToJSON(n.Right),
		}
	case *ast.Int2Float:
		return map[string]any{"type": "Int2Float", "child": ASTToJSON(n.Child)}
	case *ast.Assignment:
		return map[string]any{
			"type":       "Assignment",
			"identifier": n.Name,
			"value":      ASTToJSON(n.Value),
		}
	case *ast.If:
		out := map[string]any{
			"type":        "If",
			"condition":   ASTToJSON(n.Cond),
			"then_branch": ASTToJSON(n.Then),
		}
		if n.Else != nil {
			out["else_branch"] = ASTToJSON(n.Else)
		}
		return out
	case *ast.RepeatUntil:
		return map[string]any{
			"type":      "RepeatUntil",
			"body":      ASTToJSON(n.Body),
			"condition": ASTToJSON(n.Cond),
		}
	case *ast.Read:
		return map[string]any{"type": "Read", "identifier": n.Name}
	case *ast.Write:
		return map[string]any{"type": "Write", "expression": ASTToJSON(n.Expr)}
	case *ast.Error:
		return map[string]any{
			"type":     "Error",
			"message":  n.Message,
			"expected": n.ExpectedList(),
			"found":    n.Found.Kind.String(),
			"position": n.Sp.Start,
			"context":  n.Context,
		}
	default:
		panic(fmt.Sprintf("diagfmt: unknown AST variant %T", n))
	}
}

func nodeList(nodes []ast.Node) []map[string]any {
	out := make([]map[string]any, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, ASTToJSON(n))
	}
	return out
}

// FormatASTJSON writes the tree as indented JSON.
func FormatASTJSON(w io.Writer, n ast.Node) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ASTToJSON(n))
}

// FormatASTPretty writes the tree with box-drawing connectors, one node
// per line.
func FormatASTPretty(w io.Writer, n ast.Node) error {
	t := buildTree(n)
	_, err := io.WriteString(w, t.label+"\n")
	if err != nil {
		return err
	}
	return writeChildren(w, t.children, "")
}

type treeNode struct {
	label    string
	children []*treeNode
}

func writeChildren(w io.Writer, children []*treeNode, prefix string) error {
	for i, c := range children {
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(children)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, connector, c.label); err != nil {
			return err
		}
		if err := writeChildren(w, c.children, childPrefix); err != nil {
			return err
		}
	}
	return nil
}

func buildTree(n ast.Node) *treeNode {
	switch n := n.(type) {
	case *ast.Program:
		return withStatements("Program", n.Statements)
	case *ast.Block:
		return withStatements("Block", n.Statements)
	case *ast.Number:
		return &treeNode{label: fmt.Sprintf("Number %d", n.Value)}
	case *ast.Float:
		return &treeNode{label: "Float " + ast.FormatFloat(n.Value)}
	case *ast.Identifier:
		return &treeNode{label: "Identifier " + n.Name}
	case *ast.BinaryOp:
		return &treeNode{
			label:    "BinaryOp " + n.Op,
			children: []*treeNode{buildTree(n.Left), buildTree(n.Right)},
		}
	case *ast.Int2Float:
		return &treeNode{label: "Int2Float", children: []*treeNode{buildTree(n.Child)}}
	case *ast.Assignment:
		return &treeNode{
			label:    "Assignment " + n.Name,
			children: []*treeNode{buildTree(n.Value)},
		}
	case *ast.If:
		t := &treeNode{label: "If"}
		t.children = append(t.children, labeled("condition", buildTree(n.Cond)))
		t.children = append(t.children, labeled("then", buildTree(n.Then)))
		if n.Else != nil {
			t.children = append(t.children, labeled("else", buildTree(n.Else)))
		}
		return t
	case *ast.RepeatUntil:
		return &treeNode{label: "RepeatUntil", children: []*treeNode{
			labeled("body", buildTree(n.Body)),
			labeled("until", buildTree(n.Cond)),
		}}
	case *ast.Read:
		return &treeNode{label: "Read " + n.Name}
	case *ast.Write:
		return &treeNode{label: "Write", children: []*treeNode{buildTree(n.Expr)}}
	case *ast.Error:
		label := "Error: " + n.Message
		if len(n.Expected) > 0 {
			label += " (expected " + n.ExpectedList() + ")"
		}
		return &treeNode{label: label}
	default:
		panic(fmt.Sprintf("diagfmt: unknown AST variant %T", n))
	}
}

func withStatements(label string, stmts []ast.Node) *treeNode {
	t := &treeNode{label: label}
	for _, s := range stmts {
		t.children = append(t.children, buildTree(s))
	}
	return t
}

func labeled(label string, child *treeNode) *treeNode {
	return &treeNode{label: label, children: []*treeNode{child}}
}
