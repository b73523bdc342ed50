package commands

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/sqlfront/pkg/ast"
	"github.com/leapstack-labs/sqlfront/pkg/format"
)

// TreeNode is a serializable view of an AST node.
type TreeNode struct {
	Kind     string      `json:"kind" yaml:"kind"`
	Field    string      `json:"field,omitempty" yaml:"field,omitempty"`
	Value    string      `json:"value,omitempty" yaml:"value,omitempty"`
	Type     string      `json:"type,omitempty" yaml:"type,omitempty"`
	Nullable *bool       `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Children []*TreeNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// BuildTree converts node into a TreeNode. It returns nil for a nil node.
func BuildTree(node ast.Node) *TreeNode {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *ast.Identifier:
		return &TreeNode{Kind: "Identifier", Value: n.Name}
	case *ast.LiteralInt:
		return &TreeNode{Kind: "LiteralInt", Value: strconv.FormatInt(n.Value, 10)}
	case *ast.Function:
		t := &TreeNode{Kind: "Function", Value: n.Name}
		for _, arg := range n.Args {
			t.add("arg", arg)
		}
		return t
	case *ast.BinaryExpr:
		t := &TreeNode{Kind: "BinaryExpr", Value: n.Op.String()}
		t.add("left", n.Left)
		t.add("right", n.Right)
		return t
	case *ast.Select:
		t := &TreeNode{Kind: "Select"}
		for _, e := range n.Projection {
			t.add("projection", e)
		}
		t.add("relation", n.Relation)
		t.add("selection", n.Selection)
		t.add("limit", n.Limit)
		t.add("order", n.Order)
		return t
	case *ast.CreateTable:
		t := &TreeNode{Kind: "CreateTable", Value: n.Name}
		for _, col := range n.Columns {
			nullable := col.AllowNull
			t.Children = append(t.Children, &TreeNode{
				Kind:     "ColumnDef",
				Field:    "column",
				Value:    col.Name,
				Type:     format.DataType(col.Type),
				Nullable: &nullable,
			})
		}
		return t
	default:
		return &TreeNode{Kind: "Unknown"}
	}
}

// add appends the tree of e under field, skipping unset expressions.
func (t *TreeNode) add(field string, e ast.Expr) {
	if e == nil {
		return
	}
	child := BuildTree(e)
	child.Field = field
	t.Children = append(t.Children, child)
}

// String renders the tree with two-space indentation, one node per line.
func (t *TreeNode) String() string {
	var sb strings.Builder
	t.write(&sb, 0)
	return sb.String()
}

func (t *TreeNode) write(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	if t.Field != "" {
		sb.WriteString(t.Field)
		sb.WriteString(": ")
	}
	sb.WriteString(t.Kind)
	if t.Value != "" {
		sb.WriteString(" ")
		sb.WriteString(t.Value)
	}
	if t.Type != "" {
		sb.WriteString(" ")
		sb.WriteString(t.Type)
	}
	if t.Nullable != nil && !*t.Nullable {
		sb.WriteString(" NOT NULL")
	}
	sb.WriteString("\n")
	for _, c := range t.Children {
		c.write(sb, depth+1)
	}
}
