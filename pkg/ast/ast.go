// Package ast defines the syntax tree produced by the SQL parser.
//
// The node set is closed: every node type lives in this package and implements
// an unexported marker method, so a type switch over Expr or Stmt covers every
// case the parser can produce.
package ast

// Node is the base interface for all AST nodes.
type Node interface {
	node()
}

// Expr is a marker interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a marker interface for statement nodes.
//
// Statements are parsed through prefix dispatch, so they are expressions as
// well: a SELECT can appear wherever the grammar expects an expression.
type Stmt interface {
	Expr
	stmtNode()
}
