package ast

// Walk traverses the tree rooted at node in depth-first pre-order, calling fn
// for each node. If fn returns false the children of that node are skipped.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Function:
		for _, arg := range n.Args {
			walkExpr(arg, fn)
		}
	case *BinaryExpr:
		walkExpr(n.Left, fn)
		walkExpr(n.Right, fn)
	case *Select:
		for _, e := range n.Projection {
			walkExpr(e, fn)
		}
		walkExpr(n.Relation, fn)
		walkExpr(n.Selection, fn)
		walkExpr(n.Limit, fn)
		walkExpr(n.Order, fn)
	case *Identifier, *LiteralInt, *CreateTable:
		// leaves
	}
}

// walkExpr skips optional fields that are unset.
func walkExpr(e Expr, fn func(Node) bool) {
	if e == nil {
		return
	}
	Walk(e, fn)
}

// Inspect collects every node of type T under root, in pre-order.
func Inspect[T Node](root Node) []T {
	var out []T
	Walk(root, func(n Node) bool {
		if v, ok := n.(T); ok {
			out = append(out, v)
		}
		return true
	})
	return out
}
