package format

import (
	"strconv"

	"github.com/leapstack-labs/sqlfront/pkg/ast"
)

func (p *Printer) formatExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case nil:
		return
	case *ast.Identifier:
		p.write(e.Name)
	case *ast.LiteralInt:
		p.write(strconv.FormatInt(e.Value, 10))
	case *ast.Function:
		p.formatFunction(e)
	case *ast.BinaryExpr:
		p.formatExpr(e.Left)
		p.space()
		p.write(e.Op.String())
		p.space()
		p.formatExpr(e.Right)
	case *ast.Select:
		p.formatSelect(e)
	case *ast.CreateTable:
		p.formatCreateTable(e)
	}
}

// formatFunction prints a call on one line regardless of mode.
func (p *Printer) formatFunction(fn *ast.Function) {
	p.write(fn.Name)
	p.write("(")
	p.formatList(len(fn.Args), func(i int) {
		p.formatExpr(fn.Args[i])
	}, ",", false)
	p.write(")")
}
