package format

import (
	"github.com/leapstack-labs/sqlfront/pkg/ast"
	"github.com/leapstack-labs/sqlfront/pkg/token"
)

func (p *Printer) formatNode(node ast.Node) {
	switch n := node.(type) {
	case nil:
		return
	case ast.Expr:
		p.formatExpr(n)
	}
}

// ---------- SELECT ----------

func (p *Printer) formatSelect(stmt *ast.Select) {
	p.kw(token.SELECT)
	p.indent()
	p.writeln()
	p.formatList(len(stmt.Projection), func(i int) {
		p.formatExpr(stmt.Projection[i])
	}, ",", true)
	p.dedent()

	if stmt.Relation != nil {
		p.writeln()
		p.kw(token.FROM)
		p.space()
		p.formatExpr(stmt.Relation)
	}

	if stmt.Selection != nil {
		p.writeln()
		p.kw(token.WHERE)
		p.indent()
		p.writeln()
		p.formatExpr(stmt.Selection)
		p.dedent()
	}

	if stmt.Order != nil {
		p.writeln()
		p.kw(token.ORDER, token.BY)
		p.space()
		p.formatExpr(stmt.Order)
	}

	if stmt.Limit != nil {
		p.writeln()
		p.kw(token.LIMIT)
		p.space()
		p.formatExpr(stmt.Limit)
	}
}

// ---------- CREATE EXTERNAL TABLE ----------

func (p *Printer) formatCreateTable(stmt *ast.CreateTable) {
	p.kw(token.CREATE, token.EXTERNAL, token.TABLE)
	p.space()
	p.write(stmt.Name)
	p.space()
	p.write("(")
	p.indent()
	if p.multiline {
		p.writeln()
	}
	p.formatList(len(stmt.Columns), func(i int) {
		p.formatColumnDef(stmt.Columns[i])
	}, ",", true)
	p.dedent()
	if p.multiline {
		p.writeln()
	}
	p.write(")")
}

// formatColumnDef prints a column. Nullable columns print no constraint.
func (p *Printer) formatColumnDef(col *ast.ColumnDef) {
	p.write(col.Name)
	p.space()
	p.write(DataType(col.Type))
	if !col.AllowNull {
		p.space()
		p.kw(token.NOT, token.NULL)
	}
}
