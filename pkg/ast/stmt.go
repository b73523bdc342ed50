package ast

// ---------- Statement Types ----------

// Select is a SELECT statement.
type Select struct {
	Projection []Expr
	Relation   Expr // FROM, nil when absent
	Selection  Expr // WHERE, nil when absent
	Limit      Expr // nil for no LIMIT or LIMIT ALL
	Order      Expr // not produced by the parser yet
}

// CreateTable is a CREATE EXTERNAL TABLE statement.
type CreateTable struct {
	Name    string
	Columns []*ColumnDef
}

// ColumnDef is one column of a CREATE TABLE statement.
type ColumnDef struct {
	Name      string
	Type      DataType
	AllowNull bool
}

func (*Select) node() {}
func (*CreateTable) node() {}

func (*Select) exprNode() {}
func (*CreateTable) exprNode() {}

func (*Select) stmtNode() {}
func (*CreateTable) stmtNode() {}

// Column returns the column definition with the given name, or nil.
func (c *CreateTable) Column(name string) *ColumnDef {
	for _, col := range c.Columns {
		if col.Name == name {
			return col
		}
	}
	return nil
}
