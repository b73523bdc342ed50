package ast

// ---------- Expression Types ----------

// Identifier is a bare name reference such as a column or table.
type Identifier struct {
	Name string
}

// LiteralInt is a signed 64-bit integer literal.
type LiteralInt struct {
	Value int64
}

// Function is a scalar function call.
type Function struct {
	Name string
	Args []Expr
}

// BinaryExpr is a comparison between two expressions.
type BinaryExpr struct {
	Left  Expr
	Op    Operator
	Right Expr
}

func (*Identifier) node() {}
func (*LiteralInt) node() {}
func (*Function) node() {}
func (*BinaryExpr) node() {}

func (*Identifier) exprNode() {}
func (*LiteralInt) exprNode() {}
func (*Function) exprNode() {}
func (*BinaryExpr) exprNode() {}

// Operator is a binary SQL operator.
type Operator int

// Operator constants for comparison expressions.
const (
	EQ Operator = iota + 1
	LT
	LTEQ
	GT
	GTEQ
)

var operatorNames = map[Operator]string{
	EQ:   "=",
	LT:   "<",
	LTEQ: "<=",
	GT:   ">",
	GTEQ: ">=",
}

// String returns the SQL spelling of the operator.
func (o Operator) String() string {
	if s, ok := operatorNames[o]; ok {
		return s
	}
	return "?"
}

// Name returns the symbolic name of the operator (EQ, LTEQ, ...).
func (o Operator) Name() string {
	switch o {
	case EQ:
		return "EQ"
	case LT:
		return "LT"
	case LTEQ:
		return "LTEQ"
	case GT:
		return "GT"
	case GTEQ:
		return "GTEQ"
	default:
		return "UNKNOWN"
	}
}
