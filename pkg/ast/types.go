package ast

import "strconv"

// DataType is a SQL scalar type used in column definitions.
type DataType interface {
	dataType()
	String() string
}

// Double is the DOUBLE type.
type Double struct{}

// Varchar is VARCHAR(Length).
type Varchar struct {
	Length uint64
}

func (Double) dataType() {}
func (Varchar) dataType() {}

func (Double) String() string { return "DOUBLE" }

func (v Varchar) String() string {
	return "VARCHAR(" + strconv.FormatUint(v.Length, 10) + ")"
}
