package parser

import (
	"fmt"

	"github.com/leapstack-labs/sqlfront/pkg/token"
)

// ParseError is a grammar violation. Parsing stops at the first one.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// LexError is raised when the tokenizer meets a character it does not handle.
type LexError struct {
	Pos     token.Position
	Char    rune
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Common error messages
const (
	ErrUnhandledChar = "unhandled char %q in tokenizer"

	ErrUnexpectedToken  = "expected token %#v but was %#v"
	ErrNoPrefixKeyword  = "no prefix parser for keyword %s"
	ErrPrefixUnexpected = "prefix parser expected a keyword but found %#v"
	ErrPrefixEOF        = "prefix parser expected a keyword but hit EOF"
	ErrNoInfixParser    = "no infix parser for token %#v"
	ErrUnsupportedOp    = "unsupported operator %#v"
	ErrInvalidInteger   = "could not parse %q as int64: %v"
	ErrExpectedInteger  = "expected literal int but found %#v"
	ErrTrailingSelect   = "unexpected token at end of SELECT: %#v"
	ErrAfterCreate      = "unexpected token after CREATE: %#v"
	ErrAfterCreateTable = "unexpected token after CREATE EXTERNAL TABLE: %#v"
	ErrColumnName       = "error parsing column name: found %#v"
	ErrColumnDataType   = "error parsing data type in column definition: %s"
	ErrInvalidDataType  = "invalid data type %#v"
	ErrColumnSeparator  = "expected ',' or ')' after column definition but found %#v"
	ErrTrailingDataType = "unexpected token after data type: %#v"
)
