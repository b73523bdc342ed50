// Package parser turns SQL text into an AST.
//
// # Usage
//
//	node, err := parser.ParseSQL("SELECT id FROM customer WHERE id = 1")
//	if err != nil {
//	    // *parser.LexError or *parser.ParseError
//	}
//
// Parsing runs in two stages: Tokenize produces a flat token stream with
// whitespace removed, and Parser walks that stream with a cursor.
//
// # Grammar Overview
//
//	statement   → select | create
//	select      → SELECT expr_list [FROM expr] [WHERE expr] [LIMIT (ALL | int)]
//	create      → CREATE EXTERNAL TABLE ident "(" column_def ("," column_def)* ")"
//	column_def  → ident data_type [NOT NULL | NULL]
//	data_type   → DOUBLE | VARCHAR "(" int ")"
//	expr        → prefix (comparison_op expr)*
//	prefix      → statement | ident | ident "(" expr_list ")" | int
//
// See parser_expr.go and parser_stmt.go for the productions.
package parser

import (
	"fmt"

	"github.com/leapstack-labs/sqlfront/pkg/ast"
	"github.com/leapstack-labs/sqlfront/pkg/token"
)

// Parser parses a token stream into an AST. A Parser holds a mutable cursor
// and must not be shared between goroutines.
type Parser struct {
	tokens []token.Token
	index  int // position of the next unconsumed token
}

// NewParser creates a parser over tokens produced by Tokenize.
func NewParser(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseSQL tokenizes and parses query, returning the first error verbatim.
func ParseSQL(query string) (ast.Node, error) {
	tokens, err := Tokenize(query)
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).Parse()
}

// Parse parses one top-level statement or expression.
func (p *Parser) Parse() (ast.Node, error) {
	expr, err := p.parseExpr(PrecedenceNone)
	if err != nil {
		return nil, err
	}
	return expr, nil
}

// ParseDataType parses a column type such as "DOUBLE" or "VARCHAR(100)".
func ParseDataType(s string) (ast.DataType, error) {
	tokens, err := Tokenize(s)
	if err != nil {
		return nil, err
	}
	p := NewParser(tokens)
	dt, err := p.parseDataType()
	if err != nil {
		return nil, err
	}
	if tok := p.peekToken(); tok.Type != token.EOF {
		return nil, p.errorf(ErrTrailingDataType, tok)
	}
	return dt, nil
}

// ---------- Token Helpers ----------

// peekToken returns the next token without consuming it, or EOF.
func (p *Parser) peekToken() token.Token {
	if p.index < len(p.tokens) {
		return p.tokens[p.index]
	}
	return token.Token{Type: token.EOF}
}

// nextToken consumes and returns the next token. At the end of input it
// returns EOF and leaves the cursor in place.
func (p *Parser) nextToken() token.Token {
	if p.index < len(p.tokens) {
		p.index++
		return p.tokens[p.index-1]
	}
	return token.Token{Type: token.EOF}
}

// check returns true if the next token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.peekToken().Type == t
}

// match consumes the next token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.index++
		return true
	}
	return false
}

// consumeToken consumes the next token, failing unless it equals expected.
func (p *Parser) consumeToken(expected token.Token) error {
	tok := p.nextToken()
	if tok == expected {
		return nil
	}
	return p.errorf(ErrUnexpectedToken, expected, tok)
}

// errorf builds a ParseError.
func (p *Parser) errorf(format string, args ...any) error {
	return &ParseError{Message: fmt.Sprintf(format, args...)}
}

// ---------- Keyword Helpers ----------

// parseKeyword consumes the next token if it is the keyword kw.
func (p *Parser) parseKeyword(kw token.TokenType) bool {
	if !kw.IsKeyword() {
		return false
	}
	return p.match(kw)
}

// parseKeywords consumes a run of keywords. Either every keyword matches, or
// the cursor is restored and nothing is consumed.
func (p *Parser) parseKeywords(kws ...token.TokenType) bool {
	start := p.index
	for _, kw := range kws {
		if !p.parseKeyword(kw) {
			p.index = start
			return false
		}
	}
	return true
}
