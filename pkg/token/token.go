// Package token defines the token types produced by the SQL tokenizer.
//
// Keywords are resolved to their own TokenType when the query is scanned, so the
// parser dispatches on enumerated tags instead of comparing keyword text.
package token

import (
	"fmt"
	"sort"
)

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

//nolint:revive // ALL_CAPS names follow SQL token conventions
const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL
	WHITESPACE // dropped before the token stream reaches the parser

	// Literals
	IDENT  // customer, sqrt, @var
	NUMBER // 123 (digits only)

	// Punctuation and operators
	operatorBeg
	COMMA  // ,
	EQ     // =
	NE     // <>
	LT     // <
	LE     // <=
	GT     // >
	GE     // >=
	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /
	LPAREN // (
	RPAREN // )
	operatorEnd

	// Keywords
	keywordBeg
	SELECT
	FROM
	WHERE
	LIMIT
	ORDER
	GROUP
	BY
	HAVING
	UNION
	ALL
	INSERT
	UPDATE
	DELETE
	IN
	NOT
	NULL
	SET
	CREATE
	EXTERNAL
	TABLE
	VARCHAR
	DOUBLE
	keywordEnd
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// IsKeyword returns true if the token type is a reserved keyword.
func (t TokenType) IsKeyword() bool {
	return t > keywordBeg && t < keywordEnd
}

// IsOperator returns true if the token type is punctuation or an operator.
func (t TokenType) IsOperator() bool {
	return t > operatorBeg && t < operatorEnd
}

// tokenNames maps token types to their string representations.
var tokenNames = map[TokenType]string{
	EOF:        "EOF",
	ILLEGAL:    "ILLEGAL",
	WHITESPACE: "WHITESPACE",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",

	COMMA:  ",",
	EQ:     "=",
	NE:     "<>",
	LT:     "<",
	LE:     "<=",
	GT:     ">",
	GE:     ">=",
	PLUS:   "+",
	MINUS:  "-",
	STAR:   "*",
	SLASH:  "/",
	LPAREN: "(",
	RPAREN: ")",

	SELECT:   "SELECT",
	FROM:     "FROM",
	WHERE:    "WHERE",
	LIMIT:    "LIMIT",
	ORDER:    "ORDER",
	GROUP:    "GROUP",
	BY:       "BY",
	HAVING:   "HAVING",
	UNION:    "UNION",
	ALL:      "ALL",
	INSERT:   "INSERT",
	UPDATE:   "UPDATE",
	DELETE:   "DELETE",
	IN:       "IN",
	NOT:      "NOT",
	NULL:     "NULL",
	SET:      "SET",
	CREATE:   "CREATE",
	EXTERNAL: "EXTERNAL",
	TABLE:    "TABLE",
	VARCHAR:  "VARCHAR",
	DOUBLE:   "DOUBLE",
}

// keywords maps reserved words to their token types. Keys are stored exactly as
// they must appear in the query: classification is case-sensitive.
var keywords = func() map[string]TokenType {
	m := make(map[string]TokenType, int(keywordEnd-keywordBeg))
	for t := keywordBeg + 1; t < keywordEnd; t++ {
		m[tokenNames[t]] = t
	}
	return m
}()

// Lookup returns the keyword token type for ident, or IDENT when ident is not a
// reserved word.
func Lookup(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Keywords returns the reserved words in alphabetical order.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for k := range keywords {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Token is a single lexical unit. Two tokens are equal when their type and
// literal are equal.
type Token struct {
	Type    TokenType
	Literal string
}

// New returns a token of type t carrying its canonical spelling.
func New(t TokenType) Token {
	return Token{Type: t, Literal: t.String()}
}

// Ident returns an identifier token.
func Ident(name string) Token {
	return Token{Type: IDENT, Literal: name}
}

// Number returns a numeric literal token.
func Number(digits string) Token {
	return Token{Type: NUMBER, Literal: digits}
}

// Keyword returns the token for a reserved word exactly as written.
// Words that are not reserved produce an identifier token.
func Keyword(word string) Token {
	return Token{Type: Lookup(word), Literal: word}
}

// String returns the source text of the token.
func (t Token) String() string {
	switch t.Type {
	case EOF:
		return "EOF"
	case WHITESPACE:
		return " "
	}
	if t.Literal != "" {
		return t.Literal
	}
	return t.Type.String()
}

// GoString renders the token for test failure output and %#v.
func (t Token) GoString() string {
	switch {
	case t.Type == IDENT:
		return fmt.Sprintf("Identifier(%q)", t.Literal)
	case t.Type == NUMBER:
		return fmt.Sprintf("Number(%q)", t.Literal)
	case t.Type.IsKeyword():
		return fmt.Sprintf("Keyword(%q)", t.Literal)
	default:
		return t.Type.String()
	}
}
