package format

import (
	"strings"

	"github.com/leapstack-labs/sqlfront/pkg/ast"
	"github.com/leapstack-labs/sqlfront/pkg/token"
)

// Format pretty-prints node with one clause per line and indented lists.
func Format(node ast.Node) string {
	p := newPrinter(true)
	p.formatNode(node)
	return p.String()
}

// SQL prints node as canonical single-line SQL. Parsing the result yields an
// equal AST for anything the parser produced.
func SQL(node ast.Node) string {
	p := newPrinter(false)
	p.formatNode(node)
	return p.String()
}

// DataType returns the canonical spelling of a column type.
func DataType(dt ast.DataType) string {
	if dt == nil {
		return ""
	}
	return dt.String()
}

// Tokens joins the canonical text of each token with single spaces.
// Tokenizing the result reproduces the same token sequence.
func Tokens(tokens []token.Token) string {
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Type == token.EOF || tok.Type == token.WHITESPACE {
			continue
		}
		parts = append(parts, tok.String())
	}
	return strings.Join(parts, " ")
}
