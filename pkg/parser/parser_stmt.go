package parser

import (
	"errors"

	"github.com/leapstack-labs/sqlfront/pkg/ast"
	"github.com/leapstack-labs/sqlfront/pkg/token"
)

// Statement parsing.
//
// Grammar:
//
//	select     → SELECT expr_list [FROM expr] [WHERE expr] [LIMIT (ALL | int)]
//	create     → CREATE EXTERNAL TABLE ident "(" column_def ("," column_def)* ")"
//	column_def → ident data_type [NOT NULL | NULL]
//	data_type  → DOUBLE | VARCHAR "(" int ")"
//
// GROUP BY, HAVING and ORDER BY are reserved but not parsed yet.

// parseSelect parses a SELECT statement. The SELECT keyword has been consumed.
func (p *Parser) parseSelect() (ast.Expr, error) {
	projection, err := p.parseExprList()
	if err != nil {
		return nil, err
	}

	stmt := &ast.Select{Projection: projection}

	// FROM takes a single table reference; joins are not supported.
	if p.parseKeyword(token.FROM) {
		if stmt.Relation, err = p.parseExpr(PrecedenceNone); err != nil {
			return nil, err
		}
	}

	if p.parseKeyword(token.WHERE) {
		if stmt.Selection, err = p.parseExpr(PrecedenceNone); err != nil {
			return nil, err
		}
	}

	if p.parseKeyword(token.LIMIT) {
		if stmt.Limit, err = p.parseLimit(); err != nil {
			return nil, err
		}
	}

	if tok := p.peekToken(); tok.Type != token.EOF {
		return nil, p.errorf(ErrTrailingSelect, tok)
	}

	return stmt, nil
}

// parseLimit parses the LIMIT operand. LIMIT ALL means no limit.
func (p *Parser) parseLimit() (ast.Expr, error) {
	if p.parseKeyword(token.ALL) {
		return nil, nil
	}
	n, err := p.parseLiteralInt()
	if err != nil {
		return nil, err
	}
	return &ast.LiteralInt{Value: n}, nil
}

// parseCreate parses CREATE EXTERNAL TABLE. The CREATE keyword has been consumed.
func (p *Parser) parseCreate() (ast.Expr, error) {
	if !p.parseKeywords(token.EXTERNAL, token.TABLE) {
		return nil, p.errorf(ErrAfterCreate, p.peekToken())
	}

	name := p.nextToken()
	if name.Type != token.IDENT {
		return nil, p.errorf(ErrAfterCreateTable, name)
	}

	if err := p.consumeToken(token.New(token.LPAREN)); err != nil {
		return nil, err
	}

	stmt := &ast.CreateTable{Name: name.Literal}
	for {
		col, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		stmt.Columns = append(stmt.Columns, col)

		switch tok := p.nextToken(); tok.Type {
		case token.COMMA:
			continue
		case token.RPAREN:
			return stmt, nil
		default:
			return nil, p.errorf(ErrColumnSeparator, tok)
		}
	}
}

// parseColumnDef parses one column definition inside CREATE TABLE.
func (p *Parser) parseColumnDef() (*ast.ColumnDef, error) {
	name := p.nextToken()
	if name.Type != token.IDENT {
		return nil, p.errorf(ErrColumnName, name)
	}

	dataType, err := p.parseDataType()
	if err != nil {
		return nil, p.errorf(ErrColumnDataType, message(err))
	}

	// NOT NULL and NULL are accepted but nullability is not tracked yet:
	// every column is stored as nullable.
	if !p.parseKeywords(token.NOT, token.NULL) {
		p.parseKeyword(token.NULL)
	}

	return &ast.ColumnDef{
		Name:      name.Literal,
		Type:      dataType,
		AllowNull: true,
	}, nil
}

// parseDataType parses DOUBLE or VARCHAR(n).
func (p *Parser) parseDataType() (ast.DataType, error) {
	tok := p.nextToken()
	switch tok.Type {
	case token.DOUBLE:
		return ast.Double{}, nil

	case token.VARCHAR:
		if err := p.consumeToken(token.New(token.LPAREN)); err != nil {
			return nil, err
		}
		n, err := p.parseLiteralInt()
		if err != nil {
			return nil, err
		}
		if err := p.consumeToken(token.New(token.RPAREN)); err != nil {
			return nil, err
		}
		return ast.Varchar{Length: uint64(n)}, nil

	default:
		return nil, p.errorf(ErrInvalidDataType, tok)
	}
}

// message returns the bare message of a ParseError, or err.Error().
func message(err error) string {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Message
	}
	return err.Error()
}
