package parser

import (
	"strconv"

	"github.com/leapstack-labs/sqlfront/pkg/ast"
	"github.com/leapstack-labs/sqlfront/pkg/token"
)

// Expression parsing uses precedence climbing.
//
// Precedence levels (higher binds tighter):
//
//	PrecedenceNone       = 0   (everything that ends an expression)
//	PrecedenceComparison = 20  (=, <>, <, <=, >, >=)
//	PrecedenceAddition   = 30  (+, -)
//	PrecedenceMultiply   = 40  (*, /)
//
// Only comparison operators have an infix production. Arithmetic operators
// bind by precedence but fail when they reach parseInfix.
const (
	PrecedenceNone       = 0
	PrecedenceComparison = 20
	PrecedenceAddition   = 30
	PrecedenceMultiply   = 40
)

// Precedence returns the infix binding strength of t.
func Precedence(t token.TokenType) int {
	switch t {
	case token.EQ, token.NE, token.LT, token.LE, token.GT, token.GE:
		return PrecedenceComparison
	case token.PLUS, token.MINUS:
		return PrecedenceAddition
	case token.STAR, token.SLASH:
		return PrecedenceMultiply
	default:
		return PrecedenceNone
	}
}

// parseExpr parses a prefix production, then folds infix operators whose
// precedence is strictly greater than precedence.
func (p *Parser) parseExpr(precedence int) (ast.Expr, error) {
	expr, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for {
		next := p.nextPrecedence()
		if precedence >= next {
			break
		}

		expr, err = p.parseInfix(expr, next)
		if err != nil {
			return nil, err
		}
	}

	return expr, nil
}

// nextPrecedence returns the precedence of the next token, 0 at end of input.
func (p *Parser) nextPrecedence() int {
	return Precedence(p.peekToken().Type)
}

// parsePrefix parses the production that starts an expression.
func (p *Parser) parsePrefix() (ast.Expr, error) {
	tok := p.nextToken()

	switch tok.Type {
	case token.EOF:
		return nil, p.errorf(ErrPrefixEOF)

	case token.SELECT:
		return p.parseSelect()

	case token.CREATE:
		return p.parseCreate()

	case token.IDENT:
		if p.match(token.LPAREN) {
			args, err := p.parseExprList()
			if err != nil {
				return nil, err
			}
			if err := p.consumeToken(token.New(token.RPAREN)); err != nil {
				return nil, err
			}
			return &ast.Function{Name: tok.Literal, Args: args}, nil
		}
		return &ast.Identifier{Name: tok.Literal}, nil

	case token.NUMBER:
		n, err := p.parseInt(tok.Literal)
		if err != nil {
			return nil, err
		}
		return &ast.LiteralInt{Value: n}, nil
	}

	if tok.Type.IsKeyword() {
		return nil, p.errorf(ErrNoPrefixKeyword, tok.Literal)
	}
	return nil, p.errorf(ErrPrefixUnexpected, tok)
}

// parseInfix consumes a comparison operator and its right operand.
func (p *Parser) parseInfix(left ast.Expr, precedence int) (ast.Expr, error) {
	tok := p.nextToken()

	switch tok.Type {
	case token.EQ, token.GT, token.GE, token.LT, token.LE:
		op, err := p.toOperator(tok)
		if err != nil {
			return nil, err
		}
		right, err := p.parseExpr(precedence)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Left: left, Op: op, Right: right}, nil

	default:
		return nil, p.errorf(ErrNoInfixParser, tok)
	}
}

// toOperator maps a comparison token to its SQL operator.
func (p *Parser) toOperator(tok token.Token) (ast.Operator, error) {
	switch tok.Type {
	case token.EQ:
		return ast.EQ, nil
	case token.LT:
		return ast.LT, nil
	case token.LE:
		return ast.LTEQ, nil
	case token.GT:
		return ast.GT, nil
	case token.GE:
		return ast.GTEQ, nil
	default:
		return 0, p.errorf(ErrUnsupportedOp, tok)
	}
}

// parseExprList parses one or more comma-separated expressions.
func (p *Parser) parseExprList() ([]ast.Expr, error) {
	var exprs []ast.Expr
	for {
		expr, err := p.parseExpr(PrecedenceNone)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)

		if !p.match(token.COMMA) {
			break
		}
	}
	return exprs, nil
}

// parseLiteralInt consumes a NUMBER token as an int64.
func (p *Parser) parseLiteralInt() (int64, error) {
	tok := p.nextToken()
	if tok.Type != token.NUMBER {
		return 0, p.errorf(ErrExpectedInteger, tok)
	}
	return p.parseInt(tok.Literal)
}

func (p *Parser) parseInt(digits string) (int64, error) {
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, p.errorf(ErrInvalidInteger, digits, err)
	}
	return n, nil
}
