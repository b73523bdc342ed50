package parser

import (
	"fmt"
	"unicode/utf8"

	"github.com/leapstack-labs/sqlfront/pkg/token"
)

// Lexer tokenizes SQL input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// Tokenize converts query into a token stream with whitespace removed.
func Tokenize(query string) ([]token.Token, error) {
	return NewLexer(query).Tokenize()
}

// Tokenize scans the remaining input. Whitespace tokens are dropped; the order
// of all other tokens is preserved. The trailing EOF is not included.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var tokens []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case token.EOF:
			return tokens, nil
		case token.WHITESPACE:
			continue
		}
		tokens = append(tokens, tok)
	}
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.pos > 0 && l.pos <= len(l.input) && l.input[l.pos-1] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// atEOF reports whether the whole input has been consumed. A NUL byte inside
// the input is not treated as the end.
func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token, including whitespace tokens. At the end of
// input it returns an EOF token.
func (l *Lexer) NextToken() (token.Token, error) {
	if l.atEOF() {
		return token.Token{Type: token.EOF}, nil
	}

	var tok token.Token

	switch l.ch {
	case ' ', '\t', '\n':
		tok = token.Token{Type: token.WHITESPACE}
	case ',':
		tok = token.New(token.COMMA)
	case '(':
		tok = token.New(token.LPAREN)
	case ')':
		tok = token.New(token.RPAREN)
	case '+':
		tok = token.New(token.PLUS)
	case '-':
		tok = token.New(token.MINUS)
	case '*':
		tok = token.New(token.STAR)
	case '/':
		tok = token.New(token.SLASH)
	case '=':
		tok = token.New(token.EQ)
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok = token.New(token.LE)
		case '>':
			l.readChar()
			tok = token.New(token.NE)
		default:
			tok = token.New(token.LT)
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.New(token.GE)
		} else {
			tok = token.New(token.GT)
		}
	default:
		switch {
		case isLetter(l.ch) || l.ch == '_' || l.ch == '@':
			return token.Keyword(l.readIdentifier()), nil
		case isDigit(l.ch):
			return token.Number(l.readNumber()), nil
		default:
			return token.Token{Type: token.ILLEGAL}, l.illegal()
		}
	}

	l.readChar()
	return tok, nil
}

// readIdentifier reads an identifier or keyword. The first character has
// already been accepted by the caller.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	l.readChar()
	for !l.atEOF() && (isLetter(l.ch) || isDigit(l.ch) || l.ch == '_') {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a run of decimal digits.
func (l *Lexer) readNumber() string {
	start := l.pos
	for !l.atEOF() && isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// illegal builds the error for the character under examination.
func (l *Lexer) illegal() error {
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return &LexError{
		Pos:     l.currentPos(),
		Char:    r,
		Message: fmt.Sprintf(ErrUnhandledChar, r),
	}
}

func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
