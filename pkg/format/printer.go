// Package format prints AST nodes and token streams back as SQL text.
package format

import (
	"bytes"
	"strings"

	"github.com/leapstack-labs/sqlfront/pkg/token"
)

const indentSize = 2

// Printer writes SQL with optional line breaks and indentation.
// In single-line mode newlines become spaces and indentation is dropped.
type Printer struct {
	output      *bytes.Buffer
	depth       int
	atLineStart bool
	multiline   bool
}

func newPrinter(multiline bool) *Printer {
	return &Printer{
		output:      &bytes.Buffer{},
		atLineStart: true,
		multiline:   multiline,
	}
}

// String returns the formatted output. Multi-line output ends with a newline.
func (p *Printer) String() string {
	out := strings.TrimRight(p.output.String(), "\n ")
	if p.multiline {
		return out + "\n"
	}
	return out
}

func (p *Printer) write(s string) {
	if p.atLineStart && len(s) > 0 && s[0] != '\n' {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
}

// writeln breaks the line, or emits a single space in single-line mode.
func (p *Printer) writeln() {
	if !p.multiline {
		p.space()
		return
	}
	p.output.WriteByte('\n')
	p.atLineStart = true
}

func (p *Printer) writeIndent() {
	if !p.multiline {
		return
	}
	for i := 0; i < p.depth*indentSize; i++ {
		p.output.WriteByte(' ')
	}
	p.atLineStart = false
}

func (p *Printer) indent() {
	p.depth++
}

func (p *Printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

func (p *Printer) space() {
	p.output.WriteByte(' ')
	p.atLineStart = false
}

// kw prints keywords by token type, separated by spaces.
func (p *Printer) kw(tokens ...token.TokenType) {
	for i, t := range tokens {
		if i > 0 {
			p.space()
		}
		p.write(t.String())
	}
}

// formatList prints count items separated by sep. When multiline is set each
// separator is followed by a line break.
func (p *Printer) formatList(count int, format func(i int), sep string, multiline bool) {
	for i := 0; i < count; i++ {
		format(i)
		if i < count-1 {
			p.write(sep)
			if multiline {
				p.writeln()
			} else {
				p.space()
			}
		}
	}
}
