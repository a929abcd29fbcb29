package compiler

import (
	"fmt"

	"github.com/mna/ember/lang/scanner"
	"github.com/mna/ember/lang/token"
)

// errorAt reports a compile error at tok, formatted per spec as
// "[line N] Error at '<lexeme>': <message>". Once the parser is in panic
// mode, subsequent errors are suppressed until synchronize reaches a
// statement boundary, so that a single lexical/syntactic mistake does not
// cascade into a wall of misleading follow-on errors.
func (p *parser) errorAt(tok scanner.Token, msg string) {
	if p.panicMode {
		return
	}
	p.panicMode = true

	fmt.Fprintf(p.stderr, "[line %d] Error", tok.Line)
	switch tok.Type {
	case token.EOF:
		fmt.Fprint(p.stderr, " at end")
	case token.ILLEGAL:
		// lexical error: msg is already the scanner's message, no lexeme to show
	default:
		fmt.Fprintf(p.stderr, " at '%s'", tok.Lexeme)
	}
	fmt.Fprintf(p.stderr, ": %s\n", msg)
	p.hadError = true
}

func (p *parser) errorAtCurrent(msg string) { p.errorAt(p.current, msg) }
func (p *parser) error(msg string)          { p.errorAt(p.previous, msg) }

// synchronize advances past tokens until it reaches a likely statement
// boundary: after a semicolon, or before one of the statement-starting
// keywords. This bounds the damage of a single syntax error to the
// statement that contains it.
func (p *parser) synchronize() {
	p.panicMode = false

	for p.current.Type != token.EOF {
		if p.previous.Type == token.SEMICOLON {
			return
		}
		switch p.current.Type {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}
