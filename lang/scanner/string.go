package scanner

import "github.com/mna/ember/lang/token"

// string scans a double-quoted string literal. No escape processing is
// performed; the literal may span multiple lines, each of which advances the
// line counter. An unterminated string produces an ILLEGAL token carrying
// the error message.
func (s *Scanner) string() Token {
	for s.peek() != '"' && !s.atEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}

	if s.atEnd() {
		return s.errorToken("Unterminated string.")
	}

	s.advance() // closing quote
	return s.make(token.STRING)
}
