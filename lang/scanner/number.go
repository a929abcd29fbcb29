package scanner

import "github.com/mna/ember/lang/token"

// number scans a numeric literal: digits ('.' digits)? ([eE] [+-]? digits)?.
// The leading sign, if any, is handled by the compiler as a unary operator,
// not by the scanner.
func (s *Scanner) number() Token {
	for isDigit(s.peek()) {
		s.advance()
	}

	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance() // consume '.'
		for isDigit(s.peek()) {
			s.advance()
		}
	}

	if s.peek() == 'e' || s.peek() == 'E' {
		next := s.peekNext()
		if isDigit(next) || ((next == '+' || next == '-') && s.current+2 < len(s.src) && isDigit(s.src[s.current+2])) {
			s.advance() // consume 'e'
			if s.peek() == '+' || s.peek() == '-' {
				s.advance()
			}
			for isDigit(s.peek()) {
				s.advance()
			}
		}
	}

	return s.make(token.NUMBER)
}
