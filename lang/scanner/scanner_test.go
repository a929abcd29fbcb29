package scanner_test

import (
	"testing"

	"github.com/mna/ember/lang/scanner"
	"github.com/mna/ember/lang/token"
	"github.com/stretchr/testify/require"
)

func TestScanBasic(t *testing.T) {
	src := `var a = "foo" + 1.5; // comment
print a;`
	s := scanner.New(src)

	var got []token.Token
	for {
		tok := s.Next()
		got = append(got, tok.Type)
		if tok.Type == token.EOF {
			break
		}
	}

	want := []token.Token{
		token.VAR, token.IDENTIFIER, token.EQUAL, token.STRING, token.PLUS,
		token.NUMBER, token.SEMICOLON, token.PRINT, token.IDENTIFIER,
		token.SEMICOLON, token.EOF,
	}
	require.Equal(t, want, got)
}

func TestScanLineTracking(t *testing.T) {
	s := scanner.New("var a = 1;\n\nvar b = 2;")
	var last scanner.Token
	for {
		tok := s.Next()
		if tok.Type == token.EOF {
			break
		}
		last = tok
	}
	require.Equal(t, 3, last.Line)
}

func TestUnterminatedString(t *testing.T) {
	s := scanner.New(`"abc`)
	tok := s.Next()
	require.Equal(t, token.ILLEGAL, tok.Type)
	require.Equal(t, "Unterminated string.", tok.Lexeme)
}

func TestNumberFormats(t *testing.T) {
	for _, src := range []string{"123", "1.5", "1.5e10", "1e+10", "1e-10"} {
		s := scanner.New(src)
		tok := s.Next()
		require.Equal(t, token.NUMBER, tok.Type)
		require.Equal(t, src, tok.Lexeme)
	}
}
