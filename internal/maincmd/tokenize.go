package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/ember/lang/scanner"
	"github.com/mna/ember/lang/token"
)

// Tokenize runs only the scanning phase of each file in args and prints
// every token it produces, one per line, in "line:type lexeme" form.
func (c *Cmd) Tokenize(_ context.Context, stdio mainer.Stdio, args []string) error {
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		scan := scanner.New(string(src))
		for {
			tok := scan.Next()
			fmt.Fprintf(stdio.Stdout, "%d:%s", tok.Line, tok.Type)
			if tok.Type == token.STRING || tok.Type == token.NUMBER || tok.Type == token.IDENTIFIER {
				fmt.Fprintf(stdio.Stdout, " %s", tok.Lexeme)
			}
			fmt.Fprintln(stdio.Stdout)

			if tok.Type == token.EOF || tok.Type == token.ILLEGAL {
				break
			}
		}
	}
	return nil
}
