// Package grammar holds ember's EBNF grammar as a plain-text artifact,
// verified (but not executed) by the test in this file: the compiler's
// Pratt parser is the actual implementation, this is documentation kept
// honest by golang.org/x/exp/ebnf.
package grammar

import (
	"os"
	"testing"

	"golang.org/x/exp/ebnf"
)

func TestEBNF(t *testing.T) {
	f, err := os.Open("grammar.ebnf")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	g, err := ebnf.Parse("grammar.ebnf", f)
	if err != nil {
		t.Fatal(err)
	}
	if err := ebnf.Verify(g, "Chunk"); err != nil {
		t.Fatal(err)
	}
}
