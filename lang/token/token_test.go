package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenString(t *testing.T) {
	for tok := Token(0); tok < maxToken; tok++ {
		if tok.String() == "" {
			t.Errorf("missing string representation of token %d", tok)
		}
	}
}

func TestLookupIdent(t *testing.T) {
	for tok := AND; tok <= WHILE; tok++ {
		require.Equal(t, tok, LookupIdent(tok.String()))
	}
	require.Equal(t, IDENTIFIER, LookupIdent("notAKeyword"))
}
