package token

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_LengthAndEncoding(t *testing.T) {
	t.Parallel()

	tok, err := Generate()
	assert.NoError(t, err)
	assert.Len(t, tok, tokenBytes*2)

	_, err = hex.DecodeString(tok)
	assert.NoError(t, err)
}

func TestGenerate_Unique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})

	for i := 0; i < 100; i++ {
		tok, err := Generate()
		assert.NoError(t, err)

		_, dup := seen[tok]
		assert.False(t, dup)
		seen[tok] = struct{}{}
	}
}
