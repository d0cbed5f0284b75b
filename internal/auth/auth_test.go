package auth

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheck(t *testing.T) {
	hash, err := HashPassword("Secret1!")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret1!", hash)
	assert.True(t, CheckPasswordHash("Secret1!", hash))
	assert.False(t, CheckPasswordHash("secret1!", hash))
}

func TestGeneratePassword(t *testing.T) {
	for i := 0; i < 20; i++ {
		pw, err := GeneratePassword(12)
		require.NoError(t, err)
		assert.Len(t, pw, 12)
		assert.True(t, strings.IndexFunc(pw, unicode.IsUpper) >= 0)
		assert.True(t, strings.IndexFunc(pw, unicode.IsDigit) >= 0)
		assert.True(t, strings.ContainsAny(pw, symbols))
	}
}
