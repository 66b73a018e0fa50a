package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	// Small parameters to keep the test fast
	params := NewParams(8*1024, 1, 1)

	hash, err := HashPassword("correct horse battery staple", params)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	match, err := VerifyPassword("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, match)

	match, err = VerifyPassword("incorrect horse", hash)
	require.NoError(t, err)
	assert.False(t, match)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	_, err := VerifyPassword("whatever", "not-an-argon2-hash")
	assert.Error(t, err)
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("a perfectly fine passphrase", 12))
	assert.Error(t, ValidatePassword("short", 12))
	assert.Error(t, ValidatePassword(strings.Repeat("x", 129), 12))
	assert.Error(t, ValidatePassword(strings.Repeat("a", 16), 12))
	assert.Error(t, ValidatePassword("Password1234", 12))
}
