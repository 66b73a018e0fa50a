package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcery-io/sourcery/internal/config"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService(config.TokenConfig{
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 168 * time.Hour,
		SigningSecret:   "test-secret-test-secret-test-secret!",
		Issuer:          "sourcery-test",
	})
	require.NoError(t, err)
	return svc
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := newTestTokenService(t)

	pair, refreshHash, err := svc.GenerateTokenPair("usr_1", "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int((15 * time.Minute).Seconds()), pair.ExpiresIn)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, HashToken(pair.RefreshToken), refreshHash)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "usr_1", claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "sourcery-test", claims.Issuer)
}

func TestValidateAccessTokenRejectsGarbage(t *testing.T) {
	svc := newTestTokenService(t)

	_, err := svc.ValidateAccessToken("not-a-jwt")
	assert.Error(t, err)
}

func TestValidateAccessTokenRejectsWrongSecret(t *testing.T) {
	svc := newTestTokenService(t)

	other, err := NewTokenService(config.TokenConfig{
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 168 * time.Hour,
		SigningSecret:   "a-different-secret-entirely-here!!!!",
		Issuer:          "sourcery-test",
	})
	require.NoError(t, err)

	pair, _, err := other.GenerateTokenPair("usr_1", "ada@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestMFATokenScope(t *testing.T) {
	svc := newTestTokenService(t)

	mfaToken, err := svc.GenerateMFAToken("usr_1", "ada@example.com")
	require.NoError(t, err)

	// An MFA challenge token must not pass as an access token
	_, err = svc.ValidateAccessToken(mfaToken)
	assert.Error(t, err)

	claims, err := svc.ValidateMFAToken(mfaToken)
	require.NoError(t, err)
	assert.Equal(t, "usr_1", claims.Subject)

	// And an access token must not pass as an MFA challenge token
	pair, _, err := svc.GenerateTokenPair("usr_1", "ada@example.com")
	require.NoError(t, err)
	_, err = svc.ValidateMFAToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestHashTokenDeterministic(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}
