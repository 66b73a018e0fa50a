package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcery-io/sourcery/internal/auth"
	"github.com/sourcery-io/sourcery/internal/config"
	"github.com/sourcery-io/sourcery/internal/logger"
)

func newTestMiddleware(t *testing.T, anonKey string) (*Middleware, *auth.TokenService) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Security.Tokens = config.TokenConfig{
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
		SigningSecret:   "middleware-test-secret-0123456789ab",
		Issuer:          "sourcery-test",
	}
	cfg.Extension.AnonKey = anonKey

	tokenSvc, err := auth.NewTokenService(cfg.Security.Tokens)
	require.NoError(t, err)

	return New(nil, logger.New("error", "text"), cfg), tokenSvc
}

func echoUserID() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(GetUserID(r.Context())))
	})
}

func TestAuthRejectsMissingToken(t *testing.T) {
	mw, tokenSvc := newTestMiddleware(t, "")
	handler := mw.Auth(tokenSvc)(echoUserID())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthAcceptsBearerToken(t *testing.T) {
	mw, tokenSvc := newTestMiddleware(t, "")
	handler := mw.Auth(tokenSvc)(echoUserID())

	pair, _, err := tokenSvc.GenerateTokenPair("usr_42", "ada@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "usr_42", rec.Body.String())
}

func TestAuthAcceptsCookieToken(t *testing.T) {
	mw, tokenSvc := newTestMiddleware(t, "")
	handler := mw.Auth(tokenSvc)(echoUserID())

	pair, _, err := tokenSvc.GenerateTokenPair("usr_42", "ada@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sourcery_access_token", Value: pair.AccessToken})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "usr_42", rec.Body.String())
}

func TestAuthRejectsMFAChallengeToken(t *testing.T) {
	mw, tokenSvc := newTestMiddleware(t, "")
	handler := mw.Auth(tokenSvc)(echoUserID())

	mfaToken, err := tokenSvc.GenerateMFAToken("usr_42", "ada@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mfaToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthOrAnonKeyAcceptsSharedKey(t *testing.T) {
	mw, tokenSvc := newTestMiddleware(t, "ext-shared-key")
	handler := mw.AuthOrAnonKey(tokenSvc)(echoUserID())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer ext-shared-key")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, AnonUserID, rec.Body.String())
}

func TestAuthOrAnonKeyRejectsWrongKey(t *testing.T) {
	mw, tokenSvc := newTestMiddleware(t, "ext-shared-key")
	handler := mw.AuthOrAnonKey(tokenSvc)(echoUserID())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer wrong-key")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthOrAnonKeyStillAcceptsUserToken(t *testing.T) {
	mw, tokenSvc := newTestMiddleware(t, "ext-shared-key")
	handler := mw.AuthOrAnonKey(tokenSvc)(echoUserID())

	pair, _, err := tokenSvc.GenerateTokenPair("usr_42", "ada@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "usr_42", rec.Body.String())
}
