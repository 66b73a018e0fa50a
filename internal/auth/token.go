package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sourcery-io/sourcery/internal/config"
)

// TokenService handles JWT token creation and validation.
type TokenService struct {
	cfg    config.TokenConfig
	secret []byte
}

// TokenClaims represents the claims in an access token.
type TokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	// Scope marks limited-purpose tokens such as the MFA challenge token.
	Scope string `json:"scope,omitempty"`
}

// TokenPair represents an access token and refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int    `json:"expiresIn"`
}

// NewTokenService creates a new TokenService.
// If no signing secret is configured, an ephemeral one is generated so
// dev setups work out of the box; tokens then do not survive restarts.
func NewTokenService(cfg config.TokenConfig) (*TokenService, error) {
	secret := []byte(cfg.SigningSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate signing secret: %w", err)
		}
	}
	return &TokenService{
		cfg:    cfg,
		secret: secret,
	}, nil
}

// GenerateTokenPair creates a new access token and an opaque refresh token.
// The second return value is the SHA-256 hash of the refresh token, for storage.
func (s *TokenService) GenerateTokenPair(userID, email string) (*TokenPair, string, error) {
	now := time.Now()
	accessExpiry := now.Add(s.cfg.AccessTokenTTL)

	accessTokenString, err := s.sign(userID, email, "", now, accessExpiry)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign access token: %w", err)
	}

	// Refresh Token - opaque random token
	refreshTokenRaw := make([]byte, 32)
	if _, err := rand.Read(refreshTokenRaw); err != nil {
		return nil, "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	refreshTokenString := hex.EncodeToString(refreshTokenRaw)
	refreshTokenHash := HashToken(refreshTokenString)

	return &TokenPair{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenString,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.cfg.AccessTokenTTL.Seconds()),
	}, refreshTokenHash, nil
}

// GenerateMFAToken creates a short-lived token used only to complete an
// MFA challenge after password verification.
func (s *TokenService) GenerateMFAToken(userID, email string) (string, error) {
	now := time.Now()
	return s.sign(userID, email, "mfa_challenge", now, now.Add(5*time.Minute))
}

func (s *TokenService) sign(userID, email, scope string, now, expiry time.Time) (string, error) {
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
			ID:        uuid.New().String(),
		},
		Email: email,
		Scope: scope,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateAccessToken validates an access token and returns the claims.
// Limited-purpose tokens (MFA challenge) are rejected.
func (s *TokenService) ValidateAccessToken(tokenString string) (*TokenClaims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Scope != "" {
		return nil, fmt.Errorf("token has limited scope %q", claims.Scope)
	}
	return claims, nil
}

func (s *TokenService) parse(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

// ValidateMFAToken validates an MFA challenge token and returns the claims.
func (s *TokenService) ValidateMFAToken(tokenString string) (*TokenClaims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Scope != "mfa_challenge" {
		return nil, fmt.Errorf("not an MFA challenge token")
	}
	return claims, nil
}

// HashToken creates a SHA-256 hash of a token for secure storage.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// GetRefreshTokenTTL returns the configured refresh token TTL.
func (s *TokenService) GetRefreshTokenTTL() time.Duration {
	return s.cfg.RefreshTokenTTL
}
