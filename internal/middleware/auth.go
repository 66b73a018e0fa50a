package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/sourcery-io/sourcery/internal/auth"
)

// Context keys for authenticated user data
const (
	UserIDKey contextKey = "user_id"
	EmailKey  contextKey = "email"
)

// AnonUserID marks requests authenticated with the extension's shared key
const AnonUserID = "anonymous"

func extractToken(r *http.Request) string {
	// 1. Try Authorization header first
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}

	// 2. Fall back to cookie
	if cookie, err := r.Cookie("sourcery_access_token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}

// Auth creates an authentication middleware that validates JWT tokens
func (m *Middleware) Auth(tokenSvc *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r)
			if tokenString == "" {
				http.Error(w, `{"error":{"code":"unauthorized","message":"Authentication required"}}`, http.StatusUnauthorized)
				return
			}

			// Validate the token
			claims, err := tokenSvc.ValidateAccessToken(tokenString)
			if err != nil {
				m.log.Debug().Err(err).Msg("token validation failed")
				http.Error(w, `{"error":{"code":"token_expired","message":"The access token is invalid or expired"}}`, http.StatusUnauthorized)
				return
			}

			// Add user info to context
			ctx := r.Context()
			ctx = context.WithValue(ctx, UserIDKey, claims.Subject)
			ctx = context.WithValue(ctx, EmailKey, claims.Email)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthOrAnonKey authenticates either a user JWT or the extension's shared
// anon key. The template generation endpoint is callable from the extension
// before the user has signed in.
func (m *Middleware) AuthOrAnonKey(tokenSvc *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r)
			if tokenString == "" {
				http.Error(w, `{"error":{"code":"unauthorized","message":"Authentication required"}}`, http.StatusUnauthorized)
				return
			}

			anonKey := m.cfg.Extension.AnonKey
			if anonKey != "" && subtle.ConstantTimeCompare([]byte(tokenString), []byte(anonKey)) == 1 {
				ctx := context.WithValue(r.Context(), UserIDKey, AnonUserID)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			claims, err := tokenSvc.ValidateAccessToken(tokenString)
			if err != nil {
				m.log.Debug().Err(err).Msg("token validation failed")
				http.Error(w, `{"error":{"code":"token_expired","message":"The access token is invalid or expired"}}`, http.StatusUnauthorized)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, UserIDKey, claims.Subject)
			ctx = context.WithValue(ctx, EmailKey, claims.Email)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID retrieves the authenticated user ID from context
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}
