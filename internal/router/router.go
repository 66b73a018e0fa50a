package router

import (
	"net/http"
	"time"

	"github.com/sourcery-io/sourcery/internal/auth"
	"github.com/sourcery-io/sourcery/internal/handler"
	"github.com/sourcery-io/sourcery/internal/logger"
	"github.com/sourcery-io/sourcery/internal/middleware"
)

// New creates and configures the HTTP router
func New(h *handler.Handler, mw *middleware.Middleware, log *logger.Logger, tokenSvc *auth.TokenService) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoints (no auth required)
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ready", h.Ready)

	// API v1 routes
	mux.HandleFunc("GET /api/v1/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Sourcery API v1","version":"0.1.0"}`))
	})

	// Public authentication routes (rate limited)
	loginRateLimit := mw.RateLimit(middleware.RateLimitConfig{
		Name:   "login",
		Limit:  5,
		Window: 15 * time.Minute,
		KeyFn:  middleware.IPKey,
	})
	registerRateLimit := mw.RateLimit(middleware.RateLimitConfig{
		Name:   "register",
		Limit:  3,
		Window: 1 * time.Hour,
		KeyFn:  middleware.IPKey,
	})
	refreshRateLimit := mw.RateLimit(middleware.RateLimitConfig{
		Name:   "refresh",
		Limit:  10,
		Window: 1 * time.Minute,
		KeyFn:  middleware.IPKey,
	})

	mux.Handle("POST /api/v1/auth/register", registerRateLimit(http.HandlerFunc(h.Register)))
	mux.Handle("POST /api/v1/auth/login", loginRateLimit(http.HandlerFunc(h.Login)))
	mux.Handle("POST /api/v1/auth/token/refresh", refreshRateLimit(http.HandlerFunc(h.RefreshToken)))

	// Password reset routes (public, rate limited)
	passwordResetRateLimit := mw.RateLimit(middleware.RateLimitConfig{
		Name:   "password_reset",
		Limit:  3,
		Window: 1 * time.Hour,
		KeyFn:  middleware.IPKey,
	})
	mux.Handle("POST /api/v1/auth/password/reset-request", passwordResetRateLimit(http.HandlerFunc(h.PasswordResetRequest)))
	mux.Handle("POST /api/v1/auth/password/reset-complete", passwordResetRateLimit(http.HandlerFunc(h.PasswordResetComplete)))

	// MFA verification during login (public, used with an MFA challenge token)
	mfaVerifyRateLimit := mw.RateLimit(middleware.RateLimitConfig{
		Name:   "mfa_verify",
		Limit:  5,
		Window: 5 * time.Minute,
		KeyFn:  middleware.IPKey,
	})
	mux.Handle("POST /api/v1/mfa/verify", mfaVerifyRateLimit(http.HandlerFunc(h.MFAVerify)))

	// Template generation: reachable with a bearer token or the extension's
	// anon key, so composing works before login
	generateRateLimit := mw.RateLimit(middleware.RateLimitConfig{
		Name:   "generate",
		Limit:  30,
		Window: 1 * time.Minute,
		KeyFn:  middleware.UserKey,
	})
	anonMw := mw.AuthOrAnonKey(tokenSvc)
	mux.Handle("POST /api/v1/templates/generate", anonMw(generateRateLimit(http.HandlerFunc(h.GenerateTemplate))))
	mux.Handle("GET /api/v1/templates/quick-picks", anonMw(http.HandlerFunc(h.QuickPicks)))

	// Protected routes (require auth)
	authMw := mw.Auth(tokenSvc)

	mux.Handle("POST /api/v1/auth/logout", http.HandlerFunc(h.Logout))
	mux.Handle("POST /api/v1/auth/logout/all", authMw(http.HandlerFunc(h.LogoutAll)))
	mux.Handle("POST /api/v1/auth/password/change", authMw(http.HandlerFunc(h.ChangePassword)))
	mux.Handle("GET /api/v1/users/me", authMw(http.HandlerFunc(h.Me)))

	// MFA management (authenticated)
	mfaRateLimit := mw.RateLimit(middleware.RateLimitConfig{
		Name:   "mfa_manage",
		Limit:  10,
		Window: 1 * time.Minute,
		KeyFn:  middleware.UserKey,
	})
	mux.Handle("GET /api/v1/mfa/status", authMw(http.HandlerFunc(h.GetMFAStatus)))
	mux.Handle("POST /api/v1/mfa/totp/setup", authMw(mfaRateLimit(http.HandlerFunc(h.TOTPSetup))))
	mux.Handle("POST /api/v1/mfa/totp/verify", authMw(mfaRateLimit(http.HandlerFunc(h.TOTPVerify))))
	mux.Handle("POST /api/v1/mfa/backup-codes/generate", authMw(mfaRateLimit(http.HandlerFunc(h.GenerateBackupCodes))))
	mux.Handle("POST /api/v1/mfa/disable", authMw(http.HandlerFunc(h.DisableMFA)))

	// Contact routes (authenticated)
	mux.Handle("GET /api/v1/contacts", authMw(http.HandlerFunc(h.ListContacts)))
	mux.Handle("POST /api/v1/contacts", authMw(http.HandlerFunc(h.CreateContact)))
	mux.Handle("POST /api/v1/contacts/import", authMw(http.HandlerFunc(h.ImportContacts)))
	mux.Handle("GET /api/v1/contacts/{id}", authMw(http.HandlerFunc(h.GetContact)))
	mux.Handle("PUT /api/v1/contacts/{id}", authMw(http.HandlerFunc(h.UpdateContact)))
	mux.Handle("DELETE /api/v1/contacts/{id}", authMw(http.HandlerFunc(h.DeleteContact)))

	// Template routes (authenticated)
	mux.Handle("GET /api/v1/templates", authMw(http.HandlerFunc(h.ListTemplates)))
	mux.Handle("POST /api/v1/templates", authMw(http.HandlerFunc(h.CreateTemplate)))
	mux.Handle("GET /api/v1/templates/{id}", authMw(http.HandlerFunc(h.GetTemplate)))
	mux.Handle("PUT /api/v1/templates/{id}", authMw(http.HandlerFunc(h.UpdateTemplate)))
	mux.Handle("DELETE /api/v1/templates/{id}", authMw(http.HandlerFunc(h.DeleteTemplate)))
	mux.Handle("POST /api/v1/templates/{id}/preview", authMw(http.HandlerFunc(h.PreviewTemplate)))

	// Sequence routes (authenticated)
	sendRateLimit := mw.RateLimit(middleware.RateLimitConfig{
		Name:   "sequence_send",
		Limit:  10,
		Window: 1 * time.Minute,
		KeyFn:  middleware.UserKey,
	})
	mux.Handle("GET /api/v1/sequences", authMw(http.HandlerFunc(h.ListSequences)))
	mux.Handle("POST /api/v1/sequences", authMw(http.HandlerFunc(h.CreateSequence)))
	mux.Handle("GET /api/v1/sequences/{id}", authMw(http.HandlerFunc(h.GetSequence)))
	mux.Handle("PUT /api/v1/sequences/{id}", authMw(http.HandlerFunc(h.UpdateSequence)))
	mux.Handle("DELETE /api/v1/sequences/{id}", authMw(http.HandlerFunc(h.DeleteSequence)))
	mux.Handle("PATCH /api/v1/sequences/{id}/status", authMw(http.HandlerFunc(h.SetSequenceStatus)))
	mux.Handle("POST /api/v1/sequences/{id}/send", authMw(sendRateLimit(http.HandlerFunc(h.SendSequence))))

	// Stats routes (authenticated)
	mux.Handle("GET /api/v1/stats/dashboard", authMw(http.HandlerFunc(h.DashboardStats)))
	mux.Handle("POST /api/v1/stats/events", authMw(http.HandlerFunc(h.RecordEmailEvent)))

	// Apply middleware stack
	var handler http.Handler = mux

	// CORS for the dashboard and the extension overlay
	handler = mw.CORS(handler)

	// Security headers
	handler = mw.SecurityHeaders(handler)

	// Request logging
	handler = mw.Logger(handler)

	// Request ID
	handler = mw.RequestID(handler)

	// Panic recovery (outermost)
	handler = mw.Recover(handler)

	return handler
}
