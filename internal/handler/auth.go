package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sourcery-io/sourcery/internal/middleware"
	"github.com/sourcery-io/sourcery/internal/service"
)

// JSON helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
	})
}

func readJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("request body is empty")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// getClientIP extracts the client IP address from the request
func getClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}

// --- Cookie helpers ---

// setTokenCookies sets access and refresh tokens as HTTP cookies so the
// dashboard can authenticate without storing tokens in JS.
func (h *Handler) setTokenCookies(w http.ResponseWriter, accessToken, refreshToken string, accessTTL, refreshTTL time.Duration) {
	sameSite := http.SameSiteLaxMode
	switch strings.ToLower(h.cfg.Cookie.SameSite) {
	case "strict":
		sameSite = http.SameSiteStrictMode
	case "none":
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "sourcery_access_token",
		Value:    accessToken,
		Path:     "/",
		Domain:   h.cfg.Cookie.Domain,
		MaxAge:   int(accessTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Cookie.Secure,
		SameSite: sameSite,
	})

	// Refresh token cookie is scoped to the token endpoint only
	http.SetCookie(w, &http.Cookie{
		Name:     "sourcery_refresh_token",
		Value:    refreshToken,
		Path:     "/api/v1/auth/token",
		MaxAge:   int(refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Cookie.Secure,
		SameSite: sameSite,
	})
}

// clearTokenCookies removes all auth cookies
func (h *Handler) clearTokenCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "sourcery_access_token",
		Value:    "",
		Path:     "/",
		Domain:   h.cfg.Cookie.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "sourcery_refresh_token",
		Value:    "",
		Path:     "/api/v1/auth/token",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// --- Registration Handler ---

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "Email and password are required")
		return
	}

	resp, err := h.authSvc.Register(r.Context(), service.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyExists):
			writeError(w, http.StatusConflict, "email_exists", "An account with this email already exists")
		case errors.Is(err, service.ErrPasswordTooWeak):
			writeError(w, http.StatusBadRequest, "password_too_weak", err.Error())
		default:
			h.log.Error().Err(err).Msg("registration failed")
			writeError(w, http.StatusInternalServerError, "internal_error", "Registration failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// --- Login Handler ---

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "Email and password are required")
		return
	}

	resp, err := h.authSvc.Login(r.Context(), service.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMFARequired):
			if resp != nil && resp.MFAChallenge != nil {
				writeJSON(w, http.StatusOK, resp.MFAChallenge)
				return
			}
			writeError(w, http.StatusForbidden, "mfa_required", "Multi-factor authentication is required.")
		case errors.Is(err, service.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "The email or password is incorrect.")
		case errors.Is(err, service.ErrAccountLocked):
			writeError(w, http.StatusForbidden, "account_locked", "Your account has been temporarily locked due to too many failed login attempts.")
		case errors.Is(err, service.ErrAccountNotActive):
			writeError(w, http.StatusForbidden, "account_inactive", "Your account is not active.")
		default:
			h.log.Error().Err(err).Msg("login failed")
			writeError(w, http.StatusInternalServerError, "internal_error", "Login failed")
		}
		return
	}

	h.setTokenCookies(w,
		resp.Success.AccessToken,
		resp.Success.RefreshToken,
		h.cfg.Security.Tokens.AccessTokenTTL,
		h.cfg.Security.Tokens.RefreshTokenTTL,
	)

	// Tokens stay in the body too for the extension, which cannot use cookies
	writeJSON(w, http.StatusOK, resp.Success)
}

// --- Logout Handlers ---

type logoutRequest struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Logout revokes the current session's refresh token
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	_ = readJSON(r, &req) // body may be empty when using cookie-based auth

	refreshToken := req.RefreshToken
	if refreshToken == "" {
		if cookie, err := r.Cookie("sourcery_refresh_token"); err == nil {
			refreshToken = cookie.Value
		}
	}

	if refreshToken != "" {
		if err := h.authSvc.Logout(r.Context(), refreshToken); err != nil {
			h.log.Error().Err(err).Msg("logout failed")
		}
	}

	h.clearTokenCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out successfully"})
}

// LogoutAll revokes all of the user's sessions
func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	if err := h.authSvc.LogoutAll(r.Context(), userID); err != nil {
		h.log.Error().Err(err).Msg("logout all failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "Logout failed")
		return
	}

	h.clearTokenCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "all sessions logged out successfully"})
}

// --- Token Refresh Handler ---

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken handles token refresh
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshTokenRequest
	_ = readJSON(r, &req) // body may be empty when using cookie-based refresh

	refreshToken := req.RefreshToken
	if refreshToken == "" {
		if cookie, err := r.Cookie("sourcery_refresh_token"); err == nil {
			refreshToken = cookie.Value
		}
	}

	if refreshToken == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "Refresh token is required")
		return
	}

	resp, err := h.authSvc.RefreshTokens(r.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			h.clearTokenCookies(w)
			writeError(w, http.StatusUnauthorized, "token_expired", "The refresh token is invalid or expired.")
		case errors.Is(err, service.ErrTokenRevoked):
			h.clearTokenCookies(w)
			writeError(w, http.StatusUnauthorized, "token_revoked", "The refresh token has been revoked.")
		default:
			h.log.Error().Err(err).Msg("token refresh failed")
			writeError(w, http.StatusInternalServerError, "internal_error", "Token refresh failed")
		}
		return
	}

	h.setTokenCookies(w,
		resp.AccessToken,
		resp.RefreshToken,
		h.cfg.Security.Tokens.AccessTokenTTL,
		h.cfg.Security.Tokens.RefreshTokenTTL,
	)

	writeJSON(w, http.StatusOK, resp)
}

// --- Current User Handler ---

// Me returns the authenticated user's profile
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	user, err := h.authSvc.GetCurrentUser(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to load current user")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to load user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// --- Password Reset Request Handler ---

type passwordResetRequestPayload struct {
	Email string `json:"email"`
}

// PasswordResetRequest handles initiating a password reset
func (h *Handler) PasswordResetRequest(w http.ResponseWriter, r *http.Request) {
	var req passwordResetRequestPayload
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}

	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "Email is required")
		return
	}

	resp, err := h.authSvc.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		h.log.Error().Err(err).Msg("password reset request failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to process request")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// --- Password Reset Complete Handler ---

type passwordResetCompletePayload struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// PasswordResetComplete handles completing a password reset
func (h *Handler) PasswordResetComplete(w http.ResponseWriter, r *http.Request) {
	var req passwordResetCompletePayload
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}

	if req.Token == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "Token and new password are required")
		return
	}

	err := h.authSvc.CompletePasswordReset(r.Context(), req.Token, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			writeError(w, http.StatusBadRequest, "invalid_token", "The reset token is invalid.")
		case errors.Is(err, service.ErrResetTokenExpired):
			writeError(w, http.StatusBadRequest, "token_expired", "The reset token has expired. Please request a new one.")
		case errors.Is(err, service.ErrResetTokenUsed):
			writeError(w, http.StatusBadRequest, "token_used", "This reset token has already been used.")
		case errors.Is(err, service.ErrPasswordTooWeak):
			writeError(w, http.StatusBadRequest, "password_too_weak", err.Error())
		default:
			h.log.Error().Err(err).Msg("password reset completion failed")
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to reset password")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password has been reset successfully. Please log in with your new password."})
}

// --- Change Password Handler ---

type changePasswordPayload struct {
	CurrentPassword         string `json:"currentPassword"`
	NewPassword             string `json:"newPassword"`
	InvalidateOtherSessions bool   `json:"invalidateOtherSessions,omitempty"`
}

// ChangePassword handles authenticated password change
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req changePasswordPayload
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "Current password and new password are required")
		return
	}

	err := h.authSvc.ChangePassword(r.Context(), service.ChangePasswordRequest{
		UserID:                  userID,
		CurrentPassword:         req.CurrentPassword,
		NewPassword:             req.NewPassword,
		InvalidateOtherSessions: req.InvalidateOtherSessions,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid_password", "The current password is incorrect.")
		case errors.Is(err, service.ErrSamePassword):
			writeError(w, http.StatusBadRequest, "same_password", "New password must be different from the current password.")
		case errors.Is(err, service.ErrPasswordTooWeak):
			writeError(w, http.StatusBadRequest, "password_too_weak", err.Error())
		default:
			h.log.Error().Err(err).Msg("password change failed")
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to change password")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}
