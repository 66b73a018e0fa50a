package handler

import (
	"errors"
	"net/http"

	"github.com/sourcery-io/sourcery/internal/middleware"
	"github.com/sourcery-io/sourcery/internal/model"
	"github.com/sourcery-io/sourcery/internal/service"
)

// --- MFA Status ---

// GetMFAStatus returns the authenticated user's MFA enrollment status
func (h *Handler) GetMFAStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	status, err := h.mfaSvc.GetMFAStatus(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to get MFA status")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get MFA methods")
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// --- TOTP Setup ---

// TOTPSetup initiates TOTP enrollment for the authenticated user
func (h *Handler) TOTPSetup(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	resp, err := h.mfaSvc.SetupTOTP(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMFAAlreadyEnrolled):
			writeError(w, http.StatusConflict, "mfa_already_enrolled", "TOTP is already set up for this account")
		default:
			h.log.Error().Err(err).Msg("TOTP setup failed")
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to set up TOTP")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// --- TOTP Verify (setup confirmation) ---

type totpVerifyRequest struct {
	Code string `json:"code"`
}

// TOTPVerify verifies a TOTP code to confirm enrollment
func (h *Handler) TOTPVerify(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req totpVerifyRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}

	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "Code is required")
		return
	}

	err := h.mfaSvc.VerifyTOTP(r.Context(), userID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMFANotEnrolled):
			writeError(w, http.StatusBadRequest, "mfa_not_enrolled", "TOTP is not set up. Please initiate setup first.")
		case errors.Is(err, service.ErrMFAInvalidCode):
			writeError(w, http.StatusBadRequest, "invalid_code", "The verification code is incorrect. Please try again.")
		default:
			h.log.Error().Err(err).Msg("TOTP verification failed")
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to verify TOTP code")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "TOTP has been successfully set up."})
}

// --- MFA Verify (login challenge) ---

type mfaVerifyRequest struct {
	MFAToken string `json:"mfaToken"`
	Method   string `json:"method"`
	Code     string `json:"code"`
}

// MFAVerify handles MFA verification during the login flow
func (h *Handler) MFAVerify(w http.ResponseWriter, r *http.Request) {
	var req mfaVerifyRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}

	if req.MFAToken == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "MFA token is required")
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "Code is required")
		return
	}

	userID, err := h.authSvc.ValidateMFAToken(req.MFAToken)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_mfa_token", "The MFA token is invalid or expired. Please log in again.")
		return
	}

	switch model.MFAMethodType(req.Method) {
	case model.MFAMethodTOTP:
		err = h.mfaSvc.VerifyTOTP(r.Context(), userID, req.Code)
	case model.MFAMethodBackupCode:
		err = h.mfaSvc.VerifyBackupCode(r.Context(), userID, req.Code)
	default:
		writeError(w, http.StatusBadRequest, "validation_error", "Unsupported MFA method")
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, service.ErrMFAInvalidCode):
			writeError(w, http.StatusBadRequest, "invalid_code", "The verification code is incorrect.")
		case errors.Is(err, service.ErrMFANoBackupCodes):
			writeError(w, http.StatusBadRequest, "no_backup_codes", "No backup codes remaining. Please contact support.")
		case errors.Is(err, service.ErrMFANotEnrolled):
			writeError(w, http.StatusBadRequest, "mfa_not_enrolled", "This MFA method is not enrolled.")
		default:
			h.log.Error().Err(err).Msg("MFA verification failed")
			writeError(w, http.StatusInternalServerError, "internal_error", "MFA verification failed")
		}
		return
	}

	resp, err := h.authSvc.CompleteMFALogin(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to complete MFA login")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to complete login")
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

// --- Backup Codes ---

// GenerateBackupCodes issues a fresh set of backup codes, replacing any
// existing ones
func (h *Handler) GenerateBackupCodes(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	resp, err := h.mfaSvc.GenerateBackupCodes(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMFANotEnrolled):
			writeError(w, http.StatusBadRequest, "mfa_not_enrolled", "Set up an MFA method before generating backup codes.")
		default:
			h.log.Error().Err(err).Msg("backup code generation failed")
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate backup codes")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// --- Disable MFA ---

type mfaDisableRequest struct {
	Method string `json:"method"`
}

// DisableMFA removes an enrolled MFA method
func (h *Handler) DisableMFA(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req mfaDisableRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}

	method := model.MFAMethodType(req.Method)
	if method != model.MFAMethodTOTP {
		writeError(w, http.StatusBadRequest, "validation_error", "Unsupported MFA method")
		return
	}

	if err := h.mfaSvc.DisableMFAMethod(r.Context(), userID, method); err != nil {
		switch {
		case errors.Is(err, service.ErrMFANotEnrolled):
			writeError(w, http.StatusBadRequest, "mfa_not_enrolled", "This MFA method is not enrolled.")
		default:
			h.log.Error().Err(err).Msg("MFA disable failed")
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to disable MFA")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "MFA method disabled."})
}
