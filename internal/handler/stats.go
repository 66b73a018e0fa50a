package handler

import (
	"errors"
	"net/http"

	"github.com/sourcery-io/sourcery/internal/middleware"
	"github.com/sourcery-io/sourcery/internal/model"
	"github.com/sourcery-io/sourcery/internal/repository"
)

// DashboardStats returns the aggregate dashboard view
func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	stats, err := h.statsSvc.Dashboard(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to load dashboard stats")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to load dashboard stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

type recordEventRequest struct {
	Event      string  `json:"event"`
	SequenceID *string `json:"sequenceId,omitempty"`
	ContactID  *string `json:"contactId,omitempty"`
}

// RecordEmailEvent stores an email outcome (opened, responded, bounced)
// reported after the fact.
func (h *Handler) RecordEmailEvent(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req recordEventRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}

	err := h.statsSvc.RecordEvent(r.Context(), userID, model.EmailEvent(req.Event), req.SequenceID, req.ContactID)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "validation_error", "Unknown email event")
			return
		}
		h.log.Error().Err(err).Msg("failed to record email event")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to record email event")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "event recorded"})
}
