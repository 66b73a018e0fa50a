package handler

import (
	"errors"
	"net/http"

	"github.com/sourcery-io/sourcery/internal/middleware"
	"github.com/sourcery-io/sourcery/internal/model"
	"github.com/sourcery-io/sourcery/internal/repository"
	"github.com/sourcery-io/sourcery/internal/service"
)

// ListSequences returns the user's sequences with template display fields
func (h *Handler) ListSequences(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	sequences, err := h.sequenceSvc.List(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list sequences")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list sequences")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"sequences": sequences})
}

// GetSequence returns a single sequence
func (h *Handler) GetSequence(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	seq, err := h.sequenceSvc.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Sequence not found")
			return
		}
		h.log.Error().Err(err).Msg("failed to get sequence")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get sequence")
		return
	}

	writeJSON(w, http.StatusOK, seq)
}

// CreateSequence sets up a new draft sequence
func (h *Handler) CreateSequence(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var in service.SequenceInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}

	if in.TemplateID == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "Template ID is required")
		return
	}

	seq, err := h.sequenceSvc.Create(r.Context(), userID, in)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "invalid_template", "The referenced template does not exist")
			return
		}
		h.log.Error().Err(err).Msg("failed to create sequence")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to create sequence")
		return
	}

	writeJSON(w, http.StatusCreated, seq)
}

// UpdateSequence modifies a sequence's configuration
func (h *Handler) UpdateSequence(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var in service.SequenceInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}

	seq, err := h.sequenceSvc.Update(r.Context(), userID, r.PathValue("id"), in)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Sequence not found")
			return
		}
		h.log.Error().Err(err).Msg("failed to update sequence")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to update sequence")
		return
	}

	writeJSON(w, http.StatusOK, seq)
}

type sequenceStatusRequest struct {
	Status string `json:"status"`
}

// SetSequenceStatus transitions a sequence between statuses
func (h *Handler) SetSequenceStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req sequenceStatusRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}

	err := h.sequenceSvc.SetStatus(r.Context(), userID, r.PathValue("id"), model.SequenceStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", "Sequence not found")
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "validation_error", "Unknown sequence status")
		default:
			h.log.Error().Err(err).Msg("failed to update sequence status")
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to update sequence status")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

// DeleteSequence removes a sequence
func (h *Handler) DeleteSequence(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	if err := h.sequenceSvc.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Sequence not found")
			return
		}
		h.log.Error().Err(err).Msg("failed to delete sequence")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to delete sequence")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "sequence deleted"})
}

// SendSequence triggers one batch of an active sequence
func (h *Handler) SendSequence(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	result, err := h.sequenceSvc.Send(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", "Sequence not found")
		case errors.Is(err, service.ErrSequenceNotActive):
			writeError(w, http.StatusConflict, "sequence_not_active", "Activate the sequence before sending")
		case errors.Is(err, service.ErrNoContacts):
			writeError(w, http.StatusBadRequest, "no_contacts", "Add contacts before sending")
		case errors.Is(err, service.ErrQuotaExceeded):
			writeError(w, http.StatusForbidden, "quota_exceeded", "Your email quota for this period is exhausted")
		default:
			h.log.Error().Err(err).Msg("sequence send failed")
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to send sequence")
		}
		return
	}

	h.statsSvc.InvalidateDashboard(r.Context(), userID)
	writeJSON(w, http.StatusOK, result)
}
