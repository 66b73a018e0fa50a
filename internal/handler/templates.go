package handler

import (
	"errors"
	"net/http"

	"github.com/sourcery-io/sourcery/internal/middleware"
	"github.com/sourcery-io/sourcery/internal/repository"
	"github.com/sourcery-io/sourcery/internal/service"
)

// ListTemplates returns the authenticated user's email templates
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	templates, err := h.templateSvc.List(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list templates")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list templates")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"templates": templates})
}

// GetTemplate returns a single template
func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	tpl, err := h.templateSvc.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Template not found")
			return
		}
		h.log.Error().Err(err).Msg("failed to get template")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get template")
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}

// CreateTemplate adds a new email template
func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var in service.TemplateInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}

	tpl, err := h.templateSvc.Create(r.Context(), userID, in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTemplateMissingFields):
			writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		default:
			h.log.Error().Err(err).Msg("failed to create template")
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to create template")
		}
		return
	}

	writeJSON(w, http.StatusCreated, tpl)
}

// UpdateTemplate modifies an existing template
func (h *Handler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var in service.TemplateInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}

	tpl, err := h.templateSvc.Update(r.Context(), userID, r.PathValue("id"), in)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", "Template not found")
		case errors.Is(err, service.ErrTemplateMissingFields):
			writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		default:
			h.log.Error().Err(err).Msg("failed to update template")
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to update template")
		}
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}

// DeleteTemplate removes a template
func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	if err := h.templateSvc.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Template not found")
			return
		}
		h.log.Error().Err(err).Msg("failed to delete template")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to delete template")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "template deleted"})
}

type templatePreviewRequest struct {
	ContactID string `json:"contactId"`
}

// PreviewTemplate renders a template's merge fields against a contact
func (h *Handler) PreviewTemplate(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req templatePreviewRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}

	if req.ContactID == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "Contact ID is required")
		return
	}

	preview, err := h.templateSvc.Preview(r.Context(), userID, r.PathValue("id"), req.ContactID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Template or contact not found")
			return
		}
		h.log.Error().Err(err).Msg("template preview failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to preview template")
		return
	}

	writeJSON(w, http.StatusOK, preview)
}
