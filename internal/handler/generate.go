package handler

import (
	"errors"
	"net/http"

	"github.com/sourcery-io/sourcery/internal/model"
	"github.com/sourcery-io/sourcery/internal/service"
)

// GenerateTemplate resolves a free-text prompt to an email template. It is
// reachable with the extension's anon key so composing works before login.
func (h *Handler) GenerateTemplate(w http.ResponseWriter, r *http.Request) {
	var req model.GenerateTemplateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}

	resp, err := h.generateSvc.Generate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyPrompt):
			writeError(w, http.StatusBadRequest, "validation_error", "Prompt is required")
		default:
			h.log.Error().Err(err).Msg("template generation failed")
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate template")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// QuickPicks returns the prompt shortcuts shown in the compose overlay
func (h *Handler) QuickPicks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"quickPicks": h.generateSvc.QuickPicks(),
	})
}
