package handler

import (
	"errors"
	"net/http"

	"github.com/sourcery-io/sourcery/internal/middleware"
	"github.com/sourcery-io/sourcery/internal/repository"
	"github.com/sourcery-io/sourcery/internal/service"
)

// ListContacts returns the authenticated user's contacts
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	contacts, err := h.contactSvc.List(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list contacts")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list contacts")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"contacts": contacts})
}

// GetContact returns a single contact
func (h *Handler) GetContact(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	contact, err := h.contactSvc.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Contact not found")
			return
		}
		h.log.Error().Err(err).Msg("failed to get contact")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get contact")
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

// CreateContact adds a new contact
func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var in service.ContactInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}

	contact, err := h.contactSvc.Create(r.Context(), userID, in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContactMissingFields):
			writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		case errors.Is(err, repository.ErrDuplicate):
			writeError(w, http.StatusConflict, "contact_exists", "A contact with this email already exists")
		default:
			h.log.Error().Err(err).Msg("failed to create contact")
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to create contact")
		}
		return
	}

	writeJSON(w, http.StatusCreated, contact)
}

type contactImportRequest struct {
	Contacts []service.ContactInput `json:"contacts"`
}

// ImportContacts bulk-creates contacts, skipping duplicates
func (h *Handler) ImportContacts(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req contactImportRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}

	if len(req.Contacts) == 0 {
		writeError(w, http.StatusBadRequest, "validation_error", "No contacts to import")
		return
	}

	result, err := h.contactSvc.Import(r.Context(), userID, req.Contacts)
	if err != nil {
		h.log.Error().Err(err).Msg("contact import failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to import contacts")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// UpdateContact modifies an existing contact
func (h *Handler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var in service.ContactInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}

	contact, err := h.contactSvc.Update(r.Context(), userID, r.PathValue("id"), in)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", "Contact not found")
		case errors.Is(err, service.ErrContactMissingFields):
			writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		default:
			h.log.Error().Err(err).Msg("failed to update contact")
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to update contact")
		}
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

// DeleteContact removes a contact
func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	if err := h.contactSvc.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Contact not found")
			return
		}
		h.log.Error().Err(err).Msg("failed to delete contact")
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to delete contact")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "contact deleted"})
}
