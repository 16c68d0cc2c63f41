package http

import (
	"net/http"

	"github.com/impactclub/platform/internal/contact"
	httpmiddleware "github.com/impactclub/platform/internal/http/middleware"
)

// CreateContactMessage accepts the public contact form.
func (h *Handler) CreateContactMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	created, err := h.contacts.Create(r.Context(), contact.CreateInput{
		Name:    payload.Name,
		Email:   payload.Email,
		Subject: payload.Subject,
		Body:    payload.Message,
	})
	if err != nil {
		presentError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

// ListContactMessages returns the inbox for admins.
func (h *Handler) ListContactMessages(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	list, err := h.contacts.List(r.Context(), httpmiddleware.GetScope(r.Context()), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		presentError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, list)
}

// GetContactMessage returns one message for admins.
func (h *Handler) GetContactMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	msg, err := h.contacts.Get(r.Context(), httpmiddleware.GetScope(r.Context()), id)
	if err != nil {
		presentError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, msg)
}

// UpdateContactMessageStatus marks a message read or replied.
func (h *Handler) UpdateContactMessageStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	updated, err := h.contacts.UpdateStatus(r.Context(), httpmiddleware.GetScope(r.Context()), id, payload.Status)
	if err != nil {
		presentError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}
