package http

import (
	"net/http"

	httpmiddleware "github.com/impactclub/platform/internal/http/middleware"
	"github.com/impactclub/platform/internal/registration"
)

// CreateRegistration accepts the public membership intake form.
func (h *Handler) CreateRegistration(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		FullName         string `json:"full_name"`
		Email            string `json:"email"`
		Phone            string `json:"phone"`
		Age              *int   `json:"age"`
		City             string `json:"city"`
		TalentCategory   string `json:"talent_category"`
		Experience       string `json:"experience"`
		Motivation       string `json:"motivation"`
		PreviousEvents   string `json:"previous_events"`
		SocialMedia      string `json:"social_media"`
		EmergencyContact string `json:"emergency_contact"`
		EmergencyPhone   string `json:"emergency_phone"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	created, err := h.registrations.Create(r.Context(), registration.CreateInput{
		FullName:         payload.FullName,
		Email:            payload.Email,
		Phone:            payload.Phone,
		Age:              payload.Age,
		City:             payload.City,
		TalentCategory:   payload.TalentCategory,
		Experience:       payload.Experience,
		Motivation:       payload.Motivation,
		PreviousEvents:   payload.PreviousEvents,
		SocialMedia:      payload.SocialMedia,
		EmergencyContact: payload.EmergencyContact,
		EmergencyPhone:   payload.EmergencyPhone,
	})
	if err != nil {
		presentError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

// ListRegistrations returns the intake queue for admins.
func (h *Handler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	list, err := h.registrations.List(r.Context(), httpmiddleware.GetScope(r.Context()), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		presentError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, list)
}

// GetRegistration returns one registration for admins.
func (h *Handler) GetRegistration(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	reg, err := h.registrations.Get(r.Context(), httpmiddleware.GetScope(r.Context()), id)
	if err != nil {
		presentError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, reg)
}

// UpdateRegistrationStatus approves or rejects an application.
func (h *Handler) UpdateRegistrationStatus(w http.ResponseWriter, r *http.Request) {
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

	updated, err := h.registrations.UpdateStatus(r.Context(), httpmiddleware.GetScope(r.Context()), id, payload.Status)
	if err != nil {
		presentError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}
