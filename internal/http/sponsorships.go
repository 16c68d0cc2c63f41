package http

import (
	"net/http"

	httpmiddleware "github.com/impactclub/platform/internal/http/middleware"
	"github.com/impactclub/platform/internal/sponsorship"
)

// CreateSponsorship accepts the public sponsorship inquiry form.
func (h *Handler) CreateSponsorship(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CompanyName     string   `json:"company_name"`
		ContactPerson   string   `json:"contact_person"`
		Email           string   `json:"email"`
		Phone           string   `json:"phone"`
		Website         string   `json:"website"`
		SponsorshipType string   `json:"sponsorship_type"`
		Budget          string   `json:"budget"`
		Message         string   `json:"message"`
		Interests       []string `json:"interests"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	created, err := h.sponsorships.Create(r.Context(), sponsorship.CreateInput{
		CompanyName:     payload.CompanyName,
		ContactPerson:   payload.ContactPerson,
		Email:           payload.Email,
		Phone:           payload.Phone,
		Website:         payload.Website,
		SponsorshipType: payload.SponsorshipType,
		Budget:          payload.Budget,
		Message:         payload.Message,
		Interests:       payload.Interests,
	})
	if err != nil {
		presentError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

// ListSponsorships returns the inquiry queue for admins.
func (h *Handler) ListSponsorships(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	list, err := h.sponsorships.List(r.Context(), httpmiddleware.GetScope(r.Context()), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		presentError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, list)
}

// GetSponsorship returns one inquiry for admins.
func (h *Handler) GetSponsorship(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	inquiry, err := h.sponsorships.Get(r.Context(), httpmiddleware.GetScope(r.Context()), id)
	if err != nil {
		presentError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, inquiry)
}

// UpdateSponsorshipStatus moves an inquiry through review.
func (h *Handler) UpdateSponsorshipStatus(w http.ResponseWriter, r *http.Request) {
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

	updated, err := h.sponsorships.UpdateStatus(r.Context(), httpmiddleware.GetScope(r.Context()), id, payload.Status)
	if err != nil {
		presentError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}
