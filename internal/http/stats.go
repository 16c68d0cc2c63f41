package http

import (
	"net/http"
)

// Stats returns the admin dashboard counters.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	eventsTotal, upcoming, err := h.events.Counts(r.Context())
	if err != nil {
		presentError(w, err)
		return
	}

	registrationsTotal, pending, err := h.registrations.Counts(r.Context())
	if err != nil {
		presentError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"events": map[string]int64{
			"total":    eventsTotal,
			"upcoming": upcoming,
		},
		"registrations": map[string]int64{
			"total":   registrationsTotal,
			"pending": pending,
		},
	})
}
