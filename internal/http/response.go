package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/impactclub/platform/internal/contact"
	"github.com/impactclub/platform/internal/department"
	"github.com/impactclub/platform/internal/events"
	"github.com/impactclub/platform/internal/media"
	"github.com/impactclub/platform/internal/rbac"
	"github.com/impactclub/platform/internal/registration"
	"github.com/impactclub/platform/internal/repo"
	"github.com/impactclub/platform/internal/service"
	"github.com/impactclub/platform/internal/sponsorship"
	"github.com/impactclub/platform/internal/util"
)

// Envelope is the single response shape for every endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes a success envelope.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Success: true, Data: data})
}

// WriteError writes an error envelope with a consistent shape.
func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Success: false, Message: message})
}

// presentError maps domain errors to HTTP responses. Authorization denials
// share one generic message, and a row out of scope is indistinguishable
// from a row that does not exist.
func presentError(w http.ResponseWriter, err error) {
	var ve *util.ValidationError
	if errors.As(err, &ve) {
		WriteError(w, http.StatusBadRequest, ve.Error())
		return
	}

	switch {
	case errors.Is(err, rbac.ErrUnauthenticated):
		WriteError(w, http.StatusUnauthorized, "Not authorized")
	case errors.Is(err, rbac.ErrInsufficientRole),
		errors.Is(err, rbac.ErrOutOfScope),
		errors.Is(err, rbac.ErrScopeMismatch):
		WriteError(w, http.StatusForbidden, "Not authorized")
	case errors.Is(err, events.ErrNotFound),
		errors.Is(err, media.ErrNotFound),
		errors.Is(err, department.ErrNotFound),
		errors.Is(err, registration.ErrNotFound),
		errors.Is(err, sponsorship.ErrNotFound),
		errors.Is(err, contact.ErrNotFound),
		errors.Is(err, repo.ErrNotFound):
		WriteError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, registration.ErrDuplicateEmail):
		WriteError(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, rbac.ErrBackendUnavailable),
		errors.Is(err, service.ErrSessionBackendUnavailable):
		WriteError(w, http.StatusServiceUnavailable, "Service unavailable")
	default:
		log.Error().Err(err).Msg("unhandled request error")
		WriteError(w, http.StatusInternalServerError, "Internal error")
	}
}
