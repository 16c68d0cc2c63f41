package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/impactclub/platform/internal/events"
	httpmiddleware "github.com/impactclub/platform/internal/http/middleware"
)

type eventPayload struct {
	Title                string  `json:"title"`
	Description          string  `json:"description"`
	Date                 string  `json:"date"`
	Time                 string  `json:"time"`
	Location             string  `json:"location"`
	ImageURL             string  `json:"image_url"`
	MaxParticipants      *int    `json:"max_participants"`
	Status               string  `json:"status"`
	RegistrationDeadline *string `json:"registration_deadline"`
	DepartmentID         string  `json:"department_id"`
}

// parseEventDate accepts the calendar form the site sends and full
// timestamps alike.
func parseEventDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ListEvents returns events filtered by status and department.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	filter := events.Filter{
		Status:       r.URL.Query().Get("status"),
		DepartmentID: optionalUUIDQuery(r, "department_id"),
		Limit:        limit,
		Offset:       offset,
	}

	list, err := h.events.List(r.Context(), filter)
	if err != nil {
		presentError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, list)
}

// GetEvent returns one event.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	event, err := h.events.Get(r.Context(), id)
	if err != nil {
		presentError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, event)
}

// CreateEvent creates an event inside the caller's department scope.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var payload eventPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	departmentID, err := uuid.Parse(strings.TrimSpace(payload.DepartmentID))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "department_id is invalid")
		return
	}

	eventDate, ok := parseEventDate(payload.Date)
	if !ok {
		WriteError(w, http.StatusBadRequest, "date is invalid")
		return
	}

	var deadline *time.Time
	if payload.RegistrationDeadline != nil && strings.TrimSpace(*payload.RegistrationDeadline) != "" {
		d, ok := parseEventDate(*payload.RegistrationDeadline)
		if !ok {
			WriteError(w, http.StatusBadRequest, "registration_deadline is invalid")
			return
		}
		deadline = &d
	}

	input := events.CreateInput{
		Title:                payload.Title,
		Description:          payload.Description,
		EventDate:            eventDate,
		EventTime:            payload.Time,
		Location:             payload.Location,
		ImageURL:             payload.ImageURL,
		MaxParticipants:      payload.MaxParticipants,
		Status:               payload.Status,
		RegistrationDeadline: deadline,
		DepartmentID:         departmentID,
	}

	event, err := h.events.Create(r.Context(), httpmiddleware.GetScope(r.Context()), input)
	if err != nil {
		presentError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, event)
}

// UpdateEvent patches an event the caller may manage.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	var payload struct {
		Title                *string `json:"title"`
		Description          *string `json:"description"`
		Date                 *string `json:"date"`
		Time                 *string `json:"time"`
		Location             *string `json:"location"`
		ImageURL             *string `json:"image_url"`
		MaxParticipants      *int    `json:"max_participants"`
		Status               *string `json:"status"`
		RegistrationDeadline *string `json:"registration_deadline"`
		DepartmentID         *string `json:"department_id"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	input := events.UpdateInput{
		Title:           payload.Title,
		Description:     payload.Description,
		EventTime:       payload.Time,
		Location:        payload.Location,
		ImageURL:        payload.ImageURL,
		MaxParticipants: payload.MaxParticipants,
		Status:          payload.Status,
	}

	if payload.Date != nil {
		d, ok := parseEventDate(*payload.Date)
		if !ok {
			WriteError(w, http.StatusBadRequest, "date is invalid")
			return
		}
		input.EventDate = &d
	}
	if payload.RegistrationDeadline != nil {
		d, ok := parseEventDate(*payload.RegistrationDeadline)
		if !ok {
			WriteError(w, http.StatusBadRequest, "registration_deadline is invalid")
			return
		}
		input.RegistrationDeadline = &d
	}
	if payload.DepartmentID != nil {
		depID, err := uuid.Parse(strings.TrimSpace(*payload.DepartmentID))
		if err != nil {
			WriteError(w, http.StatusBadRequest, "department_id is invalid")
			return
		}
		input.DepartmentID = &depID
	}

	event, err := h.events.Update(r.Context(), httpmiddleware.GetScope(r.Context()), id, input)
	if err != nil {
		presentError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, event)
}

// DeleteEvent removes an event the caller may manage.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	if err := h.events.Delete(r.Context(), httpmiddleware.GetScope(r.Context()), id); err != nil {
		presentError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
