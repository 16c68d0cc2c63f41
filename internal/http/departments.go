package http

import (
	"net/http"

	"github.com/impactclub/platform/internal/events"
	httpmiddleware "github.com/impactclub/platform/internal/http/middleware"
	"github.com/impactclub/platform/internal/media"
)

// ListDepartments returns the public department directory.
func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	list, err := h.departments.List(r.Context())
	if err != nil {
		presentError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, list)
}

// GetDepartment returns one department.
func (h *Handler) GetDepartment(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	dep, err := h.departments.GetByID(r.Context(), id)
	if err != nil {
		presentError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, dep)
}

// ListDepartmentEvents returns the events of one department.
func (h *Handler) ListDepartmentEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	if _, err := h.departments.GetByID(r.Context(), id); err != nil {
		presentError(w, err)
		return
	}

	limit, offset := pagination(r)
	list, err := h.events.List(r.Context(), events.Filter{
		Status:       r.URL.Query().Get("status"),
		DepartmentID: &id,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		presentError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, list)
}

// ListDepartmentMedia returns the department gallery visible to the caller.
func (h *Handler) ListDepartmentMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	if _, err := h.departments.GetByID(r.Context(), id); err != nil {
		presentError(w, err)
		return
	}

	limit, offset := pagination(r)
	items, err := h.media.List(r.Context(), httpmiddleware.GetScope(r.Context()), media.Filter{
		MediaType:    r.URL.Query().Get("media_type"),
		DepartmentID: &id,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		presentError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}
