package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	httpmiddleware "github.com/impactclub/platform/internal/http/middleware"
	"github.com/impactclub/platform/internal/media"
	"github.com/impactclub/platform/internal/storage"
)

// ListMedia returns the gallery visible to the caller's scope.
func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	filter := media.Filter{
		MediaType:    r.URL.Query().Get("media_type"),
		DepartmentID: optionalUUIDQuery(r, "department_id"),
		EventID:      optionalUUIDQuery(r, "event_id"),
		FeaturedOnly: r.URL.Query().Get("featured") == "true",
		Limit:        limit,
		Offset:       offset,
	}

	items, err := h.media.List(r.Context(), httpmiddleware.GetScope(r.Context()), filter)
	if err != nil {
		presentError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

// FeaturedMedia returns the public featured strip for the home page.
func (h *Handler) FeaturedMedia(w http.ResponseWriter, r *http.Request) {
	limit, _ := pagination(r)

	items, err := h.media.Featured(r.Context(), limit)
	if err != nil {
		presentError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

// GetMedia returns one item when the scope allows seeing it.
func (h *Handler) GetMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	item, err := h.media.Get(r.Context(), httpmiddleware.GetScope(r.Context()), id)
	if err != nil {
		presentError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

type mediaPayload struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	MediaType    string   `json:"media_type"`
	MediaURL     string   `json:"media_url"`
	DepartmentID string   `json:"department_id"`
	EventID      *string  `json:"event_id"`
	IsFeatured   bool     `json:"is_featured"`
	IsPublic     *bool    `json:"is_public"`
	Tags         []string `json:"tags"`
}

func (p mediaPayload) toCreateInput() (media.CreateInput, string) {
	departmentID, err := uuid.Parse(strings.TrimSpace(p.DepartmentID))
	if err != nil {
		return media.CreateInput{}, "department_id is invalid"
	}

	input := media.CreateInput{
		Title:        p.Title,
		Description:  p.Description,
		MediaType:    p.MediaType,
		MediaURL:     p.MediaURL,
		DepartmentID: departmentID,
		IsFeatured:   p.IsFeatured,
		IsPublic:     true,
		Tags:         p.Tags,
	}
	if p.IsPublic != nil {
		input.IsPublic = *p.IsPublic
	}
	if p.EventID != nil && strings.TrimSpace(*p.EventID) != "" {
		eventID, err := uuid.Parse(strings.TrimSpace(*p.EventID))
		if err != nil {
			return media.CreateInput{}, "event_id is invalid"
		}
		input.EventID = &eventID
	}
	return input, ""
}

// CreateMedia registers an item whose file already lives at a URL.
func (h *Handler) CreateMedia(w http.ResponseWriter, r *http.Request) {
	var payload mediaPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	input, msg := payload.toCreateInput()
	if msg != "" {
		WriteError(w, http.StatusBadRequest, msg)
		return
	}

	item, err := h.media.Create(r.Context(), httpmiddleware.GetScope(r.Context()), input)
	if err != nil {
		presentError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, item)
}

// UploadMedia receives a multipart file, stores the blob and registers the
// gallery item in one call.
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.cfg.Storage.MaxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		WriteError(w, http.StatusBadRequest, "Upload too large or malformed")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "could not read file")
		return
	}

	payload := mediaPayload{
		Title:        r.FormValue("title"),
		Description:  r.FormValue("description"),
		MediaType:    r.FormValue("media_type"),
		DepartmentID: r.FormValue("department_id"),
		IsFeatured:   r.FormValue("is_featured") == "true",
	}
	if v := r.FormValue("event_id"); v != "" {
		payload.EventID = &v
	}
	if v := r.FormValue("is_public"); v != "" {
		isPublic := v == "true"
		payload.IsPublic = &isPublic
	}
	if v := r.FormValue("tags"); v != "" {
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				payload.Tags = append(payload.Tags, tag)
			}
		}
	}

	input, msg := payload.toCreateInput()
	if msg != "" {
		WriteError(w, http.StatusBadRequest, msg)
		return
	}

	key := storage.MediaKey(input.DepartmentID.String(), input.MediaType, header.Filename)
	result, err := h.storage.Upload(r.Context(), storage.UploadInput{
		Key:          key,
		Body:         body,
		ContentType:  header.Header.Get("Content-Type"),
		CacheControl: "public, max-age=86400",
	})
	if err != nil {
		presentError(w, err)
		return
	}
	input.MediaURL = result.URL

	item, err := h.media.Create(r.Context(), httpmiddleware.GetScope(r.Context()), input)
	if err != nil {
		presentError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, item)
}

// UpdateMedia patches an item the caller may manage.
func (h *Handler) UpdateMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	var payload struct {
		Title        *string  `json:"title"`
		Description  *string  `json:"description"`
		MediaType    *string  `json:"media_type"`
		MediaURL     *string  `json:"media_url"`
		DepartmentID *string  `json:"department_id"`
		EventID      *string  `json:"event_id"`
		IsFeatured   *bool    `json:"is_featured"`
		IsPublic     *bool    `json:"is_public"`
		Tags         []string `json:"tags"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	input := media.UpdateInput{
		Title:       payload.Title,
		Description: payload.Description,
		MediaType:   payload.MediaType,
		MediaURL:    payload.MediaURL,
		IsFeatured:  payload.IsFeatured,
		IsPublic:    payload.IsPublic,
		Tags:        payload.Tags,
	}
	if payload.DepartmentID != nil {
		depID, err := uuid.Parse(strings.TrimSpace(*payload.DepartmentID))
		if err != nil {
			WriteError(w, http.StatusBadRequest, "department_id is invalid")
			return
		}
		input.DepartmentID = &depID
	}
	if payload.EventID != nil && strings.TrimSpace(*payload.EventID) != "" {
		eventID, err := uuid.Parse(strings.TrimSpace(*payload.EventID))
		if err != nil {
			WriteError(w, http.StatusBadRequest, "event_id is invalid")
			return
		}
		input.EventID = &eventID
	}

	item, err := h.media.Update(r.Context(), httpmiddleware.GetScope(r.Context()), id, input)
	if err != nil {
		presentError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

// DeleteMedia removes an item the caller may manage.
func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	if err := h.media.Delete(r.Context(), httpmiddleware.GetScope(r.Context()), id); err != nil {
		presentError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
