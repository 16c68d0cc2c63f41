package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/impactclub/platform/internal/events"
	httpmiddleware "github.com/impactclub/platform/internal/http/middleware"
	"github.com/impactclub/platform/internal/rbac"
	"github.com/impactclub/platform/internal/registration"
)

type eventsRepoStub struct {
	rows map[uuid.UUID]events.Event
}

func (s *eventsRepoStub) Create(ctx context.Context, input events.CreateInput) (*events.Event, error) {
	event := events.Event{
		ID:           uuid.New(),
		Title:        input.Title,
		EventDate:    input.EventDate,
		Location:     input.Location,
		ImageURL:     input.ImageURL,
		Status:       input.Status,
		DepartmentID: input.DepartmentID,
		CreatedAt:    time.Now(),
	}
	s.rows[event.ID] = event
	return &event, nil
}

func (s *eventsRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*events.Event, error) {
	event, ok := s.rows[id]
	if !ok {
		return nil, events.ErrNotFound
	}
	return &event, nil
}

func (s *eventsRepoStub) List(ctx context.Context, filter events.Filter) ([]events.Event, error) {
	out := make([]events.Event, 0, len(s.rows))
	for _, event := range s.rows {
		out = append(out, event)
	}
	return out, nil
}

func (s *eventsRepoStub) Update(ctx context.Context, id uuid.UUID, input events.UpdateInput) (*events.Event, error) {
	event, ok := s.rows[id]
	if !ok {
		return nil, events.ErrNotFound
	}
	return &event, nil
}

func (s *eventsRepoStub) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.rows[id]; !ok {
		return events.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *eventsRepoStub) CountByStatus(ctx context.Context, status string) (int64, error) {
	return int64(len(s.rows)), nil
}

type registrationRepoStub struct {
	rows map[uuid.UUID]registration.Registration
}

func (s *registrationRepoStub) Create(ctx context.Context, input registration.CreateInput) (*registration.Registration, error) {
	row := registration.Registration{ID: uuid.New(), FullName: input.FullName, Email: input.Email, Phone: input.Phone, Status: registration.StatusPending}
	s.rows[row.ID] = row
	return &row, nil
}

func (s *registrationRepoStub) List(ctx context.Context, status string, limit, offset int) ([]registration.Registration, error) {
	out := make([]registration.Registration, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, row)
	}
	return out, nil
}

func (s *registrationRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*registration.Registration, error) {
	row, ok := s.rows[id]
	if !ok {
		return nil, registration.ErrNotFound
	}
	return &row, nil
}

func (s *registrationRepoStub) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*registration.Registration, error) {
	row, ok := s.rows[id]
	if !ok {
		return nil, registration.ErrNotFound
	}
	row.Status = status
	s.rows[id] = row
	return &row, nil
}

func (s *registrationRepoStub) CountByStatus(ctx context.Context, status string) (int64, error) {
	return int64(len(s.rows)), nil
}

func newTestRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/events", h.ListEvents)
	r.Get("/api/events/{id}", h.GetEvent)
	r.Post("/api/events", h.CreateEvent)
	r.Put("/api/events/{id}", h.UpdateEvent)
	r.Delete("/api/events/{id}", h.DeleteEvent)
	r.Post("/api/registrations", h.CreateRegistration)
	r.Get("/api/registrations", h.ListRegistrations)
	r.Patch("/api/registrations/{id}/status", h.UpdateRegistrationStatus)
	return r
}

func do(t *testing.T, router http.Handler, method, path string, scope rbac.Scope, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req = req.WithContext(httpmiddleware.WithScope(req.Context(), scope))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func adminScope() rbac.Scope {
	return rbac.Scope{Authenticated: true, Principal: rbac.Principal{ID: uuid.New()}, Role: rbac.RoleAdmin}
}

func deptAdminScope(departments ...uuid.UUID) rbac.Scope {
	return rbac.Scope{Authenticated: true, Principal: rbac.Principal{ID: uuid.New()}, Role: rbac.RoleDepartmentAdmin, Departments: departments}
}

func TestCreateRegistrationIntake(t *testing.T) {
	h := &Handler{registrations: registration.NewService(&registrationRepoStub{rows: map[uuid.UUID]registration.Registration{}})}
	router := newTestRouter(h)

	rec := do(t, router, http.MethodPost, "/api/registrations", rbac.Anonymous(), map[string]any{
		"full_name": "Maria Silva",
		"email":     "maria@example.org",
		"phone":     "+1 555 0100",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, decodeEnvelope(t, rec).Success)

	rec = do(t, router, http.MethodPost, "/api/registrations", rbac.Anonymous(), map[string]any{
		"email": "maria@example.org",
		"phone": "+1 555 0100",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	require.False(t, env.Success)
	require.Equal(t, "full_name is required", env.Message)
}

func TestUpdateRegistrationStatus(t *testing.T) {
	row := registration.Registration{ID: uuid.New(), FullName: "Maria", Status: registration.StatusPending}
	h := &Handler{registrations: registration.NewService(&registrationRepoStub{rows: map[uuid.UUID]registration.Registration{row.ID: row}})}
	router := newTestRouter(h)

	rec := do(t, router, http.MethodPatch, "/api/registrations/"+row.ID.String()+"/status", adminScope(), map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodPatch, "/api/registrations/"+row.ID.String()+"/status", adminScope(), map[string]string{"status": "archived"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "status is not a valid status", decodeEnvelope(t, rec).Message)
}

func TestRegistrationListEmptyForNonAdmins(t *testing.T) {
	row := registration.Registration{ID: uuid.New(), FullName: "Maria", Status: registration.StatusPending}
	h := &Handler{registrations: registration.NewService(&registrationRepoStub{rows: map[uuid.UUID]registration.Registration{row.ID: row}})}
	router := newTestRouter(h)

	rec := do(t, router, http.MethodGet, "/api/registrations", deptAdminScope(uuid.New()), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Success bool              `json:"success"`
		Data    []json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Empty(t, env.Data)
}

func TestGetEventNotFoundShapes(t *testing.T) {
	h := &Handler{events: events.NewService(&eventsRepoStub{rows: map[uuid.UUID]events.Event{}})}
	router := newTestRouter(h)

	badID := do(t, router, http.MethodGet, "/api/events/not-a-uuid", rbac.Anonymous(), nil)
	missing := do(t, router, http.MethodGet, "/api/events/"+uuid.NewString(), rbac.Anonymous(), nil)

	require.Equal(t, http.StatusNotFound, badID.Code)
	require.Equal(t, http.StatusNotFound, missing.Code)
	require.Equal(t, badID.Body.String(), missing.Body.String())
}

// An event in a department outside the caller's grants must answer with the
// exact same 404 as an event that does not exist at all.
func TestUpdateEventOutOfScopeMatchesMissing(t *testing.T) {
	foreign := events.Event{ID: uuid.New(), Title: "Gala", DepartmentID: uuid.New(), Status: events.StatusUpcoming}
	h := &Handler{events: events.NewService(&eventsRepoStub{rows: map[uuid.UUID]events.Event{foreign.ID: foreign}})}
	router := newTestRouter(h)

	scope := deptAdminScope(uuid.New())
	payload := map[string]string{"title": "Renamed"}

	outOfScope := do(t, router, http.MethodPut, "/api/events/"+foreign.ID.String(), scope, payload)
	missing := do(t, router, http.MethodPut, "/api/events/"+uuid.NewString(), scope, payload)

	require.Equal(t, http.StatusNotFound, outOfScope.Code)
	require.Equal(t, http.StatusNotFound, missing.Code)
	require.Equal(t, outOfScope.Body.String(), missing.Body.String())
}

func TestCreateEventScopeMismatchIs403(t *testing.T) {
	h := &Handler{events: events.NewService(&eventsRepoStub{rows: map[uuid.UUID]events.Event{}})}
	router := newTestRouter(h)

	payload := map[string]any{
		"title":         "Beach cleanup",
		"location":      "North pier",
		"date":          "2026-10-01",
		"department_id": uuid.NewString(),
	}

	rec := do(t, router, http.MethodPost, "/api/events", deptAdminScope(uuid.New()), payload)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Not authorized", decodeEnvelope(t, rec).Message)

	rec = do(t, router, http.MethodPost, "/api/events", adminScope(), payload)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateEventRejectsBadDate(t *testing.T) {
	h := &Handler{events: events.NewService(&eventsRepoStub{rows: map[uuid.UUID]events.Event{}})}
	router := newTestRouter(h)

	rec := do(t, router, http.MethodPost, "/api/events", adminScope(), map[string]any{
		"title":         "Beach cleanup",
		"location":      "North pier",
		"date":          "next friday",
		"department_id": uuid.NewString(),
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
