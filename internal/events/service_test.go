package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/impactclub/platform/internal/rbac"
)

type stubRepo struct {
	events     map[uuid.UUID]Event
	lastCreate CreateInput
	lastUpdate UpdateInput
	deleted    []uuid.UUID
}

func newStubRepo(events ...Event) *stubRepo {
	s := &stubRepo{events: make(map[uuid.UUID]Event)}
	for _, e := range events {
		s.events[e.ID] = e
	}
	return s
}

func (s *stubRepo) Create(ctx context.Context, input CreateInput) (*Event, error) {
	s.lastCreate = input
	event := Event{
		ID:           uuid.New(),
		Title:        input.Title,
		EventDate:    input.EventDate,
		Location:     input.Location,
		ImageURL:     input.ImageURL,
		Status:       input.Status,
		DepartmentID: input.DepartmentID,
		CreatedBy:    &input.CreatedBy,
		CreatedAt:    time.Now(),
	}
	s.events[event.ID] = event
	return &event, nil
}

func (s *stubRepo) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	event, ok := s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &event, nil
}

func (s *stubRepo) List(ctx context.Context, filter Filter) ([]Event, error) {
	out := make([]Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e)
	}
	return out, nil
}

func (s *stubRepo) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Event, error) {
	s.lastUpdate = input
	event, ok := s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &event, nil
}

func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.events[id]; !ok {
		return ErrNotFound
	}
	s.deleted = append(s.deleted, id)
	delete(s.events, id)
	return nil
}

func (s *stubRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	if status == "" {
		return int64(len(s.events)), nil
	}
	var n int64
	for _, e := range s.events {
		if e.Status == status {
			n++
		}
	}
	return n, nil
}

func deptAdmin(departments ...uuid.UUID) rbac.Scope {
	return rbac.Scope{
		Authenticated: true,
		Principal:     rbac.Principal{ID: uuid.New()},
		Role:          rbac.RoleDepartmentAdmin,
		Departments:   departments,
	}
}

func admin() rbac.Scope {
	return rbac.Scope{Authenticated: true, Principal: rbac.Principal{ID: uuid.New()}, Role: rbac.RoleAdmin}
}

func validInput(departmentID uuid.UUID) CreateInput {
	return CreateInput{
		Title:        "Beach cleanup",
		Location:     "North pier",
		EventDate:    time.Now().Add(48 * time.Hour),
		DepartmentID: departmentID,
	}
}

func TestCreateRequiresTitleAndLocation(t *testing.T) {
	svc := NewService(newStubRepo())
	dep := uuid.New()

	input := validInput(dep)
	input.Title = "  "
	_, err := svc.Create(context.Background(), admin(), input)
	require.Error(t, err)

	input = validInput(dep)
	input.Location = ""
	_, err = svc.Create(context.Background(), admin(), input)
	require.Error(t, err)
}

func TestCreateAppliesDefaults(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)

	event, err := svc.Create(context.Background(), admin(), validInput(uuid.New()))
	require.NoError(t, err)
	require.Equal(t, StatusUpcoming, event.Status)
	require.Equal(t, DefaultImageURL, event.ImageURL)
}

func TestCreateStampsOwnerFromCaller(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)
	scope := admin()

	_, err := svc.Create(context.Background(), scope, validInput(uuid.New()))
	require.NoError(t, err)
	require.Equal(t, scope.Principal.ID, repo.lastCreate.CreatedBy)
}

func TestCreateRejectsInvalidStatus(t *testing.T) {
	svc := NewService(newStubRepo())

	input := validInput(uuid.New())
	input.Status = "archived"
	_, err := svc.Create(context.Background(), admin(), input)
	require.Error(t, err)
}

func TestCreateOutsideGrantsFails(t *testing.T) {
	svc := NewService(newStubRepo())
	granted := uuid.New()
	other := uuid.New()

	_, err := svc.Create(context.Background(), deptAdmin(granted), validInput(other))
	require.ErrorIs(t, err, rbac.ErrScopeMismatch)
}

func TestCreateWithinGrantsSucceeds(t *testing.T) {
	svc := NewService(newStubRepo())
	granted := uuid.New()

	event, err := svc.Create(context.Background(), deptAdmin(granted), validInput(granted))
	require.NoError(t, err)
	require.Equal(t, granted, event.DepartmentID)
}

func TestUpdateOutOfScopeReadsAsMissing(t *testing.T) {
	foreign := Event{ID: uuid.New(), Title: "Gala", DepartmentID: uuid.New(), Status: StatusUpcoming}
	svc := NewService(newStubRepo(foreign))

	title := "Renamed"
	_, err := svc.Update(context.Background(), deptAdmin(uuid.New()), foreign.ID, UpdateInput{Title: &title})
	require.ErrorIs(t, err, ErrNotFound)

	_, missingErr := svc.Update(context.Background(), deptAdmin(uuid.New()), uuid.New(), UpdateInput{Title: &title})
	require.Equal(t, missingErr, err)
}

func TestUpdateRejectsInvalidStatus(t *testing.T) {
	dep := uuid.New()
	event := Event{ID: uuid.New(), Title: "Gala", DepartmentID: dep, Status: StatusUpcoming}
	svc := NewService(newStubRepo(event))

	bad := "archived"
	_, err := svc.Update(context.Background(), deptAdmin(dep), event.ID, UpdateInput{Status: &bad})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestUpdateCannotMoveEventOutsideGrants(t *testing.T) {
	dep := uuid.New()
	event := Event{ID: uuid.New(), Title: "Gala", DepartmentID: dep, Status: StatusUpcoming}
	svc := NewService(newStubRepo(event))

	other := uuid.New()
	_, err := svc.Update(context.Background(), deptAdmin(dep), event.ID, UpdateInput{DepartmentID: &other})
	require.ErrorIs(t, err, rbac.ErrScopeMismatch)
}

func TestAdminUpdatesAnyDepartment(t *testing.T) {
	event := Event{ID: uuid.New(), Title: "Gala", DepartmentID: uuid.New(), Status: StatusUpcoming}
	svc := NewService(newStubRepo(event))

	title := "Charity Gala"
	updated, err := svc.Update(context.Background(), admin(), event.ID, UpdateInput{Title: &title})
	require.NoError(t, err)
	require.NotNil(t, updated)
}

func TestDeleteOutOfScopeReadsAsMissing(t *testing.T) {
	event := Event{ID: uuid.New(), DepartmentID: uuid.New(), Status: StatusUpcoming}
	repo := newStubRepo(event)
	svc := NewService(repo)

	err := svc.Delete(context.Background(), deptAdmin(uuid.New()), event.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.Empty(t, repo.deleted)

	require.NoError(t, svc.Delete(context.Background(), admin(), event.ID))
	require.Equal(t, []uuid.UUID{event.ID}, repo.deleted)
}

func TestCounts(t *testing.T) {
	svc := NewService(newStubRepo(
		Event{ID: uuid.New(), Status: StatusUpcoming},
		Event{ID: uuid.New(), Status: StatusUpcoming},
		Event{ID: uuid.New(), Status: StatusCompleted},
	))

	total, upcoming, err := svc.Counts(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.EqualValues(t, 2, upcoming)
}
