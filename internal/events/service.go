package events

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/impactclub/platform/internal/rbac"
	"github.com/impactclub/platform/internal/util"
)

type repository interface {
	Create(ctx context.Context, input CreateInput) (*Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	List(ctx context.Context, filter Filter) ([]Event, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context, status string) (int64, error)
}

// Service enforces department scope over event reads and writes. Events are
// publicly readable; mutations are checked against the caller's grants before
// any row is touched.
type Service struct {
	repo repository
}

// NewService creates a new instance.
func NewService(r repository) *Service {
	return &Service{repo: r}
}

// List returns events for anyone. Unknown status filters are ignored.
func (s *Service) List(ctx context.Context, filter Filter) ([]Event, error) {
	return s.repo.List(ctx, filter)
}

// Get fetches one event by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Event, error) {
	return s.repo.GetByID(ctx, id)
}

// Create inserts an event into a department the caller is allowed to manage.
// The owner is always stamped from the caller, never from the payload.
func (s *Service) Create(ctx context.Context, scope rbac.Scope, input CreateInput) (*Event, error) {
	if err := util.RequireString(input.Title, "title"); err != nil {
		return nil, err
	}
	if err := util.RequireString(input.Location, "location"); err != nil {
		return nil, err
	}
	if input.DepartmentID == uuid.Nil {
		return nil, util.Invalid("department_id", "is required")
	}
	input.Status = strings.ToLower(strings.TrimSpace(input.Status))
	if input.Status == "" {
		input.Status = StatusUpcoming
	}
	if !ValidStatus(input.Status) {
		return nil, util.Invalid("status", "is not a valid status")
	}
	if strings.TrimSpace(input.ImageURL) == "" {
		input.ImageURL = DefaultImageURL
	}

	if !scope.IsAdmin() && !scope.AllowsDepartment(input.DepartmentID) {
		return nil, rbac.ErrScopeMismatch
	}

	input.CreatedBy = scope.Principal.ID
	return s.repo.Create(ctx, input)
}

// Update patches an event after re-checking the caller's scope against the
// stored row. An out-of-scope target is indistinguishable from a missing one.
func (s *Service) Update(ctx context.Context, scope rbac.Scope, id uuid.UUID, input UpdateInput) (*Event, error) {
	target, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.IsAdmin() && !scope.AllowsDepartment(target.DepartmentID) {
		return nil, ErrNotFound
	}

	if input.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*input.Status))
		if !ValidStatus(status) {
			return nil, util.Invalid("status", "is not a valid status")
		}
		input.Status = &status
	}

	if input.DepartmentID != nil && !scope.IsAdmin() && !scope.AllowsDepartment(*input.DepartmentID) {
		return nil, rbac.ErrScopeMismatch
	}

	return s.repo.Update(ctx, id, input)
}

// Delete removes an event after the same scope check as Update.
func (s *Service) Delete(ctx context.Context, scope rbac.Scope, id uuid.UUID) error {
	target, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !scope.IsAdmin() && !scope.AllowsDepartment(target.DepartmentID) {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

// Counts aggregates totals for the admin dashboard.
func (s *Service) Counts(ctx context.Context) (total int64, upcoming int64, err error) {
	if total, err = s.repo.CountByStatus(ctx, ""); err != nil {
		return 0, 0, err
	}
	if upcoming, err = s.repo.CountByStatus(ctx, StatusUpcoming); err != nil {
		return 0, 0, err
	}
	return total, upcoming, nil
}
