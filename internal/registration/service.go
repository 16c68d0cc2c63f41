package registration

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/impactclub/platform/internal/rbac"
	"github.com/impactclub/platform/internal/util"
)

type repository interface {
	Create(ctx context.Context, input CreateInput) (*Registration, error)
	List(ctx context.Context, status string, limit, offset int) ([]Registration, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Registration, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Registration, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

// Service guards the registration intake and its admin review flow.
// Registrations carry no public visibility flag, so non-admin reads always
// come back empty instead of erroring.
type Service struct {
	repo repository
}

// NewService creates a new instance.
func NewService(r repository) *Service {
	return &Service{repo: r}
}

// Create accepts an anonymous intake submission.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Registration, error) {
	if err := util.RequireString(input.FullName, "full_name"); err != nil {
		return nil, err
	}
	if err := util.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := util.RequireString(input.Phone, "phone"); err != nil {
		return nil, err
	}
	if input.Age != nil && (*input.Age < 1 || *input.Age > 120) {
		return nil, util.Invalid("age", "is out of range")
	}
	return s.repo.Create(ctx, input)
}

// List returns registrations for admins only. Unknown status filters are
// ignored; non-admin scopes get an empty list.
func (s *Service) List(ctx context.Context, scope rbac.Scope, status string, limit, offset int) ([]Registration, error) {
	if !scope.IsAdmin() {
		return []Registration{}, nil
	}
	return s.repo.List(ctx, strings.ToLower(strings.TrimSpace(status)), limit, offset)
}

// Get fetches one registration for admins; everyone else sees not-found.
func (s *Service) Get(ctx context.Context, scope rbac.Scope, id uuid.UUID) (*Registration, error) {
	if !scope.IsAdmin() {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// UpdateStatus moves a registration through review. Only approved and
// rejected are accepted; anything else is a validation error.
func (s *Service) UpdateStatus(ctx context.Context, scope rbac.Scope, id uuid.UUID, status string) (*Registration, error) {
	if !scope.IsAdmin() {
		return nil, ErrNotFound
	}
	status = strings.ToLower(strings.TrimSpace(status))
	if !ReviewableStatus(status) {
		return nil, util.Invalid("status", "is not a valid status")
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// Counts aggregates totals for the admin dashboard.
func (s *Service) Counts(ctx context.Context) (total int64, pending int64, err error) {
	if total, err = s.repo.CountByStatus(ctx, ""); err != nil {
		return 0, 0, err
	}
	if pending, err = s.repo.CountByStatus(ctx, StatusPending); err != nil {
		return 0, 0, err
	}
	return total, pending, nil
}
