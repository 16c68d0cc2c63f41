package media

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/impactclub/platform/internal/rbac"
	"github.com/impactclub/platform/internal/util"
)

type repository interface {
	Create(ctx context.Context, input CreateInput) (*Item, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	List(ctx context.Context, scope rbac.Scope, filter Filter) ([]Item, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service enforces visibility and department scope over the media gallery.
type Service struct {
	repo repository
}

// NewService creates a new instance.
func NewService(r repository) *Service {
	return &Service{repo: r}
}

// List returns the rows visible to the scope. The repository ANDs the scope
// predicate with the caller's filters.
func (s *Service) List(ctx context.Context, scope rbac.Scope, filter Filter) ([]Item, error) {
	return s.repo.List(ctx, scope, filter)
}

// Featured returns public featured media for the landing page.
func (s *Service) Featured(ctx context.Context, limit int) ([]Item, error) {
	return s.repo.List(ctx, rbac.Anonymous(), Filter{FeaturedOnly: true, Limit: limit})
}

// Get fetches one media row, hiding private rows from callers without scope
// over the owning department. A hidden row reads exactly like a missing one.
func (s *Service) Get(ctx context.Context, scope rbac.Scope, id uuid.UUID) (*Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.IsPublic {
		return item, nil
	}
	if !scope.IsAdmin() && !scope.AllowsDepartment(item.DepartmentID) {
		return nil, ErrNotFound
	}
	return item, nil
}

// Create inserts a media row into a department the caller may manage. The
// uploader is stamped from the caller, never from the payload.
func (s *Service) Create(ctx context.Context, scope rbac.Scope, input CreateInput) (*Item, error) {
	if err := util.RequireString(input.Title, "title"); err != nil {
		return nil, err
	}
	input.MediaType = strings.ToLower(strings.TrimSpace(input.MediaType))
	if !ValidType(input.MediaType) {
		return nil, util.Invalid("media_type", "is not a valid media type")
	}
	if err := util.RequireString(input.MediaURL, "media_url"); err != nil {
		return nil, err
	}
	if input.DepartmentID == uuid.Nil {
		return nil, util.Invalid("department_id", "is required")
	}

	if !scope.IsAdmin() && !scope.AllowsDepartment(input.DepartmentID) {
		return nil, rbac.ErrScopeMismatch
	}

	input.UploadedBy = scope.Principal.ID
	return s.repo.Create(ctx, input)
}

// Update patches a media row after re-checking the caller's scope against the
// stored row, before any write happens.
func (s *Service) Update(ctx context.Context, scope rbac.Scope, id uuid.UUID, input UpdateInput) (*Item, error) {
	target, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.IsAdmin() && !scope.AllowsDepartment(target.DepartmentID) {
		return nil, ErrNotFound
	}

	if input.MediaType != nil {
		mediaType := strings.ToLower(strings.TrimSpace(*input.MediaType))
		if !ValidType(mediaType) {
			return nil, util.Invalid("media_type", "is not a valid media type")
		}
		input.MediaType = &mediaType
	}

	if input.DepartmentID != nil && !scope.IsAdmin() && !scope.AllowsDepartment(*input.DepartmentID) {
		return nil, rbac.ErrScopeMismatch
	}

	return s.repo.Update(ctx, id, input)
}

// Delete removes a media row after the same scope check as Update.
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
