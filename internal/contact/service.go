package contact

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/impactclub/platform/internal/rbac"
	"github.com/impactclub/platform/internal/util"
)

type repository interface {
	Create(ctx context.Context, input CreateInput) (*Message, error)
	List(ctx context.Context, status string, limit, offset int) ([]Message, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Message, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Message, error)
}

// Service guards the contact intake and its admin handling flow.
type Service struct {
	repo repository
}

// NewService creates a new instance.
func NewService(r repository) *Service {
	return &Service{repo: r}
}

// Create accepts an anonymous contact message.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Message, error) {
	if err := util.RequireString(input.Name, "name"); err != nil {
		return nil, err
	}
	if err := util.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := util.RequireString(input.Body, "message"); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, input)
}

// List returns messages for admins only; everyone else gets an empty list.
func (s *Service) List(ctx context.Context, scope rbac.Scope, status string, limit, offset int) ([]Message, error) {
	if !scope.IsAdmin() {
		return []Message{}, nil
	}
	return s.repo.List(ctx, strings.ToLower(strings.TrimSpace(status)), limit, offset)
}

// Get fetches one message for admins; everyone else sees not-found.
func (s *Service) Get(ctx context.Context, scope rbac.Scope, id uuid.UUID) (*Message, error) {
	if !scope.IsAdmin() {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// UpdateStatus moves a message through handling.
func (s *Service) UpdateStatus(ctx context.Context, scope rbac.Scope, id uuid.UUID, status string) (*Message, error) {
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
