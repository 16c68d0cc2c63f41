package rbac

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/impactclub/platform/internal/repo"
)

type accountRepository interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (repo.User, error)
	ListActiveGrants(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// Service resolves the scope of a principal against the account store.
type Service struct {
	repo accountRepository
}

// NewService creates a new instance.
func NewService(r accountRepository) *Service {
	return &Service{repo: r}
}

// Lookup loads role and active grants for the subject. The read is performed
// on every request so a revoked grant takes effect on the next call. A missing
// or inactive account resolves to an anonymous scope rather than an error; a
// store failure maps to ErrBackendUnavailable.
func (s *Service) Lookup(ctx context.Context, subject uuid.UUID) (Scope, error) {
	user, err := s.repo.GetUserByID(ctx, subject)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return Anonymous(), nil
		}
		return Scope{}, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if !user.Active {
		return Anonymous(), nil
	}

	scope := Scope{
		Authenticated: true,
		Principal:     Principal{ID: user.ID, Email: user.Email, Name: user.FullName},
		Role:          ParseRole(user.Role),
	}

	if scope.Role == RoleDepartmentAdmin {
		grants, err := s.repo.ListActiveGrants(ctx, user.ID)
		if err != nil {
			return Scope{}, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
		scope.Departments = grants
	}

	return scope, nil
}
