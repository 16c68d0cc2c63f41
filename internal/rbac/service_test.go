package rbac

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/impactclub/platform/internal/repo"
)

type stubAccounts struct {
	users     map[uuid.UUID]repo.User
	grants    map[uuid.UUID][]uuid.UUID
	userErr   error
	grantsErr error
}

func (s *stubAccounts) GetUserByID(ctx context.Context, id uuid.UUID) (repo.User, error) {
	if s.userErr != nil {
		return repo.User{}, s.userErr
	}
	user, ok := s.users[id]
	if !ok {
		return repo.User{}, repo.ErrNotFound
	}
	return user, nil
}

func (s *stubAccounts) ListActiveGrants(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if s.grantsErr != nil {
		return nil, s.grantsErr
	}
	return s.grants[userID], nil
}

func TestLookupMissingAccountIsAnonymous(t *testing.T) {
	svc := NewService(&stubAccounts{users: map[uuid.UUID]repo.User{}})

	scope, err := svc.Lookup(context.Background(), uuid.New())
	require.NoError(t, err)
	require.False(t, scope.Authenticated)
}

func TestLookupInactiveAccountIsAnonymous(t *testing.T) {
	id := uuid.New()
	svc := NewService(&stubAccounts{users: map[uuid.UUID]repo.User{
		id: {ID: id, Role: "admin", Active: false},
	}})

	scope, err := svc.Lookup(context.Background(), id)
	require.NoError(t, err)
	require.False(t, scope.Authenticated)
}

func TestLookupStoreFailureIsBackendUnavailable(t *testing.T) {
	svc := NewService(&stubAccounts{userErr: errors.New("connection refused")})

	_, err := svc.Lookup(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestLookupDepartmentAdminLoadsGrants(t *testing.T) {
	id := uuid.New()
	depA := uuid.New()
	depB := uuid.New()
	accounts := &stubAccounts{
		users: map[uuid.UUID]repo.User{
			id: {ID: id, Email: "lead@club.org", FullName: "Dept Lead", Role: "department_admin", Active: true},
		},
		grants: map[uuid.UUID][]uuid.UUID{id: {depA, depB}},
	}
	svc := NewService(accounts)

	scope, err := svc.Lookup(context.Background(), id)
	require.NoError(t, err)
	require.True(t, scope.Authenticated)
	require.Equal(t, RoleDepartmentAdmin, scope.Role)
	require.ElementsMatch(t, []uuid.UUID{depA, depB}, scope.Departments)

	// Grants are read fresh on each lookup, so a revocation shows up on the
	// very next call.
	accounts.grants[id] = []uuid.UUID{depA}
	scope, err = svc.Lookup(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{depA}, scope.Departments)
	require.False(t, scope.AllowsDepartment(depB))
}

func TestLookupGrantFailureIsBackendUnavailable(t *testing.T) {
	id := uuid.New()
	svc := NewService(&stubAccounts{
		users: map[uuid.UUID]repo.User{
			id: {ID: id, Role: "department_admin", Active: true},
		},
		grantsErr: errors.New("timeout"),
	})

	_, err := svc.Lookup(context.Background(), id)
	require.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestLookupPlainUserHasNoGrants(t *testing.T) {
	id := uuid.New()
	svc := NewService(&stubAccounts{
		users: map[uuid.UUID]repo.User{
			id: {ID: id, Role: "user", Active: true},
		},
		grants: map[uuid.UUID][]uuid.UUID{id: {uuid.New()}},
	})

	scope, err := svc.Lookup(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, RoleUser, scope.Role)
	require.Empty(t, scope.Departments)
}
