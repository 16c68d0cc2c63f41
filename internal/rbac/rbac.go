// Package rbac decides which rows a caller may see or mutate. Every protected
// request resolves a Scope (role plus active department grants) and passes it
// through Authorize before any query runs.
package rbac

import (
	"errors"

	"github.com/google/uuid"
)

// Role is the single global role of an account.
type Role string

const (
	RoleUser            Role = "user"
	RoleDepartmentAdmin Role = "department_admin"
	RoleAdmin           Role = "admin"
)

var (
	// ErrUnauthenticated denies anonymous callers on protected routes.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInsufficientRole denies callers whose role is not among the required ones.
	ErrInsufficientRole = errors.New("insufficient role")
	// ErrOutOfScope denies access to a department outside the caller's grants.
	ErrOutOfScope = errors.New("department out of scope")
	// ErrScopeMismatch rejects writes that target a department outside the
	// caller's grants. The request fails; the id is never clamped.
	ErrScopeMismatch = errors.New("department scope mismatch")
	// ErrBackendUnavailable signals that the role/grant store could not be
	// reached. Distinct from a denial so callers can answer 503.
	ErrBackendUnavailable = errors.New("authorization backend unavailable")
)

// ParseRole normalizes a stored role string, defaulting to user.
func ParseRole(value string) Role {
	switch Role(value) {
	case RoleAdmin:
		return RoleAdmin
	case RoleDepartmentAdmin:
		return RoleDepartmentAdmin
	default:
		return RoleUser
	}
}

// Principal identifies an authenticated caller.
type Principal struct {
	ID    uuid.UUID
	Email string
	Name  string
}

// Scope is the authorization context of one request. The zero value is an
// anonymous caller. Admin scope covers all departments implicitly; Departments
// is only consulted for department admins.
type Scope struct {
	Authenticated bool
	Principal     Principal
	Role          Role
	Departments   []uuid.UUID
}

// Anonymous returns the scope of an unauthenticated caller.
func Anonymous() Scope {
	return Scope{Role: RoleUser}
}

// IsAdmin reports whether the scope covers every department.
func (s Scope) IsAdmin() bool {
	return s.Authenticated && s.Role == RoleAdmin
}

// CanManage reports whether the scope has any administrative reach. A
// department admin with no active grants manages nothing and behaves like a
// plain user.
func (s Scope) CanManage() bool {
	if !s.Authenticated {
		return false
	}
	switch s.Role {
	case RoleAdmin:
		return true
	case RoleDepartmentAdmin:
		return len(s.Departments) > 0
	default:
		return false
	}
}

// AllowsDepartment reports whether the scope may touch rows of the department.
func (s Scope) AllowsDepartment(id uuid.UUID) bool {
	if s.IsAdmin() {
		return true
	}
	if !s.Authenticated || s.Role != RoleDepartmentAdmin {
		return false
	}
	for _, dep := range s.Departments {
		if dep == id {
			return true
		}
	}
	return false
}

// Authorize is the single allow/deny decision for a request. The role check
// runs strictly before the department check so a caller lacking the role is
// denied ErrInsufficientRole even when it happens to hold a matching grant;
// the error must not reveal which departments exist.
func Authorize(scope Scope, required []Role, departmentID *uuid.UUID) error {
	if !scope.Authenticated {
		return ErrUnauthenticated
	}

	allowed := false
	for _, role := range required {
		if scope.Role == role {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrInsufficientRole
	}

	if departmentID != nil && scope.Role != RoleAdmin {
		if !scope.AllowsDepartment(*departmentID) {
			return ErrOutOfScope
		}
	}

	return nil
}
