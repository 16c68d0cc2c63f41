package repo

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account able to sign in.
type User struct {
	ID           uuid.UUID
	Email        string
	FullName     string
	Phone        *string
	PasswordHash string
	Role         string
	Active       bool
	CreatedAt    time.Time
}

// DepartmentAdminGrant links a department_admin user to a department.
// Revocation flips Active; rows are kept for audit history.
type DepartmentAdminGrant struct {
	UserID       uuid.UUID
	DepartmentID uuid.UUID
	Active       bool
	CreatedAt    time.Time
}

// RefreshToken models the refresh token table.
type RefreshToken struct {
	ID        uuid.UUID
	Subject   uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	Revoked   bool
}
