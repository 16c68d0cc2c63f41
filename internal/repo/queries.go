package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Queries provides access to account, grant and session tables.
type Queries struct {
	pool *pgxpool.Pool
}

// New creates a Queries instance over a pool.
func New(pool *pgxpool.Pool) *Queries {
	return &Queries{pool: pool}
}

// CreateUser inserts a self-registered account with the default role.
func (q *Queries) CreateUser(ctx context.Context, email, fullName string, phone *string, passwordHash string) (User, error) {
	const query = `
        INSERT INTO users (email, full_name, phone, password_hash, role, is_active)
        VALUES ($1, $2, $3, $4, 'user', true)
        RETURNING id, email, full_name, phone, password_hash, role, is_active, created_at
    `
	user, err := scanUser(q.pool.QueryRow(ctx, query, email, fullName, phone, passwordHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return user, nil
}

// GetUserByEmail looks up an account by lowercase email.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	const query = `
        SELECT id, email, full_name, phone, password_hash, role, is_active, created_at
        FROM users
        WHERE lower(email) = lower($1)
    `
	return scanUser(q.pool.QueryRow(ctx, query, email))
}

// GetUserByID looks up an account by id.
func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	const query = `
        SELECT id, email, full_name, phone, password_hash, role, is_active, created_at
        FROM users
        WHERE id = $1
    `
	return scanUser(q.pool.QueryRow(ctx, query, id))
}

// ListActiveGrants returns the department ids the user currently holds active
// grants for. Revoked grants are excluded, never deleted.
func (q *Queries) ListActiveGrants(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	const query = `
        SELECT department_id
        FROM department_admins
        WHERE user_id = $1 AND is_active = true
        ORDER BY department_id
    `
	rows, err := q.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// InsertRefreshToken persists a hashed refresh token.
func (q *Queries) InsertRefreshToken(ctx context.Context, subject uuid.UUID, tokenHash string, expiresAt time.Time) (RefreshToken, error) {
	const query = `
        INSERT INTO refresh_tokens (subject, token_hash, expires_at)
        VALUES ($1, $2, $3)
        RETURNING id, subject, token_hash, expires_at, created_at, revoked
    `
	return scanRefreshToken(q.pool.QueryRow(ctx, query, subject, tokenHash, expiresAt))
}

// GetRefreshTokenByHash fetches a refresh token by its hash.
func (q *Queries) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (RefreshToken, error) {
	const query = `
        SELECT id, subject, token_hash, expires_at, created_at, revoked
        FROM refresh_tokens
        WHERE token_hash = $1
    `
	return scanRefreshToken(q.pool.QueryRow(ctx, query, tokenHash))
}

// RevokeRefreshToken marks a single refresh token as revoked.
func (q *Queries) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	const query = `UPDATE refresh_tokens SET revoked = true WHERE token_hash = $1`
	_, err := q.pool.Exec(ctx, query, tokenHash)
	return err
}

// InvalidateOtherRefreshTokens revokes every refresh token of the subject
// except the one being kept. Used on rotation.
func (q *Queries) InvalidateOtherRefreshTokens(ctx context.Context, subject uuid.UUID, keepHash string) error {
	const query = `
        UPDATE refresh_tokens
        SET revoked = true
        WHERE subject = $1 AND token_hash <> $2 AND revoked = false
    `
	_, err := q.pool.Exec(ctx, query, subject, keepHash)
	return err
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Phone, &u.PasswordHash, &u.Role, &u.Active, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func scanRefreshToken(row pgx.Row) (RefreshToken, error) {
	var t RefreshToken
	if err := row.Scan(&t.ID, &t.Subject, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt, &t.Revoked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RefreshToken{}, ErrNotFound
		}
		return RefreshToken{}, err
	}
	return t, nil
}
