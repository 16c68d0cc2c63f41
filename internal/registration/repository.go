package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when no registration matches.
	ErrNotFound = errors.New("registration not found")
	// ErrDuplicateEmail is returned when the email already has a registration.
	ErrDuplicateEmail = errors.New("email already registered")
)

const registrationColumns = `id, full_name, email, phone, age, city, talent_category, experience,
        motivation, previous_events, social_media, emergency_contact, emergency_phone, status, created_at`

// Repository provides access to the registrations table.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a repository instance.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts an intake registration with status pending.
func (r *Repository) Create(ctx context.Context, input CreateInput) (*Registration, error) {
	const query = `
        INSERT INTO registrations (full_name, email, phone, age, city, talent_category, experience,
            motivation, previous_events, social_media, emergency_contact, emergency_phone)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING ` + registrationColumns

	row := r.pool.QueryRow(ctx, query,
		strings.TrimSpace(input.FullName),
		strings.ToLower(strings.TrimSpace(input.Email)),
		strings.TrimSpace(input.Phone),
		input.Age,
		strings.TrimSpace(input.City),
		strings.TrimSpace(input.TalentCategory),
		input.Experience,
		input.Motivation,
		input.PreviousEvents,
		strings.TrimSpace(input.SocialMedia),
		strings.TrimSpace(input.EmergencyContact),
		strings.TrimSpace(input.EmergencyPhone),
	)

	reg, err := scanRegistration(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return reg, nil
}

// List returns registrations newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status string, limit, offset int) ([]Registration, error) {
	base := `SELECT ` + registrationColumns + ` FROM registrations`

	var (
		clauses []string
		args    []any
		idx     = 1
	)

	if ValidStatus(status) {
		clauses = append(clauses, fmt.Sprintf("status = $%d", idx))
		args = append(args, status)
		idx++
	}

	query := base
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	if limit <= 0 || limit > 200 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *reg)
	}
	return list, rows.Err()
}

// GetByID fetches a single registration.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Registration, error) {
	const query = `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	return scanRegistration(r.pool.QueryRow(ctx, query, id))
}

// UpdateStatus sets the review status of a registration.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Registration, error) {
	const query = `
        UPDATE registrations
        SET status = $2
        WHERE id = $1
        RETURNING ` + registrationColumns
	return scanRegistration(r.pool.QueryRow(ctx, query, id, status))
}

// CountByStatus counts registrations, optionally restricted to one status.
func (r *Repository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	if status == "" {
		err := r.pool.QueryRow(ctx, `SELECT count(*) FROM registrations`).Scan(&count)
		return count, err
	}
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM registrations WHERE status = $1`, status).Scan(&count)
	return count, err
}

func scanRegistration(row pgx.Row) (*Registration, error) {
	var reg Registration
	if err := row.Scan(&reg.ID, &reg.FullName, &reg.Email, &reg.Phone, &reg.Age, &reg.City,
		&reg.TalentCategory, &reg.Experience, &reg.Motivation, &reg.PreviousEvents, &reg.SocialMedia,
		&reg.EmergencyContact, &reg.EmergencyPhone, &reg.Status, &reg.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &reg, nil
}
