package sponsorship

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when no inquiry matches.
	ErrNotFound = errors.New("sponsorship inquiry not found")
)

const inquiryColumns = `id, company_name, contact_person, email, phone, website, sponsorship_type,
        budget, message, interests, status, created_at`

// Repository provides access to the sponsorship_inquiries table.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a repository instance.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts an inquiry with status pending.
func (r *Repository) Create(ctx context.Context, input CreateInput) (*Inquiry, error) {
	const query = `
        INSERT INTO sponsorship_inquiries (company_name, contact_person, email, phone, website,
            sponsorship_type, budget, message, interests)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING ` + inquiryColumns

	interests := input.Interests
	if interests == nil {
		interests = []string{}
	}

	row := r.pool.QueryRow(ctx, query,
		strings.TrimSpace(input.CompanyName),
		strings.TrimSpace(input.ContactPerson),
		strings.ToLower(strings.TrimSpace(input.Email)),
		strings.TrimSpace(input.Phone),
		strings.TrimSpace(input.Website),
		strings.TrimSpace(input.SponsorshipType),
		strings.TrimSpace(input.Budget),
		input.Message,
		interests,
	)

	return scanInquiry(row)
}

// List returns inquiries newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status string, limit, offset int) ([]Inquiry, error) {
	base := `SELECT ` + inquiryColumns + ` FROM sponsorship_inquiries`

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

	var list []Inquiry
	for rows.Next() {
		inquiry, err := scanInquiry(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *inquiry)
	}
	return list, rows.Err()
}

// GetByID fetches a single inquiry.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Inquiry, error) {
	const query = `SELECT ` + inquiryColumns + ` FROM sponsorship_inquiries WHERE id = $1`
	return scanInquiry(r.pool.QueryRow(ctx, query, id))
}

// UpdateStatus sets the review status of an inquiry.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Inquiry, error) {
	const query = `
        UPDATE sponsorship_inquiries
        SET status = $2
        WHERE id = $1
        RETURNING ` + inquiryColumns
	return scanInquiry(r.pool.QueryRow(ctx, query, id, status))
}

func scanInquiry(row pgx.Row) (*Inquiry, error) {
	var q Inquiry
	if err := row.Scan(&q.ID, &q.CompanyName, &q.ContactPerson, &q.Email, &q.Phone, &q.Website,
		&q.SponsorshipType, &q.Budget, &q.Message, &q.Interests, &q.Status, &q.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}
