package contact

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
	// ErrNotFound is returned when no message matches.
	ErrNotFound = errors.New("contact message not found")
)

const messageColumns = `id, name, email, subject, message, status, created_at`

// Repository provides access to the contact_messages table.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a repository instance.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a message with status new.
func (r *Repository) Create(ctx context.Context, input CreateInput) (*Message, error) {
	const query = `
        INSERT INTO contact_messages (name, email, subject, message)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + messageColumns

	row := r.pool.QueryRow(ctx, query,
		strings.TrimSpace(input.Name),
		strings.ToLower(strings.TrimSpace(input.Email)),
		strings.TrimSpace(input.Subject),
		input.Body,
	)

	return scanMessage(row)
}

// List returns messages newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status string, limit, offset int) ([]Message, error) {
	base := `SELECT ` + messageColumns + ` FROM contact_messages`

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

	var list []Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *msg)
	}
	return list, rows.Err()
}

// GetByID fetches a single message.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Message, error) {
	const query = `SELECT ` + messageColumns + ` FROM contact_messages WHERE id = $1`
	return scanMessage(r.pool.QueryRow(ctx, query, id))
}

// UpdateStatus sets the handling status of a message.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Message, error) {
	const query = `
        UPDATE contact_messages
        SET status = $2
        WHERE id = $1
        RETURNING ` + messageColumns
	return scanMessage(r.pool.QueryRow(ctx, query, id, status))
}

func scanMessage(row pgx.Row) (*Message, error) {
	var m Message
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.Status, &m.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}
