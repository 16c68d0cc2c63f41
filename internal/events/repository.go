package events

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/impactclub/platform/internal/db"
)

var (
	// ErrNotFound is returned when no event matches.
	ErrNotFound = errors.New("event not found")
)

const eventColumns = `id, title, description, event_date, event_time, location, image_url,
        max_participants, status, registration_deadline, department_id, created_by, created_at, updated_at`

// Repository provides access to the events table.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a repository instance.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new event.
func (r *Repository) Create(ctx context.Context, input CreateInput) (*Event, error) {
	const query = `
        INSERT INTO events (title, description, event_date, event_time, location, image_url,
            max_participants, status, registration_deadline, department_id, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING ` + eventColumns

	row := r.pool.QueryRow(ctx, query,
		strings.TrimSpace(input.Title),
		strings.TrimSpace(input.Description),
		input.EventDate,
		strings.TrimSpace(input.EventTime),
		strings.TrimSpace(input.Location),
		input.ImageURL,
		input.MaxParticipants,
		strings.ToLower(input.Status),
		input.RegistrationDeadline,
		input.DepartmentID,
		input.CreatedBy,
	)

	return scanEvent(row)
}

// GetByID fetches a single event.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return scanEvent(r.pool.QueryRow(ctx, query, id))
}

// List returns events ordered by date, applying lenient filters.
func (r *Repository) List(ctx context.Context, filter Filter) ([]Event, error) {
	base := `SELECT ` + eventColumns + ` FROM events`

	var (
		clauses []string
		args    []any
		idx     = 1
	)

	if ValidStatus(filter.Status) {
		clauses = append(clauses, fmt.Sprintf("status = $%d", idx))
		args = append(args, filter.Status)
		idx++
	}

	if filter.DepartmentID != nil {
		clauses = append(clauses, fmt.Sprintf("department_id = $%d", idx))
		args = append(args, *filter.DepartmentID)
		idx++
	}

	query := base
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query += fmt.Sprintf(" ORDER BY event_date DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *event)
	}

	return list, rows.Err()
}

// Update patches event fields and bumps updated_at.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Event, error) {
	setParts := []string{}
	args := []any{}
	idx := 1

	set := func(column string, value any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}

	if input.Title != nil {
		set("title", strings.TrimSpace(*input.Title))
	}
	if input.Description != nil {
		set("description", strings.TrimSpace(*input.Description))
	}
	if input.EventDate != nil {
		set("event_date", *input.EventDate)
	}
	if input.EventTime != nil {
		set("event_time", strings.TrimSpace(*input.EventTime))
	}
	if input.Location != nil {
		set("location", strings.TrimSpace(*input.Location))
	}
	if input.ImageURL != nil {
		set("image_url", *input.ImageURL)
	}
	if input.MaxParticipants != nil {
		set("max_participants", *input.MaxParticipants)
	}
	if input.Status != nil {
		set("status", strings.ToLower(*input.Status))
	}
	if input.RegistrationDeadline != nil {
		set("registration_deadline", *input.RegistrationDeadline)
	}
	if input.DepartmentID != nil {
		set("department_id", *input.DepartmentID)
	}

	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}

	setParts = append(setParts, "updated_at = now()")

	args = append(args, id)
	query := fmt.Sprintf(`
        UPDATE events
        SET %s
        WHERE id = $%d
        RETURNING `+eventColumns, strings.Join(setParts, ", "), idx)

	return scanEvent(r.pool.QueryRow(ctx, query, args...))
}

// Delete removes an event, detaching any gallery items that point at it so
// the media rows survive the event.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE event_media SET event_id = NULL WHERE event_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// CountByStatus counts events, optionally restricted to one status.
func (r *Repository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	if status == "" {
		err := r.pool.QueryRow(ctx, `SELECT count(*) FROM events`).Scan(&count)
		return count, err
	}
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM events WHERE status = $1`, status).Scan(&count)
	return count, err
}

func scanEvent(row pgx.Row) (*Event, error) {
	var e Event
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.EventDate, &e.EventTime, &e.Location,
		&e.ImageURL, &e.MaxParticipants, &e.Status, &e.RegistrationDeadline, &e.DepartmentID,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}
