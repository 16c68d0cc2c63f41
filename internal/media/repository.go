package media

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/impactclub/platform/internal/rbac"
)

var (
	// ErrNotFound is returned when no media row matches.
	ErrNotFound = errors.New("media not found")
)

const mediaColumns = `id, title, description, media_type, media_url, department_id, event_id,
        uploaded_by, is_featured, is_public, tags, created_at, updated_at`

// Repository provides access to the event_media table. List queries receive
// the caller's scope and gain an implicit predicate: admins are unrestricted,
// department admins are confined to their granted departments, everyone else
// only sees public rows.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a repository instance.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a media row.
func (r *Repository) Create(ctx context.Context, input CreateInput) (*Item, error) {
	const query = `
        INSERT INTO event_media (title, description, media_type, media_url, department_id,
            event_id, uploaded_by, is_featured, is_public, tags)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING ` + mediaColumns

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	row := r.pool.QueryRow(ctx, query,
		strings.TrimSpace(input.Title),
		strings.TrimSpace(input.Description),
		strings.ToLower(input.MediaType),
		input.MediaURL,
		input.DepartmentID,
		input.EventID,
		input.UploadedBy,
		input.IsFeatured,
		input.IsPublic,
		tags,
	)

	return scanItem(row)
}

// GetByID fetches a single media row regardless of visibility. Callers must
// apply their own scope check before exposing the result.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	const query = `SELECT ` + mediaColumns + ` FROM event_media WHERE id = $1`
	return scanItem(r.pool.QueryRow(ctx, query, id))
}

// List returns media visible to the scope, newest first. Caller filters are
// ANDed with the scope predicate, so a department admin filtering on a foreign
// department gets an empty result, not an error.
func (r *Repository) List(ctx context.Context, scope rbac.Scope, filter Filter) ([]Item, error) {
	base := `SELECT ` + mediaColumns + ` FROM event_media`

	var (
		clauses []string
		args    []any
		idx     = 1
	)

	switch {
	case scope.IsAdmin():
		// no scope predicate
	case scope.Authenticated && scope.Role == rbac.RoleDepartmentAdmin:
		if len(scope.Departments) == 0 {
			return []Item{}, nil
		}
		clauses = append(clauses, fmt.Sprintf("department_id = ANY($%d)", idx))
		args = append(args, scope.Departments)
		idx++
	default:
		clauses = append(clauses, "is_public = true")
	}

	if ValidType(filter.MediaType) {
		clauses = append(clauses, fmt.Sprintf("media_type = $%d", idx))
		args = append(args, filter.MediaType)
		idx++
	}
	if filter.DepartmentID != nil {
		clauses = append(clauses, fmt.Sprintf("department_id = $%d", idx))
		args = append(args, *filter.DepartmentID)
		idx++
	}
	if filter.EventID != nil {
		clauses = append(clauses, fmt.Sprintf("event_id = $%d", idx))
		args = append(args, *filter.EventID)
		idx++
	}
	if filter.FeaturedOnly {
		clauses = append(clauses, "is_featured = true")
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

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	return items, rows.Err()
}

// Update patches media fields and bumps updated_at.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Item, error) {
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
	if input.MediaType != nil {
		set("media_type", strings.ToLower(*input.MediaType))
	}
	if input.MediaURL != nil {
		set("media_url", *input.MediaURL)
	}
	if input.DepartmentID != nil {
		set("department_id", *input.DepartmentID)
	}
	if input.EventID != nil {
		set("event_id", *input.EventID)
	}
	if input.IsFeatured != nil {
		set("is_featured", *input.IsFeatured)
	}
	if input.IsPublic != nil {
		set("is_public", *input.IsPublic)
	}
	if input.Tags != nil {
		set("tags", input.Tags)
	}

	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}

	setParts = append(setParts, "updated_at = now()")

	args = append(args, id)
	query := fmt.Sprintf(`
        UPDATE event_media
        SET %s
        WHERE id = $%d
        RETURNING `+mediaColumns, strings.Join(setParts, ", "), idx)

	return scanItem(r.pool.QueryRow(ctx, query, args...))
}

// Delete removes a media row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM event_media WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanItem(row pgx.Row) (*Item, error) {
	var m Item
	if err := row.Scan(&m.ID, &m.Title, &m.Description, &m.MediaType, &m.MediaURL, &m.DepartmentID,
		&m.EventID, &m.UploadedBy, &m.IsFeatured, &m.IsPublic, &m.Tags, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}
