package department

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when no department matches.
	ErrNotFound = errors.New("department not found")
)

// Repository provides read access to the departments table.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a repository instance.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all departments ordered by name.
func (r *Repository) List(ctx context.Context) ([]Department, error) {
	const query = `
        SELECT id, name, slug, description, icon, created_at
        FROM departments
        ORDER BY name ASC
    `
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Slug, &d.Description, &d.Icon, &d.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// GetByID fetches a single department.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Department, error) {
	const query = `
        SELECT id, name, slug, description, icon, created_at
        FROM departments
        WHERE id = $1
    `
	var d Department
	if err := r.pool.QueryRow(ctx, query, id).Scan(&d.ID, &d.Name, &d.Slug, &d.Description, &d.Icon, &d.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}
