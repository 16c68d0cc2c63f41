package department

import (
	"time"

	"github.com/google/uuid"
)

// Department is static reference data describing a club department. This
// layer never mutates it.
type Department struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	CreatedAt   time.Time `json:"created_at"`
}
