package media

import (
	"time"

	"github.com/google/uuid"
)

// Media types accepted by the gallery.
const (
	TypePhoto    = "photo"
	TypeVideo    = "video"
	TypePoster   = "poster"
	TypeDocument = "document"
)

// Item represents a department-owned media row.
type Item struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	MediaType    string     `json:"media_type"`
	MediaURL     string     `json:"media_url"`
	DepartmentID uuid.UUID  `json:"department_id"`
	EventID      *uuid.UUID `json:"event_id"`
	UploadedBy   *uuid.UUID `json:"uploaded_by"`
	IsFeatured   bool       `json:"is_featured"`
	IsPublic     bool       `json:"is_public"`
	Tags         []string   `json:"tags"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

// ValidType reports whether the value belongs to the media type enumeration.
func ValidType(mediaType string) bool {
	switch mediaType {
	case TypePhoto, TypeVideo, TypePoster, TypeDocument:
		return true
	}
	return false
}

// CreateInput carries the fields accepted on upload.
type CreateInput struct {
	Title        string
	Description  string
	MediaType    string
	MediaURL     string
	DepartmentID uuid.UUID
	EventID      *uuid.UUID
	UploadedBy   uuid.UUID
	IsFeatured   bool
	IsPublic     bool
	Tags         []string
}

// UpdateInput carries optional patches. Nil fields are left untouched.
type UpdateInput struct {
	Title        *string
	Description  *string
	MediaType    *string
	MediaURL     *string
	DepartmentID *uuid.UUID
	EventID      *uuid.UUID
	IsFeatured   *bool
	IsPublic     *bool
	Tags         []string
}

// Filter narrows media listings. Unknown type values are ignored.
type Filter struct {
	MediaType    string
	DepartmentID *uuid.UUID
	EventID      *uuid.UUID
	FeaturedOnly bool
	Limit        int
	Offset       int
}
