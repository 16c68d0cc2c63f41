package events

import (
	"time"

	"github.com/google/uuid"
)

// Event statuses follow the public site lifecycle.
const (
	StatusUpcoming  = "upcoming"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
)

// DefaultImageURL is applied when an event is created without an image.
const DefaultImageURL = "https://images.pexels.com/photos/1763075/pexels-photo-1763075.jpeg?auto=compress&cs=tinysrgb&w=600"

// Event represents a club event owned by a department.
type Event struct {
	ID                   uuid.UUID  `json:"id"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	EventDate            time.Time  `json:"date"`
	EventTime            string     `json:"time"`
	Location             string     `json:"location"`
	ImageURL             string     `json:"image_url"`
	MaxParticipants      *int       `json:"max_participants"`
	Status               string     `json:"status"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
	DepartmentID         uuid.UUID  `json:"department_id"`
	CreatedBy            *uuid.UUID `json:"created_by"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            *time.Time `json:"updated_at"`
}

// ValidStatus reports whether the value belongs to the status enumeration.
func ValidStatus(status string) bool {
	switch status {
	case StatusUpcoming, StatusOngoing, StatusCompleted:
		return true
	}
	return false
}

// CreateInput carries the fields accepted on event creation.
type CreateInput struct {
	Title                string
	Description          string
	EventDate            time.Time
	EventTime            string
	Location             string
	ImageURL             string
	MaxParticipants      *int
	Status               string
	RegistrationDeadline *time.Time
	DepartmentID         uuid.UUID
	CreatedBy            uuid.UUID
}

// UpdateInput carries optional patches for an event. Nil fields are left
// untouched.
type UpdateInput struct {
	Title                *string
	Description          *string
	EventDate            *time.Time
	EventTime            *string
	Location             *string
	ImageURL             *string
	MaxParticipants      *int
	Status               *string
	RegistrationDeadline *time.Time
	DepartmentID         *uuid.UUID
}

// Filter narrows event listings. An unrecognized status is ignored rather
// than rejected, matching the public site behavior.
type Filter struct {
	Status       string
	DepartmentID *uuid.UUID
	Limit        int
	Offset       int
}
