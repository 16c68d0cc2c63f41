package sponsorship

import (
	"time"

	"github.com/google/uuid"
)

// Review statuses for a sponsorship inquiry.
const (
	StatusPending   = "pending"
	StatusContacted = "contacted"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
)

// Inquiry is an intake-only row submitted by prospective sponsors and
// reviewed by global admins.
type Inquiry struct {
	ID              uuid.UUID `json:"id"`
	CompanyName     string    `json:"company_name"`
	ContactPerson   string    `json:"contact_person"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Website         string    `json:"website"`
	SponsorshipType string    `json:"sponsorship_type"`
	Budget          string    `json:"budget"`
	Message         string    `json:"message"`
	Interests       []string  `json:"interests"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// ValidStatus reports whether the value belongs to the status enumeration.
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusContacted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ReviewableStatus reports whether the value is a status an admin may set.
func ReviewableStatus(status string) bool {
	switch status {
	case StatusContacted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// CreateInput carries the sponsorship form fields.
type CreateInput struct {
	CompanyName     string
	ContactPerson   string
	Email           string
	Phone           string
	Website         string
	SponsorshipType string
	Budget          string
	Message         string
	Interests       []string
}
