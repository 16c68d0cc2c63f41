package registration

import (
	"time"

	"github.com/google/uuid"
)

// Review statuses for a registration.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Registration is an intake-only row created by anonymous applicants and
// reviewed by global admins.
type Registration struct {
	ID               uuid.UUID `json:"id"`
	FullName         string    `json:"full_name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Age              *int      `json:"age"`
	City             string    `json:"city"`
	TalentCategory   string    `json:"talent_category"`
	Experience       string    `json:"experience"`
	Motivation       string    `json:"motivation"`
	PreviousEvents   string    `json:"previous_events"`
	SocialMedia      string    `json:"social_media"`
	EmergencyContact string    `json:"emergency_contact"`
	EmergencyPhone   string    `json:"emergency_phone"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

// ValidStatus reports whether the value belongs to the status enumeration.
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ReviewableStatus reports whether the value is a status an admin may set.
func ReviewableStatus(status string) bool {
	return status == StatusApproved || status == StatusRejected
}

// CreateInput carries the intake form fields.
type CreateInput struct {
	FullName         string
	Email            string
	Phone            string
	Age              *int
	City             string
	TalentCategory   string
	Experience       string
	Motivation       string
	PreviousEvents   string
	SocialMedia      string
	EmergencyContact string
	EmergencyPhone   string
}
