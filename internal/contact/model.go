package contact

import (
	"time"

	"github.com/google/uuid"
)

// Handling statuses for a contact message.
const (
	StatusNew     = "new"
	StatusRead    = "read"
	StatusReplied = "replied"
)

// Message is an intake-only row from the public contact form.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Body      string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidStatus reports whether the value belongs to the status enumeration.
func ValidStatus(status string) bool {
	switch status {
	case StatusNew, StatusRead, StatusReplied:
		return true
	}
	return false
}

// ReviewableStatus reports whether the value is a status an admin may set.
func ReviewableStatus(status string) bool {
	return status == StatusRead || status == StatusReplied
}

// CreateInput carries the contact form fields.
type CreateInput struct {
	Name    string
	Email   string
	Subject string
	Body    string
}
