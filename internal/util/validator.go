package util

import (
	"net/mail"
	"strings"
)

// ValidationError describes a rejected input field. It is recovered at the
// HTTP boundary and answered as a 400 with field-level detail.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}

// Invalid builds a field-level validation error.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// RequireString rejects empty values.
func RequireString(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return Invalid(field, "is required")
	}
	return nil
}

// ValidateEmail rejects missing or malformed e-mail addresses.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return Invalid("email", "is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return Invalid("email", "is not a valid address")
	}
	return nil
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return Invalid("password", "must be at least 8 characters")
	}
	return nil
}
