package repo

import "errors"

var (
	// ErrNotFound is returned when no record matches.
	ErrNotFound = errors.New("record not found")
	// ErrEmailTaken is returned when an account already uses the address.
	ErrEmailTaken = errors.New("email already registered")
)
