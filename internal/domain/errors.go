package domain

import "errors"

// Sentinel errors shared by repositories and services.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrAlreadyRegistered = errors.New("attendee already holds an active ticket for this target")
	ErrDuplicateTemplate = errors.New("ticket template already exists")
)
