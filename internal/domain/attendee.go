package domain

import "context"

// Attendee is a person who can hold tickets.
type Attendee struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// AttendeeRepository looks up attendees.
type AttendeeRepository interface {
	GetByID(ctx context.Context, id string) (*Attendee, error)
}
