package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TicketStatus is the lifecycle state of an issued ticket.
type TicketStatus string

const (
	TicketStatusActive    TicketStatus = "active"
	TicketStatusCancelled TicketStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	return s == TicketStatusActive || s == TicketStatusCancelled
}

// Ticket is a ticket issued to an attendee against a template.
// swagger:model Ticket
type Ticket struct {
	ID          string       `json:"id"`
	AttendeeID  string       `json:"attendee_id"`
	TargetID    string       `json:"target_id"`
	Key         TemplateKey  `json:"template"`
	Status      TicketStatus `json:"status"`
	IssuedAt    time.Time    `json:"issued_at"`
	CancelledAt *time.Time   `json:"cancelled_at,omitempty"`
}

// Active reports whether the ticket still counts against its template.
func (t *Ticket) Active() bool { return t.Status == TicketStatusActive }

// TicketCriteria selects tickets for the filtered view. Empty fields match everything.
type TicketCriteria struct {
	EventID    string
	SessionID  string
	Status     TicketStatus
	AttendeeID string
}

// Matches reports whether t satisfies every non-empty criterion.
func (c TicketCriteria) Matches(t *Ticket) bool {
	if t == nil {
		return false
	}
	if c.EventID != "" && t.Key.EventID() != c.EventID {
		return false
	}
	if c.SessionID != "" && t.Key.SessionID() != c.SessionID {
		return false
	}
	if c.Status != "" && t.Status != c.Status {
		return false
	}
	if c.AttendeeID != "" && t.AttendeeID != c.AttendeeID {
		return false
	}
	return true
}

// TicketDisplay is the read-side projection of a ticket.
// swagger:model TicketDisplay
type TicketDisplay struct {
	TicketID   string          `json:"ticket_id"`
	AttendeeID string          `json:"attendee_id"`
	EventID    string          `json:"event_id"`
	SessionID  string          `json:"session_id,omitempty"`
	TicketType TicketType      `json:"ticket_type"`
	Price      decimal.Decimal `json:"price"`
	Status     TicketStatus    `json:"status"`
	IssuedAt   time.Time       `json:"issued_at"`
}

// NewTicketDisplay projects t for display.
func NewTicketDisplay(t *Ticket) TicketDisplay {
	return TicketDisplay{
		TicketID:   t.ID,
		AttendeeID: t.AttendeeID,
		EventID:    t.Key.EventID(),
		SessionID:  t.Key.SessionID(),
		TicketType: t.Key.TicketType(),
		Price:      t.Key.Price(),
		Status:     t.Status,
		IssuedAt:   t.IssuedAt,
	}
}

// TicketPage is one page of the filtered ticket view. TotalValue sums the price of every
// ticket in the filtered set, not only the current page.
type TicketPage struct {
	PagedResult[TicketDisplay]
	TotalValue decimal.Decimal `json:"total_value"`
}

// TicketRepository defines storage operations for tickets.
type TicketRepository interface {
	// InsertTicket persists a new active ticket and returns its id. Returns
	// ErrAlreadyRegistered if the attendee already holds an active ticket for targetID.
	InsertTicket(ctx context.Context, attendeeID string, key TemplateKey, targetID string, issuedAt time.Time) (string, error)
	GetByID(ctx context.Context, ticketID string) (*Ticket, error)
	HasActiveTicket(ctx context.Context, attendeeID, targetID string) (bool, error)
	// MarkCancelled flips an active ticket to cancelled. Returns ErrNotFound if no active
	// ticket with that id exists.
	MarkCancelled(ctx context.Context, ticketID string, cancelledAt time.Time) error
	QueryTickets(ctx context.Context, criteria TicketCriteria) ([]*Ticket, error)
}

// TicketViewService produces filtered, paginated ticket projections.
type TicketViewService interface {
	FilterTickets(ctx context.Context, criteria TicketCriteria, page, pageSize int) (*TicketPage, error)
}
