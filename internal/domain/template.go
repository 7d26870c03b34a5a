package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TicketType is the sellable category of a ticket template.
type TicketType string

const (
	TicketTypeGeneral   TicketType = "GENERAL"
	TicketTypeVIP       TicketType = "VIP"
	TicketTypeStudent   TicketType = "STUDENT"
	TicketTypeEarlyBird TicketType = "EARLY_BIRD"
)

// ParseTicketType normalises s and returns the matching TicketType.
func ParseTicketType(s string) (TicketType, error) {
	t := TicketType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown ticket type %q", ErrInvalidInput, s)
	}
	return t, nil
}

// Valid reports whether t is one of the known ticket types.
func (t TicketType) Valid() bool {
	switch t {
	case TicketTypeGeneral, TicketTypeVIP, TicketTypeStudent, TicketTypeEarlyBird:
		return true
	}
	return false
}

// Price limits. Prices are checked against these before being canonicalised, so an
// exponent-form input such as 1e200000000 is rejected without being expanded.
const (
	MaxPriceScale  = 4
	MaxPriceLength = 32
	maxPriceDigits = 18
)

// MaxPrice is the exclusive upper bound of a template price.
var MaxPrice = decimal.New(1, 9)

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if exp := price.Exponent(); exp > maxPriceDigits || exp < -maxPriceDigits {
		return fmt.Errorf("%w: price out of range", ErrInvalidInput)
	}
	if price.GreaterThanOrEqual(MaxPrice) {
		return fmt.Errorf("%w: price must be below %s", ErrInvalidInput, MaxPrice)
	}
	if !price.Equal(price.Truncate(MaxPriceScale)) {
		return fmt.Errorf("%w: price has more than %d decimal places", ErrInvalidInput, MaxPriceScale)
	}
	return nil
}

// TemplateKey identifies a ticket template by event, optional session, ticket type and price.
// It is comparable, so two keys built from equal decimal prices (10.5 and 10.50) are ==.
type TemplateKey struct {
	eventID    string
	sessionID  string
	ticketType TicketType
	price      string
}

// NewTemplateKey validates its arguments and builds a key. sessionID is empty for
// event-level tickets.
func NewTemplateKey(eventID, sessionID string, ticketType TicketType, price decimal.Decimal) (TemplateKey, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return TemplateKey{}, fmt.Errorf("%w: event id is required", ErrInvalidInput)
	}
	if !ticketType.Valid() {
		return TemplateKey{}, fmt.Errorf("%w: unknown ticket type %q", ErrInvalidInput, ticketType)
	}
	if err := validatePrice(price); err != nil {
		return TemplateKey{}, err
	}
	return TemplateKey{
		eventID:    eventID,
		sessionID:  strings.TrimSpace(sessionID),
		ticketType: ticketType,
		price:      price.String(),
	}, nil
}

// ParseTemplateKey builds a key from raw string inputs such as query parameters.
func ParseTemplateKey(eventID, sessionID, ticketType, price string) (TemplateKey, error) {
	tt, err := ParseTicketType(ticketType)
	if err != nil {
		return TemplateKey{}, err
	}
	price = strings.TrimSpace(price)
	if len(price) > MaxPriceLength {
		return TemplateKey{}, fmt.Errorf("%w: price longer than %d characters", ErrInvalidInput, MaxPriceLength)
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return TemplateKey{}, fmt.Errorf("%w: invalid price %q", ErrInvalidInput, price)
	}
	return NewTemplateKey(eventID, sessionID, tt, p)
}

func (k TemplateKey) EventID() string        { return k.eventID }
func (k TemplateKey) SessionID() string      { return k.sessionID }
func (k TemplateKey) TicketType() TicketType { return k.ticketType }

// Price returns the exact template price.
func (k TemplateKey) Price() decimal.Decimal {
	if k.price == "" {
		return decimal.Zero
	}
	return decimal.RequireFromString(k.price)
}

// SessionLevel reports whether the template sells tickets for a single session.
func (k TemplateKey) SessionLevel() bool { return k.sessionID != "" }

// TargetID is the id a ticket of this template registers the attendee for.
func (k TemplateKey) TargetID() string {
	if k.sessionID != "" {
		return k.sessionID
	}
	return k.eventID
}

// IsZero reports whether k was never built by NewTemplateKey.
func (k TemplateKey) IsZero() bool { return k == TemplateKey{} }

func (k TemplateKey) String() string {
	session := k.sessionID
	if session == "" {
		session = "-"
	}
	return fmt.Sprintf("%s/%s/%s/%s", k.eventID, session, k.ticketType, k.price)
}

type templateKeyJSON struct {
	EventID    string          `json:"event_id"`
	SessionID  string          `json:"session_id,omitempty"`
	TicketType TicketType      `json:"ticket_type"`
	Price      decimal.Decimal `json:"price"`
}

func (k TemplateKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(templateKeyJSON{
		EventID:    k.eventID,
		SessionID:  k.sessionID,
		TicketType: k.ticketType,
		Price:      k.Price(),
	})
}

func (k *TemplateKey) UnmarshalJSON(b []byte) error {
	var raw templateKeyJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := NewTemplateKey(raw.EventID, raw.SessionID, raw.TicketType, raw.Price)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// TicketTemplate is a sellable configuration with a fixed capacity.
// swagger:model TicketTemplate
type TicketTemplate struct {
	Key       TemplateKey `json:"key"`
	Capacity  int         `json:"capacity"`
	CreatedAt time.Time   `json:"created_at"`
}

// TemplateAvailability is a snapshot of a template's capacity and issued tickets.
// swagger:model TemplateAvailability
type TemplateAvailability struct {
	Key       TemplateKey `json:"key"`
	Capacity  int         `json:"capacity"`
	Assigned  int         `json:"assigned"`
	Remaining int         `json:"remaining"`
}

// TemplateRepository defines storage operations for ticket templates.
type TemplateRepository interface {
	// LoadAggregate returns the template capacity and the number of active tickets issued
	// against it. Returns ErrNotFound if the template does not exist.
	LoadAggregate(ctx context.Context, key TemplateKey) (capacity, assigned int, err error)
	Create(ctx context.Context, tmpl *TicketTemplate) error
	Delete(ctx context.Context, key TemplateKey) error
	ListKeys(ctx context.Context) ([]TemplateKey, error)
}

// TemplateService manages template lifecycle and exposes availability.
type TemplateService interface {
	CreateTemplate(ctx context.Context, key TemplateKey, capacity int) (*TicketTemplate, error)
	DeleteTemplate(ctx context.Context, key TemplateKey) error
	Availability(ctx context.Context, key TemplateKey) (*TemplateAvailability, error)
	WarmTemplates(ctx context.Context) (int, error)
}
