package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ticketinventory/internal/domain"
)

const ticketColumns = `id, attendee_id, target_id, event_id, session_id, ticket_type, price, status, issued_at, cancelled_at`

type ticketRepository struct {
	DB *sql.DB
}

func NewTicketRepository(db *sql.DB) domain.TicketRepository {
	return &ticketRepository{
		DB: db,
	}
}

func (r *ticketRepository) InsertTicket(ctx context.Context, attendeeID string, key domain.TemplateKey, targetID string, issuedAt time.Time) (string, error) {
	query := `
		INSERT INTO tickets (attendee_id, target_id, event_id, session_id, ticket_type, price, status, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'active', $7)
		RETURNING id
	`
	var id string
	err := r.DB.QueryRowContext(ctx, query,
		attendeeID, targetID, key.EventID(), nullString(key.SessionID()), string(key.TicketType()), key.Price(), issuedAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return "", domain.ErrAlreadyRegistered
		}
		return "", err
	}
	return id, nil
}

func (r *ticketRepository) GetByID(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`
	t, err := scanTicket(r.DB.QueryRowContext(ctx, query, ticketID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *ticketRepository) HasActiveTicket(ctx context.Context, attendeeID, targetID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM tickets
			WHERE attendee_id = $1 AND target_id = $2 AND status = 'active'
		)
	`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, attendeeID, targetID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *ticketRepository) MarkCancelled(ctx context.Context, ticketID string, cancelledAt time.Time) error {
	query := `
		UPDATE tickets SET status = 'cancelled', cancelled_at = $2
		WHERE id = $1 AND status = 'active'
	`
	result, err := r.DB.ExecContext(ctx, query, ticketID, cancelledAt)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ticketRepository) QueryTickets(ctx context.Context, criteria domain.TicketCriteria) ([]*domain.Ticket, error) {
	var where []string
	var args []interface{}
	n := 1
	if criteria.EventID != "" {
		where = append(where, fmt.Sprintf("event_id = $%d", n))
		args = append(args, criteria.EventID)
		n++
	}
	if criteria.SessionID != "" {
		where = append(where, fmt.Sprintf("session_id = $%d", n))
		args = append(args, criteria.SessionID)
		n++
	}
	if criteria.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", n))
		args = append(args, string(criteria.Status))
		n++
	}
	if criteria.AttendeeID != "" {
		where = append(where, fmt.Sprintf("attendee_id = $%d", n))
		args = append(args, criteria.AttendeeID)
		n++
	}
	query := `SELECT ` + ticketColumns + ` FROM tickets`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY issued_at ASC, id ASC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*domain.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	t := &domain.Ticket{}
	var eventID, ticketType, status string
	var sessionNull sql.NullString
	var price decimal.Decimal
	var cancelledNull sql.NullTime
	if err := row.Scan(&t.ID, &t.AttendeeID, &t.TargetID, &eventID, &sessionNull, &ticketType, &price, &status, &t.IssuedAt, &cancelledNull); err != nil {
		return nil, err
	}
	key, err := domain.NewTemplateKey(eventID, sessionNull.String, domain.TicketType(ticketType), price)
	if err != nil {
		return nil, fmt.Errorf("ticket %s: %w", t.ID, err)
	}
	t.Key = key
	t.Status = domain.TicketStatus(status)
	if cancelledNull.Valid {
		t.CancelledAt = &cancelledNull.Time
	}
	return t, nil
}
