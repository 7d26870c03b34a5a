package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"ticketinventory/internal/domain"
)

type templateRepository struct {
	DB *sql.DB
}

func NewTemplateRepository(db *sql.DB) domain.TemplateRepository {
	return &templateRepository{
		DB: db,
	}
}

func (r *templateRepository) LoadAggregate(ctx context.Context, key domain.TemplateKey) (int, int, error) {
	query := `
		SELECT t.capacity,
			(SELECT COUNT(*) FROM tickets k
			 WHERE k.event_id = t.event_id
			   AND k.session_id IS NOT DISTINCT FROM t.session_id
			   AND k.ticket_type = t.ticket_type
			   AND k.price = t.price
			   AND k.status = 'active')
		FROM ticket_templates t
		WHERE t.event_id = $1
		  AND t.session_id IS NOT DISTINCT FROM $2
		  AND t.ticket_type = $3
		  AND t.price = $4
	`
	var capacity, assigned int
	err := r.DB.QueryRowContext(ctx, query, key.EventID(), nullString(key.SessionID()), string(key.TicketType()), key.Price()).
		Scan(&capacity, &assigned)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, domain.ErrNotFound
		}
		return 0, 0, err
	}
	return capacity, assigned, nil
}

func (r *templateRepository) Create(ctx context.Context, tmpl *domain.TicketTemplate) error {
	query := `
		INSERT INTO ticket_templates (event_id, session_id, ticket_type, price, capacity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	key := tmpl.Key
	_, err := r.DB.ExecContext(ctx, query, key.EventID(), nullString(key.SessionID()), string(key.TicketType()), key.Price(), tmpl.Capacity, tmpl.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateTemplate
		}
		return err
	}
	return nil
}

func (r *templateRepository) Delete(ctx context.Context, key domain.TemplateKey) error {
	query := `
		DELETE FROM ticket_templates
		WHERE event_id = $1
		  AND session_id IS NOT DISTINCT FROM $2
		  AND ticket_type = $3
		  AND price = $4
	`
	result, err := r.DB.ExecContext(ctx, query, key.EventID(), nullString(key.SessionID()), string(key.TicketType()), key.Price())
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *templateRepository) ListKeys(ctx context.Context) ([]domain.TemplateKey, error) {
	query := `
		SELECT event_id, session_id, ticket_type, price
		FROM ticket_templates
		ORDER BY created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make([]domain.TemplateKey, 0)
	for rows.Next() {
		var eventID, ticketType string
		var sessionNull sql.NullString
		var price decimal.Decimal
		if err := rows.Scan(&eventID, &sessionNull, &ticketType, &price); err != nil {
			return nil, err
		}
		key, err := domain.NewTemplateKey(eventID, sessionNull.String, domain.TicketType(ticketType), price)
		if err != nil {
			return nil, fmt.Errorf("template row %s: %w", eventID, err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
