package postgres

import (
	"context"
	"database/sql"
	"errors"

	"ticketinventory/internal/domain"
)

type attendeeRepository struct {
	DB *sql.DB
}

func NewAttendeeRepository(db *sql.DB) domain.AttendeeRepository {
	return &attendeeRepository{DB: db}
}

func (r *attendeeRepository) GetByID(ctx context.Context, id string) (*domain.Attendee, error) {
	query := `
		SELECT id, email, first_name, last_name
		FROM attendees
		WHERE id = $1
	`
	a := &domain.Attendee{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Email, &a.FirstName, &a.LastName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}
