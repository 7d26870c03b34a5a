package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"ticketinventory/internal/domain"
)

type activityLogRepository struct {
	DB *sql.DB
}

func NewActivityLogRepository(db *sql.DB) domain.ActivityLogRepository {
	return &activityLogRepository{DB: db}
}

func (r *activityLogRepository) Append(ctx context.Context, rec *domain.ActivityRecord) error {
	query := `
		INSERT INTO activity_log (occurred_at, user_id, action, resource, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, rec.Timestamp, rec.UserID, rec.Action, rec.Resource, rec.Description).
		Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("append activity %s: %w", rec.Action, err)
	}
	return nil
}
