package domain

import (
	"context"
	"time"
)

// ActivityRecord is one audit entry.
// swagger:model ActivityRecord
type ActivityRecord struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	UserID      string    `json:"user_id"`
	Action      string    `json:"action"`
	Resource    string    `json:"resource"`
	Description string    `json:"description"`
}

// ActivityLogRepository appends audit entries.
type ActivityLogRepository interface {
	Append(ctx context.Context, rec *ActivityRecord) error
}
