package services

import (
	"context"
	"fmt"

	"ticketinventory/internal/domain"
)

const (
	ActionTicketRegister           = "ticket.register"
	ActionTicketRegisterRejected   = "ticket.register_rejected"
	ActionTicketRegisterFailed     = "ticket.register_failed"
	ActionTicketUnregister         = "ticket.unregister"
	ActionTicketUnregisterRejected = "ticket.unregister_rejected"
	ActionTicketUnregisterFailed   = "ticket.unregister_failed"
)

// ActivityLogger appends one audit record per registration outcome.
type ActivityLogger struct {
	repo domain.ActivityLogRepository
}

// NewActivityLogger creates an outcome sink writing to repo.
func NewActivityLogger(repo domain.ActivityLogRepository) *ActivityLogger {
	return &ActivityLogger{repo: repo}
}

// Record implements domain.OutcomeSink.
func (l *ActivityLogger) Record(ctx context.Context, out domain.RegistrationOutcome) error {
	rec := &domain.ActivityRecord{
		Timestamp:   out.Timestamp,
		UserID:      out.AttendeeID,
		Action:      activityAction(out),
		Resource:    activityResource(out),
		Description: activityDescription(out),
	}
	if p, ok := domain.PrincipalFromContext(ctx); ok && p.UserID != "" {
		rec.UserID = p.UserID
	}
	if err := l.repo.Append(ctx, rec); err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	return nil
}

func activityAction(out domain.RegistrationOutcome) string {
	unregister := out.OperationType == domain.OperationUnregistration
	switch {
	case out.Success && unregister:
		return ActionTicketUnregister
	case out.Success:
		return ActionTicketRegister
	case out.Rejected() && unregister:
		return ActionTicketUnregisterRejected
	case out.Rejected():
		return ActionTicketRegisterRejected
	case unregister:
		return ActionTicketUnregisterFailed
	default:
		return ActionTicketRegisterFailed
	}
}

func activityResource(out domain.RegistrationOutcome) string {
	if out.TicketID != "" {
		return "ticket/" + out.TicketID
	}
	return "target/" + out.TargetID
}

func activityDescription(out domain.RegistrationOutcome) string {
	desc := fmt.Sprintf("%s by %s on %s: %s", out.OperationType, out.AttendeeID, out.TargetID, out.Message)
	if out.DetailedError != "" {
		desc += " (" + out.DetailedError + ")"
	}
	return desc
}
