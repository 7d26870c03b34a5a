package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ticketinventory/internal/domain"
)

// TicketNotifier emails attendees about successful registrations and cancellations.
type TicketNotifier struct {
	attendees domain.AttendeeRepository
	email     domain.EmailService
	logger    *slog.Logger
}

// NewTicketNotifier creates an outcome sink that notifies attendees.
func NewTicketNotifier(attendees domain.AttendeeRepository, email domain.EmailService, logger *slog.Logger) *TicketNotifier {
	return &TicketNotifier{attendees: attendees, email: email, logger: logger}
}

// Record implements domain.OutcomeSink. Failed outcomes and attendees without a profile
// are skipped.
func (n *TicketNotifier) Record(ctx context.Context, out domain.RegistrationOutcome) error {
	if !out.Success {
		return nil
	}
	attendee, err := n.attendees.GetByID(ctx, out.AttendeeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			n.logger.DebugContext(ctx, "no attendee profile, skipping notification", "attendee_id", out.AttendeeID)
			return nil
		}
		return fmt.Errorf("load attendee %s: %w", out.AttendeeID, err)
	}
	if attendee.Email == "" {
		return nil
	}
	data := &domain.TicketEmailData{
		Email:     attendee.Email,
		FirstName: attendee.FirstName,
		TicketID:  out.TicketID,
		TargetID:  out.TargetID,
		Operation: out.OperationType,
	}
	if out.OperationType == domain.OperationUnregistration {
		return n.email.SendTicketCancellation(ctx, data)
	}
	return n.email.SendTicketConfirmation(ctx, data)
}
