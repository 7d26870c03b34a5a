package services

import (
	"context"
	"fmt"
	"log/slog"

	"ticketinventory/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendTicketConfirmation sends the "ticket_confirmation" email.
func (s *emailService) SendTicketConfirmation(ctx context.Context, data *domain.TicketEmailData) error {
	return s.send(ctx, "ticket_confirmation", data)
}

// SendTicketCancellation sends the "ticket_cancellation" email.
func (s *emailService) SendTicketCancellation(ctx context.Context, data *domain.TicketEmailData) error {
	return s.send(ctx, "ticket_cancellation", data)
}

func (s *emailService) send(ctx context.Context, template string, data *domain.TicketEmailData) error {
	if data == nil {
		return fmt.Errorf("%s email data is nil", template)
	}
	subject, htmlBody, textBody, err := s.renderer.Render(template, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", template, err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send %s email: %w", template, err)
	}
	s.logger.InfoContext(ctx, "email sent", "template", template, "ticket_id", data.TicketID)
	return nil
}
