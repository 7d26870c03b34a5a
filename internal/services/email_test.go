package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketinventory/internal/domain"
)

type mockMailer struct {
	to, subject string
	err         error
}

func (m *mockMailer) Send(ctx context.Context, to, subject, html, text string) error {
	m.to, m.subject = to, subject
	return m.err
}

type mockRenderer struct {
	names []string
	err   error
}

func (m *mockRenderer) Render(name string, data any) (string, string, string, error) {
	m.names = append(m.names, name)
	if m.err != nil {
		return "", "", "", m.err
	}
	return "subject " + name, "<p>html</p>", "text", nil
}

func TestEmailService(t *testing.T) {
	ctx := context.Background()
	data := &domain.TicketEmailData{Email: "ada@example.com", TicketID: "t-1"}

	t.Run("confirmation uses its template", func(t *testing.T) {
		mailer, renderer := &mockMailer{}, &mockRenderer{}
		svc := NewEmailService(mailer, renderer, discardLogger())

		require.NoError(t, svc.SendTicketConfirmation(ctx, data))
		assert.Equal(t, []string{"ticket_confirmation"}, renderer.names)
		assert.Equal(t, "ada@example.com", mailer.to)
		assert.Equal(t, "subject ticket_confirmation", mailer.subject)
	})

	t.Run("cancellation uses its template", func(t *testing.T) {
		renderer := &mockRenderer{}
		svc := NewEmailService(&mockMailer{}, renderer, discardLogger())

		require.NoError(t, svc.SendTicketCancellation(ctx, data))
		assert.Equal(t, []string{"ticket_cancellation"}, renderer.names)
	})

	t.Run("nil data", func(t *testing.T) {
		svc := NewEmailService(&mockMailer{}, &mockRenderer{}, discardLogger())
		assert.Error(t, svc.SendTicketConfirmation(ctx, nil))
	})

	t.Run("render and send errors are wrapped", func(t *testing.T) {
		renderErr := errors.New("no such template")
		svc := NewEmailService(&mockMailer{}, &mockRenderer{err: renderErr}, discardLogger())
		assert.ErrorIs(t, svc.SendTicketConfirmation(ctx, data), renderErr)

		sendErr := errors.New("throttled")
		svc = NewEmailService(&mockMailer{err: sendErr}, &mockRenderer{}, discardLogger())
		assert.ErrorIs(t, svc.SendTicketCancellation(ctx, data), sendErr)
	})
}
