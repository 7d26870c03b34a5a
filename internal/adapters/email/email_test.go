package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketinventory/internal/domain"
)

func TestTemplateRenderer_Render(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)
	data := &domain.TicketEmailData{
		Email:     "ada@example.com",
		FirstName: "<Ada>",
		TicketID:  "t-42",
		TargetID:  "ev-1",
	}

	subject, html, text, err := r.Render(TemplateTicketConfirmation, data)
	require.NoError(t, err)
	assert.Equal(t, "Your ticket t-42 is confirmed", subject)
	assert.Contains(t, html, "&lt;Ada&gt;")
	assert.Contains(t, text, "Hi <Ada>,")
	assert.Contains(t, text, "Ticket: t-42")

	subject, _, _, err = r.Render(TemplateTicketCancellation, data)
	require.NoError(t, err)
	assert.Equal(t, "Your ticket t-42 was cancelled", subject)

	_, _, _, err = r.Render("missing", data)
	assert.Error(t, err)
}

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESMailer_Send(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("builds the SES request", func(t *testing.T) {
		client := &fakeSES{}
		m := newSESMailer(client, MailerConfig{
			FromAddress: "tickets@example.com",
			FromName:    "Tickets",
			ReplyTo:     "support@example.com",
			SES:         SESConfig{ConfigurationSet: "ticket-mail"},
		}, logger)

		require.NoError(t, m.Send(context.Background(), "ada@example.com", "Hello", "<p>hi</p>", ""))
		require.NotNil(t, client.input)
		assert.Equal(t, "Tickets <tickets@example.com>", aws.ToString(client.input.Source))
		assert.Equal(t, []string{"ada@example.com"}, client.input.Destination.ToAddresses)
		assert.Equal(t, "Hello", aws.ToString(client.input.Message.Subject.Data))
		assert.NotNil(t, client.input.Message.Body.Html)
		assert.Nil(t, client.input.Message.Body.Text)
		assert.Equal(t, []string{"support@example.com"}, client.input.ReplyToAddresses)
		assert.Equal(t, "ticket-mail", aws.ToString(client.input.ConfigurationSetName))
	})

	t.Run("wraps client errors", func(t *testing.T) {
		sendErr := errors.New("throttled")
		m := newSESMailer(&fakeSES{err: sendErr}, MailerConfig{FromAddress: "tickets@example.com"}, logger)

		assert.ErrorIs(t, m.Send(context.Background(), "ada@example.com", "Hello", "", "hi"), sendErr)
	})
}

func TestNewMailer(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	m, err := NewMailer(MailerConfig{Provider: "noop"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &noopMailer{}, m)
	assert.NoError(t, m.Send(context.Background(), "a@example.com", "s", "", ""))

	m, err = NewMailer(MailerConfig{Provider: "carrier-pigeon"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &noopMailer{}, m)

	m, err = NewMailer(MailerConfig{Provider: "ses", FromAddress: "tickets@example.com", SES: SESConfig{Region: "eu-west-1"}}, logger)
	require.NoError(t, err)
	assert.IsType(t, &sesMailer{}, m)

	_, err = NewMailer(MailerConfig{Provider: "ses"}, logger)
	assert.Error(t, err)
}
