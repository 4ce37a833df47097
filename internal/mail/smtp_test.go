package mail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/bookly/internal/config"
)

func TestNewSMTPSender_RequiresServerAndFrom(t *testing.T) {
	t.Parallel()

	_, err := NewSMTPSender(config.MailConfig{Port: 587})
	require.Error(t, err)
	require.Contains(t, err.Error(), "MAIL_SERVER")
}

func TestSMTPSender_Build(t *testing.T) {
	t.Parallel()

	s, err := NewSMTPSender(config.MailConfig{
		Server:   "smtp.example.com",
		Port:     2525,
		From:     "noreply@example.com",
		FromName: "Bookly",
	})
	require.NoError(t, err)

	m, err := s.build(NewMessage([]string{"reader@example.com"}, "Hello", "<p>hi</p>"))
	require.NoError(t, err)
	rcpts, err := m.GetRecipients()
	require.NoError(t, err)
	require.Equal(t, []string{"reader@example.com"}, rcpts)

	_, err = s.build(Message{Subject: "empty"})
	require.ErrorIs(t, err, ErrNoRecipients)

	_, err = s.build(Message{To: []string{"not-an-address"}})
	require.Error(t, err)
}

func TestSMTPSender_Send_NoRecipients(t *testing.T) {
	t.Parallel()

	s, err := NewSMTPSender(config.MailConfig{Server: "smtp.example.com", Port: 25, From: "a@example.com"})
	require.NoError(t, err)

	err = s.Send(context.Background(), Message{})
	require.ErrorIs(t, err, ErrNoRecipients)
}
