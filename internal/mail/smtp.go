package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/pribylovaa/bookly/internal/config"
)

// SMTPSender доставляет письма через SMTP (STARTTLS, порт 587 по умолчанию).
type SMTPSender struct {
	client   *gomail.Client
	from     string
	fromName string
}

// NewSMTPSender создаёт отправителя по конфигурации.
func NewSMTPSender(cfg config.MailConfig) (*SMTPSender, error) {
	const op = "mail.smtp.NewSMTPSender"

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	policy := gomail.NoTLS
	if cfg.StartTLS {
		policy = gomail.TLSMandatory
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(policy),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Server, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &SMTPSender{client: client, from: cfg.From, fromName: cfg.FromName}, nil
}

// Send собирает MIME-сообщение и отправляет его одним SMTP-сеансом.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	const op = "mail.smtp.Send"

	m, err := s.build(msg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *SMTPSender) build(msg Message) (*gomail.Msg, error) {
	if len(msg.To) == 0 {
		return nil, ErrNoRecipients
	}

	m := gomail.NewMsg()
	if err := m.FromFormat(s.fromName, s.from); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}

	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}

	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextHTML, msg.HTMLBody)

	return m, nil
}

var _ Sender = (*SMTPSender)(nil)
