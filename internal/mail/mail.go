// mail — асинхронная отправка писем: сервисы ставят сообщение в очередь
// Redis и не ждут доставки, отдельный процесс mail-worker разбирает очередь
// и отправляет письма через SMTP.
package mail

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNoRecipients — у письма нет получателей.
	ErrNoRecipients = errors.New("no recipients")
	// ErrQueueUnavailable — очередь (Redis) недоступна.
	ErrQueueUnavailable = errors.New("mail queue unavailable")
	// ErrMalformedMessage — содержимое очереди не разбирается как Message.
	ErrMalformedMessage = errors.New("malformed mail message")
)

// Message — единица работы очереди.
type Message struct {
	ID         string    `json:"id"`
	To         []string  `json:"to"`
	Subject    string    `json:"subject"`
	HTMLBody   string    `json:"html_body"`
	Attempts   int       `json:"attempts"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// NewMessage создаёт сообщение с новым ID.
func NewMessage(to []string, subject, htmlBody string) Message {
	return Message{
		ID:         uuid.NewString(),
		To:         to,
		Subject:    subject,
		HTMLBody:   htmlBody,
		EnqueuedAt: time.Now().UTC(),
	}
}

// Enqueuer — fire-and-forget постановка письма в очередь.
type Enqueuer interface {
	SendMail(ctx context.Context, to []string, subject, htmlBody string) error
}

// Sender — транспорт доставки (SMTP в проде, фейк в тестах).
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
