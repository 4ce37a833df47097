package mail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultQueueKey — ключ списка Redis по умолчанию.
const DefaultQueueKey = "bookly:mail"

// Queue — очередь писем на списке Redis: LPUSH на запись, BRPOP на чтение.
// Письма, исчерпавшие попытки, складываются в список key+":dead".
type Queue struct {
	rdb redis.UniversalClient
	key string
}

// NewQueue оборачивает клиент. Пустой key — DefaultQueueKey.
func NewQueue(rdb redis.UniversalClient, key string) *Queue {
	if key == "" {
		key = DefaultQueueKey
	}

	return &Queue{rdb: rdb, key: key}
}

// Key возвращает имя списка очереди.
func (q *Queue) Key() string { return q.key }

// DeadKey возвращает имя списка «мёртвых» писем.
func (q *Queue) DeadKey() string { return q.key + ":dead" }

// SendMail ставит письмо в очередь и сразу возвращается.
func (q *Queue) SendMail(ctx context.Context, to []string, subject, htmlBody string) error {
	const op = "mail.queue.SendMail"

	if len(to) == 0 {
		return fmt.Errorf("%s: %w", op, ErrNoRecipients)
	}

	if err := q.Push(ctx, NewMessage(to, subject, htmlBody)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Push кладёт сообщение в голову очереди.
func (q *Queue) Push(ctx context.Context, msg Message) error {
	return q.push(ctx, q.key, msg)
}

// Bury перекладывает сообщение в список мёртвых писем.
func (q *Queue) Bury(ctx context.Context, msg Message) error {
	return q.push(ctx, q.DeadKey(), msg)
}

func (q *Queue) push(ctx context.Context, key string, msg Message) error {
	const op = "mail.queue.push"

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := q.rdb.LPush(ctx, key, payload).Err(); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrQueueUnavailable, err)
	}

	return nil
}

// Pop ждёт сообщение не дольше timeout. Пустая очередь — (nil, nil).
// Неразбираемый payload перекладывается в :dead как есть, ошибка — ErrMalformedMessage.
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (*Message, error) {
	const op = "mail.queue.Pop"

	res, err := q.rdb.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: %w: %w", op, ErrQueueUnavailable, err)
	}

	// BRPOP возвращает [key, value].
	if len(res) != 2 {
		return nil, fmt.Errorf("%s: unexpected reply length %d", op, len(res))
	}

	var msg Message
	if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
		// BRPOP уже снял элемент: сырой payload сохраняется в :dead.
		if perr := q.rdb.LPush(context.WithoutCancel(ctx), q.DeadKey(), res[1]).Err(); perr != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, ErrQueueUnavailable, perr)
		}

		return nil, fmt.Errorf("%s: %w: %w", op, ErrMalformedMessage, err)
	}

	return &msg, nil
}

// Len возвращает текущую длину очереди.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	n, err := q.rdb.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("mail.queue.Len: %w: %w", ErrQueueUnavailable, err)
	}

	return n, nil
}

var _ Enqueuer = (*Queue)(nil)
