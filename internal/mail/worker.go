package mail

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pribylovaa/bookly/internal/pkg/log"
	"github.com/pribylovaa/bookly/pkg/redact"
)

// Результаты обработки письма (для метрик).
const (
	ResultSent    = "sent"
	ResultRetried = "retried"
	ResultDead    = "dead"
	ResultFailed  = "failed"
)

// Worker разбирает очередь и отправляет письма через Sender.
// Неудачная отправка возвращает письмо в очередь, пока не исчерпано
// maxAttempts; после этого письмо уходит в список мёртвых.
type Worker struct {
	queue       *Queue
	sender      Sender
	maxAttempts int
	pollTimeout time.Duration
	sendTimeout time.Duration
	backoff     time.Duration
	observe     func(result string)
}

// WorkerOption настраивает Worker.
type WorkerOption func(*Worker)

// WithPollTimeout задаёт таймаут BRPOP.
func WithPollTimeout(d time.Duration) WorkerOption {
	return func(w *Worker) { w.pollTimeout = d }
}

// WithSendTimeout ограничивает время одной отправки.
func WithSendTimeout(d time.Duration) WorkerOption {
	return func(w *Worker) { w.sendTimeout = d }
}

// WithBackoff задаёт паузу после ошибки очереди.
func WithBackoff(d time.Duration) WorkerOption {
	return func(w *Worker) { w.backoff = d }
}

// WithObserver подписывает колбэк на результаты обработки.
func WithObserver(fn func(result string)) WorkerOption {
	return func(w *Worker) { w.observe = fn }
}

// NewWorker создаёт воркер. maxAttempts < 1 трактуется как 1.
func NewWorker(q *Queue, s Sender, maxAttempts int, opts ...WorkerOption) *Worker {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	w := &Worker{
		queue:       q,
		sender:      s,
		maxAttempts: maxAttempts,
		pollTimeout: 5 * time.Second,
		sendTimeout: 30 * time.Second,
		backoff:     time.Second,
		observe:     func(string) {},
	}
	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Run обрабатывает очередь до отмены ctx. Возвращает nil при штатной остановке.
func (w *Worker) Run(ctx context.Context) error {
	const op = "mail.worker.Run"

	lg := log.From(ctx).With(slog.String("op", op), slog.String("queue", w.queue.Key()))
	lg.Info("mail_worker_started", slog.Int("max_attempts", w.maxAttempts))

	for {
		if ctx.Err() != nil {
			lg.Info("mail_worker_stopped")
			return nil
		}

		msg, err := w.queue.Pop(ctx, w.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}

			if errors.Is(err, ErrMalformedMessage) {
				lg.Error("mail_malformed_buried", slog.String("err", err.Error()))
				w.observe(ResultDead)
				continue
			}

			lg.Error("mail_pop_failed", slog.String("err", err.Error()))
			w.observe(ResultFailed)

			select {
			case <-ctx.Done():
			case <-time.After(w.backoff):
			}
			continue
		}

		if msg == nil {
			continue
		}

		w.handle(ctx, *msg)
	}
}

func (w *Worker) handle(ctx context.Context, msg Message) {
	lg := log.From(ctx).With(
		slog.String("mail_id", msg.ID),
		slog.Int("attempt", msg.Attempts+1),
	)

	sendCtx, cancel := context.WithTimeout(ctx, w.sendTimeout)
	err := w.sender.Send(sendCtx, msg)
	cancel()

	if err == nil {
		lg.Info("mail_sent", slog.Any("to", redactAll(msg.To)))
		w.observe(ResultSent)
		return
	}

	msg.Attempts++

	// Письмо не должно потеряться из-за остановки воркера.
	requeueCtx, cancelRequeue := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancelRequeue()

	if msg.Attempts < w.maxAttempts {
		lg.Warn("mail_send_failed_retry", slog.String("err", err.Error()))
		if perr := w.queue.Push(requeueCtx, msg); perr != nil {
			lg.Error("mail_requeue_failed", slog.String("err", perr.Error()))
			w.observe(ResultFailed)
			return
		}
		w.observe(ResultRetried)
		return
	}

	lg.Error("mail_send_failed_dead", slog.String("err", err.Error()))
	if perr := w.queue.Bury(requeueCtx, msg); perr != nil {
		lg.Error("mail_bury_failed", slog.String("err", perr.Error()))
	}
	w.observe(ResultDead)
}

func redactAll(addrs []string) []string {
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = redact.Email(a)
	}

	return out
}
