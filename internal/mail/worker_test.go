package mail

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Покрытие:
//   - успешная отправка -> ResultSent, очередь пуста;
//   - временная ошибка -> повтор, затем успех;
//   - постоянная ошибка -> после maxAttempts письмо в :dead;
//   - битый payload -> сразу в :dead, очередь обрабатывается дальше;
//   - отмена контекста -> Run возвращает nil.

type fakeSender struct {
	mu    sync.Mutex
	fails int // сколько первых вызовов завершится ошибкой (-1 — все)
	calls int
	sent  []Message
}

func (f *fakeSender) Send(_ context.Context, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.fails < 0 || f.calls <= f.fails {
		return errors.New("smtp: 421 try later")
	}

	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) snapshot() (int, []Message) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls, append([]Message(nil), f.sent...)
}

type results struct {
	mu  sync.Mutex
	got []string
}

func (r *results) add(s string) {
	r.mu.Lock()
	r.got = append(r.got, s)
	r.mu.Unlock()
}

func (r *results) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.got...)
}

func runWorker(t *testing.T, w *Worker) context.CancelFunc {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("worker did not stop")
		}
	})

	return cancel
}

func TestWorker_SendsMessage(t *testing.T) {
	t.Parallel()

	q, _ := newQueue(t)
	s := &fakeSender{}
	var res results

	w := NewWorker(q, s, 3, WithPollTimeout(50*time.Millisecond), WithObserver(res.add))
	runWorker(t, w)

	require.NoError(t, q.SendMail(context.Background(), []string{"r@example.com"}, "hi", "<p>hi</p>"))

	require.Eventually(t, func() bool {
		_, sent := s.snapshot()
		return len(sent) == 1
	}, 2*time.Second, 10*time.Millisecond)

	_, sent := s.snapshot()
	require.Equal(t, "hi", sent[0].Subject)
	require.Equal(t, []string{ResultSent}, res.list())
}

func TestWorker_RetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	q, _ := newQueue(t)
	s := &fakeSender{fails: 1}
	var res results

	w := NewWorker(q, s, 3, WithPollTimeout(50*time.Millisecond), WithObserver(res.add))
	runWorker(t, w)

	require.NoError(t, q.SendMail(context.Background(), []string{"r@example.com"}, "retry", "<p/>"))

	require.Eventually(t, func() bool {
		_, sent := s.snapshot()
		return len(sent) == 1
	}, 2*time.Second, 10*time.Millisecond)

	_, sent := s.snapshot()
	require.Equal(t, 1, sent[0].Attempts)
	require.Equal(t, []string{ResultRetried, ResultSent}, res.list())
}

func TestWorker_DeadAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	q, mr := newQueue(t)
	s := &fakeSender{fails: -1}
	var res results

	w := NewWorker(q, s, 2, WithPollTimeout(50*time.Millisecond), WithObserver(res.add))
	runWorker(t, w)

	require.NoError(t, q.SendMail(context.Background(), []string{"r@example.com"}, "dead", "<p/>"))

	require.Eventually(t, func() bool {
		items, err := mr.List(q.DeadKey())
		return err == nil && len(items) == 1
	}, 2*time.Second, 10*time.Millisecond)

	calls, _ := s.snapshot()
	require.Equal(t, 2, calls)
	require.Equal(t, []string{ResultRetried, ResultDead}, res.list())
}

func TestWorker_BuriesMalformedPayload(t *testing.T) {
	t.Parallel()

	q, mr := newQueue(t)
	s := &fakeSender{}
	var res results

	w := NewWorker(q, s, 3, WithPollTimeout(50*time.Millisecond), WithObserver(res.add))
	runWorker(t, w)

	_, err := mr.Lpush(q.Key(), "garbage")
	require.NoError(t, err)
	require.NoError(t, q.SendMail(context.Background(), []string{"ok@example.com"}, "after", "<p/>"))

	require.Eventually(t, func() bool {
		return len(res.list()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	_, sent := s.snapshot()
	require.Len(t, sent, 1)
	require.Equal(t, "after", sent[0].Subject)

	items, err := mr.List(q.DeadKey())
	require.NoError(t, err)
	require.Equal(t, []string{"garbage"}, items)
	require.Equal(t, []string{ResultDead, ResultSent}, res.list())
}

func TestWorker_StopsOnCancel(t *testing.T) {
	t.Parallel()

	q, _ := newQueue(t)
	w := NewWorker(q, &fakeSender{}, 0, WithPollTimeout(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
