package auth

import "time"

// Option настраивает кодеки токенов.
type Option func(*options)

type options struct {
	now    func() time.Time
	leeway time.Duration
}

func defaultOptions() options {
	return options{now: time.Now}
}

// WithClock подменяет источник времени (для тестов и симуляции истечения).
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLeeway задаёт допуск при проверке exp.
func WithLeeway(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.leeway = d
		}
	}
}
