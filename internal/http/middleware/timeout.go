package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	apierrors "github.com/pribylovaa/bookly/internal/errors"
	"github.com/pribylovaa/bookly/internal/pkg/log"
)

// Timeout ограничивает время обработки запроса бюджетом d.
// Существующий deadline не продлевается; d <= 0 отключает мидлвар.
// Если бюджет истёк, а обработчик ничего не записал, клиент получает
// 504/deadline_exceeded в общем формате ошибок.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if _, ok := ctx.Deadline(); !ok {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, d)
				defer cancel()
				r = r.WithContext(ctx)
			}

			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			if sw.status != 0 || !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return
			}

			log.From(ctx).Warn("request_timeout",
				slog.String("path", r.URL.Path),
				slog.Duration("budget", d),
			)
			apierrors.WriteError(sw, r, ctx.Err())
		})
	}
}
