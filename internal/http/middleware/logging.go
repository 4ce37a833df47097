package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/bookly/internal/pkg/log"
	"github.com/pribylovaa/bookly/pkg/redact"
)

// Сегменты пути, за которыми в URL идёт одноразовый токен ссылки.
var tokenPathMarkers = []string{"verify", "password-reset"}

// Logging кладёт request-scoped логгер в контекст и пишет итоговую запись
// по каждому запросу. Токены ссылок в пути маскируются.
func Logging(l *slog.Logger) Middleware {
	if l == nil {
		l = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := l
			if rid := r.Header.Get(HeaderRequestID); rid != "" {
				reqLogger = reqLogger.With(slog.String("request_id", rid))
			}
			r = r.WithContext(log.Into(r.Context(), reqLogger))

			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r)
			dur := time.Since(start)

			status := sw.Status()
			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", redact.Path(r.URL.Path, tokenPathMarkers...)),
				slog.String("route", routePattern(r)),
				slog.Int("status", status),
				slog.Duration("dur", dur),
				slog.Int("bytes", sw.count),
			}

			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}

			reqLogger.LogAttrs(r.Context(), level, "http", attrs...)
		})
	}
}

// routePattern возвращает шаблон маршрута chi (после маршрутизации).
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}
