package middleware

import (
	"net/http"
	"time"
)

// RequestObserver — приёмник метрик HTTP-запросов (metrics.Metrics).
type RequestObserver interface {
	ObserveRequest(method, route string, status int, dur time.Duration)
}

// Metrics учитывает число и длительность запросов по шаблону маршрута.
// Сырой путь в метки не попадает: id в URL раздули бы кардинальность.
func Metrics(obs RequestObserver) Middleware {
	return func(next http.Handler) http.Handler {
		if obs == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r)

			obs.ObserveRequest(r.Method, routePattern(r), sw.Status(), time.Since(start))
		})
	}
}
