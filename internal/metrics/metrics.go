// metrics содержит Prometheus-коллекторы bookly.
// Коллекторы регистрируются на переданном Registerer, без глобального состояния.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics — набор коллекторов HTTP-слоя, auth-гейта и mail-worker.
type Metrics struct {
	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	authRejections *prometheus.CounterVec
	mailMessages   *prometheus.CounterVec
}

// New создаёт коллекторы и регистрирует их в reg.
// Повторная регистрация в том же reg — ошибка.
func New(reg prometheus.Registerer) (*Metrics, error) {
	const op = "metrics.New"

	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:    "http_requests_total",
			Help:    "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		authRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:    "auth_rejections_total",
			Help:    "Requests rejected by the session guard or role gate.",
		}, []string{"reason"}),
		mailMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:    "mail_messages_total",
			Help:    "Mail worker outcomes.",
		}, []string{"result"}),
	}

	for _, c := range []prometheus.Collector{m.requests, m.duration, m.authRejections, m.mailMessages} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return m, nil
}

// ObserveRequest учитывает завершённый HTTP-запрос.
// route — шаблон маршрута chi, а не сырой путь.
func (m *Metrics) ObserveRequest(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}

	if route == "" {
		route = "unmatched"
	}

	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(dur.Seconds())
}

// AuthRejected учитывает отказ в доступе с кодом reason.
func (m *Metrics) AuthRejected(reason string) {
	if m == nil {
		return
	}

	m.authRejections.WithLabelValues(reason).Inc()
}

// MailResult учитывает исход обработки письма (sent/retried/dead/failed).
func (m *Metrics) MailResult(result string) {
	if m == nil {
		return
	}

	m.mailMessages.WithLabelValues(result).Inc()
}
