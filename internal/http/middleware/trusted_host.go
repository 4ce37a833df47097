package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/pribylovaa/bookly/internal/pkg/log"
)

// TrustedHost отклоняет запросы с заголовком Host вне allow-list (400).
// Порт не учитывается, регистр тоже. "*" в списке пропускает всё;
// пустой список отключает проверку.
func TrustedHost(hosts []string) Middleware {
	allowed := make(map[string]struct{}, len(hosts))
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "*" {
			return func(next http.Handler) http.Handler { return next }
		}
		if h != "" {
			allowed[h] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		if len(allowed) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := allowed[hostOnly(r.Host)]; !ok {
				log.From(r.Context()).Warn("untrusted_host", slog.String("host", r.Host))
				http.Error(w, "Invalid host header", http.StatusBadRequest)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hostOnly(hostport string) string {
	host := hostport
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		host = h
	}
	return strings.ToLower(strings.Trim(host, "[]"))
}
