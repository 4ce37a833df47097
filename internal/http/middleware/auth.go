package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/pribylovaa/bookly/internal/auth"
	apierrors "github.com/pribylovaa/bookly/internal/errors"
	"github.com/pribylovaa/bookly/internal/pkg/log"
	"github.com/pribylovaa/bookly/pkg/redact"
)

// SessionAuthenticator проверяет сессию запроса (auth.Authenticator).
type SessionAuthenticator interface {
	Authenticate(r *http.Request, kind auth.TokenKind) (*auth.Claims, error)
}

// IdentityResolver подгружает актуальные роль и статус подтверждения
// пользователя по claims (service.Service).
type IdentityResolver interface {
	Identity(ctx context.Context, claims *auth.Claims) (auth.Identity, error)
}

// RejectionObserver учитывает отказы в доступе (metrics.Metrics).
type RejectionObserver interface {
	AuthRejected(reason string)
}

// Authenticate требует валидный Bearer-токен вида kind.
// Claims кладутся в контекст (auth.ClaimsFrom), логгер дополняется user_id.
func Authenticate(a SessionAuthenticator, kind auth.TokenKind, obs RejectionObserver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := a.Authenticate(r, kind)
			if err != nil {
				reject(w, r, obs, err)
				return
			}

			ctx := auth.WithClaims(r.Context(), claims)
			ctx = log.With(ctx,
				slog.String("user_id", claims.Subject.UserID),
				slog.String("jti", redact.TokenID(claims.TokenID)),
			)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles пропускает только подтверждённых пользователей с ролью из roles.
// Ставится после Authenticate: без claims в контексте — credentials_missing.
func RequireRoles(res IdentityResolver, obs RejectionObserver, roles ...string) Middleware {
	gate := auth.NewRoleGate(roles...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.ClaimsFrom(r.Context())
			if !ok {
				reject(w, r, obs, auth.ErrCredentialsMissing)
				return
			}

			id, err := res.Identity(r.Context(), claims)
			if err != nil {
				apierrors.WriteError(w, r, err)
				return
			}

			if err := gate.Check(id); err != nil {
				reject(w, r, obs, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func reject(w http.ResponseWriter, r *http.Request, obs RejectionObserver, err error) {
	code := apierrors.Code(err)

	log.From(r.Context()).Info("auth_rejected",
		slog.String("reason", code),
		slog.String("err", err.Error()),
	)

	if obs != nil {
		obs.AuthRejected(code)
	}

	apierrors.WriteError(w, r, err)
}
