package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pribylovaa/bookly/internal/pkg/log"
	"github.com/pribylovaa/bookly/pkg/redact"
)

// Guard — проверка сессии на входе запроса: Bearer -> подпись/срок ->
// тип токена -> deny-list. Состояния между запросами не хранит.
type Guard struct {
	codec *TokenCodec
	store RevocationStore
}

// NewGuard собирает guard из кодека и хранилища отзывов.
func NewGuard(codec *TokenCodec, store RevocationStore) *Guard {
	return &Guard{codec: codec, store: store}
}

// BearerToken извлекает токен из заголовка Authorization.
// Схема сравнивается без учёта регистра; пустой токен равен отсутствующему.
func BearerToken(r *http.Request) (string, error) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if h == "" {
		return "", ErrCredentialsMissing
	}

	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrCredentialsMissing
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrCredentialsMissing
	}

	return token, nil
}

// Authenticate проверяет Bearer-токен запроса и требует тип kind.
func (g *Guard) Authenticate(r *http.Request, kind TokenKind) (*Claims, error) {
	const op = "auth.guard.Authenticate"

	token, err := BearerToken(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	claims, err := g.Verify(r.Context(), token, kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return claims, nil
}

// Verify проверяет «сырой» токен. Подпись и срок проверяются до типа
// и deny-list: содержимому неподписанного токена доверять нельзя.
func (g *Guard) Verify(ctx context.Context, token string, kind TokenKind) (*Claims, error) {
	const op = "auth.guard.Verify"

	claims, err := g.codec.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if claims.Kind() != kind {
		return nil, fmt.Errorf("%s: %w", op, ErrWrongTokenType)
	}

	revoked, err := g.store.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		log.From(ctx).Error("revocation_lookup_failed",
			slog.String("op", op),
			slog.String("jti", redact.TokenID(claims.TokenID)),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrRevocationUnavailable, err)
	}

	if revoked {
		return nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
	}

	return claims, nil
}

// Revoke помечает jti отозванным на время жизни access-токена.
func (g *Guard) Revoke(ctx context.Context, tokenID string) error {
	return g.revoke(ctx, tokenID, g.codec.AccessTTL())
}

// RevokeClaims отзывает токен на оставшийся срок его действия,
// но не дольше времени жизни access-токена и не меньше секунды.
func (g *Guard) RevokeClaims(ctx context.Context, c *Claims) error {
	ttl := c.ExpiresAt.Sub(g.codec.opts.now())
	if ttl > g.codec.AccessTTL() {
		ttl = g.codec.AccessTTL()
	}

	if ttl < time.Second {
		ttl = time.Second
	}

	return g.revoke(ctx, c.TokenID, ttl)
}

func (g *Guard) revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	const op = "auth.guard.Revoke"

	if tokenID == "" {
		return fmt.Errorf("%s: %w", op, ErrTokenMalformed)
	}

	if err := g.store.MarkRevoked(ctx, tokenID, ttl); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrRevocationUnavailable, err)
	}

	log.From(ctx).Info("token_revoked",
		slog.String("jti", redact.TokenID(tokenID)),
		slog.Duration("ttl", ttl),
	)

	return nil
}
