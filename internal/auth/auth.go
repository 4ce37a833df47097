// auth — ядро аутентификации bookly: хэширование паролей, сессионные JWT
// (access/refresh), подписанные ссылки для писем, проверка сессии с
// deny-list отозванных токенов и ролевой гейт.
//
// Все типы пакета не держат изменяемого состояния между запросами;
// единственная блокирующая операция — обращение к RevocationStore.
package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pribylovaa/bookly/internal/config"
)

// Authenticator — граница ядра, которую видят сервисы и HTTP-слой.
type Authenticator struct {
	hasher *Hasher
	tokens *TokenCodec
	guard  *Guard
	links  map[LinkPurpose]*LinkCodec
}

// New собирает Authenticator из конфигурации и хранилища отзывов.
func New(cfg config.AuthConfig, store RevocationStore, opts ...Option) (*Authenticator, error) {
	const op = "auth.New"

	if store == nil {
		return nil, fmt.Errorf("%s: nil revocation store", op)
	}

	opts = append([]Option{WithLeeway(cfg.Leeway)}, opts...)

	tokens, err := NewTokenCodec(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	links := make(map[LinkPurpose]*LinkCodec, 2)
	for _, p := range []LinkPurpose{PurposeEmailVerification, PurposePasswordReset} {
		lc, err := NewLinkCodec(cfg.JWTSecret, p, cfg.LinkTokenTTL, opts...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		links[p] = lc
	}

	return &Authenticator{
		hasher: NewHasher(cfg.BcryptCost),
		tokens: tokens,
		guard:  NewGuard(tokens, store),
		links:  links,
	}, nil
}

// HashPassword — см. Hasher.Hash.
func (a *Authenticator) HashPassword(plaintext string) (string, error) {
	return a.hasher.Hash(plaintext)
}

// VerifyPassword — см. Hasher.Verify.
func (a *Authenticator) VerifyPassword(plaintext, digest string) (bool, error) {
	return a.hasher.Verify(plaintext, digest)
}

// IssueAccessToken выпускает access-токен.
func (a *Authenticator) IssueAccessToken(s Subject) (string, error) {
	return a.tokens.Issue(s, false)
}

// IssueRefreshToken выпускает refresh-токен.
func (a *Authenticator) IssueRefreshToken(s Subject) (string, error) {
	return a.tokens.Issue(s, true)
}

// ParseToken разбирает сессионный токен без проверки типа и deny-list.
func (a *Authenticator) ParseToken(token string) (*Claims, error) {
	return a.tokens.Parse(token)
}

// Authenticate — см. Guard.Authenticate.
func (a *Authenticator) Authenticate(r *http.Request, kind TokenKind) (*Claims, error) {
	return a.guard.Authenticate(r, kind)
}

// Authorize — см. Authorize.
func (a *Authenticator) Authorize(id Identity, allowed ...string) error {
	return Authorize(id, allowed...)
}

// Revoke отзывает jti на время жизни access-токена.
func (a *Authenticator) Revoke(ctx context.Context, tokenID string) error {
	return a.guard.Revoke(ctx, tokenID)
}

// RevokeClaims отзывает токен на его оставшийся срок.
func (a *Authenticator) RevokeClaims(ctx context.Context, c *Claims) error {
	return a.guard.RevokeClaims(ctx, c)
}

// IssueLinkToken подписывает payload в пространстве имён purpose.
func (a *Authenticator) IssueLinkToken(purpose LinkPurpose, payload map[string]string) (string, error) {
	lc, err := a.link(purpose)
	if err != nil {
		return "", err
	}

	return lc.Encode(payload)
}

// ParseLinkToken проверяет ссылку в пространстве имён purpose.
func (a *Authenticator) ParseLinkToken(purpose LinkPurpose, token string) (map[string]string, error) {
	lc, err := a.link(purpose)
	if err != nil {
		return nil, err
	}

	return lc.Decode(token)
}

func (a *Authenticator) link(purpose LinkPurpose) (*LinkCodec, error) {
	lc, ok := a.links[purpose]
	if !ok {
		return nil, fmt.Errorf("auth.link: unknown purpose %q", purpose)
	}

	return lc, nil
}
