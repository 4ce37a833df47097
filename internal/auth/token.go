package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// DefaultAccessTTL — время жизни access-токена по умолчанию.
	DefaultAccessTTL = time.Hour
	// DefaultRefreshTTL — время жизни refresh-токена по умолчанию.
	DefaultRefreshTTL = 24 * time.Hour
)

// TokenKind различает access- и refresh-токены.
type TokenKind int

const (
	Access TokenKind = iota
	Refresh
)

func (k TokenKind) String() string {
	if k == Refresh {
		return "refresh"
	}

	return "access"
}

// Subject — идентичность пользователя внутри токена.
// Содержимое не перепроверяется по БД при каждом запросе.
type Subject struct {
	Email  string `json:"email"`
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
}

// Claims — проверенное содержимое сессионного токена.
type Claims struct {
	Subject   Subject
	IssuedAt  time.Time
	ExpiresAt time.Time
	TokenID   string
	IsRefresh bool
}

// Kind возвращает тип токена.
func (c *Claims) Kind() TokenKind {
	if c.IsRefresh {
		return Refresh
	}

	return Access
}

// sessionClaims — JSON-представление payload:
// {"user": {...}, "refresh": bool, "exp", "iat", "jti"}.
type sessionClaims struct {
	User    Subject `json:"user"`
	Refresh bool    `json:"refresh"`
	jwt.RegisteredClaims
}

// TokenCodec выпускает и разбирает сессионные JWT (HS256).
// Безопасен для конкурентного использования: секрет только читается.
type TokenCodec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	opts       options
	parser     *jwt.Parser
}

// NewTokenCodec создаёт кодек. Пустой секрет — ошибка;
// неположительные TTL заменяются значениями по умолчанию.
func NewTokenCodec(secret string, accessTTL, refreshTTL time.Duration, opts ...Option) (*TokenCodec, error) {
	const op = "auth.token.NewTokenCodec"

	if secret == "" {
		return nil, fmt.Errorf("%s: empty secret", op)
	}

	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}

	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(o.now),
	}
	if o.leeway > 0 {
		parserOpts = append(parserOpts, jwt.WithLeeway(o.leeway))
	}

	return &TokenCodec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		opts:       o,
		parser:     jwt.NewParser(parserOpts...),
	}, nil
}

// AccessTTL возвращает время жизни access-токена.
func (c *TokenCodec) AccessTTL() time.Duration { return c.accessTTL }

// Issue подписывает новый токен для subject. Каждый вызов получает свежий jti.
func (c *TokenCodec) Issue(subject Subject, isRefresh bool) (string, error) {
	const op = "auth.token.Issue"

	ttl := c.accessTTL
	if isRefresh {
		ttl = c.refreshTTL
	}

	now := c.opts.now()
	claims := sessionClaims{
		User:    subject,
		Refresh: isRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// Parse проверяет подпись, затем срок действия и возвращает claims.
// Ошибки: ErrTokenBadSignature, ErrTokenExpired, ErrTokenMalformed
// (все три оборачивают ErrTokenInvalid).
func (c *TokenCodec) Parse(token string) (*Claims, error) {
	const op = "auth.token.Parse"

	var sc sessionClaims
	_, err := c.parser.ParseWithClaims(token, &sc, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, classifyJWTError(err))
	}

	if sc.ID == "" || sc.ExpiresAt == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrTokenMalformed)
	}

	out := &Claims{
		Subject:   sc.User,
		ExpiresAt: sc.ExpiresAt.Time,
		TokenID:   sc.ID,
		IsRefresh: sc.Refresh,
	}
	if sc.IssuedAt != nil {
		out.IssuedAt = sc.IssuedAt.Time
	}

	return out, nil
}

// classifyJWTError сводит ошибки golang-jwt к трём видам ErrTokenInvalid.
// Библиотека проверяет подпись до claims, поэтому просроченный токен
// с подделанной подписью получает ErrTokenBadSignature.
func classifyJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrTokenBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return ErrTokenMalformed
	}
}
