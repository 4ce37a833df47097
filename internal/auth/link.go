package auth

import (
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

// LinkPurpose — пространство имён ссылок. У каждого назначения свой ключ,
// поэтому ссылка подтверждения не принимается как ссылка сброса пароля,
// а обе не принимаются как сессионный токен.
type LinkPurpose string

const (
	PurposeEmailVerification LinkPurpose = "email-verification"
	PurposePasswordReset     LinkPurpose = "password-reset"
)

// DefaultLinkTTL — окно действия ссылок по умолчанию.
const DefaultLinkTTL = 24 * time.Hour

type linkClaims struct {
	Data map[string]string `json:"data"`
	jwt.RegisteredClaims
}

// LinkCodec подписывает короткие payload'ы для одноразовых ссылок из писем.
type LinkCodec struct {
	key     []byte
	purpose LinkPurpose
	ttl     time.Duration
	opts    options
	parser  *jwt.Parser
}

// NewLinkCodec выводит ключ назначения из общего секрета через HKDF-SHA256.
func NewLinkCodec(secret string, purpose LinkPurpose, ttl time.Duration, opts ...Option) (*LinkCodec, error) {
	const op = "auth.link.NewLinkCodec"

	if secret == "" {
		return nil, fmt.Errorf("%s: empty secret", op)
	}

	if purpose == "" {
		return nil, fmt.Errorf("%s: empty purpose", op)
	}

	if ttl <= 0 {
		ttl = DefaultLinkTTL
	}

	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("bookly/link-token/"+string(purpose)))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &LinkCodec{
		key:     key,
		purpose: purpose,
		ttl:     ttl,
		opts:    o,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithAudience(string(purpose)),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(o.now),
		),
	}, nil
}

// Purpose возвращает пространство имён кодека.
func (c *LinkCodec) Purpose() LinkPurpose { return c.purpose }

// Encode подписывает payload. Nil-payload кодируется как пустой.
func (c *LinkCodec) Encode(payload map[string]string) (string, error) {
	const op = "auth.link.Encode"

	if payload == nil {
		payload = map[string]string{}
	}

	now := c.opts.now()
	claims := linkClaims{
		Data: payload,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{string(c.purpose)},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// Decode возвращает payload или ErrLinkTokenInvalid при любой ошибке
// (подделка, повреждение, чужое назначение, истечение срока).
func (c *LinkCodec) Decode(token string) (map[string]string, error) {
	const op = "auth.link.Decode"

	var lc linkClaims
	if _, err := c.parser.ParseWithClaims(token, &lc, func(*jwt.Token) (any, error) {
		return c.key, nil
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrLinkTokenInvalid)
	}

	if lc.Data == nil {
		lc.Data = map[string]string{}
	}

	return lc.Data, nil
}
