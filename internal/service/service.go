// service содержит бизнес-логику bookly:
//   - auth.go — регистрация, подтверждение, вход, выход и сброс пароля;
//   - books.go, reviews.go — книги и отзывы с «жадной» подгрузкой связей;
//   - covers.go — presigned-загрузка обложек в S3/MinIO.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/bookly/internal/auth"
	"github.com/pribylovaa/bookly/internal/config"
	"github.com/pribylovaa/bookly/internal/mail"
	"github.com/pribylovaa/bookly/internal/pkg/log"
	"github.com/pribylovaa/bookly/internal/storage"
)

var (
	// ErrInvalidArgument — некорректные входные данные.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound — сущность не найдена.
	ErrNotFound = errors.New("not found")
	// ErrPasswordsDoNotMatch — новый пароль и подтверждение различаются.
	ErrPasswordsDoNotMatch = errors.New("passwords do not match")
	// ErrCoversDisabled — объектное хранилище не сконфигурировано.
	ErrCoversDisabled = errors.New("covers are disabled")
	// ErrInternal — внутренняя ошибка сервиса.
	ErrInternal = errors.New("internal")
)

// Authenticator — то, что сервису нужно от ядра аутентификации.
type Authenticator interface {
	HashPassword(plaintext string) (string, error)
	VerifyPassword(plaintext, digest string) (bool, error)
	IssueAccessToken(s auth.Subject) (string, error)
	IssueRefreshToken(s auth.Subject) (string, error)
	RevokeClaims(ctx context.Context, c *auth.Claims) error
	IssueLinkToken(purpose auth.LinkPurpose, payload map[string]string) (string, error)
	ParseLinkToken(purpose auth.LinkPurpose, token string) (map[string]string, error)
}

// Service — бизнес-логика bookly.
type Service struct {
	cfg     *config.Config
	storage storage.Storage
	covers  storage.CoversStorage
	auth    Authenticator
	mail    mail.Enqueuer
}

// New создает новый экземпляр Service. covers может быть nil —
// тогда операции с обложками возвращают ErrCoversDisabled.
func New(st storage.Storage, covers storage.CoversStorage, a Authenticator, m mail.Enqueuer, cfg *config.Config) *Service {
	return &Service{
		cfg:     cfg,
		storage: st,
		covers:  covers,
		auth:    a,
		mail:    m,
	}
}

// storageError переводит ошибку хранилища в ошибку сервиса.
// notFound подставляется вместо storage.ErrNotFound.
func storageError(ctx context.Context, op string, err, notFound error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%s: %w", op, notFound)
	case errors.Is(err, storage.ErrInvalidArgument):
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	default:
		log.From(ctx).Error("storage_error", slog.String("op", op), slog.String("err", err.Error()))
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}
}
