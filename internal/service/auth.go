package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	netmail "net/mail"
	"strings"

	"github.com/pribylovaa/bookly/internal/auth"
	"github.com/pribylovaa/bookly/internal/mail"
	"github.com/pribylovaa/bookly/internal/models"
	"github.com/pribylovaa/bookly/internal/pkg/log"
	"github.com/pribylovaa/bookly/internal/storage"
	"github.com/pribylovaa/bookly/pkg/redact"
)

// Входные структуры auth-флоу.
type SignupInput struct {
	Email     string
	Password  string
	Username  string
	FirstName string
	LastName  string
}

// LoginResult — пара токенов и данные пользователя из токена.
type LoginResult struct {
	Tokens  models.TokenPair
	Subject auth.Subject
}

// Signup регистрирует пользователя и ставит в очередь письмо подтверждения.
//
// Поведение:
//   - e-mail нормализуется (TrimSpace + нижний регистр) и проверяется синтаксически;
//   - занятый e-mail — auth.ErrUserAlreadyExists;
//   - пароль очищается от NUL-байтов и хэшируется;
//   - ошибка постановки письма в очередь логируется, но не возвращается.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*models.UserDetails, error) {
	const op = "service.auth.Signup"

	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg := log.From(ctx).With(slog.String("op", op), slog.String("email", redact.Email(email)))

	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, fmt.Errorf("%s: %w: empty username", op, ErrInvalidArgument)
	}

	_, err = s.storage.UserByEmail(ctx, email)
	switch {
	case err == nil:
		lg.Warn("signup_email_taken")
		return nil, fmt.Errorf("%s: %w", op, auth.ErrUserAlreadyExists)
	case !errors.Is(err, storage.ErrNotFound):
		return nil, storageError(ctx, op, err, ErrNotFound)
	}

	hash, err := s.hashPassword(ctx, op, in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.storage.SaveUser(ctx, &models.User{
		Email:        email,
		PasswordHash: hash,
		Username:     username,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         models.RoleUser,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, auth.ErrUserAlreadyExists)
		}

		return nil, storageError(ctx, op, err, ErrNotFound)
	}

	lg.Info("user_signed_up", slog.String("user_id", user.ID.String()))

	s.enqueueLinkMail(ctx, auth.PurposeEmailVerification, email)

	return &models.UserDetails{User: *user}, nil
}

// VerifyAccount подтверждает e-mail по ссылке из письма.
func (s *Service) VerifyAccount(ctx context.Context, token string) error {
	const op = "service.auth.VerifyAccount"

	email, err := s.linkEmail(op, auth.PurposeEmailVerification, token)
	if err != nil {
		return err
	}

	verified := true
	if _, err := s.storage.UpdateUser(ctx, email, models.UserUpdate{IsVerified: &verified}); err != nil {
		return storageError(ctx, op, err, auth.ErrUserNotFound)
	}

	log.From(ctx).Info("account_verified", slog.String("op", op), slog.String("email", redact.Email(email)))

	return nil
}

// Login проверяет пароль и выдаёт access- и refresh-токены.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	const op = "service.auth.Login"

	email, err := normalizeEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg := log.From(ctx).With(slog.String("op", op), slog.String("email", redact.Email(email)))

	user, err := s.storage.UserByEmail(ctx, email)
	if err != nil {
		return nil, storageError(ctx, op, err, auth.ErrUserNotFound)
	}

	ok, err := s.auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		lg.Error("password_verify_failed", slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if !ok {
		lg.Warn("login_password_mismatch")
		return nil, fmt.Errorf("%s: %w", op, auth.ErrPasswordMismatch)
	}

	subject := subjectOf(user)

	access, err := s.auth.IssueAccessToken(subject)
	if err != nil {
		lg.Error("token_issue_failed", slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	refresh, err := s.auth.IssueRefreshToken(subject)
	if err != nil {
		lg.Error("token_issue_failed", slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	lg.Info("user_logged_in", slog.String("user_id", subject.UserID))

	return &LoginResult{
		Tokens:  models.TokenPair{AccessToken: access, RefreshToken: refresh},
		Subject: subject,
	}, nil
}

// CurrentUser загружает пользователя из access-токена вместе с книгами и отзывами.
func (s *Service) CurrentUser(ctx context.Context, claims *auth.Claims) (*models.UserDetails, error) {
	const op = "service.auth.CurrentUser"

	user, err := s.userByClaims(ctx, op, claims)
	if err != nil {
		return nil, err
	}

	books, err := s.storage.ListBooksByUser(ctx, user.ID)
	if err != nil {
		return nil, storageError(ctx, op, err, ErrNotFound)
	}

	reviews, err := s.storage.ReviewsByUser(ctx, user.ID)
	if err != nil {
		return nil, storageError(ctx, op, err, ErrNotFound)
	}

	return &models.UserDetails{User: *user, Books: books, Reviews: reviews}, nil
}

// Identity возвращает роль и признак подтверждения для ролевого гейта.
// Берётся из БД: is_verified в токене не хранится.
func (s *Service) Identity(ctx context.Context, claims *auth.Claims) (auth.Identity, error) {
	const op = "service.auth.Identity"

	user, err := s.userByClaims(ctx, op, claims)
	if err != nil {
		return auth.Identity{}, err
	}

	return auth.Identity{Role: string(user.Role), Verified: user.IsVerified}, nil
}

// RefreshAccessToken выпускает новый access-токен для субъекта refresh-токена.
func (s *Service) RefreshAccessToken(ctx context.Context, claims *auth.Claims) (string, error) {
	const op = "service.auth.RefreshAccessToken"

	if claims == nil {
		return "", fmt.Errorf("%s: %w", op, auth.ErrCredentialsMissing)
	}

	token, err := s.auth.IssueAccessToken(claims.Subject)
	if err != nil {
		log.From(ctx).Error("token_issue_failed", slog.String("op", op), slog.String("err", err.Error()))
		return "", fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return token, nil
}

// Logout отзывает access-токен на остаток его срока.
func (s *Service) Logout(ctx context.Context, claims *auth.Claims) error {
	const op = "service.auth.Logout"

	if claims == nil {
		return fmt.Errorf("%s: %w", op, auth.ErrCredentialsMissing)
	}

	if err := s.auth.RevokeClaims(ctx, claims); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// RequestPasswordReset ставит в очередь письмо со ссылкой сброса.
// Для неизвестного e-mail письмо не отправляется, но ответ тот же.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	const op = "service.auth.RequestPasswordReset"

	email, err := normalizeEmail(email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.storage.UserByEmail(ctx, email); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.From(ctx).Info("password_reset_unknown_email",
				slog.String("op", op), slog.String("email", redact.Email(email)))
			return nil
		}

		return storageError(ctx, op, err, ErrNotFound)
	}

	s.enqueueLinkMail(ctx, auth.PurposePasswordReset, email)

	return nil
}

// ResetPassword меняет пароль по ссылке из письма.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword, confirm string) error {
	const op = "service.auth.ResetPassword"

	if newPassword != confirm {
		return fmt.Errorf("%s: %w", op, ErrPasswordsDoNotMatch)
	}

	email, err := s.linkEmail(op, auth.PurposePasswordReset, token)
	if err != nil {
		return err
	}

	hash, err := s.hashPassword(ctx, op, newPassword)
	if err != nil {
		return err
	}

	if _, err := s.storage.UpdateUser(ctx, email, models.UserUpdate{PasswordHash: &hash}); err != nil {
		return storageError(ctx, op, err, auth.ErrUserNotFound)
	}

	log.From(ctx).Info("password_reset", slog.String("op", op), slog.String("email", redact.Email(email)))

	return nil
}

func (s *Service) userByClaims(ctx context.Context, op string, claims *auth.Claims) (*models.User, error) {
	if claims == nil {
		return nil, fmt.Errorf("%s: %w", op, auth.ErrCredentialsMissing)
	}

	user, err := s.storage.UserByEmail(ctx, claims.Subject.Email)
	if err != nil {
		return nil, storageError(ctx, op, err, auth.ErrUserNotFound)
	}

	return user, nil
}

func (s *Service) hashPassword(ctx context.Context, op, plaintext string) (string, error) {
	hash, err := s.auth.HashPassword(plaintext)
	switch {
	case err == nil:
		return hash, nil
	case errors.Is(err, auth.ErrEmptyPassword), errors.Is(err, auth.ErrPasswordTooLong):
		return "", fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, err)
	default:
		log.From(ctx).Error("password_hash_failed", slog.String("op", op), slog.String("err", err.Error()))
		return "", fmt.Errorf("%s: %w", op, ErrInternal)
	}
}

// linkEmail достаёт e-mail из ссылки письма. Пустой e-mail — auth.ErrUserNotFound.
func (s *Service) linkEmail(op string, purpose auth.LinkPurpose, token string) (string, error) {
	payload, err := s.auth.ParseLinkToken(purpose, token)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	email := payload["email"]
	if email == "" {
		return "", fmt.Errorf("%s: %w", op, auth.ErrUserNotFound)
	}

	return email, nil
}

// enqueueLinkMail подписывает ссылку и ставит письмо в очередь.
// Ошибки только логируются: доставка письма не входит в ответ API.
func (s *Service) enqueueLinkMail(ctx context.Context, purpose auth.LinkPurpose, email string) {
	const op = "service.auth.enqueueLinkMail"

	lg := log.From(ctx).With(
		slog.String("op", op),
		slog.String("purpose", string(purpose)),
		slog.String("email", redact.Email(email)),
	)

	token, err := s.auth.IssueLinkToken(purpose, map[string]string{"email": email})
	if err != nil {
		lg.Error("link_token_issue_failed", slog.String("err", err.Error()))
		return
	}

	var (
		subject string
		body    string
	)

	switch purpose {
	case auth.PurposePasswordReset:
		subject = mail.SubjectPasswordReset
		body, err = mail.PasswordResetEmail(s.link("password-reset", token))
	default:
		subject = mail.SubjectVerification
		body, err = mail.VerificationEmail(s.link("verify", token))
	}

	if err != nil {
		lg.Error("mail_render_failed", slog.String("err", err.Error()))
		return
	}

	if err := s.mail.SendMail(ctx, []string{email}, subject, body); err != nil {
		lg.Error("mail_enqueue_failed", slog.String("err", err.Error()))
		return
	}

	lg.Info("mail_enqueued")
}

// link собирает http://{domain}{api_prefix}/auth/{segment}/{token}.
func (s *Service) link(segment, token string) string {
	return fmt.Sprintf("http://%s%s/auth/%s/%s", s.cfg.App.Domain, s.cfg.App.APIPrefix, segment, token)
}

func subjectOf(u *models.User) auth.Subject {
	return auth.Subject{Email: u.Email, UserID: u.ID.String(), Role: string(u.Role)}
}

// normalizeEmail приводит адрес к нижнему регистру и проверяет синтаксис.
// Форма "Name <addr>" не принимается.
func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", fmt.Errorf("%w: empty email", ErrInvalidArgument)
	}

	addr, err := netmail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: malformed email", ErrInvalidArgument)
	}

	return email, nil
}
