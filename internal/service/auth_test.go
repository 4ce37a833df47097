package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/bookly/internal/auth"
	"github.com/pribylovaa/bookly/internal/mail"
	"github.com/pribylovaa/bookly/internal/models"
	"github.com/pribylovaa/bookly/internal/storage"
)

// Регистрация: пользователь сохраняется с хэшем пароля без NUL-байтов,
// письмо подтверждения уходит в очередь, ссылка из письма подтверждает аккаунт.
func TestService_Signup_ThenVerify(t *testing.T) {
	d := newTestDeps(t, false)
	ctx := context.Background()

	var saved *models.User
	var body string

	d.st.EXPECT().UserByEmail(gomock.Any(), "new@example.com").Return(nil, storage.ErrNotFound)
	d.st.EXPECT().SaveUser(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, u *models.User) (*models.User, error) {
			saved = u
			out := *u
			out.ID = uuid.New()
			return &out, nil
		})
	d.mail.EXPECT().SendMail(gomock.Any(), []string{"new@example.com"}, mail.SubjectVerification, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ []string, _ string, html string) error {
			body = html
			return nil
		})

	got, err := d.svc.Signup(ctx, SignupInput{
		Email:     " New@Example.com ",
		Password:  "pass\x00word",
		Username:  " reader ",
		FirstName: "Ann",
		LastName:  "Reader",
	})
	require.NoError(t, err)
	require.Equal(t, "new@example.com", got.User.Email)
	require.Equal(t, "reader", got.User.Username)
	require.Equal(t, models.RoleUser, got.User.Role)
	require.False(t, got.User.IsVerified)
	require.Empty(t, got.Books)

	ok, err := d.auth.VerifyPassword("password", saved.PasswordHash)
	require.NoError(t, err)
	require.True(t, ok, "NUL-байты удаляются до хэширования")

	token := tokenFromBody(t, body, "verify")

	verified := true
	d.st.EXPECT().UpdateUser(gomock.Any(), "new@example.com", models.UserUpdate{IsVerified: &verified}).
		Return(&models.User{Email: "new@example.com", IsVerified: true}, nil)

	require.NoError(t, d.svc.VerifyAccount(ctx, token))
}

func TestService_Signup_EmailTaken(t *testing.T) {
	d := newTestDeps(t, false)

	d.st.EXPECT().UserByEmail(gomock.Any(), "taken@example.com").Return(&models.User{}, nil)

	_, err := d.svc.Signup(context.Background(), SignupInput{Email: "taken@example.com", Password: "p", Username: "u"})
	require.ErrorIs(t, err, auth.ErrUserAlreadyExists)
}

// Гонка двух регистраций: уникальный индекс отвечает ErrAlreadyExists.
func TestService_Signup_UniqueViolation(t *testing.T) {
	d := newTestDeps(t, false)

	d.st.EXPECT().UserByEmail(gomock.Any(), gomock.Any()).Return(nil, storage.ErrNotFound)
	d.st.EXPECT().SaveUser(gomock.Any(), gomock.Any()).Return(nil, storage.ErrAlreadyExists)

	_, err := d.svc.Signup(context.Background(), SignupInput{Email: "race@example.com", Password: "p", Username: "u"})
	require.ErrorIs(t, err, auth.ErrUserAlreadyExists)
}

func TestService_Signup_InvalidInput(t *testing.T) {
	d := newTestDeps(t, false)
	ctx := context.Background()

	_, err := d.svc.Signup(ctx, SignupInput{Email: "broken", Password: "p", Username: "u"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = d.svc.Signup(ctx, SignupInput{Email: "a@example.com", Password: "p", Username: "  "})
	require.ErrorIs(t, err, ErrInvalidArgument)

	d.st.EXPECT().UserByEmail(gomock.Any(), gomock.Any()).Return(nil, storage.ErrNotFound).Times(2)

	_, err = d.svc.Signup(ctx, SignupInput{Email: "a@example.com", Password: "\x00\x00", Username: "u"})
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.ErrorIs(t, err, auth.ErrEmptyPassword)

	_, err = d.svc.Signup(ctx, SignupInput{Email: "a@example.com", Password: strings.Repeat("x", 73), Username: "u"})
	require.ErrorIs(t, err, auth.ErrPasswordTooLong)
}

// Ошибка очереди не ломает регистрацию.
func TestService_Signup_MailFailureIsNotReturned(t *testing.T) {
	d := newTestDeps(t, false)

	d.st.EXPECT().UserByEmail(gomock.Any(), gomock.Any()).Return(nil, storage.ErrNotFound)
	d.st.EXPECT().SaveUser(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, u *models.User) (*models.User, error) { return u, nil })
	d.mail.EXPECT().SendMail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(mail.ErrQueueUnavailable)

	_, err := d.svc.Signup(context.Background(), SignupInput{Email: "a@example.com", Password: "p", Username: "u"})
	require.NoError(t, err)
}

func TestService_VerifyAccount_Errors(t *testing.T) {
	d := newTestDeps(t, false)
	ctx := context.Background()

	err := d.svc.VerifyAccount(ctx, "garbage")
	require.ErrorIs(t, err, auth.ErrLinkTokenInvalid)

	// Ссылка сброса пароля не подтверждает аккаунт.
	reset, err := d.auth.IssueLinkToken(auth.PurposePasswordReset, map[string]string{"email": "a@example.com"})
	require.NoError(t, err)
	require.ErrorIs(t, d.svc.VerifyAccount(ctx, reset), auth.ErrLinkTokenInvalid)

	noEmail, err := d.auth.IssueLinkToken(auth.PurposeEmailVerification, map[string]string{"other": "x"})
	require.NoError(t, err)
	require.ErrorIs(t, d.svc.VerifyAccount(ctx, noEmail), auth.ErrUserNotFound)

	gone, err := d.auth.IssueLinkToken(auth.PurposeEmailVerification, map[string]string{"email": "gone@example.com"})
	require.NoError(t, err)
	d.st.EXPECT().UpdateUser(gomock.Any(), "gone@example.com", gomock.Any()).Return(nil, storage.ErrNotFound)
	require.ErrorIs(t, d.svc.VerifyAccount(ctx, gone), auth.ErrUserNotFound)
}

func TestService_Login(t *testing.T) {
	d := newTestDeps(t, false)
	ctx := context.Background()

	user := mustUser(t, d.auth, "reader@example.com", "secret")

	d.st.EXPECT().UserByEmail(gomock.Any(), "reader@example.com").Return(user, nil).Times(2)

	res, err := d.svc.Login(ctx, "Reader@example.com", "secret")
	require.NoError(t, err)
	require.Equal(t, auth.Subject{Email: user.Email, UserID: user.ID.String(), Role: "user"}, res.Subject)

	access, err := d.auth.ParseToken(res.Tokens.AccessToken)
	require.NoError(t, err)
	require.False(t, access.IsRefresh)
	require.Equal(t, res.Subject, access.Subject)

	refresh, err := d.auth.ParseToken(res.Tokens.RefreshToken)
	require.NoError(t, err)
	require.True(t, refresh.IsRefresh)
	require.NotEqual(t, access.TokenID, refresh.TokenID)

	_, err = d.svc.Login(ctx, "reader@example.com", "wrong")
	require.ErrorIs(t, err, auth.ErrPasswordMismatch)

	d.st.EXPECT().UserByEmail(gomock.Any(), "nobody@example.com").Return(nil, storage.ErrNotFound)
	_, err = d.svc.Login(ctx, "nobody@example.com", "secret")
	require.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestService_Login_MalformedDigestIsInternal(t *testing.T) {
	d := newTestDeps(t, false)

	d.st.EXPECT().UserByEmail(gomock.Any(), gomock.Any()).Return(&models.User{PasswordHash: "not-bcrypt"}, nil)

	_, err := d.svc.Login(context.Background(), "reader@example.com", "secret")
	require.ErrorIs(t, err, ErrInternal)
}

func TestService_CurrentUser_EagerLoads(t *testing.T) {
	d := newTestDeps(t, false)

	user := mustUser(t, d.auth, "reader@example.com", "secret")
	books := []models.Book{{ID: user.ID, Title: "Mine", UserID: user.ID}}
	reviews := []models.Review{{Content: "Nice", Rating: 4, UserID: user.ID}}

	d.st.EXPECT().UserByEmail(gomock.Any(), user.Email).Return(user, nil)
	d.st.EXPECT().ListBooksByUser(gomock.Any(), user.ID).Return(books, nil)
	d.st.EXPECT().ReviewsByUser(gomock.Any(), user.ID).Return(reviews, nil)

	got, err := d.svc.CurrentUser(context.Background(), &auth.Claims{Subject: auth.Subject{Email: user.Email}})
	require.NoError(t, err)
	require.Equal(t, books, got.Books)
	require.Equal(t, reviews, got.Reviews)

	_, err = d.svc.CurrentUser(context.Background(), nil)
	require.ErrorIs(t, err, auth.ErrCredentialsMissing)
}

func TestService_Identity(t *testing.T) {
	d := newTestDeps(t, false)

	d.st.EXPECT().UserByEmail(gomock.Any(), "admin@example.com").
		Return(&models.User{Role: models.RoleAdmin, IsVerified: false}, nil)

	id, err := d.svc.Identity(context.Background(), &auth.Claims{Subject: auth.Subject{Email: "admin@example.com"}})
	require.NoError(t, err)
	require.Equal(t, auth.Identity{Role: "admin", Verified: false}, id)

	d.st.EXPECT().UserByEmail(gomock.Any(), "gone@example.com").Return(nil, storage.ErrNotFound)

	_, err = d.svc.Identity(context.Background(), &auth.Claims{Subject: auth.Subject{Email: "gone@example.com"}})
	require.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestService_RefreshAccessToken(t *testing.T) {
	d := newTestDeps(t, false)

	subject := auth.Subject{Email: "reader@example.com", UserID: "u-1", Role: "user"}

	token, err := d.svc.RefreshAccessToken(context.Background(), &auth.Claims{Subject: subject, IsRefresh: true})
	require.NoError(t, err)

	c, err := d.auth.ParseToken(token)
	require.NoError(t, err)
	require.False(t, c.IsRefresh)
	require.Equal(t, subject, c.Subject)
}

func TestService_Logout(t *testing.T) {
	d := newTestDeps(t, false)
	ctx := context.Background()

	token, err := d.auth.IssueAccessToken(auth.Subject{Email: "reader@example.com"})
	require.NoError(t, err)
	claims, err := d.auth.ParseToken(token)
	require.NoError(t, err)

	d.rev.EXPECT().MarkRevoked(gomock.Any(), claims.TokenID, gomock.Any()).Return(nil)
	require.NoError(t, d.svc.Logout(ctx, claims))

	d.rev.EXPECT().MarkRevoked(gomock.Any(), claims.TokenID, gomock.Any()).Return(errors.New("redis down"))
	require.ErrorIs(t, d.svc.Logout(ctx, claims), auth.ErrRevocationUnavailable)
}

func TestService_PasswordReset_Flow(t *testing.T) {
	d := newTestDeps(t, false)
	ctx := context.Background()

	user := mustUser(t, d.auth, "reader@example.com", "old")
	var body string

	d.st.EXPECT().UserByEmail(gomock.Any(), "reader@example.com").Return(user, nil)
	d.mail.EXPECT().SendMail(gomock.Any(), []string{"reader@example.com"}, mail.SubjectPasswordReset, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ []string, _ string, html string) error {
			body = html
			return nil
		})

	require.NoError(t, d.svc.RequestPasswordReset(ctx, "reader@example.com"))

	token := tokenFromBody(t, body, "password-reset")

	require.ErrorIs(t, d.svc.ResetPassword(ctx, token, "new", "other"), ErrPasswordsDoNotMatch)

	var newHash string
	d.st.EXPECT().UpdateUser(gomock.Any(), "reader@example.com", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, upd models.UserUpdate) (*models.User, error) {
			require.NotNil(t, upd.PasswordHash)
			require.Nil(t, upd.IsVerified)
			newHash = *upd.PasswordHash
			return user, nil
		})

	require.NoError(t, d.svc.ResetPassword(ctx, token, "new-pass", "new-pass"))

	ok, err := d.auth.VerifyPassword("new-pass", newHash)
	require.NoError(t, err)
	require.True(t, ok)

	// Ссылка подтверждения не сбрасывает пароль.
	verify, err := d.auth.IssueLinkToken(auth.PurposeEmailVerification, map[string]string{"email": "reader@example.com"})
	require.NoError(t, err)
	require.ErrorIs(t, d.svc.ResetPassword(ctx, verify, "p", "p"), auth.ErrLinkTokenInvalid)
}

// Неизвестный e-mail: ответ успешный, письмо не отправляется.
func TestService_RequestPasswordReset_UnknownEmail(t *testing.T) {
	d := newTestDeps(t, false)

	d.st.EXPECT().UserByEmail(gomock.Any(), "ghost@example.com").Return(nil, storage.ErrNotFound)

	require.NoError(t, d.svc.RequestPasswordReset(context.Background(), "ghost@example.com"))
}

func TestService_RequestPasswordReset_StorageDown(t *testing.T) {
	d := newTestDeps(t, false)

	d.st.EXPECT().UserByEmail(gomock.Any(), gomock.Any()).Return(nil, errDB)

	require.ErrorIs(t, d.svc.RequestPasswordReset(context.Background(), "reader@example.com"), ErrInternal)
}
