package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/bookly/mocks"
)

// Тесты Guard на моке RevocationStore.
//
// Покрытие:
//   - извлечение Bearer (нет заголовка, чужая схема, пустой токен, регистр схемы);
//   - access-токен на access-guard -> ok; на refresh-guard -> ErrWrongTokenType;
//   - отозванный jti -> ErrTokenRevoked; недоступное хранилище -> ErrRevocationUnavailable;
//   - невалидный токен не доходит до хранилища;
//   - Revoke/RevokeClaims: ttl = остаток срока в пределах [1s, accessTTL].

func newGuard(t *testing.T, now time.Time) (*Guard, *TokenCodec, *mocks.MockRevocationStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockRevocationStore(ctrl)
	codec := newCodec(t, WithClock(fixedClock(now)))
	return NewGuard(codec, store), codec, store
}

func bearerReq(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		header string
		want   string
		err    error
	}{
		{name: "absent", header: "", err: ErrCredentialsMissing},
		{name: "basic_scheme", header: "Basic dXNlcjpwYXNz", err: ErrCredentialsMissing},
		{name: "scheme_only", header: "Bearer", err: ErrCredentialsMissing},
		{name: "blank_token", header: "Bearer    ", err: ErrCredentialsMissing},
		{name: "ok", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lowercase_scheme", header: "bearer tok", want: "tok"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}

			got, err := BearerToken(r)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestGuard_AccessToken_OnAccessAndRefreshGuards(t *testing.T) {
	t.Parallel()

	g, codec, store := newGuard(t, time.Now())
	subject := Subject{Email: "a@x.com", UserID: "u-1", Role: "user"}

	tok, err := codec.Issue(subject, false)
	require.NoError(t, err)

	store.EXPECT().IsRevoked(gomock.Any(), gomock.Any()).Return(false, nil)

	claims, err := g.Authenticate(bearerReq(tok), Access)
	require.NoError(t, err)
	require.Equal(t, subject, claims.Subject)

	// Тип проверяется до deny-list: хранилище больше не вызывается.
	_, err = g.Authenticate(bearerReq(tok), Refresh)
	require.ErrorIs(t, err, ErrWrongTokenType)
	require.NotErrorIs(t, err, ErrTokenInvalid)
}

func TestGuard_RefreshToken_OnAccessGuard(t *testing.T) {
	t.Parallel()

	g, codec, store := newGuard(t, time.Now())
	tok, err := codec.Issue(alice, true)
	require.NoError(t, err)

	_, err = g.Authenticate(bearerReq(tok), Access)
	require.ErrorIs(t, err, ErrWrongTokenType)

	store.EXPECT().IsRevoked(gomock.Any(), gomock.Any()).Return(false, nil)
	claims, err := g.Authenticate(bearerReq(tok), Refresh)
	require.NoError(t, err)
	require.True(t, claims.IsRefresh)
}

func TestGuard_MissingCredentials(t *testing.T) {
	t.Parallel()

	g, _, _ := newGuard(t, time.Now())

	_, err := g.Authenticate(bearerReq(""), Access)
	require.ErrorIs(t, err, ErrCredentialsMissing)
}

func TestGuard_InvalidToken_DoesNotHitStore(t *testing.T) {
	t.Parallel()

	g, codec, _ := newGuard(t, time.Now())
	tok, err := codec.Issue(alice, false)
	require.NoError(t, err)

	_, err = g.Authenticate(bearerReq(flipSignatureChar(t, tok)), Access)
	require.ErrorIs(t, err, ErrTokenBadSignature)

	_, err = g.Authenticate(bearerReq("junk"), Access)
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestGuard_Expired(t *testing.T) {
	t.Parallel()

	now := time.Now()
	g, _, _ := newGuard(t, now)

	old := newCodec(t, WithClock(fixedClock(now.Add(-2*time.Hour))))
	tok, err := old.Issue(alice, false)
	require.NoError(t, err)

	_, err = g.Authenticate(bearerReq(tok), Access)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestGuard_Revoked(t *testing.T) {
	t.Parallel()

	g, codec, store := newGuard(t, time.Now())
	tok, err := codec.Issue(alice, false)
	require.NoError(t, err)

	store.EXPECT().IsRevoked(gomock.Any(), gomock.Any()).Return(true, nil).Times(2)

	for i := 0; i < 2; i++ {
		_, err = g.Authenticate(bearerReq(tok), Access)
		require.ErrorIs(t, err, ErrTokenRevoked)
	}
}

func TestGuard_StoreUnavailable_IsDistinct(t *testing.T) {
	t.Parallel()

	g, codec, store := newGuard(t, time.Now())
	tok, err := codec.Issue(alice, false)
	require.NoError(t, err)

	boom := errors.New("dial tcp: connection refused")
	store.EXPECT().IsRevoked(gomock.Any(), gomock.Any()).Return(false, boom)

	_, err = g.Authenticate(bearerReq(tok), Access)
	require.ErrorIs(t, err, ErrRevocationUnavailable)
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, ErrTokenRevoked)
}

func TestGuard_Revoke_UsesAccessTTL(t *testing.T) {
	t.Parallel()

	g, _, store := newGuard(t, time.Now())

	store.EXPECT().MarkRevoked(gomock.Any(), "abc", time.Hour).Return(nil)
	require.NoError(t, g.Revoke(context.Background(), "abc"))

	require.ErrorIs(t, g.Revoke(context.Background(), ""), ErrTokenMalformed)
}

func TestGuard_RevokeClaims_RemainingLifetime(t *testing.T) {
	t.Parallel()

	now := time.Now()
	g, _, store := newGuard(t, now)

	store.EXPECT().MarkRevoked(gomock.Any(), "mid", 20*time.Minute).Return(nil)
	require.NoError(t, g.RevokeClaims(context.Background(), &Claims{TokenID: "mid", ExpiresAt: now.Add(20 * time.Minute)}))

	// Refresh-токен живёт дольше access: ttl ограничен accessTTL.
	store.EXPECT().MarkRevoked(gomock.Any(), "long", time.Hour).Return(nil)
	require.NoError(t, g.RevokeClaims(context.Background(), &Claims{TokenID: "long", ExpiresAt: now.Add(20 * time.Hour)}))

	store.EXPECT().MarkRevoked(gomock.Any(), "gone", time.Second).Return(nil)
	require.NoError(t, g.RevokeClaims(context.Background(), &Claims{TokenID: "gone", ExpiresAt: now.Add(-time.Minute)}))
}

func TestGuard_Revoke_StoreFailure(t *testing.T) {
	t.Parallel()

	g, _, store := newGuard(t, time.Now())
	store.EXPECT().MarkRevoked(gomock.Any(), "abc", gomock.Any()).Return(errors.New("timeout"))

	require.ErrorIs(t, g.Revoke(context.Background(), "abc"), ErrRevocationUnavailable)
}
