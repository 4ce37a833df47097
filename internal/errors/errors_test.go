package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/bookly/internal/auth"
	"github.com/pribylovaa/bookly/internal/service"
)

func TestToHTTP_Mapping(t *testing.T) {
	tcs := []struct {
		name       string
		in         error
		wantStatus int
		wantCode   string
	}{
		{"credentials_missing", auth.ErrCredentialsMissing, http.StatusUnauthorized, "credentials_missing"},
		{"token_malformed", auth.ErrTokenMalformed, http.StatusUnauthorized, "token_malformed"},
		{"token_bad_signature", auth.ErrTokenBadSignature, http.StatusUnauthorized, "token_bad_signature"},
		{"token_expired", auth.ErrTokenExpired, http.StatusUnauthorized, "token_expired"},
		{"token_revoked", auth.ErrTokenRevoked, http.StatusForbidden, "token_revoked"},
		{"wrong_token_type", auth.ErrWrongTokenType, http.StatusForbidden, "wrong_token_type"},
		{"not_verified", auth.ErrNotVerified, http.StatusForbidden, "not_verified"},
		{"not_authorized", auth.ErrNotAuthorized, http.StatusForbidden, "not_authorized"},
		{"link_token_invalid", auth.ErrLinkTokenInvalid, http.StatusUnauthorized, "link_token_invalid"},
		{"password_mismatch", auth.ErrPasswordMismatch, http.StatusUnauthorized, "password_mismatch"},
		{"user_not_found", auth.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
		{"user_already_exists", auth.ErrUserAlreadyExists, http.StatusConflict, "user_already_exists"},
		{"revocation_unavailable", auth.ErrRevocationUnavailable, http.StatusServiceUnavailable, "revocation_unavailable"},
		{"invalid_argument", service.ErrInvalidArgument, http.StatusBadRequest, "invalid_argument"},
		{"passwords_do_not_match", service.ErrPasswordsDoNotMatch, http.StatusBadRequest, "passwords_do_not_match"},
		{"not_found", service.ErrNotFound, http.StatusNotFound, "not_found"},
		{"covers_disabled", service.ErrCoversDisabled, http.StatusNotImplemented, "covers_disabled"},
		{"canceled", context.Canceled, StatusClientClosedRequest, "canceled"},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, "deadline_exceeded"},
		{"internal", service.ErrInternal, http.StatusInternalServerError, "internal"},
		{"unknown", io.ErrUnexpectedEOF, http.StatusInternalServerError, "internal"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("op: %w", tc.in)

			gotStatus, resp := ToHTTP(wrapped)
			require.Equal(t, tc.wantStatus, gotStatus)
			require.Equal(t, tc.wantCode, resp.Error.Code)
			require.NotEmpty(t, resp.Error.Message)
			require.Equal(t, tc.wantCode, Code(wrapped))
		})
	}
}

// Ошибка недоступности deny-list оборачивает исходную ошибку Redis,
// но должна давать 503, а не 500.
func TestToHTTP_RevocationWrapsCause(t *testing.T) {
	err := fmt.Errorf("guard: %w: %w", auth.ErrRevocationUnavailable, io.EOF)

	status, resp := ToHTTP(err)
	require.Equal(t, http.StatusServiceUnavailable, status)
	require.Equal(t, "revocation_unavailable", resp.Error.Code)
}

func TestToHTTP_NilError_Returns500Internal(t *testing.T) {
	gotStatus, resp := ToHTTP(nil)
	require.Equal(t, http.StatusInternalServerError, gotStatus)
	require.Equal(t, "internal", resp.Error.Code)
	require.Equal(t, "internal error", resp.Error.Message)
}

func TestToHTTP_MessageDoesNotLeakDetails(t *testing.T) {
	_, resp := ToHTTP(fmt.Errorf("postgres: password=hunter2: %w", service.ErrInternal))
	require.NotContains(t, resp.Error.Message, "hunter2")
}

func TestWriteError_WithRequestID(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "rid-1")

	WriteError(rr, req, auth.ErrTokenRevoked)

	require.Equal(t, http.StatusForbidden, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "token_revoked", body.Error.Code)
	require.Equal(t, "rid-1", body.Error.RequestID)
}
