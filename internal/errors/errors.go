// errors стандартизирует ответы об ошибках HTTP-слоя bookly.
// На вход он принимает ошибку сервисного слоя или auth-ядра,
// а на выход даёт:
//   - стабильный HTTP-статус для каждого вида ошибки;
//   - короткий машиночитаемый code;
//   - безопасное message без утечки деталей.
//
// Виды ошибок различаются только через errors.Is, текст ошибки не анализируется.
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/pribylovaa/bookly/internal/auth"
	"github.com/pribylovaa/bookly/internal/service"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// APIError — единый формат ошибки для клиента.
// Code — короткий стабильный код для машиночитаемой обработки.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// mapping — строка таблицы маппинга. Порядок важен: более узкие
// ошибки (ErrTokenExpired) проверяются раньше общих (ErrTokenInvalid).
type mapping struct {
	target  error
	status  int
	code    string
	message string
}

var table = []mapping{
	{auth.ErrCredentialsMissing, http.StatusUnauthorized, "credentials_missing", "credentials not provided"},
	{auth.ErrTokenExpired, http.StatusUnauthorized, "token_expired", "token has expired"},
	{auth.ErrTokenBadSignature, http.StatusUnauthorized, "token_bad_signature", "invalid token"},
	{auth.ErrTokenMalformed, http.StatusUnauthorized, "token_malformed", "invalid token"},
	{auth.ErrTokenInvalid, http.StatusUnauthorized, "token_malformed", "invalid token"},
	{auth.ErrTokenRevoked, http.StatusForbidden, "token_revoked", "token is revoked"},
	{auth.ErrWrongTokenType, http.StatusForbidden, "wrong_token_type", "wrong token type"},
	{auth.ErrNotVerified, http.StatusForbidden, "not_verified", "account not verified"},
	{auth.ErrNotAuthorized, http.StatusForbidden, "not_authorized", "not allowed"},
	{auth.ErrLinkTokenInvalid, http.StatusUnauthorized, "link_token_invalid", "invalid or expired link"},
	{auth.ErrPasswordMismatch, http.StatusUnauthorized, "password_mismatch", "incorrect password"},
	{auth.ErrUserNotFound, http.StatusNotFound, "user_not_found", "user does not exist"},
	{auth.ErrUserAlreadyExists, http.StatusConflict, "user_already_exists", "user already exists"},
	{auth.ErrRevocationUnavailable, http.StatusServiceUnavailable, "revocation_unavailable", "service unavailable"},
	{service.ErrInvalidArgument, http.StatusBadRequest, "invalid_argument", "invalid argument"},
	{service.ErrPasswordsDoNotMatch, http.StatusBadRequest, "passwords_do_not_match", "passwords do not match"},
	{service.ErrNotFound, http.StatusNotFound, "not_found", "not found"},
	{service.ErrCoversDisabled, http.StatusNotImplemented, "covers_disabled", "cover uploads are disabled"},
	{context.Canceled, StatusClientClosedRequest, "canceled", "canceled"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"},
}

// ToHTTP конвертирует ошибку в HTTP-статус и унифицированный ответ.
//
// Поведение:
//   - err == nil - это программная ошибка вызова: возвращаем 500/internal,
//     чтобы не послать "200 OK" с телом ошибки и не маскировать баг;
//   - известная ошибка - статус и code из таблицы;
//   - прочее (включая service.ErrInternal) - 500/internal.
func ToHTTP(err error) (int, ErrorResponse) {
	if err != nil {
		for _, m := range table {
			if stderrors.Is(err, m.target) {
				return m.status, ErrorResponse{
					Error: APIError{Code: m.code, Message: m.message},
				}
			}
		}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Error: APIError{
			Code:    "internal",
			Message: "internal error",
		},
	}
}

// Code возвращает машиночитаемый код ошибки (для метрик и логов).
func Code(err error) string {
	_, resp := ToHTTP(err)
	return resp.Error.Code
}

// WriteError — хелпер для HTTP-хендлеров и middleware.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
