package auth

import (
	"errors"
	"fmt"
)

// Ошибки ядра аутентификации. Каждая ошибка соответствует стабильному
// HTTP-статусу в internal/errors; транспорт различает их через errors.Is,
// а не по тексту.
var (
	// ErrCredentialsMissing — в запросе нет Bearer-токена. HTTP 401.
	ErrCredentialsMissing = errors.New("credentials missing")

	// ErrTokenInvalid — общий предок ошибок разбора сессионного токена. HTTP 401.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenMalformed — токен структурно повреждён или без обязательных claims.
	ErrTokenMalformed = fmt.Errorf("%w: malformed", ErrTokenInvalid)
	// ErrTokenBadSignature — подпись не сходится (или алгоритм не HS256).
	ErrTokenBadSignature = fmt.Errorf("%w: bad signature", ErrTokenInvalid)
	// ErrTokenExpired — подпись верна, но срок действия истёк.
	ErrTokenExpired = fmt.Errorf("%w: expired", ErrTokenInvalid)

	// ErrTokenRevoked — jti найден в списке отозванных. HTTP 403.
	ErrTokenRevoked = errors.New("token revoked")
	// ErrWrongTokenType — refresh-токен на access-маршруте или наоборот. HTTP 403.
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrNotVerified — учётная запись не подтверждена. HTTP 403.
	ErrNotVerified = errors.New("account not verified")
	// ErrNotAuthorized — роль не входит в allow-list маршрута. HTTP 403.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrLinkTokenInvalid — ссылка подтверждения/сброса подделана, повреждена
	// или просрочена. HTTP 401.
	ErrLinkTokenInvalid = errors.New("invalid link token")

	// ErrPasswordMismatch — пароль не совпадает с хэшем. HTTP 401.
	ErrPasswordMismatch = errors.New("incorrect password")
	// ErrUserNotFound — пользователь с таким e-mail отсутствует. HTTP 404.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserAlreadyExists — e-mail уже зарегистрирован. HTTP 409.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrRevocationUnavailable — хранилище отзывов недоступно. HTTP 503.
	// Недоступность никогда не трактуется как «не отозван».
	ErrRevocationUnavailable = errors.New("revocation store unavailable")

	// ErrEmptyPassword — пароль пуст (в том числе после удаления NUL-байтов).
	ErrEmptyPassword = errors.New("password is empty")
	// ErrPasswordTooLong — пароль длиннее 72 байт (ограничение bcrypt).
	ErrPasswordTooLong = errors.New("password is too long")
	// ErrMalformedDigest — сохранённый хэш не является корректным bcrypt-дайджестом.
	ErrMalformedDigest = errors.New("malformed password digest")
)
