package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pribylovaa/bookly/internal/auth"
	"github.com/pribylovaa/bookly/internal/service"
	"github.com/pribylovaa/bookly/internal/storage"
)

// maxBodyBytes — предел размера JSON-тела запроса.
const maxBodyBytes = 1 << 20

// Handlers агрегирует зависимости REST-хендлеров.
type Handlers struct {
	Service *service.Service
}

func New(s *service.Service) *Handlers {
	return &Handlers{Service: s}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля
// и хвост после первого JSON-значения.
func decodeStrict(w http.ResponseWriter, r *http.Request, value any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(value); err != nil {
		return invalidArgument(err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return invalidArgument(errors.New("trailing data"))
	}

	return nil
}

// invalidArgument — локальная ошибка разбора запроса -> 400.
func invalidArgument(err error) error {
	return fmt.Errorf("%w: %v", service.ErrInvalidArgument, err)
}

// pathUUID разбирает UUID из параметра пути.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, invalidArgument(fmt.Errorf("%s: %w", name, err))
	}
	return id, nil
}

// listOptions читает ?limit=&offset=. Отсутствующие значения — по умолчанию.
func listOptions(r *http.Request) (storage.ListOptions, error) {
	var opts storage.ListOptions
	q := r.URL.Query()

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, invalidArgument(fmt.Errorf("limit %q", v))
		}
		opts.Limit = n
	}

	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, invalidArgument(fmt.Errorf("offset %q", v))
		}
		opts.Offset = n
	}

	return opts, nil
}

// claims возвращает claims, положенные middleware.Authenticate.
func claims(r *http.Request) (*auth.Claims, error) {
	c, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		return nil, auth.ErrCredentialsMissing
	}
	return c, nil
}

// claimsUserID — user_id из access-токена.
func claimsUserID(r *http.Request) (uuid.UUID, error) {
	c, err := claims(r)
	if err != nil {
		return uuid.Nil, err
	}

	id, err := uuid.Parse(c.Subject.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: user_id: %v", auth.ErrTokenMalformed, err)
	}
	return id, nil
}
