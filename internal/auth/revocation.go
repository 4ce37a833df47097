package auth

import (
	"context"
	"time"
)

// RevocationStore — внешний deny-list идентификаторов токенов (jti).
//
// После успешного MarkRevoked любой последующий IsRevoked из любого процесса,
// разделяющего хранилище, видит true до истечения ttl. Повторная пометка
// идемпотентна. Ошибка доступа возвращается как есть; guard превращает её
// в ErrRevocationUnavailable.
type RevocationStore interface {
	MarkRevoked(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
