// cache — Redis-адаптеры bookly: deny-list отозванных токенов.
// Клиент создаётся один раз на процесс (NewRedisClient) и передаётся
// явной зависимостью в кэш отзывов и очередь писем.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pribylovaa/bookly/internal/auth"
)

// DefaultRevocationPrefix — префикс ключей deny-list по умолчанию.
const DefaultRevocationPrefix = "bookly:revoked:"

var (
	// ErrUnavailable — Redis не ответил (сеть, таймаут, закрытый клиент).
	ErrUnavailable = errors.New("cache unavailable")
	// ErrInvalidTTL — ttl должен быть положительным.
	ErrInvalidTTL = errors.New("invalid ttl")
)

// NewRedisClient создаёт клиент Redis из URL (например, redis://:pass@host:6379/0)
// и проверяет соединение.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	const op = "cache.NewRedisClient"

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rdb, nil
}

// RevocationCache — deny-list jti поверх Redis: ключ prefix+jti с пустым
// значением и TTL. Удаление не нужно — запись истекает сама.
type RevocationCache struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRevocationCache оборачивает клиент. Пустой prefix — DefaultRevocationPrefix.
func NewRevocationCache(rdb redis.UniversalClient, prefix string) *RevocationCache {
	if prefix == "" {
		prefix = DefaultRevocationPrefix
	}

	return &RevocationCache{rdb: rdb, prefix: prefix}
}

func (c *RevocationCache) key(tokenID string) string { return c.prefix + tokenID }

// MarkRevoked записывает jti с ttl. Повторная пометка лишь обновляет ttl.
func (c *RevocationCache) MarkRevoked(ctx context.Context, tokenID string, ttl time.Duration) error {
	const op = "cache.revocation.MarkRevoked"

	if ttl <= 0 {
		return fmt.Errorf("%s: %w", op, ErrInvalidTTL)
	}

	if err := c.rdb.Set(ctx, c.key(tokenID), "", ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}

	return nil
}

// IsRevoked проверяет наличие jti в deny-list.
func (c *RevocationCache) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	const op = "cache.revocation.IsRevoked"

	n, err := c.rdb.Exists(ctx, c.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}

	return n > 0, nil
}

// Проверка на соответствие интерфейсу auth.RevocationStore.
var _ auth.RevocationStore = (*RevocationCache)(nil)
