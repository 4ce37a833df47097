package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes — bcrypt учитывает не больше 72 байт входа.
const maxPasswordBytes = 72

// Hasher хэширует и проверяет пароли через bcrypt.
// Соль генерируется на каждый вызов и хранится внутри дайджеста.
type Hasher struct {
	cost int
}

// NewHasher создаёт Hasher с заданной стоимостью.
// Значения вне [bcrypt.MinCost, bcrypt.MaxCost] заменяются на bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &Hasher{cost: cost}
}

// Hash возвращает bcrypt-дайджест пароля. NUL-байты удаляются до хэширования.
func (h *Hasher) Hash(plaintext string) (string, error) {
	const op = "auth.password.Hash"

	pw := normalizePassword(plaintext)
	if pw == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyPassword)
	}

	if len(pw) > maxPasswordBytes {
		return "", fmt.Errorf("%s: %w", op, ErrPasswordTooLong)
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(pw), h.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(digest), nil
}

// Verify сравнивает пароль с дайджестом.
// Несовпадение — (false, nil); битый дайджест — ErrMalformedDigest.
func (h *Hasher) Verify(plaintext, digest string) (bool, error) {
	const op = "auth.password.Verify"

	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(normalizePassword(plaintext)))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%s: %w: %v", op, ErrMalformedDigest, err)
	}
}

func normalizePassword(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}
