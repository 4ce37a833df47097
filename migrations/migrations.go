// migrations встраивает SQL-миграции bookly и применяет их через golang-migrate.
package migrations

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var FS embed.FS

const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

var (
	// ErrEmptyDSN — не задан DATABASE_URL.
	ErrEmptyDSN = errors.New("DATABASE_URL is not set")
	// ErrBadDirection — направление не up/down.
	ErrBadDirection = errors.New("direction must be up or down")
)

// Run применяет миграции в направлении direction.
// Отсутствие изменений (уже на целевой версии) ошибкой не считается.
func Run(dsn, direction string) error {
	const op = "migrations.Run"

	if dsn == "" {
		return fmt.Errorf("%s: %w", op, ErrEmptyDSN)
	}

	if direction != DirectionUp && direction != DirectionDown {
		return fmt.Errorf("%s: %w, got %q", op, ErrBadDirection, direction)
	}

	src, err := iofs.New(FS, ".")
	if err != nil {
		return fmt.Errorf("%s: source: %w", op, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _, _ = m.Close() }()

	if direction == DirectionUp {
		err = m.Up()
	} else {
		err = m.Down()
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: %s: %w", op, direction, err)
	}

	return nil
}
