package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pribylovaa/bookly/internal/models"
)

// userColumns — единый список колонок users для SELECT/RETURNING.
const userColumns = `
id, email, password_hash, username, first_name, last_name, role, is_verified, created_at, updated_at
`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var role string

	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&role,
		&u.IsVerified,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}

	u.Role = models.Role(role)

	return &u, nil
}

// SaveUser вставляет пользователя. Пустой ID генерируется.
// Ошибки: storage.ErrAlreadyExists при занятом e-mail.
func (s *Storage) SaveUser(ctx context.Context, user *models.User) (*models.User, error) {
	const op = "storage.postgres.users.SaveUser"

	id := user.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	role := user.Role
	if role == "" {
		role = models.RoleUser
	}

	q := `
	INSERT INTO users (id, email, password_hash, username, first_name, last_name, role, is_verified)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING
	` + userColumns

	row := s.db.QueryRow(ctx, q,
		id,
		user.Email,
		user.PasswordHash,
		user.Username,
		user.FirstName,
		user.LastName,
		string(role),
		user.IsVerified,
	)

	result, err := scanUser(row)
	if err != nil {
		return nil, mapError(op, err)
	}

	return result, nil
}

// UserByEmail возвращает пользователя по e-mail. Ошибки: storage.ErrNotFound.
func (s *Storage) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.postgres.users.UserByEmail"

	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)

	result, err := scanUser(row)
	if err != nil {
		return nil, mapError(op, err)
	}

	return result, nil
}

// UserByID возвращает пользователя по id. Ошибки: storage.ErrNotFound.
func (s *Storage) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "storage.postgres.users.UserByID"

	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	result, err := scanUser(row)
	if err != nil {
		return nil, mapError(op, err)
	}

	return result, nil
}

// UsersByIDs возвращает пользователей из списка ids одним запросом.
func (s *Storage) UsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	const op = "storage.postgres.users.UsersByIDs"

	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		out = append(out, *u)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}

	return out, nil
}

// UpdateUser выполняет частичный апдейт по e-mail и всегда сдвигает updated_at.
// Ошибки: storage.ErrNotFound при отсутствии записи.
func (s *Storage) UpdateUser(ctx context.Context, email string, update models.UserUpdate) (*models.User, error) {
	const op = "storage.postgres.users.UpdateUser"

	sets := []string{"updated_at = now()"}
	args := make([]any, 0, 3)
	count := 0

	if update.PasswordHash != nil {
		count++
		sets = append(sets, fmt.Sprintf("password_hash = $%d", count))
		args = append(args, *update.PasswordHash)
	}

	if update.IsVerified != nil {
		count++
		sets = append(sets, fmt.Sprintf("is_verified = $%d", count))
		args = append(args, *update.IsVerified)
	}

	count++
	args = append(args, email)

	q := fmt.Sprintf(`UPDATE users SET %s WHERE email = $%d RETURNING %s`,
		strings.Join(sets, ", "), count, userColumns)

	result, err := scanUser(s.db.QueryRow(ctx, q, args...))
	if err != nil {
		return nil, mapError(op, err)
	}

	return result, nil
}
