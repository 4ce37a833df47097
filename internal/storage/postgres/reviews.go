package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pribylovaa/bookly/internal/models"
	"github.com/pribylovaa/bookly/internal/storage"
)

// reviewColumns — единый список колонок reviews для SELECT/RETURNING.
const reviewColumns = `
id, user_id, book_id, content, rating, created_at, updated_at
`

func scanReview(row pgx.Row) (*models.Review, error) {
	var r models.Review
	var rating int32

	if err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.BookID,
		&r.Content,
		&rating,
		&r.CreatedAt,
		&r.UpdatedAt,
	); err != nil {
		return nil, err
	}

	r.Rating = int(rating)

	return &r, nil
}

func (s *Storage) queryReviews(ctx context.Context, op, q string, args ...any) ([]models.Review, error) {
	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	var out []models.Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		out = append(out, *r)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}

	return out, nil
}

// SaveReview вставляет отзыв. Пустой ID генерируется.
// Ошибки: storage.ErrForeignKey (нет книги/автора), storage.ErrInvalidArgument (рейтинг вне 1..5).
func (s *Storage) SaveReview(ctx context.Context, review *models.Review) (*models.Review, error) {
	const op = "storage.postgres.reviews.SaveReview"

	id := review.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	q := `
	INSERT INTO reviews (id, user_id, book_id, content, rating)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING
	` + reviewColumns

	row := s.db.QueryRow(ctx, q, id, review.UserID, review.BookID, review.Content, int32(review.Rating))

	result, err := scanReview(row)
	if err != nil {
		return nil, mapError(op, err)
	}

	return result, nil
}

// ReviewByID возвращает отзыв. Ошибки: storage.ErrNotFound.
func (s *Storage) ReviewByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	const op = "storage.postgres.reviews.ReviewByID"

	result, err := scanReview(s.db.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(op, err)
	}

	return result, nil
}

// ListReviews возвращает страницу отзывов, новые первыми.
func (s *Storage) ListReviews(ctx context.Context, opts storage.ListOptions) ([]models.Review, error) {
	opts = opts.Normalize()

	return s.queryReviews(ctx, "storage.postgres.reviews.ListReviews",
		`SELECT `+reviewColumns+` FROM reviews ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`,
		opts.Limit, opts.Offset)
}

// ReviewsByBooks возвращает отзывы на книги из списка одним запросом.
func (s *Storage) ReviewsByBooks(ctx context.Context, bookIDs []uuid.UUID) ([]models.Review, error) {
	if len(bookIDs) == 0 {
		return nil, nil
	}

	return s.queryReviews(ctx, "storage.postgres.reviews.ReviewsByBooks",
		`SELECT `+reviewColumns+` FROM reviews WHERE book_id = ANY($1) ORDER BY created_at DESC, id`,
		bookIDs)
}

// ReviewsByUser возвращает все отзывы пользователя.
func (s *Storage) ReviewsByUser(ctx context.Context, userID uuid.UUID) ([]models.Review, error) {
	return s.queryReviews(ctx, "storage.postgres.reviews.ReviewsByUser",
		`SELECT `+reviewColumns+` FROM reviews WHERE user_id = $1 ORDER BY created_at DESC, id`,
		userID)
}

// UpdateReview выполняет частичный апдейт и всегда сдвигает updated_at.
// Ошибки: storage.ErrNotFound, storage.ErrInvalidArgument.
func (s *Storage) UpdateReview(ctx context.Context, id uuid.UUID, update models.ReviewUpdate) (*models.Review, error) {
	const op = "storage.postgres.reviews.UpdateReview"

	sets := []string{"updated_at = now()"}
	args := make([]any, 0, 3)

	if update.Content != nil {
		args = append(args, *update.Content)
		sets = append(sets, fmt.Sprintf("content = $%d", len(args)))
	}

	if update.Rating != nil {
		args = append(args, int32(*update.Rating))
		sets = append(sets, fmt.Sprintf("rating = $%d", len(args)))
	}

	args = append(args, id)

	q := fmt.Sprintf(`UPDATE reviews SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), reviewColumns)

	result, err := scanReview(s.db.QueryRow(ctx, q, args...))
	if err != nil {
		return nil, mapError(op, err)
	}

	return result, nil
}

// DeleteReview удаляет отзыв. Ошибки: storage.ErrNotFound.
func (s *Storage) DeleteReview(ctx context.Context, id uuid.UUID) error {
	const op = "storage.postgres.reviews.DeleteReview"

	tag, err := s.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return mapError(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
