package postgres

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pribylovaa/bookly/internal/models"
	"github.com/pribylovaa/bookly/internal/storage"
)

// bookColumns — единый список колонок books для SELECT/RETURNING.
const bookColumns = `
id, title, author, publisher, page_count, language, published_date, user_id, cover_key, cover_url, created_at, updated_at
`

func scanBook(row pgx.Row) (*models.Book, error) {
	var b models.Book
	var pages int32

	if err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&b.Publisher,
		&pages,
		&b.Language,
		&b.PublishedDate,
		&b.UserID,
		&b.CoverKey,
		&b.CoverURL,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return nil, err
	}

	b.PageCount = int(pages)

	return &b, nil
}

func collectBooks(rows pgx.Rows) ([]models.Book, error) {
	defer rows.Close()

	var out []models.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}

	return out, rows.Err()
}

// pageCount сужает int до int4 колонки page_count без потери значения.
func pageCount(n int) (int32, error) {
	if n < 0 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: page_count %d out of range", storage.ErrInvalidArgument, n)
	}

	return int32(n), nil
}

// SaveBook вставляет книгу. Пустой ID генерируется.
// Ошибки: storage.ErrForeignKey, если владельца нет.
func (s *Storage) SaveBook(ctx context.Context, book *models.Book) (*models.Book, error) {
	const op = "storage.postgres.books.SaveBook"

	id := book.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	q := `
	INSERT INTO books (id, title, author, publisher, page_count, language, published_date, user_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING
	` + bookColumns

	pages, err := pageCount(book.PageCount)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	row := s.db.QueryRow(ctx, q,
		id,
		book.Title,
		book.Author,
		book.Publisher,
		pages,
		book.Language,
		book.PublishedDate,
		book.UserID,
	)

	result, err := scanBook(row)
	if err != nil {
		return nil, mapError(op, err)
	}

	return result, nil
}

// BookByID возвращает книгу. Ошибки: storage.ErrNotFound.
func (s *Storage) BookByID(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	const op = "storage.postgres.books.BookByID"

	result, err := scanBook(s.db.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(op, err)
	}

	return result, nil
}

// BooksByIDs возвращает книги из списка ids одним запросом.
func (s *Storage) BooksByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Book, error) {
	const op = "storage.postgres.books.BooksByIDs"

	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.db.Query(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, mapError(op, err)
	}

	out, err := collectBooks(rows)
	if err != nil {
		return nil, mapError(op, err)
	}

	return out, nil
}

// ListBooks возвращает страницу книг, новые первыми.
func (s *Storage) ListBooks(ctx context.Context, opts storage.ListOptions) ([]models.Book, error) {
	const op = "storage.postgres.books.ListBooks"

	opts = opts.Normalize()

	q := `SELECT ` + bookColumns + ` FROM books ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`

	rows, err := s.db.Query(ctx, q, opts.Limit, opts.Offset)
	if err != nil {
		return nil, mapError(op, err)
	}

	out, err := collectBooks(rows)
	if err != nil {
		return nil, mapError(op, err)
	}

	return out, nil
}

// ListBooksByUser возвращает все книги пользователя, новые первыми.
func (s *Storage) ListBooksByUser(ctx context.Context, userID uuid.UUID) ([]models.Book, error) {
	const op = "storage.postgres.books.ListBooksByUser"

	q := `SELECT ` + bookColumns + ` FROM books WHERE user_id = $1 ORDER BY created_at DESC, id`

	rows, err := s.db.Query(ctx, q, userID)
	if err != nil {
		return nil, mapError(op, err)
	}

	out, err := collectBooks(rows)
	if err != nil {
		return nil, mapError(op, err)
	}

	return out, nil
}

// UpdateBook выполняет частичный апдейт и всегда сдвигает updated_at.
// Ошибки: storage.ErrNotFound при отсутствии записи.
func (s *Storage) UpdateBook(ctx context.Context, id uuid.UUID, update models.BookUpdate) (*models.Book, error) {
	const op = "storage.postgres.books.UpdateBook"

	sets := []string{"updated_at = now()"}
	args := make([]any, 0, 7)

	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Title != nil {
		add("title", *update.Title)
	}
	if update.Author != nil {
		add("author", *update.Author)
	}
	if update.Publisher != nil {
		add("publisher", *update.Publisher)
	}
	if update.PageCount != nil {
		pages, err := pageCount(*update.PageCount)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		add("page_count", pages)
	}
	if update.Language != nil {
		add("language", *update.Language)
	}
	if update.PublishedDate != nil {
		add("published_date", *update.PublishedDate)
	}

	args = append(args, id)

	q := fmt.Sprintf(`UPDATE books SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), bookColumns)

	result, err := scanBook(s.db.QueryRow(ctx, q, args...))
	if err != nil {
		return nil, mapError(op, err)
	}

	return result, nil
}

// DeleteBook удаляет книгу; отзывы удаляются каскадно.
// Ошибки: storage.ErrNotFound при отсутствии записи.
func (s *Storage) DeleteBook(ctx context.Context, id uuid.UUID) error {
	const op = "storage.postgres.books.DeleteBook"

	tag, err := s.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return mapError(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// SetBookCover фиксирует cover_key и cover_url после подтверждения загрузки.
// Ошибки: storage.ErrNotFound при отсутствии записи.
func (s *Storage) SetBookCover(ctx context.Context, id uuid.UUID, key, publicURL string) (*models.Book, error) {
	const op = "storage.postgres.books.SetBookCover"

	q := `
	UPDATE books
	SET cover_key = $2, cover_url = $3, updated_at = now()
	WHERE id = $1
	RETURNING
	` + bookColumns

	result, err := scanBook(s.db.QueryRow(ctx, q, id, key, publicURL))
	if err != nil {
		return nil, mapError(op, err)
	}

	return result, nil
}
