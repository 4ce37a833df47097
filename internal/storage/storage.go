// storage содержит контракты слоя хранилищ bookly.
//
// storage.go — пользователи, книги и отзывы в БД;
// covers.go — контракт загрузки обложек в S3/MinIO.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pribylovaa/bookly/internal/models"
)

var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушена уникальность (например, e-mail).
	ErrAlreadyExists = errors.New("already exists")
	// ErrForeignKey — ссылка на несуществующую запись (книга/пользователь).
	ErrForeignKey = errors.New("foreign key violation")
	// ErrInvalidArgument — нарушены ограничения запроса или CHECK-ограничения БД.
	ErrInvalidArgument = errors.New("invalid argument")
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// ListOptions — пагинация списков. Списки отсортированы по created_at DESC.
type ListOptions struct {
	Limit  int
	Offset int
}

// Normalize приводит параметры к допустимому диапазону.
func (o ListOptions) Normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultListLimit
	}
	if o.Limit > MaxListLimit {
		o.Limit = MaxListLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}

	return o
}

// Users — репозиторий пользователей.
type Users interface {
	// SaveUser создаёт пользователя. ErrAlreadyExists при занятом e-mail.
	SaveUser(ctx context.Context, user *models.User) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// UsersByIDs возвращает найденных пользователей; отсутствующие id пропускаются.
	UsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
	// UpdateUser частично обновляет пользователя по e-mail и сдвигает updated_at.
	UpdateUser(ctx context.Context, email string, update models.UserUpdate) (*models.User, error)
}

// Books — репозиторий книг.
type Books interface {
	// SaveBook создаёт книгу. ErrForeignKey, если владельца нет.
	SaveBook(ctx context.Context, book *models.Book) (*models.Book, error)
	BookByID(ctx context.Context, id uuid.UUID) (*models.Book, error)
	BooksByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Book, error)
	ListBooks(ctx context.Context, opts ListOptions) ([]models.Book, error)
	ListBooksByUser(ctx context.Context, userID uuid.UUID) ([]models.Book, error)
	UpdateBook(ctx context.Context, id uuid.UUID, update models.BookUpdate) (*models.Book, error)
	// DeleteBook удаляет книгу вместе с её отзывами.
	DeleteBook(ctx context.Context, id uuid.UUID) error
	// SetBookCover фиксирует ключ и публичный URL обложки после подтверждения загрузки.
	SetBookCover(ctx context.Context, id uuid.UUID, key, publicURL string) (*models.Book, error)
}

// Reviews — репозиторий отзывов.
type Reviews interface {
	// SaveReview создаёт отзыв. ErrForeignKey, если книги или автора нет.
	SaveReview(ctx context.Context, review *models.Review) (*models.Review, error)
	ReviewByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	ListReviews(ctx context.Context, opts ListOptions) ([]models.Review, error)
	ReviewsByBooks(ctx context.Context, bookIDs []uuid.UUID) ([]models.Review, error)
	ReviewsByUser(ctx context.Context, userID uuid.UUID) ([]models.Review, error)
	UpdateReview(ctx context.Context, id uuid.UUID, update models.ReviewUpdate) (*models.Review, error)
	DeleteReview(ctx context.Context, id uuid.UUID) error
}

// Storage — верхнеуровневый интерфейс хранилища.
type Storage interface {
	Users
	Books
	Reviews
	Close()
}
