package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/bookly/internal/models"
	"github.com/pribylovaa/bookly/internal/pkg/log"
	"github.com/pribylovaa/bookly/internal/storage"
)

// BookInput — поля новой книги.
type BookInput struct {
	Title         string
	Author        string
	Publisher     string
	PageCount     int
	Language      string
	PublishedDate time.Time
}

// ListBooks возвращает страницу книг с владельцами и отзывами.
func (s *Service) ListBooks(ctx context.Context, opts storage.ListOptions) ([]models.BookDetails, error) {
	const op = "service.books.ListBooks"

	books, err := s.storage.ListBooks(ctx, opts.Normalize())
	if err != nil {
		return nil, storageError(ctx, op, err, ErrNotFound)
	}

	return s.expandBooks(ctx, op, books)
}

// Book возвращает книгу по id.
func (s *Service) Book(ctx context.Context, id uuid.UUID) (*models.BookDetails, error) {
	const op = "service.books.Book"

	if id == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	book, err := s.storage.BookByID(ctx, id)
	if err != nil {
		return nil, storageError(ctx, op, err, ErrNotFound)
	}

	return s.expandBook(ctx, op, book)
}

// BooksByUser возвращает все книги пользователя.
func (s *Service) BooksByUser(ctx context.Context, userID uuid.UUID) ([]models.BookDetails, error) {
	const op = "service.books.BooksByUser"

	if userID == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	books, err := s.storage.ListBooksByUser(ctx, userID)
	if err != nil {
		return nil, storageError(ctx, op, err, ErrNotFound)
	}

	return s.expandBooks(ctx, op, books)
}

// CreateBook создаёт книгу от имени ownerID (user_id из access-токена).
func (s *Service) CreateBook(ctx context.Context, ownerID uuid.UUID, in BookInput) (*models.BookDetails, error) {
	const op = "service.books.CreateBook"

	lg := log.From(ctx).With(slog.String("op", op), slog.String("user_id", ownerID.String()))

	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("%s: %w: empty owner", op, ErrInvalidArgument)
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)

	if err := validateBook(in); err != nil {
		lg.Warn("book_invalid", slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	book, err := s.storage.SaveBook(ctx, &models.Book{
		Title:         in.Title,
		Author:        in.Author,
		Publisher:     strings.TrimSpace(in.Publisher),
		PageCount:     in.PageCount,
		Language:      strings.TrimSpace(in.Language),
		PublishedDate: dateOnly(in.PublishedDate),
		UserID:        ownerID,
	})
	if err != nil {
		if errors.Is(err, storage.ErrForeignKey) {
			return nil, fmt.Errorf("%s: %w: owner", op, ErrNotFound)
		}

		return nil, storageError(ctx, op, err, ErrNotFound)
	}

	lg.Info("book_created", slog.String("book_id", book.ID.String()))

	return s.expandBook(ctx, op, book)
}

// UpdateBook частично обновляет книгу. Пустые строки в Title/Author недопустимы.
func (s *Service) UpdateBook(ctx context.Context, id uuid.UUID, upd models.BookUpdate) (*models.BookDetails, error) {
	const op = "service.books.UpdateBook"

	if id == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err := validateBookUpdate(&upd); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	book, err := s.storage.UpdateBook(ctx, id, upd)
	if err != nil {
		return nil, storageError(ctx, op, err, ErrNotFound)
	}

	return s.expandBook(ctx, op, book)
}

// DeleteBook удаляет книгу вместе с отзывами.
func (s *Service) DeleteBook(ctx context.Context, id uuid.UUID) error {
	const op = "service.books.DeleteBook"

	if id == uuid.Nil {
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err := s.storage.DeleteBook(ctx, id); err != nil {
		return storageError(ctx, op, err, ErrNotFound)
	}

	log.From(ctx).Info("book_deleted", slog.String("op", op), slog.String("book_id", id.String()))

	return nil
}

func (s *Service) expandBook(ctx context.Context, op string, book *models.Book) (*models.BookDetails, error) {
	out, err := s.expandBooks(ctx, op, []models.Book{*book})
	if err != nil {
		return nil, err
	}

	return &out[0], nil
}

// expandBooks подгружает владельцев и отзывы двумя батч-запросами.
func (s *Service) expandBooks(ctx context.Context, op string, books []models.Book) ([]models.BookDetails, error) {
	out := make([]models.BookDetails, 0, len(books))
	if len(books) == 0 {
		return out, nil
	}

	ownerIDs := make([]uuid.UUID, 0, len(books))
	bookIDs := make([]uuid.UUID, 0, len(books))
	for _, b := range books {
		ownerIDs = append(ownerIDs, b.UserID)
		bookIDs = append(bookIDs, b.ID)
	}

	owners, err := s.storage.UsersByIDs(ctx, uniqueIDs(ownerIDs))
	if err != nil {
		return nil, storageError(ctx, op, err, ErrNotFound)
	}

	reviews, err := s.storage.ReviewsByBooks(ctx, bookIDs)
	if err != nil {
		return nil, storageError(ctx, op, err, ErrNotFound)
	}

	ownerByID := make(map[uuid.UUID]*models.User, len(owners))
	for i := range owners {
		ownerByID[owners[i].ID] = &owners[i]
	}

	reviewsByBook := make(map[uuid.UUID][]models.Review, len(books))
	for _, r := range reviews {
		reviewsByBook[r.BookID] = append(reviewsByBook[r.BookID], r)
	}

	for _, b := range books {
		out = append(out, models.BookDetails{
			Book:    b,
			Owner:   ownerByID[b.UserID],
			Reviews: reviewsByBook[b.ID],
		})
	}

	return out, nil
}

func validateBook(in BookInput) error {
	switch {
	case in.Title == "":
		return fmt.Errorf("%w: empty title", ErrInvalidArgument)
	case in.Author == "":
		return fmt.Errorf("%w: empty author", ErrInvalidArgument)
	case in.PageCount < 0:
		return fmt.Errorf("%w: negative page_count", ErrInvalidArgument)
	case in.PageCount > math.MaxInt32:
		return fmt.Errorf("%w: page_count out of range", ErrInvalidArgument)
	case in.PublishedDate.IsZero():
		return fmt.Errorf("%w: empty published_date", ErrInvalidArgument)
	}

	return nil
}

func validateBookUpdate(upd *models.BookUpdate) error {
	if upd.Title != nil {
		t := strings.TrimSpace(*upd.Title)
		if t == "" {
			return fmt.Errorf("%w: empty title", ErrInvalidArgument)
		}
		upd.Title = &t
	}

	if upd.Author != nil {
		a := strings.TrimSpace(*upd.Author)
		if a == "" {
			return fmt.Errorf("%w: empty author", ErrInvalidArgument)
		}
		upd.Author = &a
	}

	if upd.PageCount != nil {
		switch {
		case *upd.PageCount < 0:
			return fmt.Errorf("%w: negative page_count", ErrInvalidArgument)
		case *upd.PageCount > math.MaxInt32:
			return fmt.Errorf("%w: page_count out of range", ErrInvalidArgument)
		}
	}

	if upd.PublishedDate != nil {
		if upd.PublishedDate.IsZero() {
			return fmt.Errorf("%w: empty published_date", ErrInvalidArgument)
		}
		d := dateOnly(*upd.PublishedDate)
		upd.PublishedDate = &d
	}

	return nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
