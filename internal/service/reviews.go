package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/pribylovaa/bookly/internal/models"
	"github.com/pribylovaa/bookly/internal/pkg/log"
	"github.com/pribylovaa/bookly/internal/storage"
)

// ReviewInput — поля нового отзыва.
type ReviewInput struct {
	Content string
	Rating  int
}

// ListReviews возвращает страницу отзывов с авторами и книгами.
func (s *Service) ListReviews(ctx context.Context, opts storage.ListOptions) ([]models.ReviewDetails, error) {
	const op = "service.reviews.ListReviews"

	reviews, err := s.storage.ListReviews(ctx, opts.Normalize())
	if err != nil {
		return nil, storageError(ctx, op, err, ErrNotFound)
	}

	return s.expandReviews(ctx, op, reviews)
}

// Review возвращает отзыв по id.
func (s *Service) Review(ctx context.Context, id uuid.UUID) (*models.ReviewDetails, error) {
	const op = "service.reviews.Review"

	if id == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	review, err := s.storage.ReviewByID(ctx, id)
	if err != nil {
		return nil, storageError(ctx, op, err, ErrNotFound)
	}

	return s.expandReview(ctx, op, review)
}

// CreateReview создаёт отзыв пользователя userID на книгу bookID.
// Отсутствующая книга — ErrNotFound.
func (s *Service) CreateReview(ctx context.Context, userID, bookID uuid.UUID, in ReviewInput) (*models.ReviewDetails, error) {
	const op = "service.reviews.CreateReview"

	lg := log.From(ctx).With(
		slog.String("op", op),
		slog.String("user_id", userID.String()),
		slog.String("book_id", bookID.String()),
	)

	if userID == uuid.Nil || bookID == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	in.Content = strings.TrimSpace(in.Content)
	if err := validateReview(&in.Content, &in.Rating); err != nil {
		lg.Warn("review_invalid", slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.storage.BookByID(ctx, bookID); err != nil {
		return nil, storageError(ctx, op, err, ErrNotFound)
	}

	review, err := s.storage.SaveReview(ctx, &models.Review{
		UserID:  userID,
		BookID:  bookID,
		Content: in.Content,
		Rating:  in.Rating,
	})
	if err != nil {
		if errors.Is(err, storage.ErrForeignKey) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, storageError(ctx, op, err, ErrNotFound)
	}

	lg.Info("review_created", slog.String("review_id", review.ID.String()))

	return s.expandReview(ctx, op, review)
}

// UpdateReview частично обновляет отзыв.
func (s *Service) UpdateReview(ctx context.Context, id uuid.UUID, upd models.ReviewUpdate) (*models.ReviewDetails, error) {
	const op = "service.reviews.UpdateReview"

	if id == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if upd.Content != nil {
		c := strings.TrimSpace(*upd.Content)
		upd.Content = &c
	}

	if err := validateReview(upd.Content, upd.Rating); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	review, err := s.storage.UpdateReview(ctx, id, upd)
	if err != nil {
		return nil, storageError(ctx, op, err, ErrNotFound)
	}

	return s.expandReview(ctx, op, review)
}

// DeleteReview удаляет отзыв.
func (s *Service) DeleteReview(ctx context.Context, id uuid.UUID) error {
	const op = "service.reviews.DeleteReview"

	if id == uuid.Nil {
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err := s.storage.DeleteReview(ctx, id); err != nil {
		return storageError(ctx, op, err, ErrNotFound)
	}

	log.From(ctx).Info("review_deleted", slog.String("op", op), slog.String("review_id", id.String()))

	return nil
}

func (s *Service) expandReview(ctx context.Context, op string, review *models.Review) (*models.ReviewDetails, error) {
	out, err := s.expandReviews(ctx, op, []models.Review{*review})
	if err != nil {
		return nil, err
	}

	return &out[0], nil
}

// expandReviews подгружает авторов и книги двумя батч-запросами.
func (s *Service) expandReviews(ctx context.Context, op string, reviews []models.Review) ([]models.ReviewDetails, error) {
	out := make([]models.ReviewDetails, 0, len(reviews))
	if len(reviews) == 0 {
		return out, nil
	}

	userIDs := make([]uuid.UUID, 0, len(reviews))
	bookIDs := make([]uuid.UUID, 0, len(reviews))
	for _, r := range reviews {
		userIDs = append(userIDs, r.UserID)
		bookIDs = append(bookIDs, r.BookID)
	}

	users, err := s.storage.UsersByIDs(ctx, uniqueIDs(userIDs))
	if err != nil {
		return nil, storageError(ctx, op, err, ErrNotFound)
	}

	books, err := s.storage.BooksByIDs(ctx, uniqueIDs(bookIDs))
	if err != nil {
		return nil, storageError(ctx, op, err, ErrNotFound)
	}

	userByID := make(map[uuid.UUID]*models.User, len(users))
	for i := range users {
		userByID[users[i].ID] = &users[i]
	}

	bookByID := make(map[uuid.UUID]*models.Book, len(books))
	for i := range books {
		bookByID[books[i].ID] = &books[i]
	}

	for _, r := range reviews {
		out = append(out, models.ReviewDetails{
			Review: r,
			User:   userByID[r.UserID],
			Book:   bookByID[r.BookID],
		})
	}

	return out, nil
}

// validateReview проверяет заданные поля; nil — поле не проверяется.
func validateReview(content *string, rating *int) error {
	if content != nil && *content == "" {
		return fmt.Errorf("%w: empty content", ErrInvalidArgument)
	}

	if rating != nil && (*rating < models.MinRating || *rating > models.MaxRating) {
		return fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidArgument, models.MinRating, models.MaxRating)
	}

	return nil
}
