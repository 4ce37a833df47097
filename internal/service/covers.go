package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pribylovaa/bookly/internal/models"
	"github.com/pribylovaa/bookly/internal/pkg/log"
	"github.com/pribylovaa/bookly/internal/storage"
)

// CoverUploadInput — параметры будущей загрузки обложки.
type CoverUploadInput struct {
	BookID        uuid.UUID
	ContentType   string
	ContentLength int64
}

// CoverUploadURL выдаёт presigned PUT для обложки существующей книги.
func (s *Service) CoverUploadURL(ctx context.Context, in CoverUploadInput) (*storage.UploadInfo, error) {
	const op = "service.covers.CoverUploadURL"

	if s.covers == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrCoversDisabled)
	}

	if in.BookID == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if _, err := s.storage.BookByID(ctx, in.BookID); err != nil {
		return nil, storageError(ctx, op, err, ErrNotFound)
	}

	info, err := s.covers.CoverUploadURL(ctx, in.BookID, in.ContentType, in.ContentLength)
	if err != nil {
		return nil, coversError(ctx, op, err)
	}

	log.From(ctx).Info("cover_upload_url_issued",
		slog.String("op", op),
		slog.String("book_id", in.BookID.String()),
		slog.String("key", info.CoverKey),
	)

	return info, nil
}

// ConfirmCoverUpload проверяет загруженный объект и фиксирует его в книге.
func (s *Service) ConfirmCoverUpload(ctx context.Context, bookID uuid.UUID, key string) (*models.BookDetails, error) {
	const op = "service.covers.ConfirmCoverUpload"

	if s.covers == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrCoversDisabled)
	}

	if bookID == uuid.Nil || key == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	publicURL, err := s.covers.CheckCoverUpload(ctx, bookID, key)
	if err != nil {
		return nil, coversError(ctx, op, err)
	}

	book, err := s.storage.SetBookCover(ctx, bookID, key, publicURL)
	if err != nil {
		return nil, storageError(ctx, op, err, ErrNotFound)
	}

	log.From(ctx).Info("cover_confirmed", slog.String("op", op), slog.String("book_id", bookID.String()))

	return s.expandBook(ctx, op, book)
}

func coversError(ctx context.Context, op string, err error) error {
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidArgument) {
		return storageError(ctx, op, err, ErrNotFound)
	}

	log.From(ctx).Error("covers_error", slog.String("op", op), slog.String("err", err.Error()))

	return fmt.Errorf("%s: %w", op, ErrInternal)
}
