package minio

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"

	"github.com/pribylovaa/bookly/internal/storage"
)

const coversPrefix = "covers"

// CoverUploadURL генерирует presigned PUT для обложки книги.
// Ключ имеет вид "covers/<bookID>/<uuid>.<ext>".
func (s *CoversStorage) CoverUploadURL(ctx context.Context, bookID uuid.UUID, contentType string, contentLength int64) (*storage.UploadInfo, error) {
	const op = "storage.minio.covers.CoverUploadURL"

	if contentLength <= 0 || contentLength > s.covers.MaxSizeBytes {
		return nil, fmt.Errorf("%s: %w: size %d", op, storage.ErrInvalidArgument, contentLength)
	}

	if !slices.Contains(s.covers.AllowedContentTypes, contentType) {
		return nil, fmt.Errorf("%s: %w: content type %q", op, storage.ErrInvalidArgument, contentType)
	}

	key := path.Join(coversPrefix, bookID.String(), uuid.NewString()+extension(contentType))

	u, err := s.client.PresignedPutObject(ctx, s.s3.Bucket, key, s.s3.PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &storage.UploadInfo{
		UploadURL: u.String(),
		CoverKey:  key,
		Expires:   s.s3.PresignTTL,
		RequiredHeader: map[string]string{
			"Content-Type":   contentType,
			"Content-Length": strconv.FormatInt(contentLength, 10),
		},
	}, nil
}

// CheckCoverUpload проверяет, что объект существует, принадлежит книге
// и удовлетворяет ограничениям размера и типа.
func (s *CoversStorage) CheckCoverUpload(ctx context.Context, bookID uuid.UUID, key string) (string, error) {
	const op = "storage.minio.covers.CheckCoverUpload"

	prefix := coversPrefix + "/" + bookID.String() + "/"
	if !strings.HasPrefix(key, prefix) || strings.Contains(key, "..") {
		return "", fmt.Errorf("%s: %w: foreign key %q", op, storage.ErrInvalidArgument, key)
	}

	info, err := s.client.StatObject(ctx, s.s3.Bucket, key, mclient.StatObjectOptions{})
	if err != nil {
		resp := mclient.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
			return "", fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	if info.Size <= 0 || info.Size > s.covers.MaxSizeBytes {
		return "", fmt.Errorf("%s: %w: size %d", op, storage.ErrInvalidArgument, info.Size)
	}

	if ct := info.ContentType; ct != "" && !slices.Contains(s.covers.AllowedContentTypes, ct) {
		return "", fmt.Errorf("%s: %w: content type %q", op, storage.ErrInvalidArgument, ct)
	}

	return publicURL(s.s3.PublicBaseURL, key), nil
}

func extension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}

// publicURL собирает ссылку на объект; пустая база — пустая строка.
func publicURL(base, key string) string {
	if base == "" {
		return ""
	}

	return strings.TrimRight(base, "/") + "/" + key
}
