package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UploadInfo — информация для клиента о presigned PUT загрузке.
//   - UploadURL: URL для PUT-запроса;
//   - CoverKey: ключ будущего объекта в бакете;
//   - Expires: время жизни подписи;
//   - RequiredHeader: заголовки, которые клиент обязан передать при PUT.
type UploadInfo struct {
	UploadURL      string
	CoverKey       string
	Expires        time.Duration
	RequiredHeader map[string]string
}

// Covers — генерация presigned URL и подтверждение факта загрузки обложки.
type Covers interface {
	// CoverUploadURL генерирует presigned PUT. Внутри — валидация contentType и contentLength.
	CoverUploadURL(ctx context.Context, bookID uuid.UUID, contentType string, contentLength int64) (*UploadInfo, error)
	// CheckCoverUpload проверяет объект по key (наличие, тип, размер) и
	// возвращает публичный URL, если сконфигурирован PublicBaseURL.
	CheckCoverUpload(ctx context.Context, bookID uuid.UUID, key string) (publicURL string, err error)
}

// CoversStorage — обёртка для внедрения зависимости.
type CoversStorage interface {
	Covers
}
