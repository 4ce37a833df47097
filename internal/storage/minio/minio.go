// minio предоставляет реализацию storage.CoversStorage на базе MinIO/S3.
// minio.go — конструктор клиента: нормализует endpoint, подбирает Secure
// по схеме и проверяет наличие целевого бакета.
// covers.go — presigned PUT для обложек и подтверждение загрузки.
package minio

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/pribylovaa/bookly/internal/config"
	"github.com/pribylovaa/bookly/internal/storage"
)

// CoversStorage — адаптер MinIO для обложек книг.
type CoversStorage struct {
	s3     config.S3Config
	covers config.CoversConfig
	client *mclient.Client
}

// New создает клиент MinIO и выполняет fail-fast-проверку бакета.
func New(ctx context.Context, s3 config.S3Config, covers config.CoversConfig) (*CoversStorage, error) {
	const op = "storage.minio.New"

	endpoint := s3.Endpoint
	secure := strings.HasPrefix(endpoint, "https://")

	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" && u.Host != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(s3.RootUser, s3.RootPassword, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, s3.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !exists {
		return nil, fmt.Errorf("%s: bucket %q does not exist", op, s3.Bucket)
	}

	return &CoversStorage{s3: s3, covers: covers, client: client}, nil
}

// Проверка выполнения контракта верхнего уровня.
var _ storage.CoversStorage = (*CoversStorage)(nil)
