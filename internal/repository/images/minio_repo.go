package images

import (
	"bytes"
	"context"
	"fmt"

	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

// MinioRepo хранит изображения в MinIO. Альтернатива DiskRepo для
// деплоев с объектным хранилищем (IMAGE_STORE=minio).
type MinioRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewMinioRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *MinioRepo {
	return &MinioRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Save загружает изображение в MinIO и возвращает ключ объекта.
func (m *MinioRepo) Save(ctx context.Context, image *domain.Image) (string, error) {
	reader := bytes.NewReader(image.Bytes)

	info, err := m.mc.PutObject(ctx, m.cfg.BucketName, image.ObjectKey, reader, image.Size, minio.PutObjectOptions{
		ContentType: image.ContentType,
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}

// Delete удаляет объект из MinIO по указанному ключу.
func (m *MinioRepo) Delete(ctx context.Context, key string) error {
	if err := m.mc.RemoveObject(ctx, m.cfg.BucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// URL строит адрес объекта напрямую через конечную точку MinIO:
// база запроса не используется.
func (m *MinioRepo) URL(_, key string) string {
	scheme := "http"
	if m.cfg.MinioUseSSL {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s/%s/%s", scheme, m.cfg.MinioEndpoint, m.cfg.BucketName, key)
}
