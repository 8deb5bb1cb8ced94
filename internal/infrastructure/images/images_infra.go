package images

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/jitter"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
)

// ImagesInfrastructure управляет сохранением изображений каталога и
// компенсирующей очисткой осиротевших файлов.
type ImagesInfrastructure struct {
	imageRepo   usecase.ImageRepository
	logger      logger.Logger
	shutdownCtx context.Context
	wg          sync.WaitGroup
}

func NewImagesInfrastructure(imageRepo usecase.ImageRepository, logger logger.Logger, shutdownCtx context.Context) *ImagesInfrastructure {
	return &ImagesInfrastructure{
		imageRepo:   imageRepo,
		logger:      logger,
		shutdownCtx: shutdownCtx,
	}
}

// UploadImage санитизирует имя файла, сохраняет изображение под ключом
// <category>/<filename> и возвращает ключ вместе с публичным URL.
// Коллизия имён перезаписывает прежний файл — принятое поведение.
func (m *ImagesInfrastructure) UploadImage(ctx context.Context, req *usecase.UploadImageReq) (*usecase.UploadImageRes, error) {
	const op = "ImagesInfrastructure.UploadImage"

	filename := domain.SanitizeFilename(req.Image.Filename)
	if filename == "" {
		return nil, e.Wrap(op, e.ErrInvalidImageType)
	}

	objKey := req.Category.Slug + "/" + filename
	image := domain.NewImage(objKey, req.Image.Data, req.Image.Size, req.Image.MimeType)

	key, err := m.imageRepo.Save(ctx, image)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return usecase.NewUploadImageRes(key, m.imageRepo.URL(req.BaseURL, key)), nil
}

// CleanupImage запускает фоновое удаление файла по ключу
func (m *ImagesInfrastructure) CleanupImage(key string) {
	if key == "" {
		return
	}
	m.wg.Add(1)
	go m.cleanupKey(key)
}

// cleanupKey удаляет файл с повторами и экспоненциальной задержкой с jitter.
func (m *ImagesInfrastructure) cleanupKey(key string) {
	defer m.wg.Done()
	const (
		op          = "ImagesInfrastructure.cleanupKey"
		maxAttempts = 3
	)

	m.logger.Infof("%s: Cleaning up orphaned image, key=%s", op, key)

	ctx, cancel := context.WithTimeout(m.shutdownCtx, 30*time.Second)
	defer cancel()

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := m.imageRepo.Delete(ctx, key); err == nil {
			return
		}

		select {
		case <-ctx.Done():
			m.logger.Warnf("cleanup interrupted by shutdown, key=%v", key)
			return
		case <-time.After(jitter.ExponentialBackoff(time.Second, 10*time.Second, attempt, jitter.DefaultJitter)):
		}
	}

	m.logger.Warnf("%s: giving up after %d attempts, key=%s", op, maxAttempts, key)
}

// WaitForCleanup ожидает завершения всех фоновых задач очистки с учётом таймаута завершения приложения.
func (m *ImagesInfrastructure) WaitForCleanup(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("image cleanup timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}
