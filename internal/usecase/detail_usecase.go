package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
)

// DetailUseCase реализует бизнес-логику detail-записей.
// От ProductUseCase отличается обязательной проверкой внешнего ключа при
// создании: ссылка должна разрешаться в существующий товар до любой записи.
type DetailUseCase struct {
	detailRepo  DetailRepository
	productRepo ProductRepository
	imagesInfra ImagesInfra
	cacheRepo   CacheRepository
	outboxRepo  OutboxRepository
	logger      logger.Logger
}

func NewDetailUC(
	detailRepo DetailRepository,
	productRepo ProductRepository,
	imagesInfra ImagesInfra,
	cacheRepo CacheRepository,
	outboxRepo OutboxRepository,
	logger logger.Logger,
) *DetailUseCase {
	return &DetailUseCase{
		detailRepo:  detailRepo,
		productRepo: productRepo,
		imagesInfra: imagesInfra,
		cacheRepo:   cacheRepo,
		outboxRepo:  outboxRepo,
		logger:      logger,
	}
}

// Create создаёт detail-запись. Порядок проверок фиксированный:
// наличие полей → существование внешнего ключа → цена → изображение → вставка.
// Хранилище связь не обеспечивает, поэтому параллельное удаление родителя
// между проверкой и вставкой остаётся известной гонкой.
func (d *DetailUseCase) Create(ctx context.Context, req *CreateDetailReq) (*DetailInfo, error) {
	const op = "DetailUseCase.Create"

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Description) == "" ||
		strings.TrimSpace(req.PriceRaw) == "" || strings.TrimSpace(req.ProductID) == "" || req.Image == nil {
		return nil, e.Wrap(op, e.ErrMissingFields)
	}

	exists, err := d.productRepo.Exists(ctx, req.Category, req.ProductID)
	if err != nil {
		return nil, e.Wrap(op, e.Wrap(err.Error(), e.ErrStorageFailure))
	}
	if !exists {
		return nil, e.Wrap(op, e.ErrInvalidReference)
	}

	price, err := ParsePrice(req.PriceRaw)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if !domain.AllowedImageFilename(req.Image.Filename) {
		return nil, e.Wrap(op, e.ErrInvalidImageType)
	}

	imageRes, err := d.imagesInfra.UploadImage(ctx, NewUploadImageReq(req.Category, req.Image, req.BaseURL))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	detail := domain.NewDetail(req.Name, req.Description, price, imageRes.URL, req.ProductID)
	id, err := d.detailRepo.Create(ctx, req.Category, detail)
	if err != nil {
		d.logger.Warnf("Cleaning up orphaned image after failed insert. collection: %s, key: %s, error: %v",
			req.Category.DetailCollection, imageRes.Key, err)
		d.imagesInfra.CleanupImage(imageRes.Key)

		return nil, e.Wrap(op, e.Wrap(err.Error(), e.ErrStorageFailure))
	}

	info := NewDetailInfo(id, req.Name, req.Description, price, imageRes.URL, req.ProductID)
	d.enqueueEvent(ctx, RecordCreated, req.Category.DetailCollection, id, info)

	return info, nil
}

// GetAll возвращает публичные проекции всех detail-записей категории.
func (d *DetailUseCase) GetAll(ctx context.Context, category domain.Category) ([]DetailInfo, error) {
	const op = "DetailUseCase.GetAll"

	details, err := d.detailRepo.GetAll(ctx, category)
	if err != nil {
		return nil, e.Wrap(op, e.Wrap(err.Error(), e.ErrStorageFailure))
	}

	return details, nil
}

// GetByID возвращает detail-запись по идентификатору, сквозь кэш.
func (d *DetailUseCase) GetByID(ctx context.Context, category domain.Category, id string) (*DetailInfo, error) {
	const op = "DetailUseCase.GetByID"

	if cached, err := d.cacheRepo.GetDetail(ctx, category.DetailCollection, id); err == nil && cached != nil {
		return cached, nil
	}

	detail, err := d.detailRepo.GetByID(ctx, category, id)
	if err != nil {
		return nil, e.Wrap(op, e.Wrap(err.Error(), e.ErrStorageFailure))
	}
	if detail == nil {
		return nil, e.Wrap(op, e.ErrNotFound)
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := d.cacheRepo.SetDetail(bgCtx, category.DetailCollection, detail); err != nil {
			d.logger.Warnf("Failed to cache detail in background: %v", e.Wrap(op, err))
		}
	}()

	return detail, nil
}

// Update применяет частичное обновление detail-записи. Внешний ключ при
// обновлении не перепроверяется: запись может остаться висячей, если родитель
// был удалён, — принятая брешь согласованности.
func (d *DetailUseCase) Update(ctx context.Context, req *UpdateDetailReq) (*UpdateDetailRes, error) {
	const op = "DetailUseCase.Update"

	existing, err := d.detailRepo.GetByID(ctx, req.Category, req.ID)
	if err != nil {
		return nil, e.Wrap(op, e.Wrap(err.Error(), e.ErrStorageFailure))
	}
	if existing == nil {
		return nil, e.Wrap(op, e.ErrNotFound)
	}

	fields := &DetailPatchFields{
		Name:        req.Patch.Name,
		Description: req.Patch.Description,
		ProductID:   req.Patch.ProductID,
	}

	if req.Patch.PriceRaw != nil {
		price, err := ParsePrice(*req.Patch.PriceRaw)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		fields.Price = &price
	}

	if req.Patch.Image != nil {
		if !domain.AllowedImageFilename(req.Patch.Image.Filename) {
			return nil, e.Wrap(op, e.ErrInvalidImageType)
		}

		imageRes, err := d.imagesInfra.UploadImage(ctx, NewUploadImageReq(req.Category, req.Patch.Image, req.BaseURL))
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		fields.ImageURL = &imageRes.URL
	}

	applied := false
	if !fields.Empty() {
		applied, err = d.detailRepo.Update(ctx, req.Category, req.ID, fields)
		if err != nil {
			return nil, e.Wrap(op, e.Wrap(err.Error(), e.ErrStorageFailure))
		}
	}

	if err := d.cacheRepo.Delete(ctx, req.Category.DetailCollection, []string{req.ID}); err != nil {
		d.logger.Warnf("Failed to invalidate detail cache: %v", e.Wrap(op, err))
	}

	updated, err := d.detailRepo.GetByID(ctx, req.Category, req.ID)
	if err != nil {
		return nil, e.Wrap(op, e.Wrap(err.Error(), e.ErrStorageFailure))
	}
	if updated == nil {
		return nil, e.Wrap(op, e.ErrNotFound)
	}

	if applied {
		d.enqueueEvent(ctx, RecordUpdated, req.Category.DetailCollection, req.ID, updated)
	}

	return NewUpdateDetailRes(updated, applied), nil
}

// Delete удаляет detail-запись. Каскадов нет: ни родитель, ни файл изображения
// не затрагиваются.
func (d *DetailUseCase) Delete(ctx context.Context, category domain.Category, id string) error {
	const op = "DetailUseCase.Delete"

	deleted, err := d.detailRepo.Delete(ctx, category, id)
	if err != nil {
		return e.Wrap(op, e.Wrap(err.Error(), e.ErrStorageFailure))
	}
	if !deleted {
		return e.Wrap(op, e.ErrNotFound)
	}

	if err := d.cacheRepo.Delete(ctx, category.DetailCollection, []string{id}); err != nil {
		d.logger.Warnf("Failed to invalidate detail cache: %v", e.Wrap(op, err))
	}

	d.enqueueEvent(ctx, RecordDeleted, category.DetailCollection, id, nil)

	return nil
}

func (d *DetailUseCase) enqueueEvent(ctx context.Context, eventType OutboxEventType, collection, id string, record any) {
	event, err := NewOutboxEvent(eventType, collection, id, record)
	if err != nil {
		d.logger.Warnf("Failed to build outbox event: %v", err)
		return
	}

	if _, err := d.outboxRepo.Create(ctx, event); err != nil {
		d.logger.Warnf("Failed to enqueue outbox event %s: %v", event.EventID, err)
	}
}
