package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
)

// ProductUseCase реализует бизнес-логику CRUD товаров каталога.
type ProductUseCase struct {
	productRepo ProductRepository
	imagesInfra ImagesInfra
	cacheRepo   CacheRepository
	outboxRepo  OutboxRepository
	logger      logger.Logger
}

func NewProductUC(
	productRepo ProductRepository,
	imagesInfra ImagesInfra,
	cacheRepo CacheRepository,
	outboxRepo OutboxRepository,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		imagesInfra: imagesInfra,
		cacheRepo:   cacheRepo,
		outboxRepo:  outboxRepo,
		logger:      logger,
	}
}

// Create обрабатывает создание товара: валидация в фиксированном порядке
// (наличие полей → цена → расширение изображения), сохранение файла, вставка
// документа. Если вставка не удалась, уже записанный файл компенсирующе удаляется.
func (p *ProductUseCase) Create(ctx context.Context, req *CreateProductReq) (*ProductInfo, error) {
	const op = "ProductUseCase.Create"

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.PriceRaw) == "" || req.Image == nil {
		return nil, e.Wrap(op, e.ErrMissingFields)
	}

	price, err := ParsePrice(req.PriceRaw)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if !domain.AllowedImageFilename(req.Image.Filename) {
		return nil, e.Wrap(op, e.ErrInvalidImageType)
	}

	imageRes, err := p.imagesInfra.UploadImage(ctx, NewUploadImageReq(req.Category, req.Image, req.BaseURL))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	id, err := p.productRepo.Create(ctx, req.Category, domain.NewProduct(req.Name, price, imageRes.URL))
	if err != nil {
		// Компенсация: документ не записан, файл не должен осиротеть
		p.logger.Warnf("Cleaning up orphaned image after failed insert. collection: %s, key: %s, error: %v",
			req.Category.Collection(), imageRes.Key, err)
		p.imagesInfra.CleanupImage(imageRes.Key)

		return nil, e.Wrap(op, e.Wrap(err.Error(), e.ErrStorageFailure))
	}

	info := NewProductInfo(id, req.Name, price, imageRes.URL)
	p.enqueueEvent(ctx, RecordCreated, req.Category.Collection(), id, info)

	return info, nil
}

// GetAll возвращает публичные проекции всех товаров категории.
// Пустая коллекция и недоступное хранилище различаются: последнее — ошибка.
func (p *ProductUseCase) GetAll(ctx context.Context, category domain.Category) ([]ProductInfo, error) {
	const op = "ProductUseCase.GetAll"

	products, err := p.productRepo.GetAll(ctx, category)
	if err != nil {
		return nil, e.Wrap(op, e.Wrap(err.Error(), e.ErrStorageFailure))
	}

	return products, nil
}

// GetByID возвращает товар по идентификатору, сквозь кэш.
// Некорректный идентификатор неотличим от отсутствующего — ErrNotFound.
func (p *ProductUseCase) GetByID(ctx context.Context, category domain.Category, id string) (*ProductInfo, error) {
	const op = "ProductUseCase.GetByID"

	if cached, err := p.cacheRepo.GetProduct(ctx, category.Collection(), id); err == nil && cached != nil {
		return cached, nil
	}

	product, err := p.productRepo.GetByID(ctx, category, id)
	if err != nil {
		return nil, e.Wrap(op, e.Wrap(err.Error(), e.ErrStorageFailure))
	}
	if product == nil {
		return nil, e.Wrap(op, e.ErrNotFound)
	}

	// Фоновое добавление в кэш
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := p.cacheRepo.SetProduct(bgCtx, category.Collection(), product); err != nil {
			p.logger.Warnf("Failed to cache product in background: %v", e.Wrap(op, err))
		}
	}()

	return product, nil
}

// Update применяет частичное обновление: трогаются только переданные поля,
// цена перенормализуется, новое изображение замещает прежний image_url.
// Applied=false, если хранилище не зафиксировало ни одного изменения.
func (p *ProductUseCase) Update(ctx context.Context, req *UpdateProductReq) (*UpdateProductRes, error) {
	const op = "ProductUseCase.Update"

	existing, err := p.productRepo.GetByID(ctx, req.Category, req.ID)
	if err != nil {
		return nil, e.Wrap(op, e.Wrap(err.Error(), e.ErrStorageFailure))
	}
	if existing == nil {
		return nil, e.Wrap(op, e.ErrNotFound)
	}

	fields := &ProductPatchFields{Name: req.Patch.Name}

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

		imageRes, err := p.imagesInfra.UploadImage(ctx, NewUploadImageReq(req.Category, req.Patch.Image, req.BaseURL))
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		fields.ImageURL = &imageRes.URL
	}

	applied := false
	if !fields.Empty() {
		applied, err = p.productRepo.Update(ctx, req.Category, req.ID, fields)
		if err != nil {
			return nil, e.Wrap(op, e.Wrap(err.Error(), e.ErrStorageFailure))
		}
	}

	if err := p.cacheRepo.Delete(ctx, req.Category.Collection(), []string{req.ID}); err != nil {
		p.logger.Warnf("Failed to invalidate product cache: %v", e.Wrap(op, err))
	}

	updated, err := p.productRepo.GetByID(ctx, req.Category, req.ID)
	if err != nil {
		return nil, e.Wrap(op, e.Wrap(err.Error(), e.ErrStorageFailure))
	}
	if updated == nil {
		return nil, e.Wrap(op, e.ErrNotFound)
	}

	if applied {
		p.enqueueEvent(ctx, RecordUpdated, req.Category.Collection(), req.ID, updated)
	}

	return NewUpdateProductRes(updated, applied), nil
}

// Delete удаляет документ товара. Файл изображения намеренно не трогается.
// Повторное удаление того же идентификатора — ErrNotFound.
func (p *ProductUseCase) Delete(ctx context.Context, category domain.Category, id string) error {
	const op = "ProductUseCase.Delete"

	deleted, err := p.productRepo.Delete(ctx, category, id)
	if err != nil {
		return e.Wrap(op, e.Wrap(err.Error(), e.ErrStorageFailure))
	}
	if !deleted {
		return e.Wrap(op, e.ErrNotFound)
	}

	if err := p.cacheRepo.Delete(ctx, category.Collection(), []string{id}); err != nil {
		p.logger.Warnf("Failed to invalidate product cache: %v", e.Wrap(op, err))
	}

	p.enqueueEvent(ctx, RecordDeleted, category.Collection(), id, nil)

	return nil
}

// enqueueEvent кладёт событие изменения в outbox. Запись событий — best effort:
// ошибка логируется, но не проваливает уже зафиксированную операцию.
func (p *ProductUseCase) enqueueEvent(ctx context.Context, eventType OutboxEventType, collection, id string, record any) {
	event, err := NewOutboxEvent(eventType, collection, id, record)
	if err != nil {
		p.logger.Warnf("Failed to build outbox event: %v", err)
		return
	}

	if _, err := p.outboxRepo.Create(ctx, event); err != nil {
		p.logger.Warnf("Failed to enqueue outbox event %s: %v", event.EventID, err)
	}
}
