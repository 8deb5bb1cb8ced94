package usecase

import (
	"context"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
)

// ProductRepository — доступ к коллекции товаров одной категории.
// GetByID возвращает (nil, nil) как для отсутствующей записи, так и для
// структурно некорректного идентификатора.
type ProductRepository interface {
	Create(ctx context.Context, category domain.Category, product *domain.Product) (string, error)
	GetAll(ctx context.Context, category domain.Category) ([]ProductInfo, error)
	GetByID(ctx context.Context, category domain.Category, id string) (*ProductInfo, error)
	Update(ctx context.Context, category domain.Category, id string, patch *ProductPatchFields) (bool, error)
	Delete(ctx context.Context, category domain.Category, id string) (bool, error)
	Exists(ctx context.Context, category domain.Category, id string) (bool, error)
}

// DetailRepository — доступ к коллекции detail-записей одной категории.
type DetailRepository interface {
	Create(ctx context.Context, category domain.Category, detail *domain.Detail) (string, error)
	GetAll(ctx context.Context, category domain.Category) ([]DetailInfo, error)
	GetByID(ctx context.Context, category domain.Category, id string) (*DetailInfo, error)
	Update(ctx context.Context, category domain.Category, id string, patch *DetailPatchFields) (bool, error)
	Delete(ctx context.Context, category domain.Category, id string) (bool, error)
}

// ProductPatchFields — нормализованный набор полей для частичного обновления товара.
type ProductPatchFields struct {
	Name     *string
	Price    *float64
	ImageURL *string
}

// Empty сообщает, что обновлять нечего.
func (p *ProductPatchFields) Empty() bool {
	return p.Name == nil && p.Price == nil && p.ImageURL == nil
}

// DetailPatchFields — нормализованный набор полей для частичного обновления detail-записи.
type DetailPatchFields struct {
	Name        *string
	Description *string
	Price       *float64
	ImageURL    *string
	ProductID   *string
}

func (p *DetailPatchFields) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil &&
		p.ImageURL == nil && p.ProductID == nil
}

// ImageRepository — низкоуровневое хранилище файлов изображений.
type ImageRepository interface {
	Save(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
	URL(base, key string) string
}

// CacheRepository — кэш публичных проекций. Промах — (nil, nil).
type CacheRepository interface {
	GetProduct(ctx context.Context, collection, id string) (*ProductInfo, error)
	SetProduct(ctx context.Context, collection string, info *ProductInfo) error
	GetDetail(ctx context.Context, collection, id string) (*DetailInfo, error)
	SetDetail(ctx context.Context, collection string, info *DetailInfo) error
	Delete(ctx context.Context, collection string, ids []string) error
}

// OutboxRepository — коллекция событий изменения каталога.
type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id string) error
}
