package usecase

import (
	"context"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
)

type ProductUC interface {
	Create(ctx context.Context, req *CreateProductReq) (*ProductInfo, error)
	GetAll(ctx context.Context, category domain.Category) ([]ProductInfo, error)
	GetByID(ctx context.Context, category domain.Category, id string) (*ProductInfo, error)
	Update(ctx context.Context, req *UpdateProductReq) (*UpdateProductRes, error)
	Delete(ctx context.Context, category domain.Category, id string) error
}

type DetailUC interface {
	Create(ctx context.Context, req *CreateDetailReq) (*DetailInfo, error)
	GetAll(ctx context.Context, category domain.Category) ([]DetailInfo, error)
	GetByID(ctx context.Context, category domain.Category, id string) (*DetailInfo, error)
	Update(ctx context.Context, req *UpdateDetailReq) (*UpdateDetailRes, error)
	Delete(ctx context.Context, category domain.Category, id string) error
}
