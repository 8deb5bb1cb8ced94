package converter

import "github.com/DRSN-tech/catalog-backend/internal/usecase"

// RecordConverter преобразует DTO каталога в кэш-модели Redis и обратно.
type RecordConverter struct{}

func NewRecordConverter() RecordConverter {
	return RecordConverter{}
}

func (RecordConverter) ToProductRedisModel(info *usecase.ProductInfo) *ProductInfoRedisModel {
	return &ProductInfoRedisModel{
		ID:       info.ID,
		Name:     info.Name,
		Price:    info.Price,
		ImageURL: info.ImageURL,
	}
}

func (RecordConverter) ProductToUseCase(model *ProductInfoRedisModel) *usecase.ProductInfo {
	return usecase.NewProductInfo(model.ID, model.Name, model.Price, model.ImageURL)
}

func (RecordConverter) ToDetailRedisModel(info *usecase.DetailInfo) *DetailInfoRedisModel {
	return &DetailInfoRedisModel{
		ID:          info.ID,
		Name:        info.Name,
		Description: info.Description,
		Price:       info.Price,
		ImageURL:    info.ImageURL,
		ProductID:   info.ProductID,
	}
}

func (RecordConverter) DetailToUseCase(model *DetailInfoRedisModel) *usecase.DetailInfo {
	return usecase.NewDetailInfo(model.ID, model.Name, model.Description, model.Price, model.ImageURL, model.ProductID)
}
