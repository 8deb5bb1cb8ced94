package http

import (
	"net/http"

	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

const maxMemory = 32 << 20

// ProductHandler обслуживает товарные эндпоинты всех категорий.
// Конкретная категория фиксируется замыканием при регистрации маршрутов.
type ProductHandler struct {
	productUsecase usecase.ProductUC
	uploads        *cfg.UploadsCfg
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, uploads *cfg.UploadsCfg, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, uploads: uploads, logger: logger}
}

// create
//
//	@Summary		Создание товара
//	@Description	Создает товар категории с изображением
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			name	formData	string	true	"Название товара"
//	@Param			price	formData	string	true	"Цена"
//	@Param			image	formData	file	true	"Изображение"
//	@Success		201		{object}	map[string]interface{}	"Созданная запись"
//	@Failure		400		{object}	ErrorResponse			"Ошибка валидации"
//	@Router			/{category} [post]
func (p *ProductHandler) create(category domain.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, p.uploads.MaxFileSize+(1<<20))

		if err := ensureMultipartForm(r, maxMemory); err != nil {
			p.logger.Warnf("%s create: %s", category.Slug, err.Error())
			WriteError(w, err)
			return
		}

		image, err := readImage(r, p.uploads.MaxFileSize)
		if err != nil {
			p.logger.Warnf("%s create: %s", category.Slug, err.Error())
			WriteError(w, err)
			return
		}

		product, err := p.productUsecase.Create(r.Context(), &usecase.CreateProductReq{
			Category: category,
			Name:     r.FormValue("name"),
			PriceRaw: r.FormValue("price"),
			Image:    image,
			BaseURL:  requestBaseURL(r, p.uploads.PublicBase),
		})
		if err != nil {
			p.logger.Warnf("%s create: %s", category.Slug, err.Error())
			WriteError(w, err)
			return
		}

		WriteSuccess(w, http.StatusCreated, productJSON(product))
	}
}

// getAll
//
//	@Summary	Список товаров категории
//	@Tags		products
//	@Produce	json
//	@Success	200	{array}	map[string]interface{}
//	@Router		/{category} [get]
func (p *ProductHandler) getAll(category domain.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := p.productUsecase.GetAll(r.Context(), category)
		if err != nil {
			p.logger.Warnf("%s getAll: %s", category.Slug, err.Error())
			WriteError(w, err)
			return
		}

		records := make([]map[string]interface{}, 0, len(products))
		for i := range products {
			records = append(records, productJSON(&products[i]))
		}

		WriteSuccess(w, http.StatusOK, records)
	}
}

// getByID
//
//	@Summary	Товар по идентификатору
//	@Tags		products
//	@Produce	json
//	@Param		id	path		string	true	"Идентификатор"
//	@Success	200	{object}	map[string]interface{}
//	@Failure	404	{object}	ErrorResponse
//	@Router		/{category}/{id} [get]
func (p *ProductHandler) getByID(category domain.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := p.productUsecase.GetByID(r.Context(), category, chi.URLParam(r, "id"))
		if err != nil {
			p.logger.Warnf("%s getByID: %s", category.Slug, err.Error())
			WriteError(w, err)
			return
		}

		WriteSuccess(w, http.StatusOK, productJSON(product))
	}
}

// update
//
//	@Summary		Частичное обновление товара
//	@Description	Обновляет только переданные поля формы
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id	path		string	true	"Идентификатор"
//	@Success		200	{object}	map[string]interface{}	"Запись после обновления"
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/{category}/{id} [put]
func (p *ProductHandler) update(category domain.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, p.uploads.MaxFileSize+(1<<20))

		if err := ensureMultipartForm(r, maxMemory); err != nil {
			p.logger.Warnf("%s update: %s", category.Slug, err.Error())
			WriteError(w, err)
			return
		}

		image, err := readImage(r, p.uploads.MaxFileSize)
		if err != nil {
			p.logger.Warnf("%s update: %s", category.Slug, err.Error())
			WriteError(w, err)
			return
		}

		res, err := p.productUsecase.Update(r.Context(), &usecase.UpdateProductReq{
			Category: category,
			ID:       chi.URLParam(r, "id"),
			Patch: usecase.ProductPatch{
				Name:     formValuePtr(r, "name"),
				PriceRaw: formValuePtr(r, "price"),
				Image:    image,
			},
			BaseURL: requestBaseURL(r, p.uploads.PublicBase),
		})
		if err != nil {
			p.logger.Warnf("%s update: %s", category.Slug, err.Error())
			WriteError(w, err)
			return
		}

		if !res.Applied {
			p.logger.Infof("%s update: no fields changed, id=%s", category.Slug, res.Product.ID)
		}

		WriteSuccess(w, http.StatusOK, productJSON(res.Product))
	}
}

// remove
//
//	@Summary	Удаление товара
//	@Tags		products
//	@Produce	json
//	@Param		id	path		string	true	"Идентификатор"
//	@Success	200	{object}	map[string]interface{}	"Подтверждение"
//	@Failure	404	{object}	ErrorResponse
//	@Router		/{category}/{id} [delete]
func (p *ProductHandler) remove(category domain.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := p.productUsecase.Delete(r.Context(), category, chi.URLParam(r, "id")); err != nil {
			p.logger.Warnf("%s delete: %s", category.Slug, err.Error())
			WriteError(w, err)
			return
		}

		WriteSuccess(w, http.StatusOK, map[string]interface{}{
			"message": category.Singular + " deleted successfully",
		})
	}
}
