package http

import (
	"net/http"

	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// DetailHandler обслуживает detail-эндпоинты всех категорий. Помимо полей
// товара detail-запись несёт описание и внешний ключ на товар категории.
type DetailHandler struct {
	detailUsecase usecase.DetailUC
	uploads       *cfg.UploadsCfg
	logger        logger.Logger
}

func NewDetailHandler(detailUsecase usecase.DetailUC, uploads *cfg.UploadsCfg, logger logger.Logger) *DetailHandler {
	return &DetailHandler{detailUsecase: detailUsecase, uploads: uploads, logger: logger}
}

// create
//
//	@Summary		Создание detail-записи
//	@Description	Создает detail-запись с проверкой внешнего ключа на товар
//	@Tags			details
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			name		formData	string	true	"Название"
//	@Param			description	formData	string	true	"Описание"
//	@Param			price		formData	string	true	"Цена"
//	@Param			image		formData	file	true	"Изображение"
//	@Success		201			{object}	map[string]interface{}	"Созданная запись"
//	@Failure		400			{object}	ErrorResponse			"Ошибка валидации или внешнего ключа"
//	@Router			/{category}-details [post]
func (d *DetailHandler) create(category domain.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, d.uploads.MaxFileSize+(1<<20))

		if err := ensureMultipartForm(r, maxMemory); err != nil {
			d.logger.Warnf("%s create: %s", category.DetailSlug, err.Error())
			WriteError(w, err)
			return
		}

		image, err := readImage(r, d.uploads.MaxFileSize)
		if err != nil {
			d.logger.Warnf("%s create: %s", category.DetailSlug, err.Error())
			WriteError(w, err)
			return
		}

		detail, err := d.detailUsecase.Create(r.Context(), &usecase.CreateDetailReq{
			Category:    category,
			Name:        r.FormValue("name"),
			Description: r.FormValue("description"),
			PriceRaw:    r.FormValue("price"),
			ProductID:   r.FormValue(category.FKField),
			Image:       image,
			BaseURL:     requestBaseURL(r, d.uploads.PublicBase),
		})
		if err != nil {
			d.logger.Warnf("%s create: %s", category.DetailSlug, err.Error())
			WriteError(w, err)
			return
		}

		WriteSuccess(w, http.StatusCreated, detailJSON(detail, category))
	}
}

func (d *DetailHandler) getAll(category domain.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		details, err := d.detailUsecase.GetAll(r.Context(), category)
		if err != nil {
			d.logger.Warnf("%s getAll: %s", category.DetailSlug, err.Error())
			WriteError(w, err)
			return
		}

		records := make([]map[string]interface{}, 0, len(details))
		for i := range details {
			records = append(records, detailJSON(&details[i], category))
		}

		WriteSuccess(w, http.StatusOK, records)
	}
}

func (d *DetailHandler) getByID(category domain.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, err := d.detailUsecase.GetByID(r.Context(), category, chi.URLParam(r, "id"))
		if err != nil {
			d.logger.Warnf("%s getByID: %s", category.DetailSlug, err.Error())
			WriteError(w, err)
			return
		}

		WriteSuccess(w, http.StatusOK, detailJSON(detail, category))
	}
}

func (d *DetailHandler) update(category domain.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, d.uploads.MaxFileSize+(1<<20))

		if err := ensureMultipartForm(r, maxMemory); err != nil {
			d.logger.Warnf("%s update: %s", category.DetailSlug, err.Error())
			WriteError(w, err)
			return
		}

		image, err := readImage(r, d.uploads.MaxFileSize)
		if err != nil {
			d.logger.Warnf("%s update: %s", category.DetailSlug, err.Error())
			WriteError(w, err)
			return
		}

		res, err := d.detailUsecase.Update(r.Context(), &usecase.UpdateDetailReq{
			Category: category,
			ID:       chi.URLParam(r, "id"),
			Patch: usecase.DetailPatch{
				Name:        formValuePtr(r, "name"),
				Description: formValuePtr(r, "description"),
				PriceRaw:    formValuePtr(r, "price"),
				ProductID:   formValuePtr(r, category.FKField),
				Image:       image,
			},
			BaseURL: requestBaseURL(r, d.uploads.PublicBase),
		})
		if err != nil {
			d.logger.Warnf("%s update: %s", category.DetailSlug, err.Error())
			WriteError(w, err)
			return
		}

		if !res.Applied {
			d.logger.Infof("%s update: no fields changed, id=%s", category.DetailSlug, res.Detail.ID)
		}

		WriteSuccess(w, http.StatusOK, detailJSON(res.Detail, category))
	}
}

func (d *DetailHandler) remove(category domain.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.detailUsecase.Delete(r.Context(), category, chi.URLParam(r, "id")); err != nil {
			d.logger.Warnf("%s delete: %s", category.DetailSlug, err.Error())
			WriteError(w, err)
			return
		}

		WriteSuccess(w, http.StatusOK, map[string]interface{}{
			"message": category.Singular + " detail deleted successfully",
		})
	}
}
