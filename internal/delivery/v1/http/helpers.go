package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/jimlawless/whereami"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrExpectedMultipart):
		return http.StatusBadRequest, e.ErrExpectedMultipart.Error()
	case errors.Is(err, e.ErrMissingFields):
		return http.StatusBadRequest, e.ErrMissingFields.Error()
	case errors.Is(err, e.ErrInvalidPrice):
		return http.StatusBadRequest, e.ErrInvalidPrice.Error()
	case errors.Is(err, e.ErrPricePrecision):
		return http.StatusBadRequest, e.ErrPricePrecision.Error()
	case errors.Is(err, e.ErrInvalidImageType):
		return http.StatusBadRequest, e.ErrInvalidImageType.Error()
	case errors.Is(err, e.ErrFileTooLarge):
		return http.StatusBadRequest, e.ErrFileTooLarge.Error()
	case errors.Is(err, e.ErrInvalidReference):
		return http.StatusBadRequest, e.ErrInvalidReference.Error()
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound, e.ErrNotFound.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	return r.ParseMultipartForm(maxMemory)
}

// formValuePtr возвращает указатель на значение поля формы либо nil,
// если поле вовсе не было передано. Пустая строка — тоже значение.
func formValuePtr(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

// readImage читает первый файл из поля image. Отсутствующий файл не ошибка:
// обязательность изображения решает юзкейс.
func readImage(r *http.Request, maxSize int64) (*usecase.ImageUpload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		return nil, nil
	}

	data, mimeType, err := readFile(files[0], maxSize)
	if err != nil {
		return nil, err
	}

	return usecase.NewImageUpload(data, mimeType, int64(len(data)), files[0].Filename), nil
}

func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	return data, mimeType, nil
}

// requestBaseURL строит базовый адрес для image_url. PUBLIC_BASE_URL
// имеет приоритет для деплоев за прокси.
func requestBaseURL(r *http.Request, publicBase string) string {
	if publicBase != "" {
		return publicBase
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	return scheme + "://" + r.Host
}

// productJSON строит плоский JSON-объект товара в формате публичного API.
func productJSON(p *usecase.ProductInfo) map[string]interface{} {
	return map[string]interface{}{
		"_id":       p.ID,
		"name":      p.Name,
		"price":     p.Price,
		"image_url": p.ImageURL,
	}
}

// detailJSON строит плоский JSON-объект detail-записи. Имя поля внешнего
// ключа зависит от категории (earphone_id, headphone_id, ...).
func detailJSON(d *usecase.DetailInfo, category domain.Category) map[string]interface{} {
	return map[string]interface{}{
		"_id":            d.ID,
		"name":           d.Name,
		"description":    d.Description,
		"price":          d.Price,
		"image_url":      d.ImageURL,
		category.FKField: d.ProductID,
	}
}
