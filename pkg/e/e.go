package e

import "fmt"

var (
	// 400 Bad Request — ошибки валидации входных данных
	ErrExpectedMultipart = fmt.Errorf("expected multipart/form-data")
	ErrMissingFields     = fmt.Errorf("missing required fields")
	ErrInvalidPrice      = fmt.Errorf("invalid price format")
	ErrPricePrecision    = fmt.Errorf("price must have at most 2 decimal places")
	ErrInvalidImageType  = fmt.Errorf("invalid image file type")
	ErrFileTooLarge      = fmt.Errorf("file too large")

	// 400 Bad Request — ссылочная целостность
	ErrInvalidReference = fmt.Errorf("referenced product does not exist")

	// 404 Not Found
	ErrNotFound = fmt.Errorf("record not found")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
	ErrStorageFailure      = fmt.Errorf("storage operation failed")

	// Внутренние ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
