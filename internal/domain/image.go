package domain

import (
	"path"
	"strings"
)

// Image описывает загружаемое изображение товара
type Image struct {
	ObjectKey   string // ключ внутри хранилища: <category>/<sanitized filename>
	Bytes       []byte
	Size        int64
	ContentType string // Example: "image/png"
}

func NewImage(objectKey string, bytes []byte, size int64, contentType string) *Image {
	return &Image{
		ObjectKey:   objectKey,
		Bytes:       bytes,
		Size:        size,
		ContentType: contentType,
	}
}

// allowedImageExtensions — допустимые расширения файлов изображений.
var allowedImageExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
}

// AllowedImageFilename проверяет, что имя файла содержит точку и допустимое
// расширение (без учёта регистра). Имя без точки отклоняется.
func AllowedImageFilename(filename string) bool {
	idx := strings.LastIndexByte(filename, '.')
	if idx < 0 {
		return false
	}

	ext := strings.ToLower(filename[idx+1:])
	_, ok := allowedImageExtensions[ext]
	return ok
}

// SanitizeFilename приводит имя загружаемого файла к безопасному виду:
// отбрасывает компоненты пути, заменяет пробелы на подчёркивания и удаляет
// символы вне [A-Za-z0-9._-]. Ведущие точки и дефисы отбрасываются, чтобы имя
// не превращалось в скрытый файл или флаг.
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = path.Base(filename)

	var b strings.Builder
	for _, r := range filename {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}

	return strings.TrimLeft(b.String(), ".-")
}
