package images

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/jimlawless/whereami"
)

// DiskRepo хранит изображения на локальной файловой системе под корнем uploads.
// Директория категории создаётся лениво и идемпотентно; одинаковые имена
// файлов молча перезаписываются — версионирования нет.
type DiskRepo struct {
	root string
}

func NewDiskRepo(root string) *DiskRepo {
	return &DiskRepo{root: root}
}

// Save записывает изображение по ключу <category>/<filename> и возвращает ключ.
func (d *DiskRepo) Save(_ context.Context, image *domain.Image) (string, error) {
	path := filepath.Join(d.root, filepath.FromSlash(image.ObjectKey))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	if err := os.WriteFile(path, image.Bytes, 0o644); err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return image.ObjectKey, nil
}

// Delete удаляет файл по ключу. Отсутствующий файл не считается ошибкой.
func (d *DiskRepo) Delete(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(d.root, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// URL строит публичный адрес файла: база запроса + /uploads/<key>.
func (d *DiskRepo) URL(base, key string) string {
	return strings.TrimRight(base, "/") + "/uploads/" + key
}
