package http

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	_ "github.com/DRSN-tech/catalog-backend/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router  *chi.Mux
	uploads *cfg.UploadsCfg
	logger  logger.Logger
}

func NewRouter(router *chi.Mux, uploads *cfg.UploadsCfg, logger logger.Logger) *Router {
	return &Router{router: router, uploads: uploads, logger: logger}
}

func (r *Router) Init(prUC usecase.ProductUC, dtUC usecase.DetailUC) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Get("/uploads/*", r.serveUpload)

	prHandler := NewProductHandler(prUC, r.uploads, r.logger)
	dtHandler := NewDetailHandler(dtUC, r.uploads, r.logger)

	for _, category := range domain.Categories() {
		registerCategoryRoutes(r.router, category, prHandler, dtHandler)
	}
}

func registerCategoryRoutes(router chi.Router, category domain.Category, prHandler *ProductHandler, dtHandler *DetailHandler) {
	router.Route("/"+category.Slug, func(pr chi.Router) {
		pr.Post("/", prHandler.create(category))
		pr.Get("/", prHandler.getAll(category))
		pr.Get("/{id}", prHandler.getByID(category))
		pr.Put("/{id}", prHandler.update(category))
		pr.Delete("/{id}", prHandler.remove(category))
	})

	router.Route("/"+category.DetailSlug, func(dt chi.Router) {
		dt.Post("/", dtHandler.create(category))
		dt.Get("/", dtHandler.getAll(category))
		dt.Get("/{id}", dtHandler.getByID(category))
		dt.Put("/{id}", dtHandler.update(category))
		dt.Delete("/{id}", dtHandler.remove(category))
	})
}

// serveUpload отдает сохранённое изображение с диска. Отсутствующий файл
// возвращается как JSON 404 в формате ошибок API.
func (r *Router) serveUpload(w http.ResponseWriter, req *http.Request) {
	key := strings.TrimPrefix(req.URL.Path, "/uploads/")
	key = path.Clean("/" + key)[1:]
	if key == "" || strings.HasPrefix(key, "..") {
		WriteError(w, e.ErrNotFound)
		return
	}

	full := filepath.Join(r.uploads.Dir, filepath.FromSlash(key))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		WriteError(w, e.ErrNotFound)
		return
	}

	http.ServeFile(w, req, full)
}
