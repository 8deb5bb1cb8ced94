package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/catalog-backend/internal/cfg"
	v1Http "github.com/DRSN-tech/catalog-backend/internal/delivery/v1/http"
	imagesInfra "github.com/DRSN-tech/catalog-backend/internal/infrastructure/images"
	"github.com/DRSN-tech/catalog-backend/internal/infrastructure/kafka"
	imagesRepo "github.com/DRSN-tech/catalog-backend/internal/repository/images"
	"github.com/DRSN-tech/catalog-backend/internal/repository/mongodb"
	mongoConv "github.com/DRSN-tech/catalog-backend/internal/repository/mongodb/converter"
	"github.com/DRSN-tech/catalog-backend/internal/repository/redis"
	redisConv "github.com/DRSN-tech/catalog-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/clients"
	"github.com/DRSN-tech/catalog-backend/pkg/closer"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const shutdownTimeout = 10 * time.Second

// App собирает все зависимости приложения и управляет их жизненным циклом.
type App struct {
	cfg    *config.Config
	logger logger.Logger

	httpSrv      *v1Http.Server
	worker       *kafka.OutboxWorker
	images       *imagesInfra.ImagesInfrastructure
	closer       *closer.Closer
	workerCancel context.CancelFunc
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	cl := closer.NewCloser(2 * time.Second)

	mongoClient, err := clients.NewMongoClient(context.Background(), cfg.Mongo)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(ctx context.Context) error {
		return mongoClient.Close(ctx)
	})

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(ctx context.Context) error {
		return redisClient.Close()
	})

	imageRepo, err := initImageRepo(cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	db := mongoClient.Database()
	conv := mongoConv.NewCatalogConverter()

	productRepo := mongodb.NewProductRepo(db, conv)
	detailRepo := mongodb.NewDetailRepo(db, conv)
	outboxRepo := mongodb.NewOutboxEventRepo(db, conv)
	cacheRepo := redis.NewCacheRepo(redisClient, redisConv.NewRecordConverter(), cfg.Redis, log)

	// Контекст фона переживает остановку HTTP-сервера, чтобы
	// компенсирующая очистка изображений успела доработать.
	workerCtx, workerCancel := context.WithCancel(context.Background())

	images := imagesInfra.NewImagesInfrastructure(imageRepo, log, workerCtx)

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		workerCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(ctx context.Context) error {
		return producer.Close()
	})

	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		log.Warnf("failed to ensure kafka topic, producing may fail: %v", err)
	}

	worker := kafka.NewOutboxWorker(outboxRepo, log, producer, cfg.Kafka.PollInterval)

	productUC := usecase.NewProductUC(productRepo, images, cacheRepo, outboxRepo, log)
	detailUC := usecase.NewDetailUC(detailRepo, productRepo, images, cacheRepo, outboxRepo, log)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, cfg.Uploads, log)
	router.Init(productUC, detailUC)

	return &App{
		cfg:          cfg,
		logger:       log,
		httpSrv:      v1Http.NewServer(r, cfg.Http),
		worker:       worker,
		images:       images,
		closer:       cl,
		workerCancel: workerCancel,
	}, nil
}

// Run запускает воркер и HTTP-сервер и блокируется до сигнала завершения
// либо фатальной ошибки сервера.
func (a *App) Run() error {
	a.worker.Start(context.Background())

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	a.stop()

	return appErr
}

func (a *App) stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.httpSrv.Stop(shutdownCtx); err != nil {
		a.logger.Errorf(err, "HTTP server shutdown error")
	} else {
		a.logger.Infof("HTTP server stopped")
	}

	a.worker.Stop()
	a.logger.Infof("Outbox worker stopped")

	if err := a.images.WaitForCleanup(shutdownCtx); err != nil {
		a.logger.Warnf("image cleanup error: %v", err)
	} else {
		a.logger.Infof("Image cleanup completed")
	}
	a.workerCancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("resource shutdown error: %v", err)
	}

	a.logger.Infof("Application shutdown complete")
}

// initImageRepo выбирает бэкенд хранения изображений по конфигурации.
func initImageRepo(cfg *config.Config) (usecase.ImageRepository, error) {
	if cfg.Uploads.Store == config.ImageStoreMinio {
		minioClient, err := clients.NewMinIOClient(cfg.Minio)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer minioCancel()
		if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		return imagesRepo.NewMinioRepo(minioClient, cfg.Minio), nil
	}

	if err := os.MkdirAll(cfg.Uploads.Dir, 0o755); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return imagesRepo.NewDiskRepo(cfg.Uploads.Dir), nil
}
