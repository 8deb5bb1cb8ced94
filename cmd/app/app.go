package main

import (
	"os"

	"github.com/DRSN-tech/catalog-backend/internal/app"
	config "github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/joho/godotenv"
)

//	@title			Catalog Backend API
//	@version		1.0
//	@description	Бэкенд каталога аксессуаров: наушники, гарнитуры, смарт-часы
//	@host			localhost:8080
//	@BasePath		/

func main() {
	log := logger.NewSlogLogger()

	// .env опционален: в контейнере конфигурация приходит из окружения
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}
