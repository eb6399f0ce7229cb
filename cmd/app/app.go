package main

import (
	"os"

	"github.com/DRSN-tech/catalog-admin/internal/app"
	config "github.com/DRSN-tech/catalog-admin/internal/cfg"
	"github.com/DRSN-tech/catalog-admin/pkg/logger"
)

//	@title			Catalog Admin API
//	@version		1.0
//	@description	Добавление продуктов и категорий в каталог
//	@BasePath		/api/v1
func main() {
	log := logger.NewLogrusLogger()

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
