package main

import (
	"os"

	"github.com/DRSN-tech/order-backoffice/internal/app"
	config "github.com/DRSN-tech/order-backoffice/internal/cfg"
	"github.com/DRSN-tech/order-backoffice/pkg/logger"
)

//	@title			Order Back-Office API
//	@version		1.0
//	@description	Каталог, клиенты, остатки, заказы и платежи.
//	@BasePath		/api/v1
func main() {
	bootLog, err := logger.NewZapLogger("info")
	if err != nil {
		os.Exit(1)
	}

	cfg, err := config.Load(bootLog)
	if err != nil {
		bootLog.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	log, err := logger.NewZapLogger(cfg.Log.Level)
	if err != nil {
		bootLog.Errorf(err, "failed to initialize logger")
		os.Exit(1)
	}
	defer log.Sync()

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		log.Sync()
		os.Exit(1)
	}
}
