package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"hypolab/adapters/api"
	"hypolab/adapters/excel"
	"hypolab/app"
	"hypolab/internal"
	"hypolab/internal/config"
	"hypolab/ui"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Printf("Ignoring .env: %v", err)
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Log.Level))
	gin.SetMode(appConfig.Server.GinMode)

	inference := app.NewInferenceService(appConfig, logger)

	scenarios, err := app.NewScenarioService(inference)
	if err != nil {
		log.Fatalf("Failed to load scenario catalog: %v", err)
	}

	var datasets *app.DatasetService
	if appConfig.Data.File != "" {
		logger.Info("Using data source %s (column %q, sheet %q)", appConfig.Data.File, appConfig.Data.Column, appConfig.Data.Sheet)
		reader := excel.NewDataReader(appConfig.Data.File,
			excel.WithSheet(appConfig.Data.Sheet),
			excel.WithLogger(logger),
		)
		datasets = app.NewDatasetService(reader, appConfig.Data.Column, inference, logger)
	} else {
		logger.Info("No DATA_FILE configured, dataset endpoints disabled")
	}

	server := ui.NewServer(ui.Deps{
		Inference: inference,
		Datasets:  datasets,
		Scenarios: scenarios,
		API:       api.NewRouter(inference, logger),
		Logger:    logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx, ":"+appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
