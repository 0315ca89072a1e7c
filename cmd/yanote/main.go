package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"yaapps/app"
	"yaapps/config"
	"yaapps/repository"
	"yaapps/router"
	"yaapps/usecase"
	"yaapps/utils"
)

const service = "yanote"

func main() {
	cfg, err := config.Load(service)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := utils.SetupLogger(cfg.Env)
	logger.Info("starting "+service, slog.String("env", cfg.Env))

	ctx := context.Background()
	infra, err := app.NewInfra(ctx, service, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize infrastructure", utils.Err(err))
		os.Exit(1)
	}
	defer infra.Close(context.Background())

	notes := usecase.NewNotesService(repository.GetNotesRepo(infra.DB), infra.Events, logger)
	engine := router.NewNotesRouter(infra.Deps(), notes)

	if err := app.Run(ctx, cfg.HTTP, engine, logger); err != nil {
		logger.Error("server error", utils.Err(err))
		infra.Close(context.Background())
		os.Exit(1)
	}
}
