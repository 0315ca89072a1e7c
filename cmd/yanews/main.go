package main

import (
	"context"
	"flag"
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

const service = "yanews"

func main() {
	fixtures := flag.String("fixtures", "", "load news items from a JSON file and exit")
	flag.Parse()

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

	news := usecase.NewNewsService(
		repository.GetNewsRepo(infra.DB),
		repository.GetCommentsRepo(infra.DB),
		infra.Events,
		logger,
		cfg.News.PageSize,
	)

	if *fixtures != "" {
		n, err := loadFixtures(ctx, *fixtures, news)
		if err != nil {
			logger.Error("failed to load fixtures", utils.Err(err))
			infra.Close(context.Background())
			os.Exit(1)
		}
		logger.Info("fixtures loaded", slog.Int("count", n))
		return
	}

	engine := router.NewNewsRouter(infra.Deps(), news)
	if err := app.Run(ctx, cfg.HTTP, engine, logger); err != nil {
		logger.Error("server error", utils.Err(err))
		infra.Close(context.Background())
		os.Exit(1)
	}
}
