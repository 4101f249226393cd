package main

import (
	"context"

	"github.com/ilinovom/working-hours-bot/internal/app"
	"github.com/ilinovom/working-hours-bot/internal/config"
	"github.com/ilinovom/working-hours-bot/internal/logging"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, using process environment")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	repo, closeRepo, err := app.OpenRepository(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open message store")
	}
	defer func() {
		if err := closeRepo(); err != nil {
			log.Error().Err(err).Msg("close message store")
		}
	}()

	application, err := app.New(cfg, repo)
	if err != nil {
		log.Fatal().Err(err).Msg("init app")
	}
	if err := application.Run(context.Background()); err != nil {
		log.Error().Err(err).Msg("run")
	}
}
