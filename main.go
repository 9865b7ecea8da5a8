package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"promptstudio/internal/config"
	"promptstudio/internal/database"
	"promptstudio/internal/server"
	"promptstudio/internal/utils"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// A .env is a dev convenience only; absence is fine.
	_ = utils.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	if database.IsDevelopment() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	app, err := NewApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("initializing application")
	}
	defer app.Shutdown()

	if err := app.Startup(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("starting services")
	}

	srv := server.New(server.Deps{
		DB:         app.DB,
		Generation: app.Generation,
		Metadata:   app.Metadata,
		Transfer:   app.Transfer,
	})
	if err := srv.Run(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
