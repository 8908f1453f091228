package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/debemdeboas/blogsync/internal/config"
	"github.com/debemdeboas/blogsync/internal/db"
	"github.com/debemdeboas/blogsync/internal/logger"
	"github.com/debemdeboas/blogsync/internal/model"
	"github.com/debemdeboas/blogsync/internal/repository"
	"github.com/debemdeboas/blogsync/internal/server"
)

func main() {
	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	config.LoadEnv()
	if err := config.LoadConfig(configPath); err != nil {
		l := logger.New("info")
		l.Fatal().Err(err).Str("path", configPath).Msg("Error loading configuration")
	}
	cfg := config.AppConfig
	if err := config.ApplyEnv(cfg); err != nil {
		l := logger.New("info")
		l.Fatal().Err(err).Msg("Invalid environment")
	}

	log := logger.New(cfg.Logging.Level)
	config.SetLogger(logger.Component(log, "config"))
	db.SetLogger(logger.Component(log, "db"))
	repository.SetLogger(logger.Component(log, "repository"))
	server.SetLogger(logger.Component(log, "server"))

	repo, closeRepo, err := server.OpenRepository(cfg.Server)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening repository")
	}
	defer closeRepo()

	if cfg.Store.Seed {
		if err := repo.Seed(model.SeedPosts()); err != nil {
			log.Fatal().Err(err).Msg("Error seeding repository")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(repo).ListenAndServe(ctx, cfg.Server.Addr()); err != nil {
		log.Error().Err(err).Msg("Server stopped")
		stop()
		closeRepo()
		os.Exit(1)
	}
}
