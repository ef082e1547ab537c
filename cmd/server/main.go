package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jose-valero/discord-music-bot/internal/app"
	"github.com/jose-valero/discord-music-bot/internal/infra/config"
	"github.com/jose-valero/discord-music-bot/internal/infra/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, closer := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	defer closer.Close()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer a.Close()

	if cfg.QueueBackend != "postgres" {
		go a.PruneLoop(ctx, cfg.QueueTTL, cfg.QueuePruneInterval, cfg.JanitorKeepGuilds)
	}

	if err := a.Server.Start(ctx, cfg.HTTPAddr); err != nil {
		logger.Error("http server", "err", err)
		os.Exit(1)
	}
	logger.Info("👋 bye")
}
