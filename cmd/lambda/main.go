package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/jose-valero/discord-music-bot/internal/adapters/lambdahttp"
	"github.com/jose-valero/discord-music-bot/internal/app"
	"github.com/jose-valero/discord-music-bot/internal/infra/config"
	"github.com/jose-valero/discord-music-bot/internal/infra/logging"
)

// Todo se arma en el cold start; las invocaciones calientes reusan store y clientes.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, _ := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slog.SetDefault(logger)

	a, err := app.Build(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}

	lambda.Start(lambdahttp.Handler(a.Server.Handler(), logger))
}
