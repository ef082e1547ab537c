// Package app arma las dependencias compartidas por cmd/server y cmd/lambda.
package app

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jose-valero/discord-music-bot/internal/adapters/discord"
	"github.com/jose-valero/discord-music-bot/internal/adapters/httpapi"
	"github.com/jose-valero/discord-music-bot/internal/adapters/youtube"
	"github.com/jose-valero/discord-music-bot/internal/app/service"
	"github.com/jose-valero/discord-music-bot/internal/infra/config"
	"github.com/jose-valero/discord-music-bot/internal/infra/storage"
)

type App struct {
	Server *httpapi.Server
	Queue  *service.QueueService

	log     *slog.Logger
	closers []io.Closer
}

func Build(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	a := &App{log: log}

	store, err := a.openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.Queue = service.NewQueueService(store, cfg.QueueMaxEntries, log)

	yt := youtube.New()
	router := discord.NewRouter(a.Queue, yt, discord.RouterConfig{
		LookupTimeout:     cfg.LookupTimeout,
		PlayRatePerMinute: cfg.PlayRatePerMinute,
	})
	lookup := service.NewLookupService(yt, yt, cfg.DemoFallback)

	hcfg := httpapi.Config{AppID: cfg.DiscordClientID, QueueBackend: cfg.QueueBackend}
	if cfg.DiscordPublicKey != "" {
		key, err := cfg.PublicKey()
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		hcfg.PublicKey = ed25519.PublicKey(key)
	} else {
		log.Warn("DISCORD_PUBLIC_KEY not set, interactions will be rejected")
	}
	if cfg.CanRegister() {
		auth := cfg.BotAuth()
		hcfg.NewRegistrar = func() (discord.CommandRegistrar, error) { return discord.NewSession(auth) }
	}

	a.Server = httpapi.New(router, lookup, hcfg, log)
	log.Info("✅ app ready", "queue_backend", cfg.QueueBackend, "demo_fallback", cfg.DemoFallback, "commands", discord.CommandNames())
	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (service.QueueStore, error) {
	var d storage.Dialect
	switch cfg.QueueBackend {
	case "", "memory":
		return storage.NewMemoryStore(), nil
	case "postgres":
		d = storage.DialectPostgres
	case "sqlite":
		d = storage.DialectSQLite
	default:
		return nil, fmt.Errorf("unknown QUEUE_BACKEND %q", cfg.QueueBackend)
	}

	db, err := storage.Open(ctx, d, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d, err)
	}
	if err := storage.Migrate(db, d); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info("✅ DB lista y migrada", "dialect", string(d))
	a.closers = append(a.closers, db)
	return storage.NewSQLStore(db, d), nil
}

// PruneLoop purga cada `every` las colas sin actividad en `ttl` hasta que ctx
// termina. En postgres lo hace cmd/janitor.
func (a *App) PruneLoop(ctx context.Context, ttl, every time.Duration, keep []string) {
	if ttl <= 0 || every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := a.Queue.Prune(ctx, ttl, keep)
			if err != nil {
				a.log.Warn("queue prune failed", "err", err)
				continue
			}
			if n > 0 {
				a.log.Info("🧹 pruned idle queues", "deleted", n, "ttl", ttl)
			}
		}
	}
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
