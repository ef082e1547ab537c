package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"github.com/jose-valero/discord-music-bot/internal/infra/config"
	"github.com/jose-valero/discord-music-bot/internal/infra/logging"
)

const pruneSQL = `DELETE FROM guild_queues WHERE updated_at < $1 AND guild_id <> ALL($2)`

// keepList nunca devuelve nil: ALL(NULL) no matchea nada y no borraría filas.
func keepList(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func cutoff(now time.Time, ttl time.Duration) int64 {
	return now.Add(-ttl).UnixMilli()
}

func handler(ctx context.Context) (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Sprintf("config: %v", err), nil
	}
	if cfg.DatabaseURL == "" {
		return "no DATABASE_URL", nil
	}
	logger, _ := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slog.SetDefault(logger)

	pcfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return fmt.Sprintf("parse: %v", err), nil
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return fmt.Sprintf("pool: %v", err), nil
	}
	defer pool.Close()

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	keep := keepList(cfg.JanitorKeepGuilds)
	tag, err := pool.Exec(cctx, pruneSQL, cutoff(time.Now(), cfg.QueueTTL), pq.Array(keep))
	if err != nil {
		logger.Error("janitor prune failed", "err", err)
		return fmt.Sprintf("prune: %v", err), nil
	}
	logger.Info("🧹 janitor pruned idle queues", "deleted", tag.RowsAffected(), "ttl", cfg.QueueTTL, "kept", len(keep))
	return fmt.Sprintf("ok: %d queues pruned", tag.RowsAffected()), nil
}

func main() {
	lambda.Start(handler)
}
