package service

import (
	"context"
	"time"

	"github.com/jose-valero/discord-music-bot/internal/domain"
)

// Lo implementan internal/infra/storage.MemoryStore y SQLStore
type QueueStore interface {
	Get(ctx context.Context, guildID string) (domain.GuildQueue, error)
	// Save es optimista: falla con domain.ErrConflict si q.Version ya no es la actual.
	Save(ctx context.Context, q domain.GuildQueue) (domain.GuildQueue, error)
	Delete(ctx context.Context, guildID string) error
	// PruneIdle borra colas sin escrituras desde olderThan; keep nunca se borra.
	PruneIdle(ctx context.Context, olderThan time.Time, keep []string) (int64, error)
}

// Lo implementa internal/adapters/youtube.Client
type TrackFinder interface {
	FindTrack(ctx context.Context, query string) (domain.Track, error)
}

type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)
}

type InfoFetcher interface {
	Info(ctx context.Context, url string) (domain.VideoInfo, error)
}
