package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jose-valero/discord-music-bot/internal/domain"
)

const maxSaveAttempts = 3

var errNothingToDo = errors.New("nothing to do")

type QueueService struct {
	store      QueueStore
	maxEntries int
	log        *slog.Logger
}

func NewQueueService(store QueueStore, maxEntries int, log *slog.Logger) *QueueService {
	if log == nil {
		log = slog.Default()
	}
	return &QueueService{store: store, maxEntries: maxEntries, log: log}
}

// Enqueue agrega al final y devuelve la posición 1-based resultante.
func (s *QueueService) Enqueue(ctx context.Context, guildID string, e domain.QueueEntry) (int, error) {
	if e.EnqueuedAt.IsZero() {
		e.EnqueuedAt = time.Now().UTC()
	}
	q, err := s.mutate(ctx, guildID, func(q *domain.GuildQueue) error {
		if s.maxEntries > 0 && len(q.Entries) >= s.maxEntries {
			return domain.ErrQueueFull
		}
		q.Entries = append(q.Entries, e)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(q.Entries), nil
}

// Skip saca la cabeza. ok=false si la cola estaba vacía (o no existía).
func (s *QueueService) Skip(ctx context.Context, guildID string) (domain.QueueEntry, bool, error) {
	var skipped domain.QueueEntry
	_, err := s.mutate(ctx, guildID, func(q *domain.GuildQueue) error {
		head, ok := q.Head()
		if !ok {
			return errNothingToDo
		}
		skipped = head
		q.Entries = q.Entries[1:]
		return nil
	})
	if errors.Is(err, errNothingToDo) {
		return domain.QueueEntry{}, false, nil
	}
	if err != nil {
		return domain.QueueEntry{}, false, err
	}
	return skipped, true, nil
}

func (s *QueueService) Snapshot(ctx context.Context, guildID string) (domain.GuildQueue, error) {
	q, err := s.store.Get(ctx, guildID)
	if err != nil {
		return domain.GuildQueue{}, fmt.Errorf("queue get: %w", err)
	}
	return q, nil
}

func (s *QueueService) NowPlaying(ctx context.Context, guildID string) (domain.QueueEntry, bool, error) {
	q, err := s.Snapshot(ctx, guildID)
	if err != nil {
		return domain.QueueEntry{}, false, err
	}
	head, ok := q.Head()
	return head, ok, nil
}

// Stop borra la key del guild completa.
func (s *QueueService) Stop(ctx context.Context, guildID string) error {
	if err := s.store.Delete(ctx, guildID); err != nil {
		return fmt.Errorf("queue delete: %w", err)
	}
	return nil
}

// Prune aplica QUEUE_TTL: cmd/server lo corre periódicamente (memory, sqlite).
func (s *QueueService) Prune(ctx context.Context, ttl time.Duration, keep []string) (int64, error) {
	n, err := s.store.PruneIdle(ctx, time.Now().Add(-ttl), keep)
	if err != nil {
		return 0, fmt.Errorf("queue prune: %w", err)
	}
	return n, nil
}

// mutate: read-modify-write con reintento acotado ante ErrConflict.
func (s *QueueService) mutate(ctx context.Context, guildID string, fn func(q *domain.GuildQueue) error) (domain.GuildQueue, error) {
	for attempt := 1; ; attempt++ {
		q, err := s.store.Get(ctx, guildID)
		if err != nil {
			return domain.GuildQueue{}, fmt.Errorf("queue get: %w", err)
		}
		if err := fn(&q); err != nil {
			return q, err
		}
		saved, err := s.store.Save(ctx, q)
		if errors.Is(err, domain.ErrConflict) && attempt < maxSaveAttempts {
			s.log.Warn("queue conflict, retrying", "guild", guildID, "attempt", attempt)
			continue
		}
		if err != nil {
			return domain.GuildQueue{}, fmt.Errorf("queue save: %w", err)
		}
		return saved, nil
	}
}
