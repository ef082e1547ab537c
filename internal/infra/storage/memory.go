package storage

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/jose-valero/discord-music-bot/internal/domain"
)

// MemoryStore vive lo que vive la instancia (lambda caliente o server local).
type MemoryStore struct {
	mu     sync.Mutex
	queues map[string]domain.GuildQueue
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{queues: map[string]domain.GuildQueue{}, now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, guildID string) (domain.GuildQueue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.queues[guildID]
	if !ok {
		return domain.GuildQueue{GuildID: guildID}, nil
	}
	q.Entries = slices.Clone(q.Entries)
	return q, nil
}

func (m *MemoryStore) Save(_ context.Context, q domain.GuildQueue) (domain.GuildQueue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.queues[q.GuildID]
	if (ok && cur.Version != q.Version) || (!ok && q.Version != 0) {
		return domain.GuildQueue{}, domain.ErrConflict
	}
	q.Version++
	q.UpdatedAt = m.now().UTC()
	q.Entries = slices.Clone(q.Entries)
	m.queues[q.GuildID] = q

	out := q
	out.Entries = slices.Clone(q.Entries)
	return out, nil
}

func (m *MemoryStore) Delete(_ context.Context, guildID string) error {
	m.mu.Lock()
	delete(m.queues, guildID)
	m.mu.Unlock()
	return nil
}

// PruneIdle borra las colas sin escrituras desde olderThan, salvo las de keep.
func (m *MemoryStore) PruneIdle(_ context.Context, olderThan time.Time, keep []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, q := range m.queues {
		if q.UpdatedAt.Before(olderThan) && !slices.Contains(keep, id) {
			delete(m.queues, id)
			n++
		}
	}
	return n, nil
}
