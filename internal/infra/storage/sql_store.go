package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jose-valero/discord-music-bot/internal/domain"
)

// SQLStore guarda cada cola como JSON en guild_queues con versión para
// concurrencia optimista entre instancias.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

func NewSQLStore(db *sql.DB, d Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: d, now: time.Now}
}

func (r *SQLStore) Get(ctx context.Context, guildID string) (domain.GuildQueue, error) {
	var (
		raw       string
		version   int64
		updatedMs int64
	)
	err := r.db.QueryRowContext(ctx, r.rebind(`
SELECT entries, version, updated_at
  FROM guild_queues
 WHERE guild_id = ?
`), guildID).Scan(&raw, &version, &updatedMs)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.GuildQueue{GuildID: guildID}, nil
	}
	if err != nil {
		return domain.GuildQueue{}, err
	}

	q := domain.GuildQueue{GuildID: guildID, Version: version, UpdatedAt: time.UnixMilli(updatedMs).UTC()}
	if err := json.Unmarshal([]byte(raw), &q.Entries); err != nil {
		return domain.GuildQueue{}, fmt.Errorf("decode entries guild=%s: %w", guildID, err)
	}
	return q, nil
}

func (r *SQLStore) Save(ctx context.Context, q domain.GuildQueue) (domain.GuildQueue, error) {
	entries := q.Entries
	if entries == nil {
		entries = []domain.QueueEntry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return domain.GuildQueue{}, err
	}
	now := r.now().UTC()

	var res sql.Result
	if q.Version == 0 {
		res, err = r.db.ExecContext(ctx, r.rebind(`
INSERT INTO guild_queues (guild_id, entries, version, updated_at)
VALUES (?, ?, 1, ?)
ON CONFLICT (guild_id) DO NOTHING
`), q.GuildID, string(raw), now.UnixMilli())
	} else {
		res, err = r.db.ExecContext(ctx, r.rebind(`
UPDATE guild_queues
   SET entries = ?, version = version + 1, updated_at = ?
 WHERE guild_id = ? AND version = ?
`), string(raw), now.UnixMilli(), q.GuildID, q.Version)
	}
	if err != nil {
		return domain.GuildQueue{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.GuildQueue{}, domain.ErrConflict
	}

	q.Entries = entries
	q.Version++
	q.UpdatedAt = time.UnixMilli(now.UnixMilli()).UTC()
	return q, nil
}

func (r *SQLStore) Delete(ctx context.Context, guildID string) error {
	_, err := r.db.ExecContext(ctx, r.rebind(`DELETE FROM guild_queues WHERE guild_id = ?`), guildID)
	return err
}

// PruneIdle: keep se expande con sqlx.In (NOT IN no admite lista vacía).
func (r *SQLStore) PruneIdle(ctx context.Context, olderThan time.Time, keep []string) (int64, error) {
	q := `DELETE FROM guild_queues WHERE updated_at < ?`
	args := []any{olderThan.UnixMilli()}
	if len(keep) > 0 {
		var err error
		q, args, err = sqlx.In(q+` AND guild_id NOT IN (?)`, olderThan.UnixMilli(), keep)
		if err != nil {
			return 0, err
		}
	}
	res, err := r.db.ExecContext(ctx, r.rebind(q), args...)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// rebind pasa los '?' a $n para postgres; sqlite los acepta tal cual.
func (r *SQLStore) rebind(q string) string {
	if r.dialect == DialectPostgres {
		return sqlx.Rebind(sqlx.DOLLAR, q)
	}
	return q
}
