package store

import (
	"context"
	"time"

	"github.com/bdanilov/imprintbot/internal/imprint/imprinterr"
)

// KindText is the only memory kind the bot currently produces. The column
// exists so future kinds (links, media captions) need no migration.
const KindText = "text"

// DefaultRecentLimit is how many memories /view_memories renders.
const DefaultRecentLimit = 5

// Memory represents one persisted text record belonging to a user.
type Memory struct {
	ID        int64
	UserID    int64
	Content   string
	CreatedAt time.Time
	Kind      string
}

// AddMemory appends a memory row for the user and refreshes the user's
// last_update timestamp. Both writes happen in one transaction so a memory
// never lands without its bookkeeping.
func (s *Store) AddMemory(ctx context.Context, userID int64, content, kind string, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return imprinterr.Storage("begin add memory", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO memories (user_id, content, created_at, kind)
		VALUES (?, ?, ?, ?)
	`, userID, content, at, kind); err != nil {
		tx.Rollback()
		return imprinterr.Storage("insert memory", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE users SET last_update = ? WHERE user_id = ?
	`, at, userID); err != nil {
		tx.Rollback()
		return imprinterr.Storage("touch user", err)
	}

	if err := tx.Commit(); err != nil {
		return imprinterr.Storage("commit add memory", err)
	}
	return nil
}

// RecentMemories returns up to limit memories for the user, newest first.
// A user with no memories gets an empty slice, not an error.
func (s *Store) RecentMemories(ctx context.Context, userID int64, limit int) ([]Memory, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, content, created_at, kind
		FROM memories
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, imprinterr.Storage("list memories", err)
	}
	defer rows.Close()

	var memories []Memory
	for rows.Next() {
		var m Memory
		if err := rows.Scan(&m.ID, &m.UserID, &m.Content, &m.CreatedAt, &m.Kind); err != nil {
			return nil, imprinterr.Storage("scan memory", err)
		}
		memories = append(memories, m)
	}
	if err := rows.Err(); err != nil {
		return nil, imprinterr.Storage("iterate memories", err)
	}

	return memories, nil
}

// CountMemories returns the number of memory rows for the user.
func (s *Store) CountMemories(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM memories WHERE user_id = ?", userID,
	).Scan(&n); err != nil {
		return 0, imprinterr.Storage("count memories", err)
	}
	return n, nil
}
