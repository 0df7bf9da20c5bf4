package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bdanilov/imprintbot/internal/imprint/imprinterr"
)

// ErrUserNotFound is returned when no row exists for the given user id.
// Callers should use errors.Is to distinguish this expected case from real
// storage errors.
var ErrUserNotFound = errors.New("user not found")

// User represents a bot user in the database.
type User struct {
	UserID     int64
	ImprintID  string
	Name       string
	CreatedAt  time.Time
	LastUpdate time.Time
}

// ResolveOrCreate returns the public imprint token for the given Telegram
// user, minting a fresh one and inserting the row on first contact. The
// display name is captured once at creation and never updated afterwards.
// created reports whether a new row was inserted.
func (s *Store) ResolveOrCreate(ctx context.Context, userID int64, name string) (token string, created bool, err error) {
	err = s.db.QueryRowContext(ctx,
		"SELECT imprint_id FROM users WHERE user_id = ?", userID,
	).Scan(&token)
	if err == nil {
		return token, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", false, imprinterr.Storage("look up user", err)
	}

	token = uuid.NewString()
	now := time.Now()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (user_id, imprint_id, name, created_at, last_update)
		VALUES (?, ?, ?, ?, ?)
	`, userID, token, name, now, now)
	if err != nil {
		return "", false, imprinterr.Storage("create user", err)
	}

	return token, true, nil
}

// GetImprintID returns the public token for an existing user, or
// ErrUserNotFound when no row exists.
func (s *Store) GetImprintID(ctx context.Context, userID int64) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx,
		"SELECT imprint_id FROM users WHERE user_id = ?", userID,
	).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", imprinterr.Storage("get imprint id", err)
	}
	return token, nil
}

// GetUser retrieves a full user row, or ErrUserNotFound.
func (s *Store) GetUser(ctx context.Context, userID int64) (*User, error) {
	u := &User{}
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, imprint_id, name, created_at, last_update
		FROM users
		WHERE user_id = ?
	`, userID).Scan(&u.UserID, &u.ImprintID, &u.Name, &u.CreatedAt, &u.LastUpdate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, imprinterr.Storage("get user", err)
	}
	return u, nil
}

// CountUsers returns the number of user rows.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return 0, imprinterr.Storage("count users", err)
	}
	return n, nil
}
