package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SessionRepository stores string values by key in the session_values table.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Get returns the value for key. The boolean is false when no row exists.
func (r *SessionRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM session_values WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read session value %q: %w", key, err)
	}
	return value, true, nil
}

// Set inserts or replaces the value for key.
func (r *SessionRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO session_values (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, key, value, time.Now()); err != nil {
		return fmt.Errorf("failed to write session value %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *SessionRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM session_values WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete session value %q: %w", key, err)
	}
	return nil
}
