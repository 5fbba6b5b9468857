package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"mapdesk/pkg/db"
)

// keepRecent caps the recent project list length.
const keepRecent = 8

// SQLiteStore implements Store.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a new store.
func NewSQLiteStore(db *db.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- State ---

func (s *SQLiteStore) GetState(ctx context.Context, key string) (string, bool) {
	var val string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM persistent_state WHERE key = ?", key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	return val, true
}

func (s *SQLiteStore) SetState(ctx context.Context, key, val string) error {
	query := `INSERT OR REPLACE INTO persistent_state (key, value, created_at) VALUES (?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, key, val, time.Now())
	return err
}

func (s *SQLiteStore) DeleteState(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM persistent_state WHERE key = ?", key)
	return err
}

// --- Recent projects ---

// TouchRecent records path as the most recently opened project and prunes
// the list down to keepRecent entries.
func (s *SQLiteStore) TouchRecent(ctx context.Context, path string) error {
	query := `INSERT OR REPLACE INTO recent_projects (path, opened_at) VALUES (?, ?)`
	if _, err := s.db.ExecContext(ctx, query, path, time.Now()); err != nil {
		return err
	}
	prune := `DELETE FROM recent_projects WHERE path NOT IN (
		SELECT path FROM recent_projects ORDER BY opened_at DESC LIMIT ?)`
	_, err := s.db.ExecContext(ctx, prune, keepRecent)
	return err
}

func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]RecentProject, error) {
	if limit <= 0 || limit > keepRecent {
		limit = keepRecent
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT path, opened_at FROM recent_projects ORDER BY opened_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RecentProject
	for rows.Next() {
		var r RecentProject
		if err := rows.Scan(&r.Path, &r.OpenedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RemoveRecent drops a stale entry, e.g. after the file vanished from disk.
func (s *SQLiteStore) RemoveRecent(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM recent_projects WHERE path = ?", path)
	return err
}
