package store

import (
	"context"
	"time"
)

// StateStore handles persistent application state as string key/values.
type StateStore interface {
	GetState(ctx context.Context, key string) (string, bool)
	SetState(ctx context.Context, key, val string) error
	DeleteState(ctx context.Context, key string) error
}

// RecentProject is one entry of the recently opened project list.
type RecentProject struct {
	Path     string
	OpenedAt time.Time
}

// RecentStore handles the recently opened project list.
type RecentStore interface {
	TouchRecent(ctx context.Context, path string) error
	ListRecent(ctx context.Context, limit int) ([]RecentProject, error)
	RemoveRecent(ctx context.Context, path string) error
}

// Store composes all sub-interfaces for full store access.
// Consumers should depend on specific sub-interfaces when possible.
type Store interface {
	StateStore
	RecentStore

	// Close closes the store connection.
	Close() error
}
