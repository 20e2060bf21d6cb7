// Package storage persists small client-side records (the equivalent of a
// browser's local storage) behind get/set/remove semantics.
package storage

import (
	"context"
	"fmt"

	"github.com/nhle/todolist/internal/model"
)

// Storage is a string key/value store.
type Storage interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Close releases the underlying resources.
	Close() error
}

// Open returns the backend selected by cfg.
func Open(cfg model.StorageConfig) (Storage, error) {
	switch cfg.Backend {
	case model.StorageSQLite, "":
		return NewSQLite(cfg.Path)
	case model.StorageKeyring:
		return NewKeyring(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
