// Package testutil holds helpers shared by tests across packages.
package testutil

import (
	"testing"

	"github.com/nhle/todolist/internal/storage"
)

// NewTestStorage creates an in-memory SQLite storage with all migrations
// applied. It automatically closes the storage when the test completes.
func NewTestStorage(t *testing.T) *storage.SQLite {
	t.Helper()

	s, err := storage.NewSQLite(storage.MemoryPath)
	if err != nil {
		t.Fatalf("creating test storage: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test storage: %v", err)
		}
	})

	return s
}
