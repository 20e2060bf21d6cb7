package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/nhle/todolist/internal/api"
	"github.com/nhle/todolist/internal/model"
	"github.com/nhle/todolist/internal/storage"
)

// StorageKey is the well-known key the authenticated user is stored under.
const StorageKey = "user"

// Store holds the current session and mirrors it to storage. Requests
// read their identity from Identity, so what is sent never diverges from
// the current session.
type Store struct {
	mu      sync.RWMutex
	storage storage.Storage
	logger  *log.Logger
	current Session
}

// NewStore creates a store that starts anonymous.
func NewStore(st storage.Storage, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{
		storage: st,
		logger:  logger.WithPrefix("session"),
		current: Anonymous(),
	}
}

// Load restores the persisted session. An absent, unreadable or
// malformed record yields the anonymous session; a malformed record is
// removed.
func (s *Store) Load(ctx context.Context) Session {
	raw, ok, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		s.logger.Warn("reading persisted session failed", "err", err)
		return s.replace(Anonymous())
	}
	if !ok {
		return s.replace(Anonymous())
	}

	user, err := decodeUser(raw)
	if err != nil {
		s.logger.Warn("discarding persisted session", "err", err)
		if rmErr := s.storage.Remove(ctx, StorageKey); rmErr != nil {
			s.logger.Error("removing persisted session failed", "err", rmErr)
		}
		return s.replace(Anonymous())
	}

	s.logger.Info("restored session", "user_id", user.ID)
	return s.replace(Authenticated(user))
}

// Set persists u and makes it the current session. On a storage error
// the current session is left unchanged.
func (s *Store) Set(ctx context.Context, u model.User) error {
	if u.ID == "" {
		return errors.New("session user has no id")
	}
	raw, err := encodeUser(u)
	if err != nil {
		return err
	}
	if err := s.storage.Set(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}
	s.replace(Authenticated(u))
	s.logger.Info("signed in", "user_id", u.ID)
	return nil
}

// Clear reverts to the anonymous session. The in-memory session is
// cleared even when removing the persisted record fails.
func (s *Store) Clear(ctx context.Context) error {
	s.replace(Anonymous())
	if err := s.storage.Remove(ctx, StorageKey); err != nil {
		return fmt.Errorf("removing persisted session: %w", err)
	}
	s.logger.Info("signed out")
	return nil
}

// Current returns the active session.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Identity returns the identity of the active session.
func (s *Store) Identity() api.Identity {
	return s.Current().Identity()
}

func (s *Store) replace(next Session) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = next
	return next
}
