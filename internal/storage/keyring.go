package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/99designs/keyring"
)

const serviceName = "todolist"

// Keyring implements Storage on the operating system keyring, falling
// back to an encrypted file store under dir.
type Keyring struct {
	ring keyring.Keyring
}

// NewKeyring opens the system keyring. dir is used by the file backend;
// when empty it defaults to ~/.config/todolist/credentials.
func NewKeyring(dir string) (*Keyring, error) {
	if dir == "" {
		dir = "~/.config/todolist/credentials"
	} else {
		dir = filepath.Join(filepath.Dir(dir), "credentials")
	}

	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  dir,
		FilePasswordFunc:         keyring.FixedStringPrompt("todolist-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &Keyring{ring: ring}, nil
}

// NewKeyringWith wraps an already opened keyring.
func NewKeyringWith(ring keyring.Keyring) *Keyring {
	return &Keyring{ring: ring}
}

// Get retrieves the value stored under key.
func (k *Keyring) Get(_ context.Context, key string) (string, bool, error) {
	item, err := k.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting %q: %w", key, err)
	}
	return string(item.Data), true, nil
}

// Set stores value under key.
func (k *Keyring) Set(_ context.Context, key, value string) error {
	err := k.ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: serviceName + " " + key,
	})
	if err != nil {
		return fmt.Errorf("setting %q: %w", key, err)
	}
	return nil
}

// Remove deletes key. A missing key is ignored.
func (k *Keyring) Remove(_ context.Context, key string) error {
	err := k.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("removing %q: %w", key, err)
	}
	return nil
}

// Close is a no-op; keyring handles are not held open.
func (k *Keyring) Close() error {
	return nil
}
