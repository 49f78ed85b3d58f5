// Package client implements the storefront-side logic: the durable cart,
// the checkout flow and the admin dashboard flow, all talking to the
// commandes API over HTTP. State that the browser kept in ambient local
// storage lives behind an explicit Storage so it can be faked in tests.
package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage keys shared by the cart and the admin session.
const (
	CartKey  = "cart"
	TokenKey = "adminToken"
)

// Storage is durable client-side key/value storage.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Clear(key string) error
}

// FileStorage persists a JSON map to a single file. Every Set/Clear writes
// the whole map back, so state survives process restarts.
type FileStorage struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// NewFileStorage loads (or initialises) storage at path. A missing or
// corrupt file yields empty storage, never an error: client state is
// best-effort by design.
func NewFileStorage(path string) *FileStorage {
	s := &FileStorage{path: path, values: map[string]string{}}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		s.values = map[string]string{}
	}
	return s
}

// DefaultStoragePath places the storage file under the user config dir.
func DefaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "maillots", "storage.json")
}

func (s *FileStorage) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]
	return v, ok
}

func (s *FileStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return s.flush()
}

func (s *FileStorage) Clear(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return s.flush()
}

func (s *FileStorage) flush() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: marshal: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("storage: write: %w", err)
	}
	return nil
}

// MemStorage is the in-memory Storage used in tests.
type MemStorage struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemStorage() *MemStorage {
	return &MemStorage{values: map[string]string{}}
}

func (s *MemStorage) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]
	return v, ok
}

func (s *MemStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

func (s *MemStorage) Clear(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}
