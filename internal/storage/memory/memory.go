// Package memory provides a map-backed Store for tests and ephemeral runs.
package memory

import (
	"encoding/json"
	"strconv"
	"sync"

	"focusloop/internal/storage"
)

type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

func New() *Store {
	return &Store{values: make(map[string]string)}
}

var _ storage.Store = (*Store)(nil)

func (s *Store) LoadNumber(key string, fallback int) int {
	s.mu.RLock()
	raw, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func (s *Store) SaveNumber(key string, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = strconv.Itoa(value)
	return nil
}

func (s *Store) LoadJSON(key string, out any) bool {
	s.mu.RLock()
	raw, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(raw), out) == nil
}

func (s *Store) SaveJSON(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = string(raw)
	return nil
}

func (s *Store) Close() error { return nil }

// SetRaw seeds an arbitrary stored value, letting tests simulate corrupt
// or legacy data.
func (s *Store) SetRaw(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}
