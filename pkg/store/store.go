// Package store implements a JSON-file key/value store with an explicit
// load/save/close lifecycle, used for user profiles and conversation
// memory. Passed by reference into components, never ambient state.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store is the persistence contract the pipeline's collaborators use.
type Store interface {
	Get(key string, out any) (bool, error)
	Set(key string, value any) error
	Save() error
	Close() error
}

// FileStore keeps values as raw JSON in memory and persists them to a
// single file. Safe for concurrent use.
type FileStore struct {
	mu sync.RWMutex

	path   string
	values map[string]json.RawMessage
	dirty  bool
}

// Open creates a file store at path and loads any existing contents.
func Open(path string) (*FileStore, error) {
	s := &FileStore{
		path:   path,
		values: make(map[string]json.RawMessage),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading store file: %w", err)
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("parsing store file: %w", err)
	}
	return s, nil
}

// Get unmarshals the value for key into out, reporting whether it existed.
func (s *FileStore) Get(key string, out any) (bool, error) {
	s.mu.RLock()
	raw, ok := s.values[key]
	s.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("decoding value for %q: %w", key, err)
	}
	return true, nil
}

// Set stores a value for key.
func (s *FileStore) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding value for %q: %w", key, err)
	}

	s.mu.Lock()
	s.values[key] = raw
	s.dirty = true
	s.mu.Unlock()
	return nil
}

// Save writes the store to disk if anything changed.
func (s *FileStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// Close saves and releases the store.
func (s *FileStore) Close() error {
	return s.Save()
}
