// Package statestore persists the supervisor's service registry to a JSON
// file so a second daemon instance can discover and reuse already-running
// backends.
package statestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"mcpd/pkg/logging"
)

// State is one service's entry in the persisted registry.
type State struct {
	State string `json:"state"`
	PID   int    `json:"pid,omitempty"`
	URL   string `json:"url,omitempty"`
}

const (
	StateStopped  = "stopped"
	StateStarting = "starting"
	StateReady    = "ready"
	StateError    = "error"
)

// Store guards reads and writes of the on-disk JSON map so concurrent
// transitions from multiple goroutines never interleave writes.
type Store struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the registry. A missing file is an empty registry, not an
// error. A file that fails to parse (e.g. a crashed write left it
// truncated) is treated as an empty registry too: warn and continue rather
// than fail startup over a corrupt coordination file.
func (s *Store) Load() (map[string]State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() (map[string]State, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]State{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var out map[string]State
	if err := json.Unmarshal(data, &out); err != nil {
		logging.Warn("StateStore", "state file %s failed to parse, treating as empty: %v", s.path, err)
		return map[string]State{}, nil
	}
	if out == nil {
		out = map[string]State{}
	}
	return out, nil
}

// Save writes the whole registry atomically: write to a temp file in the
// same directory, then rename over the target. This is the one place the
// daemon does cross-process coordination, so a half-written file (from a
// crash mid-flush) must never be observable by a concurrent reader.
func (s *Store) Save(all map[string]State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(all)
}

func (s *Store) saveLocked(all map[string]State) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".mcpd-state-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename temp state file into place: %w", err)
	}
	return nil
}

// Put updates a single service's entry and persists the whole map, holding
// the lock across the read-modify-write so concurrent Put calls serialize.
func (s *Store) Put(name string, entry State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadLocked()
	if err != nil {
		return err
	}
	all[name] = entry
	return s.saveLocked(all)
}

// Delete removes a single service's entry, if present.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadLocked()
	if err != nil {
		return err
	}
	if _, ok := all[name]; !ok {
		return nil
	}
	delete(all, name)
	return s.saveLocked(all)
}
