package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Store reads and writes the state file.
type Store struct {
	path string
}

// NewStore returns a store for the state file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the state file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads state from disk. A missing file yields a fresh empty state
// with no error. Unreadable or malformed content also yields a fresh
// state, along with the cause so the caller can log it; stale reminder
// history is never worth refusing to start over.
func (s *Store) Load() (*AppState, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return New(), fmt.Errorf("opening state file: %w", err)
	}
	defer f.Close()

	st := New()
	if err := json.NewDecoder(f).Decode(st); err != nil {
		return New(), fmt.Errorf("parsing state file: %w", err)
	}
	if st.TaskStates == nil {
		st.TaskStates = make(map[string]ReminderRecord)
	}
	return st, nil
}

// Save writes the state as indented JSON, creating the parent directory
// if needed.
func (s *Store) Save(st *AppState) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(st); err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	return nil
}
