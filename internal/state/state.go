// Package state persists per-book reading progress between sessions.
// Books are keyed by content hash, so renamed or moved files keep their
// place; progress is stored as a fraction of the word stream so it
// survives retokenization.
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
)

const (
	stateFileName = "progress.json"
	hashBytes     = 8192 // First 8KB for content hash
)

// BookState stores reading state for a single book.
type BookState struct {
	Progress float64 `json:"progress"`
	WPM      int     `json:"wpm,omitempty"`
}

// Store manages persistent reading state.
type Store struct {
	path string
	data map[string]BookState
	mu   sync.RWMutex
}

// NewStore creates or loads state from XDG_STATE_HOME/skim/.
func NewStore() (*Store, error) {
	dir := getStateDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	store := &Store{
		path: filepath.Join(dir, stateFileName),
		data: make(map[string]BookState),
	}
	if err := store.load(); err != nil {
		// Non-fatal - start with empty state
		store.data = make(map[string]BookState)
	}
	return store, nil
}

// getStateDir returns XDG_STATE_HOME/skim or ~/.local/state/skim
func getStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "skim")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "skim")
}

// ComputeHash generates content hash for file identity
func ComputeHash(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, hashBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}

	hash := sha256.Sum256(buf[:n])
	return hex.EncodeToString(hash[:16]), nil // First 16 bytes = 32 hex chars
}

// Get returns the saved state for a book, if any.
func (s *Store) Get(hash string) (BookState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.data[hash]
	return st, ok
}

// Set saves the state for a book.
func (s *Store) Set(hash string, st BookState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.Progress < 0 {
		st.Progress = 0
	}
	if st.Progress > 1 {
		st.Progress = 1
	}
	s.data[hash] = st
	return s.save()
}

// Clear removes saved state for a book.
func (s *Store) Clear(hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, hash)
	return s.save()
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &s.data)
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
