package position

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Store persists per-symbol positions as a JSON snapshot file so a restart
// resumes the cycle where it stopped. A missing file or record is equivalent
// to Idle.
type Store struct {
	mu   sync.Mutex
	path string
	data map[string]Position
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path, data: make(map[string]Position)}
}

// Load reads the snapshot file. A missing file is not an error.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	data := make(map[string]Position)
	if err := json.Unmarshal(raw, &data); err != nil {
		return err
	}
	s.data = data
	return nil
}

// Get returns the tracked position for a symbol, Idle when absent.
func (s *Store) Get(symbol string) Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos, ok := s.data[symbol]
	if !ok {
		return New()
	}
	return pos
}

// Put records the position for a symbol and rewrites the snapshot file.
func (s *Store) Put(symbol string, pos Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[symbol] = pos
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o644)
}
