package client

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// tokenRecord is the on-disk shape of the persisted token slot.
type tokenRecord struct {
	Token   string    `json:"token"`
	SavedAt time.Time `json:"savedAt"`
}

var _ TokenStore = &FileTokenStore{}

// FileTokenStore keeps the bearer token in a JSON file, created with owner
// read/write permissions only.
type FileTokenStore struct {
	mu   sync.Mutex
	path string
}

// NewFileTokenStore creates the parent directory if needed and returns a
// store backed by the given file path.
func NewFileTokenStore(path string) (*FileTokenStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create token directory")
	}
	return &FileTokenStore{path: path}, nil
}

func (s *FileTokenStore) Load(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read token file")
	}

	var rec tokenRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		// A corrupt slot is treated as empty; the next Save rewrites it.
		return "", nil
	}

	return rec.Token, nil
}

func (s *FileTokenStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.Marshal(tokenRecord{Token: token, SavedAt: time.Now()})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode token record")
	}

	if err := os.WriteFile(s.path, b, 0o600); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to write token file")
	}

	return nil
}

func (s *FileTokenStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to remove token file")
	}

	return nil
}

var _ TokenStore = &MemoryTokenStore{}

// MemoryTokenStore holds the token in memory only. Useful for tests and for
// embedders that manage persistence themselves.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func (s *MemoryTokenStore) Load(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
