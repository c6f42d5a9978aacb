package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/desertthunder/moviehub/internal/repositories"
	"github.com/desertthunder/moviehub/internal/shared"
)

// TokenKey is the single key the token is stored under.
const TokenKey = "token"

// Store persists the session token. Get returns "" when no token is stored.
type Store interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// NewStore builds the store named by cfg.Backend. db is only used by the "database" backend.
func NewStore(cfg shared.SessionConfig, db *sql.DB) (Store, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileStore(cfg.Path)
	case "database", "db":
		if db == nil {
			return nil, fmt.Errorf("%w: database session backend needs an open database", shared.ErrInvalidConfig)
		}
		return NewDBStore(repositories.NewSessionRepository(db)), nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: unknown session backend %q", shared.ErrInvalidConfig, cfg.Backend)
	}
}

// MemoryStore keeps the token in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Get(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *MemoryStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	return s.Set(context.Background(), "")
}

type fileContents struct {
	Token string `json:"token"`
}

// FileStore keeps the token in a JSON file readable only by the owner.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore expands path (a leading "~" is the home directory) and returns a store for it.
// The file is not created until the first Set.
func NewFileStore(path string) (*FileStore, error) {
	expanded, err := shared.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	return &FileStore{path: expanded}, nil
}

// Path returns the expanded location of the session file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Get(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session file: %w", err)
	}

	var contents fileContents
	if err := json.Unmarshal(data, &contents); err != nil {
		return "", fmt.Errorf("failed to parse session file %s: %w", s.path, err)
	}
	return contents.Token, nil
}

func (s *FileStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.Marshal(fileContents{Token: token})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

func (s *FileStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// DBStore keeps the token in the session_values table.
type DBStore struct {
	repo *repositories.SessionRepository
}

func NewDBStore(repo *repositories.SessionRepository) *DBStore {
	return &DBStore{repo: repo}
}

func (s *DBStore) Get(ctx context.Context) (string, error) {
	token, _, err := s.repo.Get(ctx, TokenKey)
	return token, err
}

func (s *DBStore) Set(ctx context.Context, token string) error {
	return s.repo.Set(ctx, TokenKey, token)
}

func (s *DBStore) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, TokenKey)
}
