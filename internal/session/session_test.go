package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/moviehub/internal/shared"
	"golang.org/x/oauth2"
)

func openTestDB(t *testing.T) Store {
	t.Helper()

	db, err := shared.OpenDatabase(context.Background(), shared.DatabaseConfig{Path: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := NewStore(shared.SessionConfig{Backend: "database"}, db)
	if err != nil {
		t.Fatalf("failed to create database store: %v", err)
	}
	return store
}

func TestStores(t *testing.T) {
	ctx := context.Background()

	stores := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"file": func(t *testing.T) Store {
			s, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "session.json"))
			if err != nil {
				t.Fatalf("failed to create file store: %v", err)
			}
			return s
		},
		"database": openTestDB,
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			t.Run("empty by default", func(t *testing.T) {
				token, err := newStore(t).Get(ctx)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if token != "" {
					t.Errorf("expected empty token, got %q", token)
				}
			})

			t.Run("set get clear", func(t *testing.T) {
				s := newStore(t)
				if err := s.Set(ctx, "tok-1"); err != nil {
					t.Fatalf("failed to set: %v", err)
				}
				if token, _ := s.Get(ctx); token != "tok-1" {
					t.Errorf("expected tok-1, got %q", token)
				}
				if err := s.Set(ctx, "tok-2"); err != nil {
					t.Fatalf("failed to overwrite: %v", err)
				}
				if token, _ := s.Get(ctx); token != "tok-2" {
					t.Errorf("expected tok-2, got %q", token)
				}
				if err := s.Clear(ctx); err != nil {
					t.Fatalf("failed to clear: %v", err)
				}
				if token, _ := s.Get(ctx); token != "" {
					t.Errorf("expected empty token after clear, got %q", token)
				}
				if err := s.Clear(ctx); err != nil {
					t.Errorf("clearing twice should succeed: %v", err)
				}
			})
		})
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	t.Run("file is private", func(t *testing.T) {
		s, _ := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
		if err := s.Set(ctx, "secret"); err != nil {
			t.Fatalf("failed to set: %v", err)
		}

		info, err := os.Stat(s.Path())
		if err != nil {
			t.Fatalf("failed to stat session file: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("expected 0600, got %o", perm)
		}
	})

	t.Run("reads token written out of band", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		s, _ := NewFileStore(path)

		if err := os.WriteFile(path, []byte(`{"token":"external"}`), 0600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		if token, _ := s.Get(ctx); token != "external" {
			t.Errorf("expected external, got %q", token)
		}
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")
		_ = os.WriteFile(path, []byte("{not json"), 0600)

		s, _ := NewFileStore(path)
		if _, err := s.Get(ctx); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("blank path", func(t *testing.T) {
		if _, err := NewFileStore(""); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestNewStore(t *testing.T) {
	t.Run("unknown backend", func(t *testing.T) {
		_, err := NewStore(shared.SessionConfig{Backend: "redis"}, nil)
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("database backend without database", func(t *testing.T) {
		_, err := NewStore(shared.SessionConfig{Backend: "database"}, nil)
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("memory backend", func(t *testing.T) {
		s, err := NewStore(shared.SessionConfig{Backend: "memory"}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := s.(*MemoryStore); !ok {
			t.Errorf("expected *MemoryStore, got %T", s)
		}
	})
}

func TestManager(t *testing.T) {
	ctx := context.Background()

	t.Run("not authenticated without token", func(t *testing.T) {
		m := NewManager(NewMemoryStore())
		if m.IsAuthenticated(ctx) {
			t.Error("expected unauthenticated")
		}
	})

	t.Run("login then logout", func(t *testing.T) {
		m := NewManager(NewMemoryStore())

		if err := m.Login(ctx, "abc"); err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if !m.IsAuthenticated(ctx) {
			t.Error("expected authenticated after login")
		}

		if err := m.Logout(ctx); err != nil {
			t.Fatalf("logout failed: %v", err)
		}
		if m.IsAuthenticated(ctx) {
			t.Error("expected unauthenticated after logout")
		}
	})

	t.Run("empty token rejected", func(t *testing.T) {
		store := NewMemoryStore()
		_ = store.Set(ctx, "existing")
		m := NewManager(store)

		for _, token := range []string{"", "   "} {
			if err := m.Login(ctx, token); !errors.Is(err, shared.ErrEmptyToken) {
				t.Errorf("expected ErrEmptyToken for %q, got %v", token, err)
			}
		}
		if token, _ := store.Get(ctx); token != "existing" {
			t.Errorf("store should be untouched, got %q", token)
		}
	})

	t.Run("sees out of band changes", func(t *testing.T) {
		store := NewMemoryStore()
		m := NewManager(store)

		_ = store.Set(ctx, "elsewhere")
		if !m.IsAuthenticated(ctx) {
			t.Error("expected token set out of band to be seen")
		}
		_ = store.Clear(ctx)
		if m.IsAuthenticated(ctx) {
			t.Error("expected cleared token to be seen")
		}
	})

	t.Run("token source", func(t *testing.T) {
		store := NewMemoryStore()
		m := NewManager(store)
		src := m.TokenSource()

		if _, err := src.Token(); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}

		_ = m.Login(ctx, "bearer-1")
		tok, err := src.Token()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.AccessToken != "bearer-1" || tok.Type() != "Bearer" {
			t.Errorf("unexpected token %+v", tok)
		}
	})

	t.Run("token source honors context", func(t *testing.T) {
		m := NewManager(openTestDB(t))
		_ = m.Login(ctx, "bearer-2")

		src, ok := m.TokenSource().(interface {
			TokenContext(context.Context) (*oauth2.Token, error)
		})
		if !ok {
			t.Fatal("expected token source to accept a context")
		}

		canceled, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := src.TokenContext(canceled); err == nil {
			t.Error("expected canceled context to fail the lookup")
		}

		tok, err := src.TokenContext(ctx)
		if err != nil || tok.AccessToken != "bearer-2" {
			t.Errorf("unexpected token %v %v", tok, err)
		}
	})
}
