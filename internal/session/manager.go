package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/moviehub/internal/shared"
	"golang.org/x/oauth2"
)

// Manager is the auth gate in front of a [Store].
//
// It caches nothing: every call reads the store, so a token written or removed by another
// process is seen on the next check.
type Manager struct {
	store Store
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Token returns the stored token, or "" when logged out.
func (m *Manager) Token(ctx context.Context) (string, error) {
	return m.store.Get(ctx)
}

// IsAuthenticated reports whether a non-empty token is stored. Read errors count as logged out.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	token, err := m.store.Get(ctx)
	return err == nil && token != ""
}

// Login stores token. An empty token is rejected with [shared.ErrEmptyToken] and the store is left alone.
func (m *Manager) Login(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return shared.ErrEmptyToken
	}
	if err := m.store.Set(ctx, token); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Logout removes the stored token.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// TokenSource returns an [oauth2.TokenSource] that reads the store on every call.
// It fails with [shared.ErrNotAuthenticated] when no token is stored. The source also has
// a TokenContext(ctx) method used by the API client to pass the request context.
func (m *Manager) TokenSource() oauth2.TokenSource {
	return storeTokenSource{manager: m}
}

type storeTokenSource struct {
	manager *Manager
}

func (s storeTokenSource) Token() (*oauth2.Token, error) {
	return s.TokenContext(context.Background())
}

// TokenContext reads the store with ctx, so a request's cancellation reaches the lookup.
func (s storeTokenSource) TokenContext(ctx context.Context) (*oauth2.Token, error) {
	token, err := s.manager.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}
