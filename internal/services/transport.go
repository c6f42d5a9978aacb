package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/desertthunder/moviehub/internal/shared"
	"golang.org/x/oauth2"
)

// bearerTransport attaches the session token when one is stored and passes requests through untouched otherwise.
type bearerTransport struct {
	source oauth2.TokenSource
	base   http.RoundTripper
}

// contextTokenSource is a token source whose lookup honors the request context.
type contextTokenSource interface {
	TokenContext(ctx context.Context) (*oauth2.Token, error)
}

func (t *bearerTransport) token(ctx context.Context) (*oauth2.Token, error) {
	if src, ok := t.source.(contextTokenSource); ok {
		return src.TokenContext(ctx)
	}
	return t.source.Token()
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.token(req.Context())
	if errors.Is(err, shared.ErrNotAuthenticated) {
		return t.base.RoundTrip(req)
	}
	if err != nil {
		if req.Body != nil {
			req.Body.Close()
		}
		return nil, err
	}

	authed := &oauth2.Transport{Source: oauth2.StaticTokenSource(token), Base: t.base}
	return authed.RoundTrip(req)
}

// NewHTTPClient returns a client that adds bearer auth from tokens (nil disables it) and applies timeout (0 disables it).
// base defaults to [http.DefaultTransport].
func NewHTTPClient(tokens oauth2.TokenSource, timeout time.Duration, base http.RoundTripper) *http.Client {
	if base == nil {
		base = http.DefaultTransport
	}

	transport := base
	if tokens != nil {
		transport = &bearerTransport{source: tokens, base: base}
	}

	return &http.Client{Transport: transport, Timeout: timeout}
}
