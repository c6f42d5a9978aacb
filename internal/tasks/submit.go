package tasks

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/services"
	"github.com/desertthunder/moviehub/internal/shared"
)

// inFlight admits one caller at a time and rejects the rest instead of queueing them.
type inFlight struct {
	busy atomic.Bool
}

func (f *inFlight) begin() bool { return f.busy.CompareAndSwap(false, true) }
func (f *inFlight) end()        { f.busy.Store(false) }
func (f *inFlight) active() bool {
	return f.busy.Load()
}

// MovieSubmitter posts add-movie drafts.
//
// While one submission is running every other call fails fast with [shared.ErrSubmitInFlight],
// so a double-clicked form produces a single POST.
type MovieSubmitter struct {
	svc services.Service
	inFlight
}

func NewMovieSubmitter(svc services.Service) *MovieSubmitter {
	return &MovieSubmitter{svc: svc}
}

// Submitting reports whether a submission is in progress.
func (s *MovieSubmitter) Submitting() bool { return s.active() }

// Submit validates draft and, only if it is valid, sends exactly one create request.
// A validation failure is returned as [*models.ValidationError] and nothing is sent.
func (s *MovieSubmitter) Submit(ctx context.Context, draft models.MovieDraft) (*models.Movie, error) {
	if !s.begin() {
		return nil, shared.ErrSubmitInFlight
	}
	defer s.end()

	payload, err := draft.Payload()
	if err != nil {
		return nil, err
	}

	movie, err := s.svc.CreateMovie(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to add movie: %w", err)
	}
	return movie, nil
}

// SubmitReview posts draft and returns the movie detail reloaded from the API.
//
// It refuses to send anything while logged out. The check is client-side only; the API
// still decides whether the token is accepted.
func (e *MovieEngine) SubmitReview(ctx context.Context, draft models.ReviewDraft) (*Detail, error) {
	if !e.session.IsAuthenticated(ctx) {
		return nil, shared.ErrNotAuthenticated
	}

	payload, err := draft.Payload()
	if err != nil {
		return nil, err
	}

	if !e.reviewing.begin() {
		return nil, shared.ErrSubmitInFlight
	}
	defer e.reviewing.end()

	if _, err := e.svc.CreateReview(ctx, payload); err != nil {
		return nil, fmt.Errorf("failed to submit review: %w", err)
	}

	e.logger.Info("review submitted", "movie_id", payload.MovieID, "rating", payload.Rating)

	detail, err := e.LoadDetail(ctx, payload.MovieID)
	if err != nil {
		return nil, fmt.Errorf("review saved but reloading the movie failed: %w", err)
	}
	return detail, nil
}

// Login validates credentials, asks the API for a token and stores it.
// On any failure the stored token is left as it was.
func (e *MovieEngine) Login(ctx context.Context, credentials models.Credentials) error {
	if err := credentials.Validate(); err != nil {
		return err
	}

	token, err := e.svc.Login(ctx, credentials)
	if err != nil {
		return err
	}

	if err := e.session.Login(ctx, token.AccessToken); err != nil {
		return err
	}

	e.logger.Info("logged in", "username", credentials.Username)
	return nil
}

// Register validates the form and creates the account. It does not log in.
func (e *MovieEngine) Register(ctx context.Context, registration models.Registration) error {
	if err := registration.Validate(); err != nil {
		return err
	}
	if err := e.svc.Register(ctx, registration); err != nil {
		return fmt.Errorf("failed to register: %w", err)
	}
	e.logger.Info("registered", "username", registration.Username)
	return nil
}

// Logout clears the stored token.
func (e *MovieEngine) Logout(ctx context.Context) error {
	return e.session.Logout(ctx)
}
