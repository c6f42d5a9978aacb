// package services defines interface Service for talking to the MovieHub HTTP API
package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/shared"
)

// Service is everything the client asks of the remote MovieHub API.
type Service interface {
	// ListMovies returns the full catalog.
	ListMovies(ctx context.Context) ([]models.Movie, error)

	// GetMovie returns one movie. A missing id yields an error wrapping [shared.ErrMovieNotFound].
	GetMovie(ctx context.Context, id int64) (*models.Movie, error)

	// CreateMovie posts a new movie with the session's bearer token.
	CreateMovie(ctx context.Context, movie models.NewMovie) (*models.Movie, error)

	// ListReviews returns every review of a movie.
	ListReviews(ctx context.Context, movieID int64) ([]models.Review, error)

	// CreateReview posts a review with the session's bearer token.
	CreateReview(ctx context.Context, review models.ReviewDraft) (*models.Review, error)

	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, credentials models.Credentials) (*models.TokenResponse, error)

	// Register creates an account. It does not log in.
	Register(ctx context.Context, registration models.Registration) error

	// Health reports whether the API answers its health check.
	Health(ctx context.Context) error
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	// Message is the server's "message" or "detail" text, possibly empty.
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%v: %s %s returned %d: %s", shared.ErrAPIRequest, e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%v: %s %s returned %d", shared.ErrAPIRequest, e.Method, e.Path, e.StatusCode)
}

func (e *APIError) Unwrap() error { return shared.ErrAPIRequest }

// LoginError is a login the API rejected. It matches both [shared.ErrInvalidCredentials]
// and the underlying [*APIError].
type LoginError struct {
	API *APIError
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("%v: %v", shared.ErrInvalidCredentials, e.API)
}

func (e *LoginError) Unwrap() []error { return []error{shared.ErrInvalidCredentials, e.API} }

// UserMessage implements [shared.UserFacing] with the server's text. Empty falls back
// to the generic invalid-credentials message.
func (e *LoginError) UserMessage() string { return e.API.Message }
