// MovieHub API [Service] implementation
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/shared"
)

const (
	DefaultBaseURL   = "http://localhost:8000"
	defaultUserAgent = "moviehub"
)

// MovieHubService implements [Service] against a MovieHub API base URL.
type MovieHubService struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *log.Logger
}

// Option configures a [MovieHubService].
type Option func(*MovieHubService)

// WithHTTPClient replaces the HTTP client. Use [NewHTTPClient] to keep bearer auth.
func WithHTTPClient(client *http.Client) Option {
	return func(s *MovieHubService) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithUserAgent sets the User-Agent as "moviehub/<version>".
func WithUserAgent(version string) Option {
	return func(s *MovieHubService) {
		if version != "" {
			s.userAgent = defaultUserAgent + "/" + version
		}
	}
}

// WithLogger sets the logger used for per-request debug lines.
func WithLogger(logger *log.Logger) Option {
	return func(s *MovieHubService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewMovieHubService creates a client for baseURL (default [DefaultBaseURL]).
// Without [WithHTTPClient] it uses an unauthenticated client with no timeout.
func NewMovieHubService(baseURL string, opts ...Option) *MovieHubService {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	s := &MovieHubService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  defaultUserAgent,
		httpClient: NewHTTPClient(nil, 0, nil),
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BaseURL returns the normalized API root.
func (s *MovieHubService) BaseURL() string { return s.baseURL }

// ListMovies calls GET /movies.
func (s *MovieHubService) ListMovies(ctx context.Context) ([]models.Movie, error) {
	var movies []models.Movie
	if err := s.doRequest(ctx, http.MethodGet, "/movies", nil, &movies); err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []models.Movie{}
	}
	return movies, nil
}

// GetMovie calls GET /movies/{id}. The API answers an unknown id with 404 or with a
// 200 null body; both yield [shared.ErrMovieNotFound].
func (s *MovieHubService) GetMovie(ctx context.Context, id int64) (*models.Movie, error) {
	var movie *models.Movie
	err := s.doRequest(ctx, http.MethodGet, fmt.Sprintf("/movies/%d", id), nil, &movie)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %w", shared.ErrMovieNotFound, err)
	}
	if err != nil {
		return nil, err
	}
	if movie == nil || movie.ID == 0 {
		return nil, fmt.Errorf("%w: %d", shared.ErrMovieNotFound, id)
	}
	return movie, nil
}

// CreateMovie calls POST /movies. When the server answers without a body the payload is echoed back with id 0.
func (s *MovieHubService) CreateMovie(ctx context.Context, movie models.NewMovie) (*models.Movie, error) {
	created := models.Movie{Title: movie.Title, Year: models.Year(movie.Year), Description: movie.Description}
	if err := s.doRequest(ctx, http.MethodPost, "/movies", movie, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListReviews calls GET /reviews/movie/{id}.
func (s *MovieHubService) ListReviews(ctx context.Context, movieID int64) ([]models.Review, error) {
	var reviews []models.Review
	if err := s.doRequest(ctx, http.MethodGet, fmt.Sprintf("/reviews/movie/%d", movieID), nil, &reviews); err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}

// CreateReview calls POST /reviews.
func (s *MovieHubService) CreateReview(ctx context.Context, review models.ReviewDraft) (*models.Review, error) {
	created := models.Review{MovieID: review.MovieID, Rating: review.Rating, Comment: review.Comment}
	if err := s.doRequest(ctx, http.MethodPost, "/reviews", review, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Login calls POST /auth/login. A rejected login yields a [*LoginError] carrying the
// server's message; a 2xx answer without access_token wraps [shared.ErrInvalidCredentials].
func (s *MovieHubService) Login(ctx context.Context, credentials models.Credentials) (*models.TokenResponse, error) {
	var token models.TokenResponse
	err := s.doRequest(ctx, http.MethodPost, "/auth/login", credentials, &token)

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return nil, &LoginError{API: apiErr}
	}
	if err != nil {
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: response carried no access token", shared.ErrInvalidCredentials)
	}
	return &token, nil
}

// Register calls POST /auth/register.
func (s *MovieHubService) Register(ctx context.Context, registration models.Registration) error {
	return s.doRequest(ctx, http.MethodPost, "/auth/register", registration, nil)
}

// Health calls GET /health and expects {"status": "healthy"}.
func (s *MovieHubService) Health(ctx context.Context) error {
	var status struct {
		Status string `json:"status"`
	}
	if err := s.doRequest(ctx, http.MethodGet, "/health", nil, &status); err != nil {
		return err
	}
	if status.Status != "healthy" {
		return fmt.Errorf("%w: status %q", shared.ErrServiceUnavailable, status.Status)
	}
	return nil
}

// doRequest sends one JSON request. result is decoded only when the response has a body.
func (s *MovieHubService) doRequest(ctx context.Context, method, endpoint string, payload, result any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := shared.GenerateID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Debug("request failed", "method", method, "path", endpoint, "request_id", requestID, "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", shared.ErrConnection, ctxErr)
		}
		return fmt.Errorf("%w: %v", shared.ErrConnection, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", shared.ErrConnection, err)
	}

	s.logger.Debug("request", "method", method, "path", endpoint, "status", resp.StatusCode,
		"request_id", requestID, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Method: method, Path: endpoint}
		var msg models.APIMessage
		if err := json.Unmarshal(data, &msg); err == nil {
			apiErr.Message = msg.Text()
		}
		return apiErr
	}

	if result == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("%w: %s %s: %v", shared.ErrDecode, method, endpoint, err)
	}
	return nil
}
