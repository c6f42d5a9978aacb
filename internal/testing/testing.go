// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/moviehub/internal/models"
)

// MockService is a test double for [services.Service].
//
// Each method delegates to the matching Func field when set and otherwise returns an empty success.
// Calls are counted so tests can assert how often the remote API would have been hit.
type MockService struct {
	ListMoviesFunc   func(ctx context.Context) ([]models.Movie, error)
	GetMovieFunc     func(ctx context.Context, id int64) (*models.Movie, error)
	CreateMovieFunc  func(ctx context.Context, m models.NewMovie) (*models.Movie, error)
	ListReviewsFunc  func(ctx context.Context, movieID int64) ([]models.Review, error)
	CreateReviewFunc func(ctx context.Context, r models.ReviewDraft) (*models.Review, error)
	LoginFunc        func(ctx context.Context, c models.Credentials) (*models.TokenResponse, error)
	RegisterFunc     func(ctx context.Context, r models.Registration) error
	HealthFunc       func(ctx context.Context) error

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockService) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[name]++
}

// Calls returns how many times the named method was invoked.
func (m *MockService) Calls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *MockService) ListMovies(ctx context.Context) ([]models.Movie, error) {
	m.record("ListMovies")
	if m.ListMoviesFunc != nil {
		return m.ListMoviesFunc(ctx)
	}
	return []models.Movie{}, nil
}

func (m *MockService) GetMovie(ctx context.Context, id int64) (*models.Movie, error) {
	m.record("GetMovie")
	if m.GetMovieFunc != nil {
		return m.GetMovieFunc(ctx, id)
	}
	return &models.Movie{ID: id}, nil
}

func (m *MockService) CreateMovie(ctx context.Context, nm models.NewMovie) (*models.Movie, error) {
	m.record("CreateMovie")
	if m.CreateMovieFunc != nil {
		return m.CreateMovieFunc(ctx, nm)
	}
	return &models.Movie{ID: 1, Title: nm.Title, Year: models.Year(nm.Year), Description: nm.Description}, nil
}

func (m *MockService) ListReviews(ctx context.Context, movieID int64) ([]models.Review, error) {
	m.record("ListReviews")
	if m.ListReviewsFunc != nil {
		return m.ListReviewsFunc(ctx, movieID)
	}
	return []models.Review{}, nil
}

func (m *MockService) CreateReview(ctx context.Context, r models.ReviewDraft) (*models.Review, error) {
	m.record("CreateReview")
	if m.CreateReviewFunc != nil {
		return m.CreateReviewFunc(ctx, r)
	}
	return &models.Review{ID: 1, MovieID: r.MovieID, Rating: r.Rating, Comment: r.Comment}, nil
}

func (m *MockService) Login(ctx context.Context, c models.Credentials) (*models.TokenResponse, error) {
	m.record("Login")
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, c)
	}
	return &models.TokenResponse{AccessToken: "mock-token", TokenType: "bearer"}, nil
}

func (m *MockService) Register(ctx context.Context, r models.Registration) error {
	m.record("Register")
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, r)
	}
	return nil
}

func (m *MockService) Health(ctx context.Context) error {
	m.record("Health")
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
