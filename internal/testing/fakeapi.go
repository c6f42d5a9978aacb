package testing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/desertthunder/moviehub/internal/models"
)

// RecordedRequest captures the headers the client sent for one call.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	UserAgent     string
}

type fakeUser struct {
	username string
	email    string
	hash     []byte
}

// FakeAPI is an in-memory MovieHub server for tests.
//
// Mutating routes (POST /movies, POST /reviews) require a bearer token issued by /auth/login
// or [FakeAPI.IssueToken]. Passwords are stored as bcrypt hashes.
type FakeAPI struct {
	mu       sync.Mutex
	users    map[string]fakeUser
	tokens   map[string]string
	movies   map[int64]models.Movie
	reviews  map[int64][]models.Review
	nextID   int64
	requests []RecordedRequest
	failures map[string]int

	router chi.Router
}

// NewFakeAPI builds an empty fake with routes mounted.
func NewFakeAPI() *FakeAPI {
	f := &FakeAPI{
		users:    make(map[string]fakeUser),
		tokens:   make(map[string]string),
		movies:   make(map[int64]models.Movie),
		reviews:  make(map[int64][]models.Review),
		failures: make(map[string]int),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(f.recordRequest)

	r.Get("/health", f.handleHealth)
	r.Get("/docs", f.handleDocs)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", f.handleRegister)
		r.Post("/login", f.handleLogin)
	})
	r.Route("/movies", func(r chi.Router) {
		r.Get("/", f.handleListMovies)
		r.With(f.requireToken).Post("/", f.handleCreateMovie)
		r.Get("/{id}", f.handleGetMovie)
	})
	r.Route("/reviews", func(r chi.Router) {
		r.With(f.requireToken).Post("/", f.handleCreateReview)
		r.Get("/movie/{id}", f.handleListReviews)
	})

	f.router = r
	return f
}

// Handler exposes the router.
func (f *FakeAPI) Handler() http.Handler { return f.router }

// Start serves the fake on a local port until the test finishes.
func (f *FakeAPI) Start(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(f.router)
	t.Cleanup(srv.Close)
	return srv
}

// AddUser registers a user directly.
func (f *FakeAPI) AddUser(t *testing.T, username, email, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = fakeUser{username: username, email: email, hash: hash}
}

// IssueToken returns a token the fake will accept.
func (f *FakeAPI) IssueToken(username string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	token := uuid.NewString()
	f.tokens[token] = username
	return token
}

// SeedMovie stores m, assigning an id when m.ID is zero.
func (f *FakeAPI) SeedMovie(m models.Movie) models.Movie {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m.ID == 0 {
		f.nextID++
		m.ID = f.nextID
	} else if m.ID > f.nextID {
		f.nextID = m.ID
	}
	f.movies[m.ID] = m
	return m
}

// SeedReview attaches r to r.MovieID, assigning an id when r.ID is zero.
func (f *FakeAPI) SeedReview(r models.Review) models.Review {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == 0 {
		f.nextID++
		r.ID = f.nextID
	}
	f.reviews[r.MovieID] = append(f.reviews[r.MovieID], r)
	return r
}

// FailNext makes the next n requests to path answer with 500 and no body.
func (f *FakeAPI) FailNext(path string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[path] += n
}

// Requests returns a copy of every request received so far.
func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// RequestsTo counts recorded requests matching method and path.
func (f *FakeAPI) RequestsTo(method, path string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Movies returns the stored movies in id order.
func (f *FakeAPI) Movies() []models.Movie {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sortedMovies()
}

// Reviews returns the stored reviews for movieID.
func (f *FakeAPI) Reviews(movieID int64) []models.Review {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Review{}, f.reviews[movieID]...)
}

func (f *FakeAPI) sortedMovies() []models.Movie {
	out := make([]models.Movie, 0, len(f.movies))
	for _, m := range f.movies {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *FakeAPI) recordRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			UserAgent:     r.Header.Get("User-Agent"),
		})
		fail := f.failures[r.URL.Path] > 0
		if fail {
			f.failures[r.URL.Path]--
		}
		f.mu.Unlock()

		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		f.mu.Lock()
		_, known := f.tokens[token]
		f.mu.Unlock()

		if !ok || !known {
			writeFakeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeFakeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (f *FakeAPI) handleDocs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("<html><title>MovieHub API - Swagger UI</title></html>"))
}

func (f *FakeAPI) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.Registration
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeFakeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]string{{"msg": "field required"}},
		})
		return
	}

	f.mu.Lock()
	_, exists := f.users[req.Username]
	f.mu.Unlock()
	if exists {
		writeFakeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Username already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		writeFakeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "hash failed"})
		return
	}

	f.mu.Lock()
	f.users[req.Username] = fakeUser{username: req.Username, email: req.Email, hash: hash}
	f.mu.Unlock()

	writeFakeJSON(w, http.StatusCreated, map[string]string{"username": req.Username, "email": req.Email})
}

func (f *FakeAPI) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFakeJSON(w, http.StatusBadRequest, map[string]string{"message": "malformed body"})
		return
	}

	f.mu.Lock()
	user, ok := f.users[req.Username]
	f.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(user.hash, []byte(req.Password)) != nil {
		writeFakeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
		return
	}

	writeFakeJSON(w, http.StatusOK, models.TokenResponse{AccessToken: f.IssueToken(user.username), TokenType: "bearer"})
}

func (f *FakeAPI) handleListMovies(w http.ResponseWriter, r *http.Request) {
	writeFakeJSON(w, http.StatusOK, f.Movies())
}

func (f *FakeAPI) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeFakeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid id"})
		return
	}

	f.mu.Lock()
	m, ok := f.movies[id]
	f.mu.Unlock()

	if !ok {
		writeFakeJSON(w, http.StatusNotFound, map[string]string{"detail": "Movie not found"})
		return
	}
	writeFakeJSON(w, http.StatusOK, m)
}

func (f *FakeAPI) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	var req models.NewMovie
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		writeFakeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "title is required"})
		return
	}

	m := f.SeedMovie(models.Movie{Title: req.Title, Year: models.Year(req.Year), Description: req.Description})
	writeFakeJSON(w, http.StatusCreated, m)
}

func (f *FakeAPI) handleListReviews(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeFakeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid id"})
		return
	}
	writeFakeJSON(w, http.StatusOK, f.Reviews(id))
}

func (f *FakeAPI) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req models.ReviewDraft
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFakeJSON(w, http.StatusBadRequest, map[string]string{"message": "malformed body"})
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeFakeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "rating must be between 1 and 5"})
		return
	}

	f.mu.Lock()
	_, ok := f.movies[req.MovieID]
	f.mu.Unlock()
	if !ok {
		writeFakeJSON(w, http.StatusNotFound, map[string]string{"detail": "Movie not found"})
		return
	}

	rv := f.SeedReview(models.Review{MovieID: req.MovieID, Rating: req.Rating, Comment: req.Comment})
	writeFakeJSON(w, http.StatusCreated, rv)
}

func writeFakeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
