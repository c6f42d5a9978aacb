package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	shared.ConfigureDatabase(db, 1, 1)

	if err := shared.RunMigrations(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Get missing key", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		_, ok, err := repo.Get(ctx, "token")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Error("expected missing key")
		}
	})

	t.Run("Set then Get", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		if err := repo.Set(ctx, "token", "abc"); err != nil {
			t.Fatalf("failed to set value: %v", err)
		}
		value, ok, err := repo.Get(ctx, "token")
		if err != nil || !ok {
			t.Fatalf("expected stored value, ok=%v err=%v", ok, err)
		}
		if value != "abc" {
			t.Errorf("expected abc, got %q", value)
		}
	})

	t.Run("Set overwrites", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		_ = repo.Set(ctx, "token", "first")
		if err := repo.Set(ctx, "token", "second"); err != nil {
			t.Fatalf("failed to overwrite value: %v", err)
		}
		value, _, _ := repo.Get(ctx, "token")
		if value != "second" {
			t.Errorf("expected second, got %q", value)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		_ = repo.Set(ctx, "token", "abc")
		if err := repo.Delete(ctx, "token"); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if _, ok, _ := repo.Get(ctx, "token"); ok {
			t.Error("expected key to be gone")
		}
		if err := repo.Delete(ctx, "token"); err != nil {
			t.Errorf("deleting a missing key should succeed: %v", err)
		}
	})

	t.Run("closed database", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSessionRepository(db)
		db.Close()

		if _, _, err := repo.Get(ctx, "token"); err == nil {
			t.Error("expected error from closed database")
		}
		if err := repo.Set(ctx, "token", "x"); err == nil {
			t.Error("expected error from closed database")
		}
	})
}

func TestMovieRepository(t *testing.T) {
	ctx := context.Background()

	movies := []models.Movie{
		{ID: 2, Title: "Alien", Year: 1979, Description: "In space no one can hear you scream."},
		{ID: 1, Title: "Inception", Year: 2010, Description: "A heist inside dreams."},
	}
	reviews := map[int64][]models.Review{
		1: {{ID: 10, MovieID: 1, Rating: 5, Comment: "Mind bending"}, {ID: 11, MovieID: 1, Rating: 3, Comment: "Loud"}},
		2: {{ID: 12, MovieID: 2, Rating: 4, Comment: "Classic"}},
		9: {{ID: 13, MovieID: 9, Rating: 1, Comment: "Orphan"}},
	}

	t.Run("ReplaceAll and List", func(t *testing.T) {
		repo := NewMovieRepository(setupTestDB(t))

		if err := repo.ReplaceAll(ctx, movies, reviews); err != nil {
			t.Fatalf("failed to replace snapshot: %v", err)
		}

		got, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 movies, got %d", len(got))
		}
		if got[0].ID != 1 || got[1].ID != 2 {
			t.Errorf("expected id order, got %d,%d", got[0].ID, got[1].ID)
		}
		if got[1].Year != 1979 {
			t.Errorf("expected year 1979, got %d", got[1].Year)
		}

		m, r, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if m != 2 || r != 3 {
			t.Errorf("expected 2 movies and 3 reviews, got %d and %d", m, r)
		}
	})

	t.Run("ReplaceAll drops previous snapshot", func(t *testing.T) {
		repo := NewMovieRepository(setupTestDB(t))

		_ = repo.ReplaceAll(ctx, movies, reviews)
		if err := repo.ReplaceAll(ctx, movies[:1], nil); err != nil {
			t.Fatalf("failed to replace snapshot: %v", err)
		}

		m, r, _ := repo.Count(ctx)
		if m != 1 || r != 0 {
			t.Errorf("expected 1 movie and 0 reviews, got %d and %d", m, r)
		}
	})

	t.Run("ReplaceAll is atomic", func(t *testing.T) {
		repo := NewMovieRepository(setupTestDB(t))
		_ = repo.ReplaceAll(ctx, movies, reviews)

		bad := map[int64][]models.Review{1: {{ID: 20, MovieID: 1, Rating: 9, Comment: "out of range"}}}
		if err := repo.ReplaceAll(ctx, movies, bad); err == nil {
			t.Fatal("expected rating check to fail")
		}

		m, r, _ := repo.Count(ctx)
		if m != 2 || r != 3 {
			t.Errorf("expected previous snapshot intact, got %d movies and %d reviews", m, r)
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewMovieRepository(setupTestDB(t))
		_ = repo.ReplaceAll(ctx, movies, reviews)

		m, err := repo.Get(ctx, 1)
		if err != nil {
			t.Fatalf("failed to get movie: %v", err)
		}
		if m.Title != "Inception" {
			t.Errorf("expected Inception, got %q", m.Title)
		}

		_, err = repo.Get(ctx, 42)
		if !errors.Is(err, shared.ErrMovieNotFound) {
			t.Errorf("expected ErrMovieNotFound, got %v", err)
		}
	})

	t.Run("ListReviews", func(t *testing.T) {
		repo := NewMovieRepository(setupTestDB(t))
		_ = repo.ReplaceAll(ctx, movies, reviews)

		got, err := repo.ListReviews(ctx, 1)
		if err != nil {
			t.Fatalf("failed to list reviews: %v", err)
		}
		if len(got) != 2 || got[0].ID != 10 {
			t.Errorf("unexpected reviews %+v", got)
		}

		none, err := repo.ListReviews(ctx, 2000)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if none == nil || len(none) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", none)
		}
	})
}
