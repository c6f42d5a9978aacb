package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/session"
	"github.com/desertthunder/moviehub/internal/shared"
	tu "github.com/desertthunder/moviehub/internal/testing"
)

func TestSync(t *testing.T) {
	ctx := context.Background()

	t.Run("stores movies and reviews", func(t *testing.T) {
		cache := newCache(t)
		engine := NewMovieEngine(exportService(), session.NewManager(session.NewMemoryStore()), cache, nil)

		result, err := engine.Sync(ctx, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Movies != 2 || result.Reviews != 2 {
			t.Errorf("unexpected result %+v", result)
		}

		movies, reviews, err := cache.Count(ctx)
		if err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if movies != 2 || reviews != 2 {
			t.Errorf("expected 2 movies and 2 reviews, got %d and %d", movies, reviews)
		}

		detail, err := engine.LoadCachedDetail(ctx, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if detail.AverageText() != "4.5" {
			t.Errorf("unexpected cached average %q", detail.AverageText())
		}
	})

	t.Run("failure keeps the previous snapshot", func(t *testing.T) {
		cache := newCache(t)
		old := []models.Movie{{ID: 99, Title: "Old", Year: 2000, Description: "Previously synced."}}
		if err := cache.ReplaceAll(ctx, old, nil); err != nil {
			t.Fatalf("failed to seed cache: %v", err)
		}

		svc := exportService()
		svc.ListReviewsFunc = func(ctx context.Context, id int64) ([]models.Review, error) {
			return nil, shared.ErrConnection
		}
		engine := NewMovieEngine(svc, session.NewManager(session.NewMemoryStore()), cache, nil)

		if _, err := engine.Sync(ctx, nil); !errors.Is(err, shared.ErrConnection) {
			t.Errorf("expected ErrConnection, got %v", err)
		}

		movies, err := cache.List(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(movies) != 1 || movies[0].ID != 99 {
			t.Errorf("snapshot was replaced: %+v", movies)
		}
	})

	t.Run("requires a cache", func(t *testing.T) {
		engine, _ := newEngine(t, &tu.MockService{})
		if _, err := engine.Sync(ctx, nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}
