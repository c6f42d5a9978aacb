package tasks

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/shared"
)

const syncConcurrency = 4

// SyncResult counts what was stored.
type SyncResult struct {
	Movies  int
	Reviews int
}

// Sync replaces the offline snapshot with the current catalog and every movie's reviews.
// If any fetch fails the previous snapshot is kept.
func (e *MovieEngine) Sync(ctx context.Context, progress chan<- ProgressUpdate) (*SyncResult, error) {
	if e.cache == nil {
		return nil, fmt.Errorf("%w: offline cache not configured", shared.ErrServiceUnavailable)
	}
	if e.svc == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	sendProgress(progress, fetchMoviesUpdate())
	movies, err := e.svc.ListMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	sendProgress(progress, foundMoviesUpdate(len(movies)))

	var (
		mu      sync.Mutex
		done    int
		reviews = make(map[int64][]models.Review, len(movies))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(syncConcurrency)
	for _, movie := range movies {
		g.Go(func() error {
			rs, err := e.svc.ListReviews(gctx, movie.ID)
			if err != nil {
				return fmt.Errorf("failed to fetch reviews for movie %d: %w", movie.ID, err)
			}

			mu.Lock()
			reviews[movie.ID] = rs
			done++
			step := done
			mu.Unlock()

			sendProgress(progress, fetchReviewsUpdate(step, len(movies), movie.Title))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := e.cache.ReplaceAll(ctx, movies, reviews); err != nil {
		return nil, fmt.Errorf("failed to store snapshot: %w", err)
	}

	result := &SyncResult{Movies: len(movies)}
	for _, rs := range reviews {
		result.Reviews += len(rs)
	}
	sendProgress(progress, storeSnapshotUpdate(result.Movies, result.Reviews))
	e.logger.Info("cache synced", "movies", result.Movies, "reviews", result.Reviews)
	return result, nil
}
