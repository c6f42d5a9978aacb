package main

import (
	"context"

	"github.com/desertthunder/moviehub/internal/repositories"
	"github.com/desertthunder/moviehub/internal/tasks"
	"github.com/urfave/cli/v3"
)

// CacheSync replaces the offline snapshot with the current catalog and reviews.
func (r *Runner) CacheSync(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.openDatabase(ctx); err != nil {
		return err
	}

	r.logger.Info("syncing offline cache", "path", r.config.Database.Path)

	progress := make(chan tasks.ProgressUpdate, 50)
	done := r.printProgress(progress)

	result, err := r.engine.Sync(ctx, progress)
	close(progress)
	<-done

	if err != nil {
		return err
	}
	return r.writePlainln("✓ Cached %d movies and %d reviews in %s", result.Movies, result.Reviews, r.config.Database.Path)
}

// CacheStatus reports what the offline snapshot holds.
func (r *Runner) CacheStatus(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase(ctx)
	if err != nil {
		return err
	}

	movies, reviews, err := repositories.NewMovieRepository(db).Count(ctx)
	if err != nil {
		return err
	}

	r.writePlainHeader("Offline cache")
	r.writePlain("Database: %s\n", r.config.Database.Path)
	r.writePlain("Movies:   %d\n", movies)
	r.writePlain("Reviews:  %d\n", reviews)
	if movies == 0 {
		return r.writePlainln("Run 'moviehub cache sync' to populate the cache.")
	}
	return nil
}
