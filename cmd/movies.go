package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/moviehub/internal/formatter"
	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/shared"
	"github.com/desertthunder/moviehub/internal/tasks"
	"github.com/desertthunder/moviehub/internal/ui"
	"github.com/urfave/cli/v3"
)

const cliWidth = 100

// MoviesList fetches the catalog once and prints it filtered and sorted.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	sortName := cmd.String("sort")
	if sortName == "" {
		sortName = r.config.UI.Sort
	}
	order, err := tasks.ParseSortOrder(sortName)
	if err != nil {
		return err
	}

	modeName := cmd.String("mode")
	if modeName == "" {
		modeName = r.config.UI.DisplayMode
	}
	mode := ui.ParseDisplayMode(modeName)

	offline := cmd.Bool("offline")
	if offline {
		if _, err := r.openDatabase(ctx); err != nil {
			return err
		}
	}

	movies, err := r.engine.Browse(ctx, tasks.BrowseOptions{
		Search:  cmd.String("search"),
		Sort:    order,
		Offline: offline,
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(movies, true)
	}

	if len(movies) == 0 {
		return r.writePlain("No movies found.\n")
	}

	if mode == ui.GridMode {
		return r.writePlain("%s\n", ui.RenderGrid(movies, -1, cliWidth, 0))
	}

	for _, m := range movies {
		r.writePlain("#%-4d %s\n\n", m.ID, ui.Card{Movie: m, Mode: ui.ListMode, Width: cliWidth}.Render())
	}
	return r.writePlain("%d movies (sorted by %s)\n", len(movies), order.Label())
}

// MoviesShow prints one movie with its reviews and the average rating.
func (r *Runner) MoviesShow(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	var detail *tasks.Detail
	if cmd.Bool("offline") {
		if _, err := r.openDatabase(ctx); err != nil {
			return err
		}
		detail, err = r.engine.LoadCachedDetail(ctx, id)
	} else {
		detail, err = r.engine.LoadDetail(ctx, id)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(detail.Export(), true)
	}

	text, err := formatter.ExportToText(detail.Export())
	if err != nil {
		return err
	}
	return r.writePlain("%s", text)
}

// MoviesAdd validates the flags as an add-movie draft and submits it once.
func (r *Runner) MoviesAdd(ctx context.Context, cmd *cli.Command) error {
	if !r.session.IsAuthenticated(ctx) {
		return shared.ErrNotAuthenticated
	}

	draft := models.MovieDraft{
		Title:       cmd.String("title"),
		Year:        cmd.String("year"),
		Description: cmd.String("description"),
	}

	movie, err := r.engine.NewSubmitter().Submit(ctx, draft)
	if err != nil {
		return err
	}

	r.logger.Info("movie added", "id", movie.ID, "title", movie.Title)
	return r.writePlain("✓ Added #%d %s\n", movie.ID, formatter.MovieHeading(*movie))
}

// MoviesExport writes the whole catalog with reviews to disk.
func (r *Runner) MoviesExport(ctx context.Context, cmd *cli.Command) error {
	opts := tasks.ExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	}
	if opts.NumWorkers == 0 {
		opts.NumWorkers = r.config.Export.Workers
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = r.config.Export.RateLimit
	}
	if !tasks.ValidExportFormat(opts.Format) {
		return fmt.Errorf("%w: format must be json, csv, markdown or txt", shared.ErrInvalidArgument)
	}

	r.logger.Info("starting export", "format", opts.Format, "workers", opts.NumWorkers)

	progress := make(chan tasks.ProgressUpdate, 50)
	done := r.printProgress(progress)

	result, err := r.engine.Export(ctx, progress, opts)
	close(progress)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Movies:    %d/%d exported\n", result.Successful, result.TotalMovies)
	if result.Failed > 0 {
		r.writePlain("\nFailed %d movies:\n", result.Failed)
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  - #%d %s: %v\n", res.MovieID, res.Title, res.Error)
			}
		}
	}
	return r.writePlain("Manifest:  %s\n", result.ManifestPath)
}

// ReviewsAdd submits a review and prints the reloaded movie.
func (r *Runner) ReviewsAdd(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("movie-id"))
	if err != nil {
		return err
	}

	draft := models.ReviewDraft{
		MovieID: id,
		Rating:  cmd.Int("rating"),
		Comment: cmd.String("comment"),
	}

	detail, err := r.engine.SubmitReview(ctx, draft)
	if err != nil {
		return err
	}

	r.writePlain("✓ Review saved for %s\n", formatter.MovieHeading(detail.Movie))
	return r.writePlain("Average rating: %s (%d reviews)\n", detail.AverageText(), len(detail.Reviews))
}

// printProgress writes updates until progress is closed; the returned channel closes after the last write.
func (r *Runner) printProgress(progress <-chan tasks.ProgressUpdate) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			switch update.Phase {
			case tasks.FetchMovies:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.FetchReviews:
				r.writePlain("   %s\n", update.Message)
			case tasks.ExportMovies:
				r.writePlain("💾 %s\n", update.Message)
			case tasks.StoreSnapshot:
				r.writePlain("\n📝 %s\n", update.Message)
			}
		}
	}()
	return done
}

func parseID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: movie id must be a positive number, got %q", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}
