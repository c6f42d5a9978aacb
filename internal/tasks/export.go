package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/desertthunder/moviehub/internal/formatter"
	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/shared"
)

// ExportOpts contains configuration for catalog exports.
type ExportOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Base output directory (default: moviehub_export_{epoch})
	NumWorkers int     // Concurrent file writers (default: 4, max: 10)
	RateLimit  float64 // Review requests per second (default: 5)
}

// MovieExportJob is one movie whose reviews have been fetched and is ready to be written.
type MovieExportJob struct {
	Export *models.MovieExport
}

// MovieExportResult is the outcome for one movie.
type MovieExportResult struct {
	MovieID int64
	Title   string
	Success bool
	Files   []string
	Error   error
}

// ExportResult summarizes a catalog export.
type ExportResult struct {
	TotalMovies     int
	Successful      int
	Failed          int
	OutputDirectory string
	ManifestPath    string
	Results         []MovieExportResult
}

// ValidExportFormat reports whether format is one [MovieEngine.Export] can write.
func ValidExportFormat(format string) bool {
	switch format {
	case "json", "csv", "markdown", "txt":
		return true
	}
	return false
}

// Export writes every movie in the catalog with its reviews.
//
// Review fetches are paced by a rate limiter; files are written by a pool of workers.
// Failures are recorded per movie and do not stop the export. A manifest summarizing the run
// is written to the output directory.
func (e *MovieEngine) Export(ctx context.Context, progress chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	if opts.Format == "" {
		opts.Format = "json"
	}
	if !ValidExportFormat(opts.Format) {
		return nil, fmt.Errorf("%w: unsupported export format %q", shared.ErrInvalidArgument, opts.Format)
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("moviehub_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	sendProgress(progress, fetchMoviesUpdate())
	movies, err := e.svc.ListMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	sendProgress(progress, foundMoviesUpdate(len(movies)))

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ExportResult{
		TotalMovies:     len(movies),
		OutputDirectory: opts.OutputDir,
		Results:         make([]MovieExportResult, 0, len(movies)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan MovieExportJob, len(movies))
	results := make(chan MovieExportResult, len(movies))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(jobs)
		for i, movie := range movies {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			sendProgress(progress, fetchReviewsUpdate(i+1, len(movies), movie.Title))
			reviews, err := e.svc.ListReviews(ctx, movie.ID)
			if err != nil {
				results <- MovieExportResult{
					MovieID: movie.ID,
					Title:   movie.Title,
					Error:   fmt.Errorf("failed to fetch reviews: %w", err),
				}
				continue
			}

			jobs <- MovieExportJob{Export: newDetail(movie, reviews).Export()}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.Successful++
			sendProgress(progress, exportCompletedUpdate(completed, len(movies), res.Title, len(res.Files)))
		} else {
			result.Failed++
			sendProgress(progress, exportFailedUpdate(completed, len(movies), res.Title, res.Error))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteExportManifest(result.manifest(opts.Format), manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	e.logger.Info("export finished", "dir", opts.OutputDir, "ok", result.Successful, "failed", result.Failed)
	return result, nil
}

func (r *ExportResult) manifest(format string) formatter.ExportManifest {
	m := formatter.ExportManifest{
		Format:          format,
		OutputDirectory: r.OutputDirectory,
		TotalMovies:     r.TotalMovies,
		Successful:      r.Successful,
		Failed:          r.Failed,
		Movies:          make([]formatter.ManifestEntry, 0, len(r.Results)),
	}
	for _, res := range r.Results {
		entry := formatter.ManifestEntry{MovieID: res.MovieID, Title: res.Title, Status: "success", Files: res.Files}
		if !res.Success {
			entry.Status = "failed"
			if res.Error != nil {
				entry.Error = res.Error.Error()
			}
		}
		m.Movies = append(m.Movies, entry)
	}
	return m
}

// exportWorker writes jobs until the channel closes or ctx is done.
func (e *MovieEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan MovieExportJob,
	results chan<- MovieExportResult,
	opts ExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}
		results <- writeMovieExport(job, opts)
	}
}

// writeMovieExport writes one movie in the configured format.
func writeMovieExport(j MovieExportJob, opts ExportOpts) MovieExportResult {
	movie := j.Export.Movie
	result := MovieExportResult{MovieID: movie.ID, Title: movie.Title, Files: []string{}}
	base := filepath.Join(opts.OutputDir, strconv.FormatInt(movie.ID, 10))

	switch opts.Format {
	case "csv":
		res, err := formatter.WriteCSVExport(j.Export, base)
		if err != nil {
			result.Error = fmt.Errorf("CSV export failed: %w", err)
			return result
		}
		result.Files = []string{res.ReviewsFile, res.MetadataFile}

	case "markdown":
		path, err := formatter.WriteMarkdownExport(j.Export, base)
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		result.Files = []string{path}

	case "txt":
		path, err := formatter.WriteTextExport(j.Export, base+"_reviews.txt")
		if err != nil {
			result.Error = fmt.Errorf("text export failed: %w", err)
			return result
		}
		result.Files = []string{path}

	default:
		path, err := formatter.WriteJSONExport(j.Export, base+".json")
		if err != nil {
			result.Error = fmt.Errorf("JSON export failed: %w", err)
			return result
		}
		result.Files = []string{path}
	}

	result.Success = true
	return result
}
