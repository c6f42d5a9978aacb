package tasks

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/services"
	"github.com/desertthunder/moviehub/internal/session"
	"github.com/desertthunder/moviehub/internal/shared"
)

// MovieCache stores the offline catalog snapshot. [repositories.MovieRepository] implements it.
type MovieCache interface {
	ReplaceAll(ctx context.Context, movies []models.Movie, reviews map[int64][]models.Review) error
	List(ctx context.Context) ([]models.Movie, error)
	Get(ctx context.Context, id int64) (*models.Movie, error)
	ListReviews(ctx context.Context, movieID int64) ([]models.Review, error)
}

// MovieEngine runs the client's flows against the API, the session and an optional cache.
type MovieEngine struct {
	svc     services.Service
	session *session.Manager
	cache   MovieCache
	logger  *log.Logger

	reviewing inFlight
}

// NewMovieEngine wires an engine. cache and logger may be nil.
func NewMovieEngine(svc services.Service, sess *session.Manager, cache MovieCache, logger *log.Logger) *MovieEngine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &MovieEngine{svc: svc, session: sess, cache: cache, logger: logger}
}

// Session exposes the auth gate so views can re-check it on every render.
func (e *MovieEngine) Session() *session.Manager { return e.session }

// NewSubmitter returns an add-movie submitter bound to the engine's service.
func (e *MovieEngine) NewSubmitter() *MovieSubmitter { return NewMovieSubmitter(e.svc) }

// BrowseOptions controls [MovieEngine.Browse].
type BrowseOptions struct {
	Search  string
	Sort    SortOrder
	Offline bool // read the local snapshot instead of the API
}

// Browse fetches the whole catalog once and applies the filter and sort locally.
func (e *MovieEngine) Browse(ctx context.Context, opts BrowseOptions) ([]models.Movie, error) {
	movies, err := e.fetchMovies(ctx, opts.Offline)
	if err != nil {
		return nil, err
	}
	return SortMovies(FilterMovies(movies, opts.Search), opts.Sort), nil
}

func (e *MovieEngine) fetchMovies(ctx context.Context, offline bool) ([]models.Movie, error) {
	if offline {
		if e.cache == nil {
			return nil, fmt.Errorf("%w: offline cache not configured", shared.ErrServiceUnavailable)
		}
		return e.cache.List(ctx)
	}
	if e.svc == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}
	return e.svc.ListMovies(ctx)
}

// Detail is a movie with its reviews and the aggregate computed from them.
type Detail struct {
	Movie   models.Movie
	Reviews []models.Review
	Average float64
	Rated   bool // false when there are no reviews
}

// AverageText is the one-decimal average or "N/A".
func (d *Detail) AverageText() string { return FormatAverage(d.Reviews) }

// Export bundles the detail for the formatters.
func (d *Detail) Export() *models.MovieExport {
	return &models.MovieExport{Movie: d.Movie, Reviews: d.Reviews, Average: d.AverageText()}
}

func newDetail(movie models.Movie, reviews []models.Review) *Detail {
	if reviews == nil {
		reviews = []models.Review{}
	}
	avg, ok := AverageRating(reviews)
	return &Detail{Movie: movie, Reviews: reviews, Average: avg, Rated: ok}
}

// LoadDetail requests the movie and its reviews concurrently and waits for both.
// Either failure fails the whole load; the average is recomputed from the fresh reviews.
func (e *MovieEngine) LoadDetail(ctx context.Context, id int64) (*Detail, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	var (
		movie   *models.Movie
		reviews []models.Review
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := e.svc.GetMovie(gctx, id)
		movie = m
		return err
	})
	g.Go(func() error {
		r, err := e.svc.ListReviews(gctx, id)
		reviews = r
		return err
	})

	if err := g.Wait(); err != nil {
		e.logger.Debug("detail load failed", "movie_id", id, "error", err)
		return nil, err
	}
	if movie == nil {
		return nil, fmt.Errorf("%w: %d", shared.ErrMovieNotFound, id)
	}
	return newDetail(*movie, reviews), nil
}

// LoadCachedDetail reads a movie and its reviews from the local snapshot.
func (e *MovieEngine) LoadCachedDetail(ctx context.Context, id int64) (*Detail, error) {
	if e.cache == nil {
		return nil, fmt.Errorf("%w: offline cache not configured", shared.ErrServiceUnavailable)
	}
	movie, err := e.cache.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := e.cache.ListReviews(ctx, id)
	if err != nil {
		return nil, err
	}
	return newDetail(*movie, reviews), nil
}
