package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/shared"
)

// MovieRepository holds the offline snapshot of the remote catalog.
//
// The snapshot is only ever replaced as a whole by [MovieRepository.ReplaceAll], so readers never
// observe a movie list from one sync mixed with reviews from another.
type MovieRepository struct {
	db *sql.DB
}

// NewMovieRepository creates a new MovieRepository with the given database connection
func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// ReplaceAll swaps the stored snapshot for movies and their reviews in one transaction.
// Reviews keyed by an id not present in movies are dropped.
func (r *MovieRepository) ReplaceAll(ctx context.Context, movies []models.Movie, reviews map[int64][]models.Review) error {
	now := time.Now()

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM reviews"); err != nil {
			return fmt.Errorf("failed to clear reviews: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM movies"); err != nil {
			return fmt.Errorf("failed to clear movies: %w", err)
		}

		movieStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO movies (id, title, year, description, synced_at)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare movie insert: %w", err)
		}
		defer movieStmt.Close()

		reviewStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO reviews (id, movie_id, rating, comment, synced_at)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare review insert: %w", err)
		}
		defer reviewStmt.Close()

		for _, m := range movies {
			if _, err := movieStmt.ExecContext(ctx, m.ID, m.Title, int(m.Year), m.Description, now); err != nil {
				return fmt.Errorf("failed to insert movie %d: %w", m.ID, err)
			}

			for _, rv := range reviews[m.ID] {
				if _, err := reviewStmt.ExecContext(ctx, rv.ID, m.ID, rv.Rating, rv.Comment, now); err != nil {
					return fmt.Errorf("failed to insert review %d for movie %d: %w", rv.ID, m.ID, err)
				}
			}
		}
		return nil
	})
}

// List returns every stored movie in id order.
func (r *MovieRepository) List(ctx context.Context) ([]models.Movie, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, title, year, description FROM movies ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	defer rows.Close()

	movies := []models.Movie{}
	for rows.Next() {
		var m models.Movie
		var year int
		if err := rows.Scan(&m.ID, &m.Title, &year, &m.Description); err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		m.Year = models.Year(year)
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// Get returns one stored movie or an error wrapping [shared.ErrMovieNotFound].
func (r *MovieRepository) Get(ctx context.Context, id int64) (*models.Movie, error) {
	var m models.Movie
	var year int
	err := r.db.QueryRowContext(ctx, "SELECT id, title, year, description FROM movies WHERE id = ?", id).
		Scan(&m.ID, &m.Title, &year, &m.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", shared.ErrMovieNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get movie %d: %w", id, err)
	}
	m.Year = models.Year(year)
	return &m, nil
}

// ListReviews returns the stored reviews for movieID in id order.
func (r *MovieRepository) ListReviews(ctx context.Context, movieID int64) ([]models.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, movie_id, rating, comment FROM reviews WHERE movie_id = ? ORDER BY id", movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(&rv.ID, &rv.MovieID, &rv.Rating, &rv.Comment); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

// Count reports how many movies and reviews the snapshot holds.
func (r *MovieRepository) Count(ctx context.Context) (movies, reviews int, err error) {
	err = r.db.QueryRowContext(ctx,
		"SELECT (SELECT COUNT(*) FROM movies), (SELECT COUNT(*) FROM reviews)").Scan(&movies, &reviews)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count snapshot: %w", err)
	}
	return movies, reviews, nil
}
