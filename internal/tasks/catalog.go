package tasks

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/shared"
)

// SortOrder selects how the movie list is ordered.
type SortOrder string

const (
	// SortTitle orders by title ascending, ignoring case.
	SortTitle SortOrder = "title"
	// SortNewest orders by id descending; ids are assigned in creation order.
	SortNewest SortOrder = "newest"
)

// ParseSortOrder accepts "title" (also the empty string) or "newest".
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortTitle:
		return SortTitle, nil
	case SortNewest:
		return SortNewest, nil
	default:
		return "", fmt.Errorf("%w: unknown sort order %q (want title or newest)", shared.ErrInvalidArgument, s)
	}
}

// Toggle returns the other order.
func (o SortOrder) Toggle() SortOrder {
	if o == SortNewest {
		return SortTitle
	}
	return SortNewest
}

func (o SortOrder) Label() string {
	if o == SortNewest {
		return "Newest"
	}
	return "Title"
}

// FilterMovies keeps movies whose title or description contains term, ignoring case.
// The term is trimmed; a blank term keeps everything. The input is not modified.
func FilterMovies(movies []models.Movie, term string) []models.Movie {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]models.Movie, 0, len(movies))
	for _, m := range movies {
		if needle == "" ||
			strings.Contains(strings.ToLower(m.Title), needle) ||
			strings.Contains(strings.ToLower(m.Description), needle) {
			out = append(out, m)
		}
	}
	return out
}

// SortMovies returns a sorted copy of movies.
//
// Title order breaks ties on the raw title and then on id, so the result does not depend
// on the order the API happened to return.
func SortMovies(movies []models.Movie, order SortOrder) []models.Movie {
	out := make([]models.Movie, len(movies))
	copy(out, movies)

	switch order {
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	default:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := strings.ToLower(out[i].Title), strings.ToLower(out[j].Title)
			if a != b {
				return a < b
			}
			if out[i].Title != out[j].Title {
				return out[i].Title < out[j].Title
			}
			return out[i].ID < out[j].ID
		})
	}
	return out
}

// AverageRating returns the mean rating. ok is false when there are no reviews.
func AverageRating(reviews []models.Review) (avg float64, ok bool) {
	if len(reviews) == 0 {
		return 0, false
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews)), true
}

// FormatAverage renders the mean with one decimal ("4.0"), or "N/A" with no reviews.
func FormatAverage(reviews []models.Review) string {
	avg, ok := AverageRating(reviews)
	if !ok {
		return "N/A"
	}
	// Round half away from zero on the tenths digit.
	rounded := math.Round(avg*10) / 10
	return strconv.FormatFloat(rounded, 'f', 1, 64)
}
