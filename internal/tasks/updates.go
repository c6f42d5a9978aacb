package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchMovies Phase = iota
	FetchReviews
	ExportMovies
	StoreSnapshot
)

func (p Phase) String() string {
	switch p {
	case FetchMovies:
		return "fetch_movies"
	case FetchReviews:
		return "fetch_reviews"
	case ExportMovies:
		return "export_movies"
	case StoreSnapshot:
		return "store_snapshot"
	default:
		return ""
	}
}

// sendProgress sends update without blocking; it is dropped when nobody is ready to receive.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func fetchMoviesUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: FetchMovies, Step: 0, Total: 1, Message: "Fetching movies..."}
}

func foundMoviesUpdate(count int) ProgressUpdate {
	return ProgressUpdate{Phase: FetchMovies, Step: 1, Total: 1, Message: fmt.Sprintf("Found %d movies", count)}
}

func fetchReviewsUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchReviews,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching reviews: %s", step, total, title),
	}
}

func exportCompletedUpdate(step, total int, title string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportMovies,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, title, filesCount),
	}
}

func exportFailedUpdate(step, total int, title string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportMovies,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, title, err),
	}
}

func storeSnapshotUpdate(movies, reviews int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   StoreSnapshot,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Stored %d movies and %d reviews", movies, reviews),
	}
}
