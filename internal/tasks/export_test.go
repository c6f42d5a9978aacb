package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/moviehub/internal/formatter"
	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/shared"
	tu "github.com/desertthunder/moviehub/internal/testing"
)

func exportService() *tu.MockService {
	return &tu.MockService{
		ListMoviesFunc: func(ctx context.Context) ([]models.Movie, error) {
			return []models.Movie{
				{ID: 1, Title: "Heat", Year: 1995, Description: "Cops and robbers."},
				{ID: 2, Title: "Alien", Year: 1979, Description: "In space."},
			}, nil
		},
		ListReviewsFunc: func(ctx context.Context, id int64) ([]models.Review, error) {
			if id == 1 {
				return []models.Review{{ID: 10, MovieID: 1, Rating: 5, Comment: "Great"}, {ID: 11, MovieID: 1, Rating: 4, Comment: "Good"}}, nil
			}
			return []models.Review{}, nil
		},
	}
}

func TestExport(t *testing.T) {
	ctx := context.Background()

	t.Run("writes each format", func(t *testing.T) {
		tests := []struct {
			format string
			files  []string
		}{
			{"json", []string{"1.json", "2.json"}},
			{"csv", []string{"1_reviews.csv", "1_metadata.json", "2_reviews.csv", "2_metadata.json"}},
			{"markdown", []string{"1/README.md", "2/README.md"}},
			{"txt", []string{"1_reviews.txt", "2_reviews.txt"}},
		}

		for _, tt := range tests {
			t.Run(tt.format, func(t *testing.T) {
				dir := filepath.Join(t.TempDir(), "out")
				engine, _ := newEngine(t, exportService())

				result, err := engine.Export(ctx, nil, ExportOpts{Format: tt.format, OutputDir: dir, NumWorkers: 2, RateLimit: 100})
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if result.TotalMovies != 2 || result.Successful != 2 || result.Failed != 0 {
					t.Errorf("unexpected counts %+v", result)
				}
				for _, f := range tt.files {
					tu.AssertFileExists(t, filepath.Join(dir, f))
				}
				tu.AssertFileExists(t, filepath.Join(dir, "export_manifest.json"))
			})
		}
	})

	t.Run("markdown content carries the average", func(t *testing.T) {
		dir := t.TempDir()
		engine, _ := newEngine(t, exportService())

		if _, err := engine.Export(ctx, nil, ExportOpts{Format: "markdown", OutputDir: dir, RateLimit: 100}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content := tu.MustReadFile(t, filepath.Join(dir, "1", "README.md"))
		if !strings.Contains(content, "**Average rating**: 4.5") {
			t.Errorf("missing average in %q", content)
		}
		empty := tu.MustReadFile(t, filepath.Join(dir, "2", "README.md"))
		if !strings.Contains(empty, "N/A") || !strings.Contains(empty, "_No reviews yet._") {
			t.Errorf("unexpected empty export %q", empty)
		}
	})

	t.Run("failed review fetch is recorded", func(t *testing.T) {
		dir := t.TempDir()
		svc := exportService()
		svc.ListReviewsFunc = func(ctx context.Context, id int64) ([]models.Review, error) {
			if id == 2 {
				return nil, shared.ErrConnection
			}
			return []models.Review{}, nil
		}
		engine, _ := newEngine(t, svc)

		result, err := engine.Export(ctx, nil, ExportOpts{OutputDir: dir, RateLimit: 100})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Successful != 1 || result.Failed != 1 {
			t.Errorf("unexpected counts %+v", result)
		}

		var manifest formatter.ExportManifest
		if err := json.Unmarshal([]byte(tu.MustReadFile(t, result.ManifestPath)), &manifest); err != nil {
			t.Fatalf("manifest is not valid JSON: %v", err)
		}
		if manifest.Format != "json" || manifest.Failed != 1 || len(manifest.Movies) != 2 {
			t.Errorf("unexpected manifest %+v", manifest)
		}
		for _, m := range manifest.Movies {
			if m.MovieID == 2 && (m.Status != "failed" || m.Error == "") {
				t.Errorf("expected failed entry, got %+v", m)
			}
		}
	})

	t.Run("progress updates", func(t *testing.T) {
		progress := make(chan ProgressUpdate, 32)
		engine, _ := newEngine(t, exportService())

		if _, err := engine.Export(ctx, progress, ExportOpts{OutputDir: t.TempDir(), RateLimit: 100}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		close(progress)

		phases := map[Phase]int{}
		for u := range progress {
			phases[u.Phase]++
		}
		if phases[FetchMovies] != 2 || phases[FetchReviews] != 2 || phases[ExportMovies] != 2 {
			t.Errorf("unexpected phases %v", phases)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		svc := exportService()
		engine, _ := newEngine(t, svc)

		if _, err := engine.Export(ctx, nil, ExportOpts{Format: "pdf", OutputDir: t.TempDir()}); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if svc.Calls("ListMovies") != 0 {
			t.Error("should not fetch with an invalid format")
		}
	})

	t.Run("list failure", func(t *testing.T) {
		svc := &tu.MockService{ListMoviesFunc: func(ctx context.Context) ([]models.Movie, error) {
			return nil, shared.ErrConnection
		}}
		engine, _ := newEngine(t, svc)

		if _, err := engine.Export(ctx, nil, ExportOpts{OutputDir: t.TempDir()}); !errors.Is(err, shared.ErrConnection) {
			t.Errorf("expected ErrConnection, got %v", err)
		}
	})
}

func TestValidExportFormat(t *testing.T) {
	for _, f := range []string{"json", "csv", "markdown", "txt"} {
		if !ValidExportFormat(f) {
			t.Errorf("%s should be valid", f)
		}
	}
	if ValidExportFormat("xml") {
		t.Error("xml should be invalid")
	}
}
