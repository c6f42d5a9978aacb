// package formatter renders movie exports as CSV, Markdown, plain text and JSON files
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/shared"
)

// Stars renders a 1–5 rating as filled and empty stars. Out of range values are clamped.
func Stars(rating int) string {
	rating = max(0, min(rating, 5))
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

// MovieHeading is "Title (Year)", or just the title when the year is unknown.
func MovieHeading(m models.Movie) string {
	if m.Year == 0 {
		return m.Title
	}
	return fmt.Sprintf("%s (%d)", m.Title, m.Year)
}

// ExportToCSV converts a movie's reviews to CSV with columns: ID, Movie ID, Rating, Comment
func ExportToCSV(export *models.MovieExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Movie ID", "Rating", "Comment"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, review := range export.Reviews {
		record := []string{
			strconv.FormatInt(review.ID, 10),
			strconv.FormatInt(export.Movie.ID, 10),
			strconv.Itoa(review.Rating),
			review.Comment,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a movie and its reviews to a Markdown document
func ExportToMarkdown(export *models.MovieExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", MovieHeading(export.Movie))

	if export.Movie.Description != "" {
		fmt.Fprintf(&buf, "%s\n\n", export.Movie.Description)
	}

	fmt.Fprintf(&buf, "**Average rating**: %s\n", export.Average)
	fmt.Fprintf(&buf, "**Reviews**: %d\n\n", len(export.Reviews))

	buf.WriteString("## Reviews\n\n")
	if len(export.Reviews) == 0 {
		buf.WriteString("_No reviews yet._\n")
	}
	for i, review := range export.Reviews {
		fmt.Fprintf(&buf, "%d. %s (%d/5) %s\n", i+1, Stars(review.Rating), review.Rating, review.Comment)
	}

	return buf.Bytes(), nil
}

// ExportToText converts a movie and its reviews to plain text
func ExportToText(export *models.MovieExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Movie: %s\n", MovieHeading(export.Movie))
	if export.Movie.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", export.Movie.Description)
	}
	fmt.Fprintf(&buf, "Average: %s\n", export.Average)
	fmt.Fprintf(&buf, "Reviews: %d\n\n", len(export.Reviews))

	for i, review := range export.Reviews {
		fmt.Fprintf(&buf, "%d. [%d/5] %s\n", i+1, review.Rating, review.Comment)
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON generates a JSON representation of movie metadata (without reviews)
func ToMetadataJSON(movie models.Movie) ([]byte, error) {
	return shared.MarshalJSON(movie, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	ReviewsFile  string
	MetadataFile string
}

// WriteCSVExport writes {base}_reviews.csv and {base}_metadata.json.
//
// Defaults to the movie ID as the base filename.
func WriteCSVExport(export *models.MovieExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = strconv.FormatInt(export.Movie.ID, 10)
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	reviewsFile := baseFilepath + "_reviews.csv"
	if err := os.WriteFile(reviewsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export.Movie)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{ReviewsFile: reviewsFile, MetadataFile: metadataFile}, nil
}

// WriteMarkdownExport writes {dir}/README.md, creating dir (default: the movie ID).
func WriteMarkdownExport(export *models.MovieExport, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = strconv.FormatInt(export.Movie.ID, 10)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}
	return mdFile, nil
}

// WriteTextExport writes the plain text export. Defaults to {movie.ID}_reviews.txt.
func WriteTextExport(export *models.MovieExport, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%d_reviews.txt", export.Movie.ID)
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}
	return path, nil
}

// WriteJSONExport writes the full export as indented JSON. Defaults to {movie.ID}.json.
func WriteJSONExport(export *models.MovieExport, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%d.json", export.Movie.ID)
	}

	data, err := shared.MarshalJSON(export, true)
	if err != nil {
		return "", fmt.Errorf("JSON marshal failed: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("JSON write failed: %w", err)
	}
	return path, nil
}

// ManifestEntry records the outcome for one movie in a catalog export.
type ManifestEntry struct {
	MovieID int64    `json:"movie_id"`
	Title   string   `json:"title"`
	Status  string   `json:"status"`
	Files   []string `json:"files,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// ExportManifest summarizes a catalog export.
type ExportManifest struct {
	Format          string          `json:"format"`
	GeneratedAt     time.Time       `json:"generated_at"`
	OutputDirectory string          `json:"output_directory"`
	TotalMovies     int             `json:"total_movies"`
	Successful      int             `json:"successful_exports"`
	Failed          int             `json:"failed_exports"`
	Movies          []ManifestEntry `json:"movies"`
}

// WriteExportManifest writes manifest as indented JSON to path.
func WriteExportManifest(manifest ExportManifest, path string) error {
	if manifest.GeneratedAt.IsZero() {
		manifest.GeneratedAt = time.Now().UTC()
	}
	if manifest.Movies == nil {
		manifest.Movies = []ManifestEntry{}
	}

	data, err := shared.MarshalJSON(manifest, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
