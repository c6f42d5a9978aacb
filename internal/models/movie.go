package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Year is a release year. The API has been seen to send it as a number or a numeric string.
type Year int

func (y *Year) UnmarshalJSON(data []byte) error {
	raw := string(bytes.TrimSpace(data))
	if raw == "null" {
		*y = 0
		return nil
	}

	raw = strings.TrimSpace(strings.Trim(raw, `"`))
	if raw == "" {
		*y = 0
		return nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid year %q", raw)
	}
	*y = Year(n)
	return nil
}

func (y Year) String() string {
	if y == 0 {
		return ""
	}
	return strconv.Itoa(int(y))
}

// Movie is a catalog entry as returned by the MovieHub API.
type Movie struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Year        Year   `json:"year"`
	Description string `json:"description"`
}

// UnmarshalJSON accepts "release_year" when "year" is absent.
func (m *Movie) UnmarshalJSON(data []byte) error {
	type movieAlias Movie
	var aux struct {
		movieAlias
		ReleaseYear *Year `json:"release_year"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*m = Movie(aux.movieAlias)
	if m.Year == 0 && aux.ReleaseYear != nil {
		m.Year = *aux.ReleaseYear
	}
	return nil
}

// MovieDraft holds the add-movie form fields exactly as typed.
type MovieDraft struct {
	Title       string `json:"title" validate:"required,notblank"`
	Year        string `json:"year" validate:"required,number"`
	Description string `json:"description" validate:"required,notblank,min=10"`
}

// NewMovie is the request body for creating a movie.
type NewMovie struct {
	Title       string `json:"title"`
	Year        int    `json:"year"`
	Description string `json:"description"`
}

// Validate checks the draft and returns a [*ValidationError] listing every failing field.
// Fields are trimmed before checking, so the length rule applies to the text that is posted.
func (d MovieDraft) Validate() error {
	return validateStruct(d.trimmed())
}

func (d MovieDraft) trimmed() MovieDraft {
	return MovieDraft{
		Title:       strings.TrimSpace(d.Title),
		Year:        strings.TrimSpace(d.Year),
		Description: strings.TrimSpace(d.Description),
	}
}

// Payload validates the draft and converts it to a request body.
func (d MovieDraft) Payload() (NewMovie, error) {
	d = d.trimmed()
	if err := validateStruct(d); err != nil {
		return NewMovie{}, err
	}

	year, err := strconv.Atoi(d.Year)
	if err != nil {
		return NewMovie{}, &ValidationError{Fields: []FieldError{{Field: "year", Message: "Year must be a number"}}}
	}

	return NewMovie{
		Title:       d.Title,
		Year:        year,
		Description: d.Description,
	}, nil
}

// MovieExport bundles a movie with its reviews and formatted average for export.
type MovieExport struct {
	Movie   Movie    `json:"movie"`
	Reviews []Review `json:"reviews"`
	Average string   `json:"average"`
}
