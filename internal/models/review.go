package models

import "strings"

// Review is a rating and comment attached to one movie.
type Review struct {
	ID      int64  `json:"id"`
	MovieID int64  `json:"movie_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ReviewDraft is the review form. Rating 0 means the user has not picked one.
type ReviewDraft struct {
	MovieID int64  `json:"movie_id" validate:"required,gt=0"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,notblank"`
}

func (d ReviewDraft) Validate() error {
	return validateStruct(d)
}

// Payload validates the draft and returns it with the comment trimmed.
func (d ReviewDraft) Payload() (ReviewDraft, error) {
	if err := d.Validate(); err != nil {
		return ReviewDraft{}, err
	}
	d.Comment = strings.TrimSpace(d.Comment)
	return d, nil
}
