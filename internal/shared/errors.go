package shared

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrNotAuthenticated   = fmt.Errorf("not authenticated")
	ErrEmptyToken         = fmt.Errorf("empty session token")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrConnection         = fmt.Errorf("connection error")
	ErrDecode             = fmt.Errorf("malformed response")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrMovieNotFound      = fmt.Errorf("movie not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrSubmitInFlight  = fmt.Errorf("a submission is already in progress")
)

// Generic messages shown to people instead of raw errors.
const (
	MsgConnection         = "Connection error with the server. Please try again."
	MsgInvalidCredentials = "Invalid credentials. Please check your details."
	MsgNotAuthenticated   = "You need to log in first."
	MsgSubmitInFlight     = "Please wait, the previous request is still running."
	MsgMovieNotFound      = "Movie not found."
)

// UserFacing is implemented by errors that carry their own display text.
type UserFacing interface {
	UserMessage() string
}

// UserMessage collapses err into the text a person should see.
//
// Errors implementing [UserFacing] (validation, rejected login) pass through; every
// other failure, server status text included, becomes [MsgConnection].
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var uf UserFacing
	if errors.As(err, &uf) {
		if msg := uf.UserMessage(); msg != "" {
			return msg
		}
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return MsgInvalidCredentials
	case errors.Is(err, ErrNotAuthenticated):
		return MsgNotAuthenticated
	case errors.Is(err, ErrSubmitInFlight):
		return MsgSubmitInFlight
	case errors.Is(err, ErrMovieNotFound):
		return MsgMovieNotFound
	default:
		return MsgConnection
	}
}
