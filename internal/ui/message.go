package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
	err  error
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgMoviesLoaded MsgKind = iota
	MsgDetailLoaded
	MsgMovieAdded
	MsgReviewSubmitted
	MsgLoggedIn
	MsgRegistered
	MsgLoggedOut
)

// Kind reports which operation produced the message.
func (m Msg) Kind() MsgKind { return m.kind }

// Err is the operation's failure, if any.
func (m Msg) Err() error { return m.err }

// moviesLoadedMsg is the constructor for [MsgMoviesLoaded]
func moviesLoadedMsg(movies []models.Movie, err error) Msg {
	return Msg{kind: MsgMoviesLoaded, data: movies, err: err}
}

// detailLoadedMsg is the constructor for [MsgDetailLoaded]
func detailLoadedMsg(detail *tasks.Detail, err error) Msg {
	return Msg{kind: MsgDetailLoaded, data: detail, err: err}
}

// movieAddedMsg is the constructor for [MsgMovieAdded]
func movieAddedMsg(movie *models.Movie, err error) Msg {
	return Msg{kind: MsgMovieAdded, data: movie, err: err}
}

// reviewSubmittedMsg is the constructor for [MsgReviewSubmitted]
func reviewSubmittedMsg(detail *tasks.Detail, err error) Msg {
	return Msg{kind: MsgReviewSubmitted, data: detail, err: err}
}

// loggedInMsg is the constructor for [MsgLoggedIn]
func loggedInMsg(username string, err error) Msg {
	return Msg{kind: MsgLoggedIn, data: username, err: err}
}

// registeredMsg is the constructor for [MsgRegistered]
func registeredMsg(username string, err error) Msg {
	return Msg{kind: MsgRegistered, data: username, err: err}
}

// loggedOutMsg is the constructor for [MsgLoggedOut]
func loggedOutMsg(err error) Msg {
	return Msg{kind: MsgLoggedOut, err: err}
}
