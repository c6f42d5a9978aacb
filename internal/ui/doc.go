// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI has one [Model] that switches between views:
//  1. [ListView] : Browse the catalog with search (/), sort (s) and a list/grid toggle (g)
//  2. [DetailView] : A movie with its reviews and average rating
//  3. [AddMovieView] : Add-movie form
//  4. [LoginView] and [RegisterView] : Session forms
//  5. [ReviewView] : Review form for the open movie
//
// The nav bar asks the session manager on every render whether a token is stored and shows
// the matching actions. Forms validate locally before sending, show a spinner while the
// request runs and refuse a second submit until it finishes.
//
// Results of background work arrive as [Msg] values produced by the engine commands.
package ui
