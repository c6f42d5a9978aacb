package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/session"
	"github.com/desertthunder/moviehub/internal/shared"
	"github.com/desertthunder/moviehub/internal/tasks"
	tu "github.com/desertthunder/moviehub/internal/testing"
)

var catalog = []models.Movie{
	{ID: 1, Title: "Heat", Year: 1995, Description: "A group of professional thieves."},
	{ID: 2, Title: "Alien", Year: 1979, Description: "In space no one can hear you scream."},
	{ID: 3, Title: "Up", Year: 2009, Description: "A house lifted by balloons."},
}

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keySave  = tea.KeyMsg{Type: tea.KeyCtrlS}
)

// awaitMsg runs cmd (and any batched commands) until one produces a [Msg].
func awaitMsg(t *testing.T, cmd tea.Cmd) Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}

	out := make(chan Msg, 8)
	var run func(tea.Cmd)
	run = func(c tea.Cmd) {
		go func() {
			switch v := c().(type) {
			case Msg:
				out <- v
			case tea.BatchMsg:
				for _, sub := range v {
					if sub != nil {
						run(sub)
					}
				}
			}
		}()
	}
	run(cmd)

	select {
	case msg := <-out:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return Msg{}
	}
}

func newTestModel(t *testing.T, svc *tu.MockService) (*Model, *session.Manager) {
	t.Helper()
	if svc.ListMoviesFunc == nil {
		svc.ListMoviesFunc = func(ctx context.Context) ([]models.Movie, error) { return catalog, nil }
	}

	mgr := session.NewManager(session.NewMemoryStore())
	engine := tasks.NewMovieEngine(svc, mgr, nil, nil)
	m := NewModel(context.Background(), engine, Options{})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.Update(awaitMsg(t, m.Init()))
	return m, mgr
}

func titles(movies []models.Movie) string {
	out := make([]string, len(movies))
	for i, m := range movies {
		out[i] = m.Title
	}
	return strings.Join(out, ",")
}

func TestListView(t *testing.T) {
	t.Run("loads and sorts by title", func(t *testing.T) {
		m, _ := newTestModel(t, &tu.MockService{})

		if m.State() != ListView {
			t.Fatalf("expected list view, got %v", m.State())
		}
		if got := titles(m.Shown()); got != "Alien,Heat,Up" {
			t.Errorf("unexpected order %s", got)
		}
		if !strings.Contains(m.View(), "Alien (1979)") {
			t.Error("expected movie card in view")
		}
	})

	t.Run("search filters locally", func(t *testing.T) {
		svc := &tu.MockService{}
		m, _ := newTestModel(t, svc)

		m.Update(keyRunes("/"))
		m.Update(keyRunes("balloon"))
		if got := titles(m.Shown()); got != "Up" {
			t.Errorf("expected only Up, got %s", got)
		}

		m.Update(keyEsc)
		if len(m.Shown()) != 3 {
			t.Errorf("expected search cleared, got %s", titles(m.Shown()))
		}
		if svc.Calls("ListMovies") != 1 {
			t.Errorf("search should not refetch, got %d fetches", svc.Calls("ListMovies"))
		}
	})

	t.Run("sort toggle", func(t *testing.T) {
		m, _ := newTestModel(t, &tu.MockService{})

		m.Update(keyRunes("s"))
		if got := titles(m.Shown()); got != "Up,Alien,Heat" {
			t.Errorf("expected newest first, got %s", got)
		}
		m.Update(keyRunes("s"))
		if got := titles(m.Shown()); got != "Alien,Heat,Up" {
			t.Errorf("expected title order, got %s", got)
		}
	})

	t.Run("grid toggle", func(t *testing.T) {
		m, _ := newTestModel(t, &tu.MockService{})

		m.Update(keyRunes("g"))
		if m.Mode() != GridMode {
			t.Fatal("expected grid mode")
		}
		if !strings.Contains(m.View(), "View: grid") {
			t.Error("expected grid label")
		}
		m.Update(keyRunes("g"))
		if m.Mode() != ListMode {
			t.Error("expected list mode")
		}
	})

	t.Run("load failure shows generic message", func(t *testing.T) {
		svc := &tu.MockService{ListMoviesFunc: func(ctx context.Context) ([]models.Movie, error) {
			return nil, shared.ErrConnection
		}}
		m, _ := newTestModel(t, svc)

		if !strings.Contains(m.View(), shared.MsgConnection) {
			t.Error("expected connection message")
		}
	})

	t.Run("enter opens detail", func(t *testing.T) {
		svc := &tu.MockService{
			GetMovieFunc: func(ctx context.Context, id int64) (*models.Movie, error) {
				return &catalog[1], nil
			},
			ListReviewsFunc: func(ctx context.Context, id int64) ([]models.Review, error) {
				return []models.Review{{ID: 1, MovieID: id, Rating: 4, Comment: "Tense"}, {ID: 2, MovieID: id, Rating: 5, Comment: "Classic"}}, nil
			},
		}
		m, _ := newTestModel(t, svc)

		_, cmd := m.Update(keyEnter)
		m.Update(awaitMsg(t, cmd))

		if m.State() != DetailView {
			t.Fatalf("expected detail view, got %v", m.State())
		}
		view := m.View()
		for _, want := range []string{"Alien (1979)", "Average rating: 4.5", "Tense", "Classic"} {
			if !strings.Contains(view, want) {
				t.Errorf("expected %q in detail view", want)
			}
		}

		m.Update(keyEsc)
		if m.State() != ListView {
			t.Error("esc should return to the list")
		}
	})
}

func TestHeader(t *testing.T) {
	m, mgr := newTestModel(t, &tu.MockService{})
	ctx := context.Background()

	if !strings.Contains(m.View(), "L login") || strings.Contains(m.View(), "o logout") {
		t.Error("expected logged out actions")
	}

	_ = mgr.Login(ctx, "tok")
	if !strings.Contains(m.View(), "o logout") || strings.Contains(m.View(), "L login") {
		t.Error("expected logged in actions without any message")
	}

	_ = mgr.Logout(ctx)
	if !strings.Contains(m.View(), "L login") {
		t.Error("expected logged out actions after token cleared")
	}
}

func TestAddMovieForm(t *testing.T) {
	t.Run("requires login", func(t *testing.T) {
		m, _ := newTestModel(t, &tu.MockService{})

		m.Update(keyRunes("a"))
		if m.State() != LoginView {
			t.Errorf("expected login view, got %v", m.State())
		}
	})

	t.Run("invalid draft shows errors without a request", func(t *testing.T) {
		svc := &tu.MockService{}
		m, mgr := newTestModel(t, svc)
		_ = mgr.Login(context.Background(), "tok")

		m.Update(keyRunes("a"))
		if m.State() != AddMovieView {
			t.Fatalf("expected add movie view, got %v", m.State())
		}

		m.addForm.set("year", "soon")
		m.addForm.set("description", "short")
		_, cmd := m.Update(keySave)
		if cmd != nil {
			t.Error("expected no command for an invalid draft")
		}

		view := m.View()
		for _, want := range []string{"Title is required", "Year must be a number", "Description must be at least 10 characters"} {
			if !strings.Contains(view, want) {
				t.Errorf("expected %q in view", want)
			}
		}
		if svc.Calls("CreateMovie") != 0 {
			t.Error("expected no request")
		}
	})

	t.Run("success clears the form and reloads", func(t *testing.T) {
		svc := &tu.MockService{}
		m, mgr := newTestModel(t, svc)
		_ = mgr.Login(context.Background(), "tok")
		m.Update(keyRunes("a"))

		m.addForm.set("title", "Arrival")
		m.addForm.set("year", "2016")
		m.addForm.set("description", "Linguists meet visitors.")

		_, cmd := m.Update(keySave)
		if !m.addForm.submitting {
			t.Fatal("expected form to be submitting")
		}
		if _, again := m.Update(keySave); again != nil {
			t.Error("second submit should be ignored while in flight")
		}

		_, reload := m.Update(awaitMsg(t, cmd))
		if m.State() != ListView {
			t.Errorf("expected list view, got %v", m.State())
		}
		if m.addForm.value("title") != "" || m.addForm.value("description") != "" {
			t.Error("expected form cleared")
		}
		if svc.Calls("CreateMovie") != 1 {
			t.Errorf("expected one request, got %d", svc.Calls("CreateMovie"))
		}

		m.Update(awaitMsg(t, reload))
		if svc.Calls("ListMovies") != 2 {
			t.Errorf("expected catalog reload, got %d fetches", svc.Calls("ListMovies"))
		}
	})

	t.Run("failure keeps input for retry", func(t *testing.T) {
		svc := &tu.MockService{CreateMovieFunc: func(ctx context.Context, nm models.NewMovie) (*models.Movie, error) {
			return nil, shared.ErrConnection
		}}
		m, mgr := newTestModel(t, svc)
		_ = mgr.Login(context.Background(), "tok")
		m.Update(keyRunes("a"))

		m.addForm.set("title", "Arrival")
		m.addForm.set("year", "2016")
		m.addForm.set("description", "Linguists meet visitors.")

		_, cmd := m.Update(keySave)
		m.Update(awaitMsg(t, cmd))

		if m.State() != AddMovieView {
			t.Errorf("expected to stay on the form, got %v", m.State())
		}
		if m.addForm.value("title") != "Arrival" {
			t.Error("expected input kept")
		}
		if m.addForm.submitting {
			t.Error("expected submission finished")
		}
		if !strings.Contains(m.View(), shared.MsgConnection) {
			t.Error("expected generic connection message")
		}
	})
}

func TestSessionViews(t *testing.T) {
	ctx := context.Background()

	fillLogin := func(m *Model) {
		m.loginForm.set("username", "ann")
		m.loginForm.set("email", "ann@example.com")
		m.loginForm.set("password", "pw")
	}

	t.Run("login success goes to the list", func(t *testing.T) {
		m, mgr := newTestModel(t, &tu.MockService{})

		m.Update(keyRunes("L"))
		fillLogin(m)
		_, cmd := m.Update(keySave)
		m.Update(awaitMsg(t, cmd))

		if m.State() != ListView {
			t.Errorf("expected list view, got %v", m.State())
		}
		if !mgr.IsAuthenticated(ctx) {
			t.Error("expected token stored")
		}
	})

	t.Run("login failure stays on the form", func(t *testing.T) {
		svc := &tu.MockService{LoginFunc: func(ctx context.Context, c models.Credentials) (*models.TokenResponse, error) {
			return nil, shared.ErrInvalidCredentials
		}}
		m, mgr := newTestModel(t, svc)

		m.Update(keyRunes("L"))
		fillLogin(m)
		_, cmd := m.Update(keySave)
		m.Update(awaitMsg(t, cmd))

		if m.State() != LoginView {
			t.Errorf("expected login view, got %v", m.State())
		}
		if !strings.Contains(m.View(), shared.MsgInvalidCredentials) {
			t.Error("expected invalid credentials message")
		}
		if mgr.IsAuthenticated(ctx) {
			t.Error("should not be authenticated")
		}
	})

	t.Run("register returns to login with username", func(t *testing.T) {
		m, mgr := newTestModel(t, &tu.MockService{})

		m.Update(keyRunes("R"))
		m.registerForm.set("username", "bob")
		m.registerForm.set("email", "bob@example.com")
		m.registerForm.set("password", "pw")
		_, cmd := m.Update(keySave)
		m.Update(awaitMsg(t, cmd))

		if m.State() != LoginView {
			t.Errorf("expected login view, got %v", m.State())
		}
		if m.loginForm.value("username") != "bob" {
			t.Error("expected username carried over")
		}
		if mgr.IsAuthenticated(ctx) {
			t.Error("register should not log in")
		}
	})

	t.Run("logout", func(t *testing.T) {
		m, mgr := newTestModel(t, &tu.MockService{})
		_ = mgr.Login(ctx, "tok")

		_, cmd := m.Update(keyRunes("o"))
		m.Update(awaitMsg(t, cmd))

		if m.State() != LoginView {
			t.Errorf("expected login view, got %v", m.State())
		}
		if mgr.IsAuthenticated(ctx) {
			t.Error("expected token cleared")
		}
	})
}

func TestReviewForm(t *testing.T) {
	ctx := context.Background()
	var stored []models.Review
	svc := &tu.MockService{
		GetMovieFunc: func(ctx context.Context, id int64) (*models.Movie, error) {
			return &catalog[1], nil
		},
		ListReviewsFunc: func(ctx context.Context, id int64) ([]models.Review, error) {
			return stored, nil
		},
		CreateReviewFunc: func(ctx context.Context, r models.ReviewDraft) (*models.Review, error) {
			rv := models.Review{ID: int64(len(stored) + 1), MovieID: r.MovieID, Rating: r.Rating, Comment: r.Comment}
			stored = append(stored, rv)
			return &rv, nil
		},
	}
	m, mgr := newTestModel(t, svc)

	_, cmd := m.Update(keyEnter)
	m.Update(awaitMsg(t, cmd))

	m.Update(keyRunes("w"))
	if m.State() != LoginView {
		t.Fatalf("expected login gate, got %v", m.State())
	}

	_ = mgr.Login(ctx, "tok")
	m.Update(keyEsc)
	_, cmd = m.Update(keyEnter)
	m.Update(awaitMsg(t, cmd))
	if m.State() != DetailView {
		t.Fatalf("expected detail view, got %v", m.State())
	}

	m.Update(keyRunes("w"))
	if m.State() != ReviewView {
		t.Fatalf("expected review view, got %v", m.State())
	}

	m.reviewForm.set("rating", "9")
	m.reviewForm.set("comment", "Great")
	if _, cmd := m.Update(keySave); cmd != nil {
		t.Error("out of range rating should not submit")
	}
	if !strings.Contains(m.View(), "Rating must be between 1 and 5") {
		t.Error("expected rating error")
	}

	m.reviewForm.set("rating", "4")
	_, cmd = m.Update(keySave)
	m.Update(awaitMsg(t, cmd))

	if m.State() != DetailView {
		t.Errorf("expected detail view, got %v", m.State())
	}
	if !strings.Contains(m.View(), "Average rating: 4.0") {
		t.Error("expected reloaded average")
	}
	if svc.Calls("CreateReview") != 1 {
		t.Errorf("expected one review request, got %d", svc.Calls("CreateReview"))
	}
}

func TestDisplayMode(t *testing.T) {
	if ParseDisplayMode("GRID") != GridMode || ParseDisplayMode("list") != ListMode || ParseDisplayMode("") != ListMode {
		t.Error("unexpected ParseDisplayMode result")
	}

	movie := catalog[0]
	list := Card{Movie: movie, Mode: ListMode, Width: 60}.Render()
	grid := Card{Movie: movie, Mode: GridMode}.Render()
	if !strings.Contains(list, "Heat (1995)") {
		t.Errorf("list card missing heading: %q", list)
	}
	if !strings.Contains(grid, "Heat") || !strings.Contains(grid, "1995") {
		t.Errorf("grid card missing fields: %q", grid)
	}
	if strings.Count(grid, "\n") <= strings.Count(list, "\n") {
		t.Error("grid card should be taller than a list row")
	}
}
