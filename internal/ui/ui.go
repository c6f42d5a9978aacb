package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviehub/internal/formatter"
	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/shared"
	"github.com/desertthunder/moviehub/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ListView ViewState = iota
	DetailView
	AddMovieView
	LoginView
	RegisterView
	ReviewView
)

func (v ViewState) String() string {
	switch v {
	case ListView:
		return "list"
	case DetailView:
		return "detail"
	case AddMovieView:
		return "add-movie"
	case LoginView:
		return "login"
	case RegisterView:
		return "register"
	case ReviewView:
		return "review"
	default:
		return ""
	}
}

// Options configures the initial state of [NewModel].
type Options struct {
	Mode    DisplayMode
	Sort    tasks.SortOrder
	Offline bool
	Logger  *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	engine    *tasks.MovieEngine
	submitter *tasks.MovieSubmitter
	logger    *log.Logger
	view      ViewState
	width     int
	height    int
	help      help.Model
	keys      keyMap
	spinner   spinner.Model

	movies    []models.Movie
	shown     []models.Movie
	movieList list.Model
	search    textinput.Model
	searching bool
	sort      tasks.SortOrder
	mode      DisplayMode
	offline   bool
	loading   bool

	detail *tasks.Detail

	addForm      *form
	loginForm    *form
	registerForm *form
	reviewForm   *form

	status string
	err    error
}

// NewModel creates a new TUI model backed by engine.
func NewModel(ctx context.Context, engine *tasks.MovieEngine, opts Options) *Model {
	search := textinput.New()
	search.Placeholder = "Search title or description"
	search.Prompt = "/ "
	search.Width = 40

	ml := list.New(nil, cardDelegate{}, 0, 0)
	ml.Title = "Movies"
	ml.SetShowTitle(false)
	ml.SetFilteringEnabled(false)
	ml.SetShowHelp(false)
	ml.SetShowStatusBar(false)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.label))

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	if opts.Sort == "" {
		opts.Sort = tasks.SortTitle
	}

	return &Model{
		ctx:       ctx,
		engine:    engine,
		submitter: engine.NewSubmitter(),
		logger:    logger,
		view:      ListView,
		help:      help.New(),
		keys:      newKeyMap(),
		spinner:   sp,
		movieList: ml,
		search:    search,
		sort:      opts.Sort,
		mode:      opts.Mode,
		offline:   opts.Offline,
		loading:   true,

		addForm: newForm("Add a movie",
			newTextField("title", "Title", "The Matrix"),
			newTextField("year", "Year", "1999"),
			newAreaField("description", "Description", "At least 10 characters"),
		),
		loginForm: newForm("Log in",
			newTextField("username", "Username", ""),
			newTextField("email", "Email", ""),
			newPasswordField("password", "Password"),
		),
		registerForm: newForm("Create an account",
			newTextField("username", "Username", ""),
			newTextField("email", "Email", ""),
			newPasswordField("password", "Password"),
		),
		reviewForm: newForm("Write a review",
			newTextField("rating", "Rating (1-5)", "5"),
			newAreaField("comment", "Comment", "What did you think?"),
		),
	}
}

// State returns the current view.
func (m *Model) State() ViewState { return m.view }

// Mode returns the card layout.
func (m *Model) Mode() DisplayMode { return m.mode }

// Shown returns the movies currently listed after search and sort.
func (m *Model) Shown() []models.Movie { return m.shown }

// Init initializes the TUI by fetching the catalog.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadMovies())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.movieList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.view {
		case ListView:
			return m.handleListKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case AddMovieView, LoginView, RegisterView, ReviewView:
			return m.handleFormKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateComponents(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgMoviesLoaded:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.logger.Error("failed to load movies", "error", msg.err)
			return m, nil
		}
		m.err = nil
		m.movies, _ = msg.data.([]models.Movie)
		m.applyFilters()
		return m, nil

	case MsgDetailLoaded:
		m.loading = false
		if msg.err != nil {
			m.status = shared.UserMessage(msg.err)
			m.view = ListView
			return m, nil
		}
		m.detail, _ = msg.data.(*tasks.Detail)
		m.view = DetailView
		return m, nil

	case MsgMovieAdded:
		m.addForm.finish(msg.err)
		if msg.err != nil {
			m.logger.Warn("add movie failed", "error", msg.err)
			return m, nil
		}
		if movie, ok := msg.data.(*models.Movie); ok && movie != nil {
			m.status = fmt.Sprintf("Added %q", movie.Title)
		}
		m.view = ListView
		m.loading = true
		return m, m.loadMovies()

	case MsgReviewSubmitted:
		m.reviewForm.finish(msg.err)
		if detail, ok := msg.data.(*tasks.Detail); ok && detail != nil {
			m.detail = detail
		}
		if msg.err != nil {
			m.logger.Warn("review failed", "error", msg.err)
			return m, nil
		}
		m.status = "Review submitted"
		m.view = DetailView
		return m, nil

	case MsgLoggedIn:
		m.loginForm.finish(msg.err)
		if msg.err != nil {
			return m, nil
		}
		m.status = fmt.Sprintf("Logged in as %s", msg.data)
		m.view = ListView
		m.loading = true
		return m, m.loadMovies()

	case MsgRegistered:
		m.registerForm.finish(msg.err)
		if msg.err != nil {
			return m, nil
		}
		username, _ := msg.data.(string)
		m.loginForm.set("username", username)
		m.status = "Account created. Please log in."
		m.view = LoginView
		return m, nil

	case MsgLoggedOut:
		if msg.err != nil {
			m.status = shared.UserMessage(msg.err)
			return m, nil
		}
		m.detail = nil
		m.status = "Logged out"
		m.view = LoginView
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case ListView:
		body = m.renderList()
	case DetailView:
		body = m.renderDetail()
	case AddMovieView:
		body = m.addForm.view(m.spinner.View())
	case LoginView:
		body = m.loginForm.view(m.spinner.View())
	case RegisterView:
		body = m.registerForm.view(m.spinner.View())
	case ReviewView:
		body = m.renderReview()
	}

	parts := []string{m.renderHeader()}
	if m.status != "" {
		parts = append(parts, styles.ok.Render(m.status))
	}
	parts = append(parts, body, m.help.ShortHelpView(m.helpKeys()))
	return strings.Join(parts, "\n\n")
}

func (m *Model) authenticated() bool {
	return m.engine.Session().IsAuthenticated(m.ctx)
}

// renderHeader is the nav bar. Authentication is re-checked on every render.
func (m *Model) renderHeader() string {
	brand := styles.nav.Render("MovieHub")
	var actions []string
	if m.authenticated() {
		actions = []string{"a add movie", "o logout"}
		if m.view == DetailView {
			actions = []string{"w review", "a add movie", "o logout"}
		}
	} else {
		actions = []string{"L login", "R register"}
	}
	if m.offline {
		actions = append(actions, styles.warn.Render("offline"))
	}
	return brand + "  " + styles.help.Render(strings.Join(actions, " • "))
}

func (m *Model) helpKeys() []key.Binding {
	switch m.view {
	case ListView:
		if m.searching {
			return []key.Binding{m.keys.enter, m.keys.back}
		}
		return []key.Binding{m.keys.enter, m.keys.search, m.keys.sort, m.keys.grid, m.keys.refresh, m.keys.quit}
	case DetailView:
		return []key.Binding{m.keys.review, m.keys.back, m.keys.quit}
	default:
		return []key.Binding{m.keys.next, m.keys.submit, m.keys.back}
	}
}

func (m *Model) renderList() string {
	var b strings.Builder

	b.WriteString(m.search.View())
	fmt.Fprintf(&b, "\n%s", styles.help.Render(fmt.Sprintf("Sort: %s • View: %s • %d of %d movies",
		m.sort.Label(), m.mode, len(m.shown), len(m.movies))))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " Loading movies...")
	case m.err != nil:
		b.WriteString(styles.err.Render(shared.UserMessage(m.err)))
		b.WriteString("\n" + styles.help.Render("Press ctrl+r to retry"))
	case len(m.shown) == 0:
		b.WriteString(styles.help.Render("No movies found."))
	case m.mode == GridMode:
		b.WriteString(RenderGrid(m.shown, m.movieList.Index(), max(m.width-4, gridCardWidth), max(m.height-10, 5)))
	default:
		b.WriteString(m.movieList.View())
	}
	return b.String()
}

func (m *Model) renderDetail() string {
	if m.detail == nil {
		if m.err != nil {
			return styles.err.Render(shared.UserMessage(m.err))
		}
		return m.spinner.View() + " Loading..."
	}

	d := m.detail
	var b strings.Builder
	b.WriteString(styles.title.Render(formatter.MovieHeading(d.Movie)))
	b.WriteString("\n")
	if d.Movie.Description != "" {
		b.WriteString(d.Movie.Description + "\n\n")
	}
	fmt.Fprintf(&b, "%s %s\n", styles.label.Render("Average rating:"), d.AverageText())
	fmt.Fprintf(&b, "%s %d\n\n", styles.label.Render("Reviews:"), len(d.Reviews))

	if len(d.Reviews) == 0 {
		b.WriteString(styles.help.Render("No reviews yet."))
	}
	for _, r := range d.Reviews {
		fmt.Fprintf(&b, "%s %s\n", styles.stars.Render(formatter.Stars(r.Rating)), r.Comment)
	}
	return b.String()
}

func (m *Model) renderReview() string {
	var heading string
	if m.detail != nil {
		heading = styles.help.Render(formatter.MovieHeading(m.detail.Movie)) + "\n\n"
	}
	return heading + m.reviewForm.view(m.spinner.View())
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.Type {
		case tea.KeyEnter:
			m.searching = false
			m.search.Blur()
			return m, nil
		case tea.KeyEsc:
			m.searching = false
			m.search.Blur()
			m.search.SetValue("")
			m.applyFilters()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.applyFilters()
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.sort):
		m.sort = m.sort.Toggle()
		m.applyFilters()
		return m, nil
	case key.Matches(msg, m.keys.grid):
		m.mode = m.mode.Toggle()
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		m.loading = true
		m.err = nil
		return m, m.loadMovies()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.movieList.SelectedItem().(movieItem); ok {
			m.loading = true
			m.detail = nil
			return m, m.loadDetail(item.movie.ID)
		}
		return m, nil
	}

	if cmd, handled := m.handleNavKeys(msg); handled {
		return m, cmd
	}

	if m.mode == GridMode {
		m.moveGridCursor(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.movieList, cmd = m.movieList.Update(msg)
	return m, cmd
}

// moveGridCursor moves the selection through the grid and keeps the list index in sync.
func (m *Model) moveGridCursor(msg tea.KeyMsg) {
	if len(m.shown) == 0 {
		return
	}
	cols := max(1, max(m.width-4, gridCardWidth)/gridCardWidth)
	idx := m.movieList.Index()

	switch {
	case key.Matches(msg, m.keys.left):
		idx--
	case key.Matches(msg, m.keys.right):
		idx++
	case key.Matches(msg, m.keys.up):
		idx -= cols
	case key.Matches(msg, m.keys.down):
		idx += cols
	default:
		return
	}
	m.movieList.Select(max(0, min(idx, len(m.shown)-1)))
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ListView
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.review):
		if !m.authenticated() {
			m.status = shared.MsgNotAuthenticated
			return m, m.open(LoginView)
		}
		return m, m.open(ReviewView)
	}

	cmd, _ := m.handleNavKeys(msg)
	return m, cmd
}

// handleNavKeys covers the header actions shared by the list and detail views.
func (m *Model) handleNavKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.add):
		if !m.authenticated() {
			m.status = shared.MsgNotAuthenticated
			return m.open(LoginView), true
		}
		return m.open(AddMovieView), true
	case key.Matches(msg, m.keys.login):
		return m.open(LoginView), true
	case key.Matches(msg, m.keys.register):
		return m.open(RegisterView), true
	case key.Matches(msg, m.keys.logout):
		if !m.authenticated() {
			return nil, true
		}
		return m.logout(), true
	}
	return nil, false
}

func (m *Model) open(view ViewState) tea.Cmd {
	if view != LoginView {
		m.status = ""
	}
	m.view = view
	if f := m.activeForm(); f != nil {
		return f.focusAt(0)
	}
	return nil
}

func (m *Model) activeForm() *form {
	switch m.view {
	case AddMovieView:
		return m.addForm
	case LoginView:
		return m.loginForm
	case RegisterView:
		return m.registerForm
	case ReviewView:
		return m.reviewForm
	}
	return nil
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.activeForm()

	switch {
	case key.Matches(msg, m.keys.back):
		if m.view == ReviewView && m.detail != nil {
			m.view = DetailView
		} else {
			m.view = ListView
		}
		return m, nil
	case key.Matches(msg, m.keys.submit):
		return m, m.submit()
	case key.Matches(msg, m.keys.next):
		return m, f.next()
	case key.Matches(msg, m.keys.prev):
		return m, f.prev()
	case msg.Type == tea.KeyEnter && !f.focusedMultiline():
		if f.onLastField() {
			return m, m.submit()
		}
		return m, f.next()
	}

	if f.submitting {
		return m, nil
	}
	return m, f.update(msg)
}

// submit validates the active form locally and, only if valid, starts the request.
func (m *Model) submit() tea.Cmd {
	f := m.activeForm()
	if f == nil || f.submitting {
		return nil
	}

	var (
		err error
		run tea.Cmd
	)

	switch m.view {
	case AddMovieView:
		draft := models.MovieDraft{Title: f.value("title"), Year: f.value("year"), Description: f.value("description")}
		err = draft.Validate()
		run = m.addMovie(draft)

	case ReviewView:
		if m.detail == nil {
			return nil
		}
		rating, convErr := strconv.Atoi(strings.TrimSpace(f.value("rating")))
		if convErr != nil {
			rating = 0
		}
		draft := models.ReviewDraft{MovieID: m.detail.Movie.ID, Rating: rating, Comment: f.value("comment")}
		err = draft.Validate()
		run = m.submitReview(draft)

	case LoginView:
		creds := models.Credentials{Username: f.value("username"), Email: f.value("email"), Password: f.value("password")}
		err = creds.Validate()
		run = m.login(creds)

	case RegisterView:
		reg := models.Registration{Username: f.value("username"), Email: f.value("email"), Password: f.value("password")}
		err = reg.Validate()
		run = m.register(reg)
	}

	if err != nil {
		f.invalid(err)
		return nil
	}
	if !f.begin() {
		return nil
	}
	return tea.Batch(m.spinner.Tick, run)
}

func (m *Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ListView:
		if m.searching {
			m.search, cmd = m.search.Update(msg)
		} else {
			m.movieList, cmd = m.movieList.Update(msg)
		}
	case AddMovieView, LoginView, RegisterView, ReviewView:
		cmd = m.activeForm().update(msg)
	}
	return m, cmd
}

// applyFilters recomputes the shown movies from the fetched catalog.
func (m *Model) applyFilters() {
	m.shown = tasks.SortMovies(tasks.FilterMovies(m.movies, m.search.Value()), m.sort)
	m.movieList.SetItems(movieItems(m.shown))
	if m.movieList.Index() >= len(m.shown) {
		m.movieList.Select(max(0, len(m.shown)-1))
	}
}

func (m *Model) loadMovies() tea.Cmd {
	offline := m.offline
	return func() tea.Msg {
		movies, err := m.engine.Browse(m.ctx, tasks.BrowseOptions{Offline: offline})
		return moviesLoadedMsg(movies, err)
	}
}

func (m *Model) loadDetail(id int64) tea.Cmd {
	offline := m.offline
	return func() tea.Msg {
		var (
			detail *tasks.Detail
			err    error
		)
		if offline {
			detail, err = m.engine.LoadCachedDetail(m.ctx, id)
		} else {
			detail, err = m.engine.LoadDetail(m.ctx, id)
		}
		return detailLoadedMsg(detail, err)
	}
}

func (m *Model) addMovie(draft models.MovieDraft) tea.Cmd {
	return func() tea.Msg {
		movie, err := m.submitter.Submit(m.ctx, draft)
		return movieAddedMsg(movie, err)
	}
}

func (m *Model) submitReview(draft models.ReviewDraft) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.engine.SubmitReview(m.ctx, draft)
		if err != nil && !errors.Is(err, shared.ErrInvalidInput) {
			m.logger.Debug("review submission failed", "movie_id", draft.MovieID, "error", err)
		}
		return reviewSubmittedMsg(detail, err)
	}
}

func (m *Model) login(creds models.Credentials) tea.Cmd {
	return func() tea.Msg {
		return loggedInMsg(creds.Username, m.engine.Login(m.ctx, creds))
	}
}

func (m *Model) register(reg models.Registration) tea.Cmd {
	return func() tea.Msg {
		return registeredMsg(reg.Username, m.engine.Register(m.ctx, reg))
	}
}

func (m *Model) logout() tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg(m.engine.Logout(m.ctx))
	}
}
