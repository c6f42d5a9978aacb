package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/shared"
)

var (
	_ list.Item         = movieItem{}
	_ list.ItemDelegate = cardDelegate{}
)

// DisplayMode selects how movie cards are laid out.
type DisplayMode int

const (
	ListMode DisplayMode = iota
	GridMode
)

func (d DisplayMode) String() string {
	if d == GridMode {
		return "grid"
	}
	return "list"
}

// Toggle switches between list and grid.
func (d DisplayMode) Toggle() DisplayMode {
	if d == GridMode {
		return ListMode
	}
	return GridMode
}

// ParseDisplayMode maps "list" and "grid"; anything else is list.
func ParseDisplayMode(s string) DisplayMode {
	if strings.EqualFold(strings.TrimSpace(s), "grid") {
		return GridMode
	}
	return ListMode
}

const gridCardWidth = 30

// Card renders one movie. The same card is used by the list delegate and the grid layout.
type Card struct {
	Movie    models.Movie
	Mode     DisplayMode
	Selected bool
	Width    int
}

func (c Card) Render() string {
	if c.Mode == GridMode {
		return c.renderGrid()
	}
	return c.renderList()
}

func (c Card) heading() string {
	if c.Movie.Year == 0 {
		return c.Movie.Title
	}
	return fmt.Sprintf("%s (%s)", c.Movie.Title, c.Movie.Year)
}

// renderList is two lines: heading and a one-line description.
func (c Card) renderList() string {
	width := c.Width
	if width <= 0 {
		width = 80
	}

	heading := shared.Truncate(c.heading(), width-2)
	desc := shared.Truncate(strings.Join(strings.Fields(c.Movie.Description), " "), width-2)

	if c.Selected {
		return styles.label.Render("▸ "+heading) + "\n  " + desc
	}
	return "  " + heading + "\n  " + styles.help.Render(desc)
}

// renderGrid is a bordered box of fixed width.
func (c Card) renderGrid() string {
	inner := gridCardWidth - 4
	title := shared.Truncate(c.Movie.Title, inner)
	year := c.Movie.Year.String()
	if year == "" {
		year = "—"
	}
	desc := shared.Truncate(strings.Join(strings.Fields(c.Movie.Description), " "), inner)

	style := styles.card
	if c.Selected {
		style = styles.selected
		title = styles.label.Render(title)
	}
	return style.Width(gridCardWidth - 2).Render(lipgloss.JoinVertical(lipgloss.Left, title, year, styles.help.Render(desc)))
}

// movieItem wraps [models.Movie] to implement [list.Item].
type movieItem struct {
	movie models.Movie
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string       { return i.movie.Title }
func (i movieItem) Description() string { return i.movie.Description }

func movieItems(movies []models.Movie) []list.Item {
	items := make([]list.Item, len(movies))
	for i, m := range movies {
		items[i] = movieItem{movie: m}
	}
	return items
}

// cardDelegate draws list rows with [Card] in list mode.
type cardDelegate struct{}

func (d cardDelegate) Height() int                             { return 2 }
func (d cardDelegate) Spacing() int                            { return 1 }
func (d cardDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d cardDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	mi, ok := item.(movieItem)
	if !ok {
		return
	}
	card := Card{Movie: mi.movie, Mode: ListMode, Selected: index == m.Index(), Width: m.Width()}
	fmt.Fprint(w, card.Render())
}

// RenderGrid lays cards out in rows that fit width, scrolled so the selected card is visible.
// A height of zero or less renders every row; selected may be -1 for no selection.
func RenderGrid(movies []models.Movie, selected, width, height int) string {
	if len(movies) == 0 {
		return ""
	}

	cols := max(1, width/gridCardWidth)
	cardHeight := 5
	visibleRows := (len(movies) + cols - 1) / cols
	if height > 0 {
		visibleRows = max(1, height/cardHeight)
	}

	selectedRow := selected / cols
	firstRow := max(0, selectedRow-visibleRows+1)

	var rows []string
	for r := firstRow; r < firstRow+visibleRows; r++ {
		start := r * cols
		if start >= len(movies) {
			break
		}
		end := min(start+cols, len(movies))

		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cards = append(cards, Card{Movie: movies[i], Mode: GridMode, Selected: i == selected}.Render())
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
