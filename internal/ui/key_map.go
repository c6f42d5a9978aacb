package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	left     key.Binding
	right    key.Binding
	enter    key.Binding
	back     key.Binding
	search   key.Binding
	sort     key.Binding
	grid     key.Binding
	add      key.Binding
	review   key.Binding
	login    key.Binding
	register key.Binding
	logout   key.Binding
	refresh  key.Binding
	next     key.Binding
	prev     key.Binding
	submit   key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		grid:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "list/grid")),
		add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add movie")),
		review:   key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "write review")),
		login:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "login")),
		register: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "register")),
		logout:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "logout")),
		refresh:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
		next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
		submit:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.search, k.sort, k.grid, k.refresh},
		{k.add, k.review, k.login, k.register, k.logout},
		{k.next, k.prev, k.submit, k.quit},
	}
}
