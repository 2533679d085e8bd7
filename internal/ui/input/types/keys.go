package types

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the key bindings of both modes. The mode handlers match
// against it and the help bar renders it.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Search   key.Binding
	LoadMore key.Binding
	Refresh  key.Binding
	Open     key.Binding
	Help     key.Binding
	Quit     key.Binding

	// search field
	Leave key.Binding
	Clear key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Top:      key.NewBinding(key.WithKeys("home"), key.WithHelp("gg", "top")),
		Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search by code")),
		LoadMore: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "load more")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "repeat search")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "order details")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Leave:    key.NewBinding(key.WithKeys("esc", "enter"), key.WithHelp("esc/enter", "leave search")),
		Clear:    key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "clear search")),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.LoadMore, k.Open, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Search, k.Refresh, k.Leave, k.Clear},
		{k.LoadMore, k.Open, k.Help, k.Quit},
	}
}

// SearchHelp is the help shown while the search field has focus
func (k KeyMap) SearchHelp() []key.Binding {
	return []key.Binding{k.Leave, k.Clear}
}
