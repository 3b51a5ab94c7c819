package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	appconfig "github.com/HaiFongPan/hsq-cli/internal/config"
	"github.com/HaiFongPan/hsq-cli/internal/favourites"
	tuiconfig "github.com/HaiFongPan/hsq-cli/internal/tui/config"
	"github.com/HaiFongPan/hsq-cli/internal/tui/theme"
)

// FavouriteSource supplies the favourites lists
type FavouriteSource interface {
	Get(kind favourites.Kind) []appconfig.Favourite
}

// FavouritesKeyMap defines keybindings for the favourites picker
type FavouritesKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Next   key.Binding
	Close  key.Binding
}

// DefaultFavouritesKeyMap returns default keybindings
func DefaultFavouritesKeyMap() FavouritesKeyMap {
	return FavouritesKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next list"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "f", "q"),
			key.WithHelp("esc/f", "close"),
		),
	}
}

// ShortHelp returns the short help view
func (k FavouritesKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Next, k.Close}
}

// FullHelp returns the full help view
func (k FavouritesKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Select}, {k.Next, k.Close}}
}

// favouriteChosenMsg is emitted when a favourite is picked
type favouriteChosenMsg struct {
	kind favourites.Kind
	fav  appconfig.Favourite
}

// favouritesClosedMsg is emitted when the picker is dismissed
type favouritesClosedMsg struct{}

// FavouritesPickerModel lists one favourites kind at a time
type FavouritesPickerModel struct {
	source        FavouriteSource
	kind          favourites.Kind
	items         []appconfig.Favourite
	selectedIndex int
	keyMap        FavouritesKeyMap
	help          help.Model
}

// NewFavouritesPicker creates a picker opened on kind
func NewFavouritesPicker(source FavouriteSource, kind favourites.Kind) *FavouritesPickerModel {
	m := &FavouritesPickerModel{
		source: source,
		keyMap: DefaultFavouritesKeyMap(),
		help:   help.New(),
	}
	m.show(kind)
	return m
}

func (m *FavouritesPickerModel) show(kind favourites.Kind) {
	m.kind = kind
	m.items = m.source.Get(kind)
	m.selectedIndex = 0
}

// Kind returns the list currently shown
func (m *FavouritesPickerModel) Kind() favourites.Kind {
	return m.kind
}

// Update handles key presses while the picker is open
func (m *FavouritesPickerModel) Update(msg tea.Msg) (*FavouritesPickerModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keyMap.Up):
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case key.Matches(keyMsg, m.keyMap.Down):
		if m.selectedIndex < len(m.items)-1 {
			m.selectedIndex++
		}
	case key.Matches(keyMsg, m.keyMap.Next):
		m.show(nextKind(m.kind))
	case key.Matches(keyMsg, m.keyMap.Select):
		if len(m.items) == 0 {
			return m, nil
		}
		chosen := favouriteChosenMsg{kind: m.kind, fav: m.items[m.selectedIndex]}
		return m, func() tea.Msg { return chosen }
	case key.Matches(keyMsg, m.keyMap.Close):
		return m, func() tea.Msg { return favouritesClosedMsg{} }
	}
	return m, nil
}

func nextKind(k favourites.Kind) favourites.Kind {
	for i, kind := range favourites.Kinds {
		if kind == k {
			return favourites.Kinds[(i+1)%len(favourites.Kinds)]
		}
	}
	return favourites.File
}

// View renders the picker as a dialog
func (m *FavouritesPickerModel) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.ColorBrightYellow)).
		Render("⭐ Favourites")

	var tabs []string
	for _, kind := range favourites.Kinds {
		tabs = append(tabs, theme.CreateBreadcrumbStyle(kind == m.kind).Render(string(kind)))
	}

	var rows []string
	if len(m.items) == 0 {
		rows = append(rows, theme.CreateSecondaryTextStyle().Render("No favourites yet"))
	}
	for i, fav := range m.items {
		prefix := "  "
		if i == m.selectedIndex {
			prefix = "▶ "
		}
		line := fmt.Sprintf("%s%s  %s", prefix, fav.Name, theme.CreateSecondaryTextStyle().Render(fav.URI))
		rows = append(rows, theme.CreateListItemStyle(i == m.selectedIndex).Render(line))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		strings.Join(tabs, "  "),
		"",
		strings.Join(rows, "\n"),
		"",
		m.help.ShortHelpView(m.keyMap.ShortHelp()),
	)

	return theme.CreateDialogStyle(tuiconfig.DialogLargeWidth, theme.ColorBrightYellow).Render(content)
}
