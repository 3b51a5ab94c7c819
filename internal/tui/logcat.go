package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/HaiFongPan/hsq-cli/internal/adb"
	"github.com/HaiFongPan/hsq-cli/internal/logcat"
	tuiconfig "github.com/HaiFongPan/hsq-cli/internal/tui/config"
	"github.com/HaiFongPan/hsq-cli/internal/tui/theme"
)

// LogcatKeyMap defines keybindings for the logcat viewer
type LogcatKeyMap struct {
	Toggle   key.Binding
	Priority key.Binding
	Search   key.Binding
	Clear    key.Binding
	Back     key.Binding
}

// DefaultLogcatKeyMap returns default keybindings
func DefaultLogcatKeyMap() LogcatKeyMap {
	return LogcatKeyMap{
		Toggle: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start/stop"),
		),
		Priority: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "priority"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "o"),
			key.WithHelp("esc/o", "back to files"),
		),
	}
}

// ShortHelp returns the short help view
func (k LogcatKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Priority, k.Search, k.Clear, k.Back}
}

// FullHelp returns the full help view
func (k LogcatKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Toggle, k.Priority}, {k.Search, k.Clear, k.Back}}
}

type logcatTickMsg struct{}

type logcatClosedMsg struct{}

// LogcatModel shows the newest log entries of the connected device
type LogcatModel struct {
	session   *logcat.Session
	priority  adb.Priority
	serial    string
	searching bool
	search    textinput.Model
	viewport  viewport.Model
	keyMap    LogcatKeyMap
	help      help.Model
	err       error
	width     int
	height    int
}

// NewLogcatModel creates a viewer over session starting at priority
func NewLogcatModel(session *logcat.Session, priority adb.Priority) *LogcatModel {
	ti := textinput.New()
	ti.Placeholder = "message or tag"
	ti.Prompt = "/ "

	return &LogcatModel{
		session:  session,
		priority: priority,
		search:   ti,
		viewport: viewport.New(80, tuiconfig.DefaultTableHeight),
		keyMap:   DefaultLogcatKeyMap(),
		help:     help.New(),
		width:    80,
		height:   tuiconfig.DefaultTableHeight,
	}
}

// SetSize resizes the log viewport
func (m *LogcatModel) SetSize(width, height int) {
	m.width, m.height = width, height
	m.viewport.Width = width - 4
	m.viewport.Height = max(3, height-tuiconfig.VerticalChrome)
	m.refresh()
}

// SetSerial selects the device a new stream reads from
func (m *LogcatModel) SetSerial(serial string) {
	m.serial = serial
}

// Running reports whether a stream is active
func (m *LogcatModel) Running() bool {
	return m.session.Running()
}

// Start begins streaming at the current priority
func (m *LogcatModel) Start(ctx context.Context) tea.Cmd {
	if m.serial == "" {
		m.err = fmt.Errorf("no device connected")
		return nil
	}

	m.err = nil
	opts := adb.LogcatOptions{Priority: m.priority}
	if err := m.session.Start(ctx, m.serial, opts, nil); err != nil {
		m.err = err
		return nil
	}
	m.refresh()
	return m.tick()
}

// Stop ends the stream
func (m *LogcatModel) Stop() {
	if err := m.session.Stop(); err != nil {
		m.err = err
	}
	m.refresh()
}

func (m *LogcatModel) tick() tea.Cmd {
	return tea.Tick(tuiconfig.LogcatRefreshEvery, func(time.Time) tea.Msg { return logcatTickMsg{} })
}

// Update handles keys and refresh ticks
func (m *LogcatModel) Update(ctx context.Context, msg tea.Msg) (*LogcatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case logcatTickMsg:
		m.refresh()
		if m.session.Running() {
			return m, m.tick()
		}
		if err := m.session.Wait(); err != nil {
			m.err = err
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}

		switch {
		case key.Matches(msg, m.keyMap.Toggle):
			if m.session.Running() {
				m.Stop()
				return m, nil
			}
			return m, m.Start(ctx)
		case key.Matches(msg, m.keyMap.Priority):
			m.priority = nextPriority(m.priority)
			if m.session.Running() {
				m.Stop()
				return m, m.Start(ctx)
			}
			return m, nil
		case key.Matches(msg, m.keyMap.Search):
			m.searching = true
			m.search.SetValue(m.session.Buffer().Search())
			return m, m.search.Focus()
		case key.Matches(msg, m.keyMap.Clear):
			m.session.Buffer().Reset()
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keyMap.Back):
			return m, func() tea.Msg { return logcatClosedMsg{} }
		}

		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *LogcatModel) updateSearch(msg tea.KeyMsg) (*LogcatModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.session.Buffer().SetSearch(strings.TrimSpace(m.search.Value()))
		m.session.Buffer().Reset()
		m.searching = false
		m.search.Blur()
		m.refresh()
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// nextPriority cycles through the priorities a stream can filter on
func nextPriority(p adb.Priority) adb.Priority {
	if p >= adb.PrioritySilent {
		return adb.PriorityVerbose
	}
	if p < adb.PriorityVerbose {
		return adb.PriorityVerbose
	}
	return p + 1
}

func (m *LogcatModel) refresh() {
	entries := m.session.Buffer().Entries()
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, formatLogEntry(e))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

func formatLogEntry(e adb.LogEntry) string {
	color := theme.ColorWhite
	switch {
	case e.Priority >= adb.PriorityError:
		color = theme.ColorBrightRed
	case e.Priority == adb.PriorityWarn:
		color = theme.ColorBrightYellow
	case e.Priority <= adb.PriorityDebug:
		color = theme.ColorBrightBlack
	}

	tag := e.Tag
	if len(tag) > tuiconfig.LogcatTagWidth {
		tag = tag[:tuiconfig.LogcatTagWidth]
	}
	line := fmt.Sprintf("%s %s %-*s %s", e.Date, e.Priority.Letter(), tuiconfig.LogcatTagWidth, tag, e.Message)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(line)
}

// View renders the viewer
func (m *LogcatModel) View() string {
	state := "stopped"
	if m.session.Running() {
		state = "streaming"
	}

	header := theme.CreateHeaderStyle().Render(fmt.Sprintf("📜 Logcat  %s  priority: %s  entries: %d",
		state, m.priority, m.session.Buffer().Len()))

	var filter string
	switch {
	case m.searching:
		filter = m.search.View()
	case m.session.Buffer().Search() != "":
		filter = theme.CreateSecondaryTextStyle().Render("filter: " + m.session.Buffer().Search())
	}

	body := theme.CreateUnifiedPanelStyle(m.width-2, m.viewport.Height).Render(m.viewport.View())

	var footer string
	if m.err != nil {
		footer = theme.CreateErrorStyle().Render(m.err.Error())
	} else {
		footer = theme.CreateFooterStyle().Render(m.help.ShortHelpView(m.keyMap.ShortHelp()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, filter, body, footer)
}
