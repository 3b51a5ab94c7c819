package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/hsq-cli/internal/adb"
	"github.com/HaiFongPan/hsq-cli/internal/browser"
	appconfig "github.com/HaiFongPan/hsq-cli/internal/config"
	"github.com/HaiFongPan/hsq-cli/internal/favourites"
	"github.com/HaiFongPan/hsq-cli/internal/mirror"
	tuiconfig "github.com/HaiFongPan/hsq-cli/internal/tui/config"
	img "github.com/HaiFongPan/hsq-cli/internal/tui/image"
	"github.com/HaiFongPan/hsq-cli/internal/tui/messaging"
)

// copyToClipboard is swapped out in tests
var copyToClipboard = clipboard.WriteAll

// DeviceLister reports the devices the bridge can see
type DeviceLister interface {
	Devices(ctx context.Context) ([]adb.Device, error)
}

// CommandRunner runs a raw bridge command
type CommandRunner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// MirrorLauncher opens a screen mirror and blocks until it closes
type MirrorLauncher interface {
	Run(ctx context.Context, serial string) error
}

// PathStore persists the save location and last visited directory
type PathStore interface {
	SetSavePath(dir string) error
	SetLastPath(p string) error
}

// KeyMap defines keybindings for the file browser
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Home       key.Binding
	End        key.Binding
	Open       key.Binding
	Back       key.Binding
	Crumb      key.Binding
	Toggle     key.Binding
	Refresh    key.Binding
	Delete     key.Binding
	DeleteSel  key.Binding
	NewFolder  key.Binding
	Upload     key.Binding
	Download   key.Binding
	Media      key.Binding
	SaveTo     key.Binding
	Favourites key.Binding
	Copy       key.Binding
	Logcat     key.Binding
	Mirror     key.Binding
	Preview    key.Binding
	Reload     key.Binding
	Help       key.Binding
	Quit       key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
}

// DefaultKeyMap returns default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home/g", "go to start"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end/G", "go to end"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", "l", "right"),
			key.WithHelp("enter/l", "open folder / select file"),
		),
		Back: key.NewBinding(
			key.WithKeys("backspace", "h", "left"),
			key.WithHelp("backspace/h", "parent folder"),
		),
		Crumb: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "jump to breadcrumb"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "toggle selection"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "f5"),
			key.WithHelp("r/f5", "refresh"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete"),
		),
		DeleteSel: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "delete selected"),
		),
		NewFolder: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new folder"),
		),
		Upload: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "upload"),
		),
		Download: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "download"),
		),
		Media: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "download media"),
		),
		SaveTo: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "save location"),
		),
		Favourites: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "favourites"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy path"),
		),
		Logcat: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "logcat"),
		),
		Mirror: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "mirror screen"),
		),
		Preview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "preview photo"),
		),
		Reload: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "preview, skip cache"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yes"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "no"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Back, k.Toggle, k.Download, k.Upload, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		{k.Open, k.Back, k.Crumb, k.Refresh, k.Favourites},
		{k.Toggle, k.Download, k.Media, k.SaveTo, k.Upload},
		{k.NewFolder, k.Delete, k.DeleteSel, k.Copy, k.Preview, k.Reload},
		{k.Logcat, k.Mirror, k.Help, k.Quit},
	}
}

// promptKind names the text prompt currently open
type promptKind int

const (
	promptNone promptKind = iota
	promptMkdir
	promptUpload
	promptSaveTo
)

// Options wires the browser model to its collaborators. Only Browser is
// required; features whose collaborator is nil report that they are unavailable.
type Options struct {
	Browser      *browser.Browser
	Reporter     *Reporter
	Devices      DeviceLister
	Commands     CommandRunner
	Mirror       MirrorLauncher
	Logcat       *LogcatModel
	Favourites   FavouriteSource
	Previewer    Previewer
	Store        PathStore
	Serial       string
	PollInterval time.Duration
}

// FileBrowserModel represents the device file browser TUI model
type FileBrowserModel struct {
	opts     Options
	browser  *browser.Browser
	ctx      context.Context
	cancel   context.CancelFunc
	state    browser.State
	lastPath string

	busy        bool
	loading     bool
	loadingText string
	pollErr     string
	mirroring   bool

	showHelp      bool
	showLogcat    bool
	confirmDelete bool
	deleteTargets []browser.Entry
	deleteAll     bool

	prompt     promptKind
	input      textinput.Model
	favourites *FavouritesPickerModel

	preview       *ImagePreviewModel
	clearGraphics string

	windowWidth    int
	windowHeight   int
	viewportHeight int

	fileTable      table.Model
	keyMap         KeyMap
	help           help.Model
	spinner        spinner.Model
	helpViewport   viewport.Model
	messageManager messaging.StatusManager
	program        *tea.Program
}

// NewFileBrowserModel creates a new file browser model
func NewFileBrowserModel(opts Options) *FileBrowserModel {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 2 * time.Second
	}
	if opts.Reporter == nil {
		opts.Reporter = NewReporter()
	}

	t := table.New(
		table.WithColumns(tableColumns(tuiconfig.MaxColumnNameWidth)),
		table.WithHeight(tuiconfig.DefaultTableHeight),
		table.WithFocused(true),
		table.WithStyles(table.Styles{
			Header: lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("#00FFFF")).
				BorderBottom(true).
				Bold(true).
				Foreground(lipgloss.Color("#00FFFF")).
				Background(lipgloss.Color("#1a1a1a")),
			Selected: lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color("#4A90E2")).
				Bold(true),
			Cell: lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")),
		}),
	)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00"))

	h := help.New()
	h.ShowAll = false

	vp := viewport.New(60, 15)
	vp.Style = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#FFEB3B")).
		Padding(1, 2)

	ti := textinput.New()
	ti.CharLimit = 1024
	ti.Width = tuiconfig.PromptWidth - 8

	ctx, cancel := context.WithCancel(context.Background())

	m := &FileBrowserModel{
		opts:           opts,
		browser:        opts.Browser,
		ctx:            ctx,
		cancel:         cancel,
		windowWidth:    80,
		windowHeight:   24,
		viewportHeight: tuiconfig.DefaultTableHeight,
		input:          ti,
		fileTable:      t,
		keyMap:         DefaultKeyMap(),
		help:           h,
		spinner:        s,
		helpViewport:   vp,
		messageManager: messaging.NewStatusManager(tuiconfig.StatusTTL),
	}
	m.syncState()
	return m
}

// SetProgram sets the tea.Program reference and routes browser reports to it
func (m *FileBrowserModel) SetProgram(p *tea.Program) {
	m.program = p
	m.opts.Reporter.Attach(p)
}

// Init implements the bubbletea.Model interface
func (m *FileBrowserModel) Init() tea.Cmd {
	return tea.Batch(m.pollDevices(), m.spinner.Tick, m.sweepStatus())
}

// Message types for tea.Cmd communication
type pollTickMsg struct{}

type deviceObservedMsg struct {
	device adb.Device
	err    error
}

type opDoneMsg struct {
	op  string
	err error
}

type commandDoneMsg struct {
	name   string
	output string
	err    error
}

type mirrorClosedMsg struct {
	err error
}

type statusSweepMsg time.Time

// Update implements the bubbletea.Model interface
func (m *FileBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); !ok {
		m.clearGraphics = ""
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.viewportHeight = max(3, msg.Height-tuiconfig.VerticalChrome)

		leftPanelWidth := int(float64(msg.Width)*tuiconfig.LeftPanelWidthRatio) - 2
		m.updateTableSize(leftPanelWidth, m.viewportHeight)

		m.helpViewport.Width = min(tuiconfig.DialogLargeWidth-10, msg.Width-10)
		m.helpViewport.Height = min(20, msg.Height-10)
		if m.opts.Logcat != nil {
			m.opts.Logcat.SetSize(msg.Width, msg.Height)
		}
		return m, nil

	case pollTickMsg:
		return m, m.pollDevices()

	case deviceObservedMsg:
		return m, tea.Batch(m.handleDevice(msg), m.schedulePoll())

	case opDoneMsg:
		m.busy = false
		if msg.err != nil {
			logrus.Warnf("%s failed: %v", msg.op, msg.err)
		}
		m.syncState()
		m.rememberPath()
		return m, nil

	case statusMsg:
		m.messageManager.Report(msg.text, msg.isError)
		return m, nil

	case spinnerMsg:
		m.loading = msg.active
		m.loadingText = msg.text
		return m, nil

	case statusSweepMsg:
		m.messageManager.Expire(time.Time(msg))
		return m, m.sweepStatus()

	case commandDoneMsg:
		if msg.err != nil {
			m.messageManager.Report(fmt.Sprintf("%s failed: %v", msg.name, msg.err), true)
			return m, nil
		}
		out := strings.TrimSpace(msg.output)
		if out == "" {
			out = "done"
		}
		m.messageManager.Report(fmt.Sprintf("%s: %s", msg.name, firstLine(out)), false)
		return m, nil

	case mirrorClosedMsg:
		m.mirroring = false
		if msg.err != nil {
			m.messageManager.Report(msg.err.Error(), true)
		} else {
			m.messageManager.Report(mirror.ClosedMessage, false)
		}
		return m, nil

	case favouriteChosenMsg:
		m.favourites = nil
		return m, m.openFavourite(msg)

	case favouritesClosedMsg:
		m.favourites = nil
		return m, nil

	case previewLoadedMsg:
		if m.preview == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd

	case previewClosedMsg:
		m.preview = nil
		m.clearGraphics = m.opts.Previewer.Clear()
		return m, nil

	case logcatClosedMsg:
		m.showLogcat = false
		return m, nil

	case logcatTickMsg:
		if m.opts.Logcat == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.opts.Logcat, cmd = m.opts.Logcat.Update(m.ctx, msg)
		return m, cmd

	case spinner.TickMsg:
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		if m.preview != nil {
			m.preview, cmd = m.preview.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

// handleKey routes a key press to whichever layer is on top
func (m *FileBrowserModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, m.quit()
	}

	switch {
	case m.showLogcat && m.opts.Logcat != nil:
		var cmd tea.Cmd
		m.opts.Logcat, cmd = m.opts.Logcat.Update(m.ctx, msg)
		return m, cmd
	case m.preview != nil:
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	case m.prompt != promptNone:
		return m.handlePrompt(msg)
	case m.confirmDelete:
		return m.handleDeleteConfirmation(msg)
	case m.favourites != nil:
		var cmd tea.Cmd
		m.favourites, cmd = m.favourites.Update(msg)
		return m, cmd
	case m.showHelp:
		if key.Matches(msg, m.keyMap.Help) || msg.String() == "esc" {
			m.showHelp = false
			return m, nil
		}
		var cmd tea.Cmd
		m.helpViewport, cmd = m.helpViewport.Update(msg)
		return m, cmd
	}

	return m.handleNavigation(msg)
}

// handleNavigation handles keys in the file list
func (m *FileBrowserModel) handleNavigation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Quit) {
		return m, m.quit()
	}
	if key.Matches(msg, m.keyMap.Help) {
		m.showHelp = true
		m.setupHelpViewport()
		return m, nil
	}

	// Device operations run one at a time
	if m.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keyMap.Up, m.keyMap.Down, m.keyMap.PageUp, m.keyMap.PageDown, m.keyMap.Home, m.keyMap.End):
		var cmd tea.Cmd
		m.fileTable, cmd = m.fileTable.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keyMap.Open):
		e, ok := m.currentEntry()
		if !ok {
			return m, nil
		}
		if !e.IsFolder() {
			m.toggle(e)
			return m, nil
		}
		return m, m.runOp("open", func(ctx context.Context) error {
			return m.browser.SelectFile(ctx, e)
		})

	case key.Matches(msg, m.keyMap.Back):
		return m, m.runOp("open", m.browser.Up)

	case key.Matches(msg, m.keyMap.Crumb):
		idx := int(msg.String()[0] - '1')
		if idx >= len(m.state.Breadcrumbs) {
			return m, nil
		}
		crumb := m.state.Breadcrumbs[idx]
		return m, m.runOp("open", func(ctx context.Context) error {
			return m.browser.OpenBreadcrumb(ctx, crumb)
		})

	case key.Matches(msg, m.keyMap.Toggle):
		if e, ok := m.currentEntry(); ok && !e.IsFolder() {
			m.toggle(e)
			m.fileTable.MoveDown(1)
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Refresh):
		return m, m.runOp("open", m.browser.Refresh)

	case key.Matches(msg, m.keyMap.Delete):
		if e, ok := m.currentEntry(); ok {
			m.confirmDelete = true
			m.deleteAll = false
			m.deleteTargets = []browser.Entry{e}
		}
		return m, nil

	case key.Matches(msg, m.keyMap.DeleteSel):
		if len(m.state.Selected) == 0 {
			m.messageManager.SetMessage("No files selected", messaging.MessageWarning)
			return m, nil
		}
		m.confirmDelete = true
		m.deleteAll = true
		m.deleteTargets = m.state.Selected
		return m, nil

	case key.Matches(msg, m.keyMap.NewFolder):
		return m, m.openPrompt(promptMkdir, "New folder name", "")

	case key.Matches(msg, m.keyMap.Upload):
		return m, m.openPrompt(promptUpload, "Local files to upload (comma separated)", "")

	case key.Matches(msg, m.keyMap.SaveTo):
		return m, m.openPrompt(promptSaveTo, "Save downloads to", m.browser.SaveDir())

	case key.Matches(msg, m.keyMap.Download):
		if len(m.state.Selected) > 0 {
			return m, m.runOp("download", func(ctx context.Context) error {
				_, err := m.browser.SaveSelected(ctx)
				return err
			})
		}
		e, ok := m.currentEntry()
		if !ok || e.IsFolder() {
			m.messageManager.SetMessage("Select one or more files to download", messaging.MessageWarning)
			return m, nil
		}
		return m, m.runOp("download", func(ctx context.Context) error {
			_, err := m.browser.SaveFiles(ctx, []browser.Entry{e})
			return err
		})

	case key.Matches(msg, m.keyMap.Media):
		return m, m.runOp("media", func(ctx context.Context) error {
			_, err := m.browser.DownloadMedia(ctx)
			return err
		})

	case key.Matches(msg, m.keyMap.Favourites):
		if m.opts.Favourites == nil {
			return m, nil
		}
		m.favourites = NewFavouritesPicker(m.opts.Favourites, favourites.File)
		return m, nil

	case key.Matches(msg, m.keyMap.Copy):
		p := m.state.CurrentPath
		if e, ok := m.currentEntry(); ok {
			p = e.FullPath
		}
		m.copy(p)
		return m, nil

	case key.Matches(msg, m.keyMap.Logcat):
		if m.opts.Logcat == nil {
			m.messageManager.SetMessage("Logcat is not available", messaging.MessageWarning)
			return m, nil
		}
		if m.state.Connected() {
			m.opts.Logcat.SetSerial(m.state.Device.Serial)
		}
		m.opts.Logcat.SetSize(m.windowWidth, m.windowHeight)
		m.showLogcat = true
		return m, nil

	case key.Matches(msg, m.keyMap.Mirror):
		return m, m.startMirror()

	case key.Matches(msg, m.keyMap.Preview, m.keyMap.Reload):
		return m, m.openPreview(key.Matches(msg, m.keyMap.Reload))
	}

	return m, nil
}

// handleDeleteConfirmation handles y/n while the delete dialog is open
func (m *FileBrowserModel) handleDeleteConfirmation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Confirm):
		targets, all := m.deleteTargets, m.deleteAll
		m.confirmDelete = false
		m.deleteTargets = nil

		if all {
			return m, m.runOp("delete", func(ctx context.Context) error {
				_, err := m.browser.DeleteSelected(ctx)
				return err
			})
		}
		return m, m.runOp("delete", func(ctx context.Context) error {
			return m.browser.DeleteFile(ctx, targets[0])
		})

	case key.Matches(msg, m.keyMap.Cancel):
		m.confirmDelete = false
		m.deleteTargets = nil
	}
	return m, nil
}

// handlePrompt feeds keys to the open text prompt
func (m *FileBrowserModel) handlePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePrompt()
		return m, nil
	case "enter":
		kind, value := m.prompt, strings.TrimSpace(m.input.Value())
		m.closePrompt()
		return m, m.submitPrompt(kind, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *FileBrowserModel) openPrompt(kind promptKind, placeholder, value string) tea.Cmd {
	m.prompt = kind
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *FileBrowserModel) closePrompt() {
	m.prompt = promptNone
	m.input.Blur()
	m.input.Reset()
}

func (m *FileBrowserModel) submitPrompt(kind promptKind, value string) tea.Cmd {
	switch kind {
	case promptMkdir:
		return m.runOp("mkdir", func(ctx context.Context) error {
			return m.browser.MakeFolder(ctx, value)
		})

	case promptUpload:
		paths := splitPaths(value)
		if len(paths) == 0 {
			return nil
		}
		return m.runOp("upload", func(ctx context.Context) error {
			return m.browser.UploadFiles(ctx, paths)
		})

	case promptSaveTo:
		if value == "" {
			m.messageManager.Report("Save location cannot be empty", true)
			return nil
		}
		dir := appconfig.ExpandHome(value)
		m.browser.SetSaveDir(dir)
		m.state.SaveDir = dir
		if m.opts.Store != nil {
			if err := m.opts.Store.SetSavePath(dir); err != nil {
				m.messageManager.Report(fmt.Sprintf("failed to remember save location: %v", err), true)
				return nil
			}
		}
		m.messageManager.Report("Files will be saved to "+dir, false)
	}
	return nil
}

// splitPaths parses the upload prompt into local paths
func splitPaths(value string) []string {
	var paths []string
	for _, p := range strings.Split(value, ",") {
		p = strings.Trim(strings.TrimSpace(p), `"'`)
		if p == "" {
			continue
		}
		paths = append(paths, filepath.Clean(appconfig.ExpandHome(p)))
	}
	return paths
}

// runOp marks the model busy and runs fn against the browser off the update loop
func (m *FileBrowserModel) runOp(op string, fn func(ctx context.Context) error) tea.Cmd {
	m.busy = true
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx)}
	}
}

// pollDevices asks the bridge which device is attached
func (m *FileBrowserModel) pollDevices() tea.Cmd {
	if m.opts.Devices == nil {
		return nil
	}
	ctx, lister, serial := m.ctx, m.opts.Devices, m.opts.Serial
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		devices, err := lister.Devices(ctx)
		if err != nil {
			return deviceObservedMsg{err: err}
		}
		dev, _ := adb.SelectDevice(devices, serial)
		return deviceObservedMsg{device: dev}
	}
}

func (m *FileBrowserModel) schedulePoll() tea.Cmd {
	return tea.Tick(m.opts.PollInterval, func(time.Time) tea.Msg { return pollTickMsg{} })
}

// handleDevice feeds a poll result to the browser. The first connection
// opens the root folder, which is a device call and runs like any operation.
func (m *FileBrowserModel) handleDevice(msg deviceObservedMsg) tea.Cmd {
	if msg.err != nil {
		if text := msg.err.Error(); text != m.pollErr {
			m.pollErr = text
			m.messageManager.Report(text, true)
		}
		return nil
	}
	m.pollErr = ""

	// Retried on the next tick
	if m.busy {
		return nil
	}

	if m.state.OpenState == browser.NotYetOpened && msg.device.Status() == adb.StatusConnected {
		dev := msg.device
		return m.runOp("open", func(ctx context.Context) error {
			return m.browser.ObserveConnection(ctx, dev)
		})
	}

	if err := m.browser.ObserveConnection(m.ctx, msg.device); err != nil {
		logrus.Warnf("observe connection: %v", err)
	}
	m.syncState()
	return nil
}

func (m *FileBrowserModel) sweepStatus() tea.Cmd {
	return tea.Tick(tuiconfig.StatusSweepEvery, func(t time.Time) tea.Msg { return statusSweepMsg(t) })
}

// openFavourite acts on a picked favourite by kind
func (m *FileBrowserModel) openFavourite(msg favouriteChosenMsg) tea.Cmd {
	switch msg.kind {
	case favourites.File:
		if m.busy {
			return nil
		}
		uri := msg.fav.URI
		return m.runOp("open", func(ctx context.Context) error {
			return m.browser.Open(ctx, uri)
		})

	case favourites.Command:
		if m.opts.Commands == nil {
			return nil
		}
		args := favourites.CommandArgs(msg.fav.URI)
		if len(args) == 0 {
			return nil
		}
		ctx, runner, name := m.ctx, m.opts.Commands, msg.fav.Name
		return func() tea.Msg {
			out, err := runner.Run(ctx, args...)
			return commandDoneMsg{name: name, output: out, err: err}
		}

	default:
		m.copy(msg.fav.URI)
		return nil
	}
}

func (m *FileBrowserModel) startMirror() tea.Cmd {
	if m.opts.Mirror == nil {
		m.messageManager.SetMessage("Screen mirroring is not configured", messaging.MessageWarning)
		return nil
	}
	if m.mirroring {
		return nil
	}
	if !m.state.Connected() {
		m.messageManager.Report(browser.ErrNotConnected.Error(), true)
		return nil
	}

	m.mirroring = true
	m.messageManager.SetMessage("Stream starting...", messaging.MessageInfo)
	ctx, launcher, serial := m.ctx, m.opts.Mirror, m.state.Device.Serial
	return func() tea.Msg {
		return mirrorClosedMsg{err: launcher.Run(ctx, serial)}
	}
}

// openPreview shows the photo under the cursor
func (m *FileBrowserModel) openPreview(force bool) tea.Cmd {
	if m.opts.Previewer == nil {
		m.messageManager.SetMessage("Photo preview is not available", messaging.MessageWarning)
		return nil
	}
	e, ok := m.currentEntry()
	if !ok || e.Kind != browser.KindPhoto || !img.IsPreviewable(e.Name) {
		m.messageManager.SetMessage("Select a photo to preview", messaging.MessageWarning)
		return nil
	}
	if !m.state.Connected() {
		m.messageManager.Report(browser.ErrNotConnected.Error(), true)
		return nil
	}

	m.preview = NewImagePreviewModel(m.opts.Previewer, m.state.Device.Serial, e, m.windowWidth, m.windowHeight, force)
	return m.preview.Init(m.ctx)
}

func (m *FileBrowserModel) copy(p string) {
	if err := copyToClipboard(p); err != nil {
		m.messageManager.Report(fmt.Sprintf("failed to copy: %v", err), true)
		return
	}
	m.messageManager.Report("Copied "+p, false)
}

func (m *FileBrowserModel) toggle(e browser.Entry) {
	m.browser.ToggleSelection(e)
	m.syncState()
}

func (m *FileBrowserModel) quit() tea.Cmd {
	if m.opts.Logcat != nil && m.opts.Logcat.Running() {
		m.opts.Logcat.Stop()
	}
	m.cancel()
	return tea.Quit
}

// currentEntry returns the entry under the table cursor
func (m *FileBrowserModel) currentEntry() (browser.Entry, bool) {
	i := m.fileTable.Cursor()
	if i < 0 || i >= len(m.state.Entries) {
		return browser.Entry{}, false
	}
	return m.state.Entries[i], true
}

// syncState pulls a fresh snapshot from the browser and redraws the table
func (m *FileBrowserModel) syncState() {
	m.state = m.browser.State()
	m.updateTable()

	if m.state.CurrentPath != m.lastPath {
		m.fileTable.SetCursor(0)
	} else if c := m.fileTable.Cursor(); c >= len(m.state.Entries) && len(m.state.Entries) > 0 {
		m.fileTable.SetCursor(len(m.state.Entries) - 1)
	}
}

// rememberPath persists the directory after a navigation
func (m *FileBrowserModel) rememberPath() {
	if m.state.CurrentPath == m.lastPath {
		return
	}
	m.lastPath = m.state.CurrentPath
	if m.opts.Store == nil || m.lastPath == "" {
		return
	}
	if err := m.opts.Store.SetLastPath(m.lastPath); err != nil {
		logrus.Warnf("failed to remember last path: %v", err)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Run starts the interactive browser and blocks until it exits
func Run(model *FileBrowserModel) error {
	program := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Set program reference in model for direct messaging
	model.SetProgram(program)

	_, err := program.Run()
	return err
}
