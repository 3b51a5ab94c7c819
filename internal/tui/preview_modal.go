package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/HaiFongPan/hsq-cli/internal/browser"
	img "github.com/HaiFongPan/hsq-cli/internal/tui/image"
	"github.com/HaiFongPan/hsq-cli/internal/tui/theme"
)

// Previewer pulls and renders a photo from the device
type Previewer interface {
	Preview(ctx context.Context, item img.FileItem, cols, rows int, force bool) (*img.ImagePreview, error)
	Clear() string
}

// previewHeaderRows is the title, status, hint and separator lines above the image
const previewHeaderRows = 5

// ImagePreviewModel is a fullscreen modal showing one photo
type ImagePreviewModel struct {
	width   int
	height  int
	entry   browser.Entry
	serial  string
	force   bool
	manager Previewer

	loading bool
	preview *img.ImagePreview
	err     error
	spin    spinner.Model
}

type (
	previewLoadedMsg struct {
		path    string
		preview *img.ImagePreview
		err     error
	}
	previewClosedMsg struct{}
)

// NewImagePreviewModel prepares a preview of entry; Init starts the pull
func NewImagePreviewModel(manager Previewer, serial string, entry browser.Entry, width, height int, force bool) *ImagePreviewModel {
	s := spinner.New()
	s.Spinner = spinner.Line
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorBrightYellow))

	return &ImagePreviewModel{
		width:   width,
		height:  height,
		entry:   entry,
		serial:  serial,
		force:   force,
		manager: manager,
		loading: true,
		spin:    s,
	}
}

// Init pulls and renders the photo off the update loop
func (m *ImagePreviewModel) Init(ctx context.Context) tea.Cmd {
	cols := max(1, m.width-4)
	rows := max(1, m.height-previewHeaderRows-2)
	item := img.FileItem{
		Serial:  m.serial,
		Path:    m.entry.FullPath,
		Size:    m.entry.Size,
		ModTime: m.entry.ModTime,
	}
	manager, force, path := m.manager, m.force, m.entry.FullPath

	load := func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		p, err := manager.Preview(ctx, item, cols, rows, force)
		return previewLoadedMsg{path: path, preview: p, err: err}
	}
	return tea.Batch(load, m.spin.Tick)
}

// Update handles the load result and the close keys
func (m *ImagePreviewModel) Update(msg tea.Msg) (*ImagePreviewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case previewLoadedMsg:
		if msg.path != m.entry.FullPath {
			return m, nil
		}
		m.loading = false
		m.preview, m.err = msg.preview, msg.err
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "p", "P":
			return m, func() tea.Msg { return previewClosedMsg{} }
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View renders the header lines and places the image below them
func (m *ImagePreviewModel) View() string {
	center := lipgloss.NewStyle().Width(m.width).Align(lipgloss.Center)

	nameLine := center.Bold(true).
		Foreground(lipgloss.Color(theme.ColorBrightCyan)).
		Render("🖼 " + m.entry.Name)

	var status string
	switch {
	case m.loading:
		status = theme.CreateLoadingStyle().Render(fmt.Sprintf("%s Loading image preview…", m.spin.View()))
	case m.err != nil:
		status = theme.CreateErrorStyle().Render(fmt.Sprintf("Failed to render: %v", m.err))
	case m.preview != nil:
		status = fmt.Sprintf("%dx%d  •  %s", m.preview.OriginalSize.Width, m.preview.OriginalSize.Height,
			humanize.IBytes(uint64(m.entry.Size)))
	}

	hint := center.Foreground(lipgloss.Color(theme.ColorBrightBlack)).
		Render("q/esc/p to close • P reloads from the headset")

	var source string
	if m.preview != nil && m.err == nil {
		if m.preview.CacheHit {
			source = "⚡ Served from cache"
		} else {
			source = "📡 Pulled from headset"
		}
	}

	var b strings.Builder
	b.WriteString(nameLine + "\n")
	b.WriteString(center.Render(status) + "\n")
	b.WriteString(hint + "\n")
	b.WriteString(center.Foreground(lipgloss.Color(theme.ColorBrightBlack)).Render(source) + "\n")

	if m.preview == nil || m.err != nil || m.preview.RenderedData == "" {
		return b.String()
	}

	b.WriteString(center.Foreground(lipgloss.Color(theme.ColorBrightBlue)).
		Render("─────────────────── 🖼 ───────────────────") + "\n")

	col := 1 + max(0, m.width-m.preview.RenderCols)/2
	for i, line := range strings.Split(strings.TrimSuffix(m.preview.RenderedData, "\n"), "\n") {
		fmt.Fprintf(&b, "\x1b[%d;%dH%s", previewHeaderRows+1+i, col, line)
	}
	b.WriteString("\x1b[0m")
	return b.String()
}
