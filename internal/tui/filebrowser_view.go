package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/HaiFongPan/hsq-cli/internal/browser"
	tuiconfig "github.com/HaiFongPan/hsq-cli/internal/tui/config"
	"github.com/HaiFongPan/hsq-cli/internal/tui/theme"
)

// View implements the bubbletea.Model interface
func (m *FileBrowserModel) View() string {
	if m.showLogcat && m.opts.Logcat != nil {
		return m.clearGraphics + m.opts.Logcat.View()
	}
	if m.preview != nil {
		return m.preview.View()
	}

	base := m.clearGraphics + m.renderBase()

	switch {
	case m.prompt != promptNone:
		return m.renderFloatingDialog(base, m.renderPrompt())
	case m.confirmDelete:
		return m.renderFloatingDialog(base, m.renderDeleteConfirmation())
	case m.favourites != nil:
		return m.renderFloatingDialog(base, m.favourites.View())
	case m.showHelp:
		return m.renderFloatingDialog(base, m.renderHelpDialog())
	}
	return base
}

func (m *FileBrowserModel) renderBase() string {
	leftWidth := int(float64(m.windowWidth)*tuiconfig.LeftPanelWidthRatio) - 2
	rightWidth := m.windowWidth - leftWidth - 6

	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderLeftPanel(leftWidth),
		m.renderRightPanel(rightWidth),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderBreadcrumbs(),
		panels,
		m.renderFooter(),
	)
}

// renderHeader shows the app title and the device badge
func (m *FileBrowserModel) renderHeader() string {
	var device string
	switch {
	case m.state.Connected():
		model := m.state.Device.DisplayModel()
		if model == "" {
			model = "headset"
		}
		device = theme.CreateDeviceStyle(true).Render(fmt.Sprintf("● %s (%s)", model, m.state.Device.Serial))
	case m.state.Device.Serial != "":
		device = theme.CreateDeviceStyle(false).Render(fmt.Sprintf("○ %s %s", m.state.Device.Serial, m.state.Device.Status()))
	default:
		device = theme.CreateDeviceStyle(false).Render("○ no device")
	}

	return theme.CreateHeaderStyle().Render("🥽 hsq-cli  ") + device
}

// renderBreadcrumbs shows the current path as numbered segments
func (m *FileBrowserModel) renderBreadcrumbs() string {
	if m.state.CurrentPath == "" {
		return theme.CreateFooterStyle().Render("Waiting for a device...")
	}

	parts := []string{theme.CreateBreadcrumbStyle(len(m.state.Breadcrumbs) == 0).Render("/")}
	for i, c := range m.state.Breadcrumbs {
		current := i == len(m.state.Breadcrumbs)-1
		label := c.Name
		if i < 9 {
			label = fmt.Sprintf("%d:%s", i+1, c.Name)
		}
		parts = append(parts, theme.CreateBreadcrumbStyle(current).Render(label))
	}
	return " " + strings.Join(parts, theme.BreadcrumbSeparator)
}

func (m *FileBrowserModel) renderLeftPanel(width int) string {
	var b strings.Builder

	switch {
	case !m.state.Connected() && len(m.state.Entries) == 0:
		b.WriteString(theme.CreateSecondaryTextStyle().Render("Connect a headset with USB debugging enabled"))
	case len(m.state.Entries) == 0 && !m.loading:
		b.WriteString(theme.CreateSecondaryTextStyle().Render("This folder is empty"))
	default:
		b.WriteString(m.fileTable.View())
	}
	b.WriteString("\n")
	b.WriteString(theme.CreateSecondaryTextStyle().Render(fmt.Sprintf("Total: %d items", len(m.state.Entries))))

	return theme.CreateUnifiedPanelStyle(width, m.viewportHeight+2).Render(b.String())
}

// renderRightPanel shows details of the entry under the cursor and the selection
func (m *FileBrowserModel) renderRightPanel(width int) string {
	var b strings.Builder

	b.WriteString(theme.CreateSectionHeaderStyle().Render("File Information"))
	b.WriteString("\n")

	info := theme.CreateInfoTextStyle()
	if e, ok := m.currentEntry(); ok {
		kind := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.GetKindColor(e.Kind.String())))

		b.WriteString(info.Render("Name: " + e.Name))
		b.WriteString("\n")
		b.WriteString(kind.Render(fmt.Sprintf("%s Type: %s", theme.GetKindIcon(e.Kind.String()), e.Kind)))
		b.WriteString("\n")
		if !e.IsFolder() {
			b.WriteString(info.Render(fmt.Sprintf("Size: %s (%.2f MB)", humanize.IBytes(uint64(e.Size)), e.SizeMiB)))
			b.WriteString("\n")
		}
		if !e.ModTime.IsZero() {
			b.WriteString(info.Render(fmt.Sprintf("Modified: %s (%s)", e.ModTime.Format("2006-01-02 15:04"), humanize.Time(e.ModTime))))
			b.WriteString("\n")
		}
		b.WriteString(theme.CreateSecondaryTextStyle().Render(e.FullPath))
		b.WriteString("\n\n")
	} else {
		b.WriteString(theme.CreateSecondaryTextStyle().Render("Select a file to view details"))
		b.WriteString("\n\n")
	}

	var total int64
	for _, e := range m.state.Selected {
		total += e.Size
	}
	b.WriteString(theme.CreateSectionHeaderStyle().Render("Selection"))
	b.WriteString("\n")
	b.WriteString(info.Render(theme.FormatSelectionSummary(len(m.state.Selected), humanize.IBytes(uint64(total)))))
	b.WriteString("\n\n")

	b.WriteString(theme.CreateSectionHeaderStyle().Render("Save to"))
	b.WriteString("\n")
	b.WriteString(info.Render(m.state.SaveDir))

	return theme.CreateUnifiedPanelStyle(width, m.viewportHeight+2).Render(b.String())
}

// renderFooter shows progress, the latest status and the short help
func (m *FileBrowserModel) renderFooter() string {
	var lines []string

	if m.loading {
		text := m.loadingText
		if text == "" {
			text = "Working..."
		}
		lines = append(lines, " "+m.spinner.View()+" "+theme.CreateProgressTextStyle().Render(text))
	} else if m.messageManager.HasMessage() {
		lines = append(lines, " "+m.messageManager.RenderMessage())
	} else {
		lines = append(lines, "")
	}

	lines = append(lines, theme.CreateFooterStyle().Render(m.help.ShortHelpView(m.keyMap.ShortHelp())))
	return strings.Join(lines, "\n")
}

// renderFloatingDialog renders a dialog centered over the screen
func (m *FileBrowserModel) renderFloatingDialog(baseView, dialog string) string {
	_ = baseView

	return lipgloss.Place(
		m.windowWidth,
		m.windowHeight,
		lipgloss.Center,
		lipgloss.Center,
		dialog,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("#222222")),
	)
}

// renderDeleteConfirmation renders the delete confirmation dialog
func (m *FileBrowserModel) renderDeleteConfirmation() string {
	var target string
	if len(m.deleteTargets) == 1 {
		target = m.deleteTargets[0].FullPath
	} else {
		target = fmt.Sprintf("%d selected items", len(m.deleteTargets))
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		theme.CreateDialogButtonStyle(true).Render("y  Delete"),
		theme.CreateDialogButtonStyle(false).Render("n  Cancel"),
	)
	content := lipgloss.JoinVertical(lipgloss.Center,
		fmt.Sprintf("Delete %s?", target),
		"",
		"This action cannot be undone!",
		"",
		buttons,
	)
	return theme.CreateDialogStyle(tuiconfig.DialogDefaultWidth, theme.ColorBrightRed).
		Align(lipgloss.Center).
		Render(content)
}

// renderPrompt renders the open text prompt
func (m *FileBrowserModel) renderPrompt() string {
	var title string
	switch m.prompt {
	case promptMkdir:
		title = "📁 New Folder in " + m.state.CurrentPath
	case promptUpload:
		title = "📤 Upload to " + m.state.CurrentPath
	case promptSaveTo:
		title = "💾 Save Location"
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.CreatePromptStyle().Render(title),
		"",
		m.input.View(),
		"",
		theme.CreateSecondaryTextStyle().Render("enter to confirm • esc to cancel"),
	)
	return theme.CreateDialogStyle(tuiconfig.PromptWidth, theme.ColorBrightYellow).Render(content)
}

// setupHelpViewport fills the help viewport with the full key list
func (m *FileBrowserModel) setupHelpViewport() {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFEB3B")).
		MarginBottom(1).
		Render("🥽 Headset File Browser - Help")

	m.help.ShowAll = true
	content := lipgloss.JoinVertical(lipgloss.Left, title, m.help.FullHelpView(m.keyMap.FullHelp()))
	m.help.ShowAll = false

	m.helpViewport.SetContent(content)
	m.helpViewport.GotoTop()
}

// renderHelpDialog renders the help dialog
func (m *FileBrowserModel) renderHelpDialog() string {
	instructions := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#808080")).
		Italic(true).
		MarginTop(1).
		Render("Press ? or esc to close help • Use ↑↓ to scroll")

	dialog := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#FFEB3B")).
		Padding(1).
		Width(min(tuiconfig.DialogLargeWidth, m.windowWidth-10)).
		Foreground(lipgloss.Color("#FFFFFF"))

	return dialog.Render(lipgloss.JoinVertical(lipgloss.Left, m.helpViewport.View(), instructions))
}

// updateTable rebuilds the table rows from the current listing
func (m *FileBrowserModel) updateTable() {
	rows := make([]table.Row, len(m.state.Entries))
	for i, e := range m.state.Entries {
		rows[i] = entryRow(e, m.state.IsSelected(e))
	}
	m.fileTable.SetRows(rows)
}

func entryRow(e browser.Entry, selected bool) table.Row {
	mark := " "
	if selected {
		mark = "●"
	}

	name := e.Name
	if e.IsFolder() {
		name += "/"
	}

	size := "-"
	if !e.IsFolder() {
		size = humanize.IBytes(uint64(e.Size))
	}

	modified := "-"
	if !e.ModTime.IsZero() {
		modified = e.ModTime.Format("01-02 15:04")
	}

	kind := strings.ToUpper(e.Kind.String())
	if len(kind) > tuiconfig.ColumnKindWidth-2 {
		kind = kind[:tuiconfig.ColumnKindWidth-2]
	}

	return table.Row{mark, theme.GetKindIcon(e.Kind.String()) + " " + name, size, kind, modified}
}

func tableColumns(nameWidth int) []table.Column {
	return []table.Column{
		{Title: "", Width: tuiconfig.ColumnMarkWidth},
		{Title: "NAME", Width: nameWidth},
		{Title: "SIZE", Width: tuiconfig.ColumnSizeWidth},
		{Title: "TYPE", Width: tuiconfig.ColumnKindWidth},
		{Title: "MODIFIED", Width: tuiconfig.ColumnModifiedWidth},
	}
}

// updateTableSize updates table dimensions and column widths
func (m *FileBrowserModel) updateTableSize(width, height int) {
	totalWidth := width - 8
	nameWidth := totalWidth - tuiconfig.ColumnMarkWidth - tuiconfig.ColumnSizeWidth -
		tuiconfig.ColumnKindWidth - tuiconfig.ColumnModifiedWidth
	nameWidth = max(tuiconfig.MinColumnNameWidth, min(tuiconfig.MaxColumnNameWidth, nameWidth))

	m.fileTable.SetColumns(tableColumns(nameWidth))
	m.fileTable.SetHeight(height)
}
