package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// CreateUnifiedPanelStyle creates a consistent panel style
func CreateUnifiedPanelStyle(width, height int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Border(BorderStyleUnified).
		BorderForeground(lipgloss.Color(ColorBrightBlue)).
		Padding(0, 1).
		Foreground(lipgloss.Color(ColorWhite))
}

// CreateSectionHeaderStyle creates a consistent section header style
func CreateSectionHeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorBrightCyan)).
		MarginBottom(1)
}

// CreateInfoTextStyle creates a consistent info text style
func CreateInfoTextStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWhite))
}

// CreateSecondaryTextStyle creates a consistent secondary text style
func CreateSecondaryTextStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBrightBlack)).
		Italic(true)
}

// CreateDialogStyle creates a consistent dialog style
func CreateDialogStyle(width int, borderColor string) lipgloss.Style {
	if borderColor == "" {
		borderColor = ColorBrightBlue
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Padding(1, 2).
		Width(width).
		Foreground(lipgloss.Color(ColorWhite))
}

// CreateHeaderStyle creates a consistent header style
func CreateHeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorBrightCyan)).
		MarginLeft(1)
}

// CreateBreadcrumbStyle styles one breadcrumb segment
func CreateBreadcrumbStyle(current bool) lipgloss.Style {
	if current {
		return lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorBrightYellow))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBrightBlack))
}

// CreateFooterStyle creates a consistent footer style
func CreateFooterStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBrightBlack)).
		MarginLeft(1)
}

// CreateLoadingStyle creates a consistent loading state style
func CreateLoadingStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBrightYellow))
}

// CreateErrorStyle creates a consistent error style
func CreateErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBrightRed))
}

// CreateDeviceStyle colors the device badge by connection state
func CreateDeviceStyle(connected bool) lipgloss.Style {
	color := ColorBrightRed
	if connected {
		color = ColorBrightGreen
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
}
