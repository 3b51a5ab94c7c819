package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// CreateProgressTextStyle creates a style for in-flight transfer text
func CreateProgressTextStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBrightCyan)).
		Bold(true)
}

// FormatSelectionSummary describes the selection shown in the info panel
func FormatSelectionSummary(count int, totalBytes string) string {
	if count == 0 {
		return "Nothing selected"
	}
	if count == 1 {
		return fmt.Sprintf("1 file selected (%s)", totalBytes)
	}
	return fmt.Sprintf("%d files selected (%s)", count, totalBytes)
}
