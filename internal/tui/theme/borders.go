package theme

import "github.com/charmbracelet/lipgloss"

// BorderStyleUnified is the square border shared by the browser panels
var BorderStyleUnified = lipgloss.Border{
	Top:         "─",
	Bottom:      "─",
	Left:        "│",
	Right:       "│",
	TopLeft:     "┌",
	TopRight:    "┐",
	BottomLeft:  "└",
	BottomRight: "┘",
}

// BreadcrumbSeparator separates breadcrumb segments in the header
const BreadcrumbSeparator = " › "
