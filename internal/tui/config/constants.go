package config

import "time"

// Layout constants
const (
	LeftPanelWidthRatio = 0.6

	// Table columns
	ColumnMarkWidth     = 2
	ColumnSizeWidth     = 10
	ColumnKindWidth     = 8
	ColumnModifiedWidth = 12
	MinColumnNameWidth  = 20
	MaxColumnNameWidth  = 60
	DefaultTableHeight  = 20

	// Chrome around the table: header, breadcrumbs, footer and borders
	VerticalChrome = 10

	// Dialogs
	DialogDefaultWidth = 50
	DialogLargeWidth   = 70
	PromptWidth        = 60

	// Logcat viewer
	LogcatTagWidth = 18
)

// Timing
const (
	StatusTTL          = 5 * time.Second
	StatusSweepEvery   = time.Second
	LogcatRefreshEvery = 250 * time.Millisecond
)
