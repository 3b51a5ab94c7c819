package image

import (
	"fmt"
	"time"
)

// ImageSize is a width/height pair in pixels
type ImageSize struct {
	Width  int
	Height int
}

// ImagePreview is one rendered photo
type ImagePreview struct {
	RemotePath   string
	FilePath     string // local cache path
	OriginalSize ImageSize
	DisplaySize  ImageSize
	Format       string
	RenderedData string
	RenderCols   int
	RenderRows   int
	CacheHit     bool
	LoadTime     time.Duration
}

// RenderError wraps a failure of a terminal graphics protocol
type RenderError struct {
	Terminal string
	Protocol string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render error on %s terminal with %s protocol: %v", e.Terminal, e.Protocol, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// FormatError reports a file that is not a decodable photo
type FormatError struct {
	Format   string
	FilePath string
	Reason   string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format error for %s file %s: %s", e.Format, e.FilePath, e.Reason)
}

// CacheStats summarizes the preview cache
type CacheStats struct {
	TotalFiles   int
	TotalSize    int64
	MaxSize      int64
	UsagePercent float64
}
