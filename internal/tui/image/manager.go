package image

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/hsq-cli/internal/adb"
)

// Puller copies a remote file to the local disk
type Puller interface {
	Pull(ctx context.Context, serial, remotePath, localPath string, progress adb.ProgressFunc) error
}

// FileItem describes the remote photo to preview
type FileItem struct {
	Serial  string
	Path    string
	Size    int64
	ModTime time.Time
}

// ImageManager pulls photos from the device into the cache and renders them
type ImageManager struct {
	cache    *CacheManager
	renderer Renderer
	puller   Puller

	previewCount   atomic.Int64
	cacheHitCount  atomic.Int64
	cacheMissCount atomic.Int64
}

// ImageManagerStats counts previews served
type ImageManagerStats struct {
	Previews    int64
	CacheHits   int64
	CacheMisses int64
	Cache       CacheStats
}

// NewImageManager wires a cache, a renderer and a puller
func NewImageManager(cache *CacheManager, renderer Renderer, puller Puller) *ImageManager {
	return &ImageManager{cache: cache, renderer: renderer, puller: puller}
}

// IsPreviewable reports whether the file name looks like a decodable photo
func IsPreviewable(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif":
		return true
	}
	return false
}

// Preview renders item into cols x rows cells, pulling it first unless a
// cached copy of the same version exists. force skips the cache.
func (m *ImageManager) Preview(ctx context.Context, item FileItem, cols, rows int, force bool) (*ImagePreview, error) {
	start := time.Now()
	m.previewCount.Add(1)

	if !IsPreviewable(item.Path) {
		return nil, &FormatError{Format: filepath.Ext(item.Path), FilePath: item.Path, Reason: "unsupported image format"}
	}

	key := CacheKey(item.Serial, item.Path, item.Size, item.ModTime)
	if force {
		m.cache.Delete(key)
	}

	localPath, hit := m.cache.Get(key)
	if hit {
		m.cacheHitCount.Add(1)
	} else {
		m.cacheMissCount.Add(1)
		var err error
		localPath, err = m.cache.Fill(key, strings.ToLower(filepath.Ext(item.Path)), func(dest string) error {
			return m.puller.Pull(ctx, item.Serial, item.Path, dest, nil)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to pull %s: %w", item.Path, err)
		}
	}

	preview, err := m.renderer.Render(localPath, cols, rows)
	if err != nil {
		return nil, err
	}
	preview.RemotePath = item.Path
	preview.CacheHit = hit
	preview.LoadTime = time.Since(start)

	logrus.WithFields(logrus.Fields{
		"path":      item.Path,
		"cache_hit": hit,
		"force":     force,
		"load_ms":   preview.LoadTime.Milliseconds(),
	}).Info("image preview generated")

	return preview, nil
}

// Clear returns the sequence that removes the rendered image
func (m *ImageManager) Clear() string {
	return m.renderer.Clear()
}

// Stats reports preview counters
func (m *ImageManager) Stats() ImageManagerStats {
	return ImageManagerStats{
		Previews:    m.previewCount.Load(),
		CacheHits:   m.cacheHitCount.Load(),
		CacheMisses: m.cacheMissCount.Load(),
		Cache:       m.cache.Stats(),
	}
}
