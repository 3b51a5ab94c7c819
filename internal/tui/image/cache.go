package image

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const indexFile = ".cache_index.json"

// DefaultCacheSize bounds the preview cache
const DefaultCacheSize int64 = 100 << 20

// CacheEntry is one pulled photo
type CacheEntry struct {
	Key        string
	FilePath   string
	Size       int64
	AccessTime time.Time
	CreateTime time.Time
}

// CacheManager keeps pulled photos on disk, evicting the least recently
// used files once the total size passes maxSize.
type CacheManager struct {
	cacheDir string
	maxSize  int64
	index    map[string]*CacheEntry
	mutex    sync.Mutex
	now      func() time.Time
}

// NewCacheManager opens (or creates) the cache in cacheDir
func NewCacheManager(cacheDir string, maxSize int64) (*CacheManager, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}

	c := &CacheManager{
		cacheDir: cacheDir,
		maxSize:  maxSize,
		index:    make(map[string]*CacheEntry),
		now:      time.Now,
	}
	if err := c.loadIndex(); err != nil {
		logrus.Warnf("preview cache index unreadable, starting empty: %v", err)
	}
	return c, nil
}

// CacheKey identifies one version of a remote file
func CacheKey(serial, remotePath string, size int64, modTime time.Time) string {
	return fmt.Sprintf("%s|%s|%d|%d", serial, remotePath, size, modTime.Unix())
}

// Get returns the cached file for key
func (c *CacheManager) Get(key string) (string, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, ok := c.index[key]
	if !ok {
		return "", false
	}
	if _, err := os.Stat(entry.FilePath); err != nil {
		delete(c.index, key)
		return "", false
	}
	entry.AccessTime = c.now()
	return entry.FilePath, true
}

// Fill stores a new entry for key; fill writes the file at the given path.
// A failed fill leaves nothing behind.
func (c *CacheManager) Fill(key, ext string, fill func(dest string) error) (string, error) {
	dest := filepath.Join(c.cacheDir, fmt.Sprintf("%x%s", sha256.Sum256([]byte(key)), ext))
	if err := fill(dest); err != nil {
		os.Remove(dest)
		return "", err
	}

	stat, err := os.Stat(dest)
	if err != nil {
		return "", fmt.Errorf("cached file missing: %w", err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	c.index[key] = &CacheEntry{
		Key:        key,
		FilePath:   dest,
		Size:       stat.Size(),
		AccessTime: now,
		CreateTime: now,
	}
	c.evict(key)

	if err := c.saveIndex(); err != nil {
		logrus.Warnf("failed to save preview cache index: %v", err)
	}
	return dest, nil
}

// Delete drops key and its file
func (c *CacheManager) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if entry, ok := c.index[key]; ok {
		os.Remove(entry.FilePath)
		delete(c.index, key)
	}
}

// Stats summarizes the cache
func (c *CacheManager) Stats() CacheStats {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	total := c.totalSize()
	return CacheStats{
		TotalFiles:   len(c.index),
		TotalSize:    total,
		MaxSize:      c.maxSize,
		UsagePercent: float64(total) / float64(c.maxSize) * 100,
	}
}

// evict removes least recently used entries other than keep until the
// cache fits. Caller holds the mutex.
func (c *CacheManager) evict(keep string) {
	total := c.totalSize()
	if total <= c.maxSize {
		return
	}

	entries := make([]*CacheEntry, 0, len(c.index))
	for _, e := range c.index {
		if e.Key != keep {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].AccessTime.Before(entries[j].AccessTime)
	})

	for _, e := range entries {
		if total <= c.maxSize {
			break
		}
		if err := os.Remove(e.FilePath); err != nil && !os.IsNotExist(err) {
			continue
		}
		total -= e.Size
		delete(c.index, e.Key)
		logrus.Debugf("evicted %s from preview cache", e.Key)
	}
}

func (c *CacheManager) totalSize() int64 {
	var total int64
	for _, e := range c.index {
		total += e.Size
	}
	return total
}

func (c *CacheManager) saveIndex() error {
	data, err := json.MarshalIndent(c.index, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.cacheDir, indexFile), data, 0644)
}

func (c *CacheManager) loadIndex() error {
	data, err := os.ReadFile(filepath.Join(c.cacheDir, indexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	index := make(map[string]*CacheEntry)
	if err := json.Unmarshal(data, &index); err != nil {
		return err
	}
	for key, e := range index {
		if _, err := os.Stat(e.FilePath); err == nil {
			c.index[key] = e
		}
	}
	return nil
}
