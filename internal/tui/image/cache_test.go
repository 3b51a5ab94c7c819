package image

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBytes(n int) func(string) error {
	return func(dest string) error {
		return os.WriteFile(dest, make([]byte, n), 0644)
	}
}

func TestNewCacheManager(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "preview")

	cm, err := NewCacheManager(dir, 0)
	require.NoError(t, err)

	assert.Equal(t, DefaultCacheSize, cm.maxSize)
	assert.NotNil(t, cm.index)
	_, err = os.Stat(dir)
	assert.NoError(t, err)
}

func TestCacheManager_FillAndGet(t *testing.T) {
	cm, err := NewCacheManager(t.TempDir(), 1024)
	require.NoError(t, err)

	key := CacheKey("abc", "/sdcard/Oculus/Screenshots/shot.jpg", 10, time.Unix(100, 0))
	path, err := cm.Fill(key, ".jpg", writeBytes(10))
	require.NoError(t, err)
	assert.Equal(t, ".jpg", filepath.Ext(path))

	got, hit := cm.Get(key)
	assert.True(t, hit)
	assert.Equal(t, path, got)

	_, hit = cm.Get("missing")
	assert.False(t, hit)
}

func TestCacheManager_FailedFillLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	cm, err := NewCacheManager(dir, 1024)
	require.NoError(t, err)

	_, err = cm.Fill("k", ".png", func(dest string) error {
		require.NoError(t, os.WriteFile(dest, []byte("partial"), 0644))
		return errors.New("device gone")
	})
	require.Error(t, err)

	_, hit := cm.Get("k")
	assert.False(t, hit)
	files, _ := filepath.Glob(filepath.Join(dir, "*.png"))
	assert.Empty(t, files)
}

func TestCacheManager_EvictsLeastRecentlyUsed(t *testing.T) {
	cm, err := NewCacheManager(t.TempDir(), 25)
	require.NoError(t, err)

	clock := time.Unix(1000, 0)
	cm.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	_, err = cm.Fill("a", ".jpg", writeBytes(10))
	require.NoError(t, err)
	_, err = cm.Fill("b", ".jpg", writeBytes(10))
	require.NoError(t, err)

	// touching a makes b the oldest
	_, hit := cm.Get("a")
	require.True(t, hit)

	_, err = cm.Fill("c", ".jpg", writeBytes(10))
	require.NoError(t, err)

	_, hit = cm.Get("b")
	assert.False(t, hit)
	_, hit = cm.Get("a")
	assert.True(t, hit)
	_, hit = cm.Get("c")
	assert.True(t, hit)

	stats := cm.Stats()
	assert.Equal(t, 2, stats.TotalFiles)
	assert.Equal(t, int64(20), stats.TotalSize)
	assert.InDelta(t, 80.0, stats.UsagePercent, 0.01)
}

func TestCacheManager_IndexSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	cm, err := NewCacheManager(dir, 1024)
	require.NoError(t, err)

	path, err := cm.Fill("k", ".gif", writeBytes(4))
	require.NoError(t, err)

	reopened, err := NewCacheManager(dir, 1024)
	require.NoError(t, err)
	got, hit := reopened.Get("k")
	assert.True(t, hit)
	assert.Equal(t, path, got)
}

func TestCacheManager_Delete(t *testing.T) {
	cm, err := NewCacheManager(t.TempDir(), 1024)
	require.NoError(t, err)

	path, err := cm.Fill("k", ".jpg", writeBytes(4))
	require.NoError(t, err)

	cm.Delete("k")
	_, hit := cm.Get("k")
	assert.False(t, hit)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestCacheKey_ChangesWithVersion(t *testing.T) {
	a := CacheKey("abc", "/sdcard/a.jpg", 10, time.Unix(1, 0))
	assert.NotEqual(t, a, CacheKey("abc", "/sdcard/a.jpg", 11, time.Unix(1, 0)))
	assert.NotEqual(t, a, CacheKey("abc", "/sdcard/a.jpg", 10, time.Unix(2, 0)))
	assert.NotEqual(t, a, CacheKey("xyz", "/sdcard/a.jpg", 10, time.Unix(1, 0)))
}
