package image

import (
	"context"
	"errors"
	stdimage "image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/HaiFongPan/hsq-cli/internal/adb"
)

// MockPuller is a mock implementation of Puller
type MockPuller struct {
	mock.Mock
}

func (m *MockPuller) Pull(ctx context.Context, serial, remotePath, localPath string, progress adb.ProgressFunc) error {
	args := m.Called(ctx, serial, remotePath, localPath, progress)
	return args.Error(0)
}

// writePNG builds a w x h gradient PNG at path
func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func pullsPNG(t *testing.T, w, h int) func(mock.Arguments) {
	return func(args mock.Arguments) {
		writePNG(t, args.String(3), w, h)
	}
}

func newTestManager(t *testing.T) (*ImageManager, *MockPuller) {
	cache, err := NewCacheManager(t.TempDir(), 1<<20)
	require.NoError(t, err)
	puller := &MockPuller{}
	renderer := NewImageRendererFromEnv(func(string) string { return "" })
	return NewImageManager(cache, renderer, puller), puller
}

func TestIsPreviewable(t *testing.T) {
	assert.True(t, IsPreviewable("shot.JPG"))
	assert.True(t, IsPreviewable("/sdcard/a.png"))
	assert.True(t, IsPreviewable("anim.gif"))
	assert.False(t, IsPreviewable("clip.mp4"))
	assert.False(t, IsPreviewable("noext"))
}

func TestImageManager_PreviewPullsOnceThenHitsCache(t *testing.T) {
	m, puller := newTestManager(t)
	item := FileItem{Serial: "abc", Path: "/sdcard/Oculus/Screenshots/shot.png", Size: 2048, ModTime: time.Unix(100, 0)}

	puller.On("Pull", mock.Anything, "abc", item.Path, mock.Anything, mock.Anything).
		Run(pullsPNG(t, 64, 32)).Return(nil).Once()

	first, err := m.Preview(context.Background(), item, 20, 10, false)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.Equal(t, item.Path, first.RemotePath)
	assert.Equal(t, ImageSize{Width: 64, Height: 32}, first.OriginalSize)
	assert.Equal(t, "png", first.Format)

	second, err := m.Preview(context.Background(), item, 20, 10, false)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)

	stats := m.Stats()
	assert.Equal(t, int64(2), stats.Previews)
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Equal(t, int64(1), stats.CacheMisses)
	puller.AssertExpectations(t)
}

func TestImageManager_ForceSkipsCache(t *testing.T) {
	m, puller := newTestManager(t)
	item := FileItem{Serial: "abc", Path: "/sdcard/a.png", Size: 1, ModTime: time.Unix(1, 0)}

	puller.On("Pull", mock.Anything, "abc", item.Path, mock.Anything, mock.Anything).
		Run(pullsPNG(t, 8, 8)).Return(nil).Twice()

	_, err := m.Preview(context.Background(), item, 10, 5, false)
	require.NoError(t, err)
	p, err := m.Preview(context.Background(), item, 10, 5, true)
	require.NoError(t, err)
	assert.False(t, p.CacheHit)
	puller.AssertNumberOfCalls(t, "Pull", 2)
}

func TestImageManager_PullFailure(t *testing.T) {
	m, puller := newTestManager(t)
	item := FileItem{Serial: "abc", Path: "/sdcard/a.jpg"}

	puller.On("Pull", mock.Anything, "abc", item.Path, mock.Anything, mock.Anything).
		Return(errors.New("remote object does not exist")).Once()

	_, err := m.Preview(context.Background(), item, 10, 5, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to pull /sdcard/a.jpg")
}

func TestImageManager_RejectsNonPhotos(t *testing.T) {
	m, puller := newTestManager(t)

	_, err := m.Preview(context.Background(), FileItem{Path: "/sdcard/clip.mp4"}, 10, 5, false)
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	puller.AssertNotCalled(t, "Pull", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestImageRenderer_HalfBlocksFitCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wide.png")
	writePNG(t, path, 100, 50)

	r := NewImageRendererFromEnv(func(string) string { return "" })
	require.Equal(t, ProtocolNone, r.Protocol())

	p, err := r.Render(path, 20, 10)
	require.NoError(t, err)
	assert.Equal(t, 20, p.RenderCols)
	assert.Equal(t, 5, p.RenderRows)
	assert.Equal(t, 5, strings.Count(p.RenderedData, "\n"))
	assert.Contains(t, p.RenderedData, "▀")
	assert.Empty(t, r.Clear())
}

func TestImageRenderer_Kitty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	writePNG(t, path, 320, 160)

	r := NewImageRendererFromEnv(func(k string) string {
		if k == "KITTY_WINDOW_ID" {
			return "1"
		}
		return ""
	})

	p, err := r.Render(path, 20, 20)
	require.NoError(t, err)
	assert.Equal(t, ImageSize{Width: 160, Height: 80}, p.DisplaySize)
	assert.Equal(t, 20, p.RenderCols)
	assert.Equal(t, 5, p.RenderRows)
	assert.True(t, strings.HasPrefix(p.RenderedData, "\x1b_G"))
	assert.NotEmpty(t, r.Clear())
}

func TestImageRenderer_RejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.jpg")
	require.NoError(t, os.WriteFile(path, []byte("plain text, not a photo"), 0644))

	_, err := NewImageRendererFromEnv(func(string) string { return "" }).Render(path, 10, 10)
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Contains(t, formatErr.Format, "text/plain")
}

func TestDetectTerminal(t *testing.T) {
	env := func(vals map[string]string) func(string) string {
		return func(k string) string { return vals[k] }
	}

	tests := []struct {
		name     string
		vals     map[string]string
		terminal TerminalType
		protocol GraphicsProtocol
	}{
		{"kitty", map[string]string{"TERM": "xterm-kitty"}, TerminalKitty, ProtocolKitty},
		{"ghostty", map[string]string{"TERM_PROGRAM": "ghostty"}, TerminalGhostty, ProtocolKitty},
		{"iterm", map[string]string{"TERM_PROGRAM": "iTerm.app"}, TerminalITerm2, ProtocolITerm},
		{"wezterm", map[string]string{"TERM_PROGRAM": "WezTerm"}, TerminalWezTerm, ProtocolITerm},
		{"sixel", map[string]string{"TERM": "mlterm"}, TerminalGeneric, ProtocolSixel},
		{"plain", map[string]string{"TERM": "xterm-256color"}, TerminalGeneric, ProtocolNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, proto := DetectTerminal(env(tt.vals))
			assert.Equal(t, tt.terminal, term)
			assert.Equal(t, tt.protocol, proto)
		})
	}
}
