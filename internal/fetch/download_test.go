package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownload_ReportsPercentages(t *testing.T) {
	payload := strings.Repeat("x", 64*1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "65536")
		w.Write([]byte(payload))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "companion.apk")
	var percents []float64

	got, err := NewClient(Options{}).Download(context.Background(), server.URL+"/files/companion.apk", dest, func(p float64) {
		percents = append(percents, p)
	})
	require.NoError(t, err)
	assert.Equal(t, dest, got)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, string(data))

	require.NotEmpty(t, percents)
	assert.Equal(t, 100.0, percents[len(percents)-1])
	for i := 1; i < len(percents); i++ {
		assert.GreaterOrEqual(t, percents[i], percents[i-1])
	}
}

func TestDownload_UnknownLengthSkipsProgress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("part one "))
		w.(http.Flusher).Flush()
		w.Write([]byte("part two"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "out.txt")
	called := false

	_, err := Download(context.Background(), server.URL, dest, func(float64) { called = true })
	require.NoError(t, err)
	assert.False(t, called)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "part one part two", string(data))
}

func TestDownload_DefaultDestination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("apk"))
	}))
	defer server.Close()

	dir := t.TempDir()
	chdir(t, dir)

	got, err := Download(context.Background(), server.URL+"/releases/app-release.apk?token=1", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "app-release.apk", got)
	assert.FileExists(t, filepath.Join(dir, "app-release.apk"))
}

func TestDownload_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "slow.bin")
	_, err := NewClient(Options{Timeout: 50 * time.Millisecond}).Download(context.Background(), server.URL, dest, nil)

	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, "request timeout after 60s", err.Error())
	assert.NoFileExists(t, dest)
}

func TestDownload_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "missing.apk")
	_, err := Download(context.Background(), server.URL+"/missing.apk", dest, nil)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTimeout)
	assert.Contains(t, err.Error(), "404")
	assert.NoFileExists(t, dest)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 33.33, Percent(1, 3))
	assert.Equal(t, 100.0, Percent(3, 3))
	assert.Equal(t, 0.0, Percent(5, 0))
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
