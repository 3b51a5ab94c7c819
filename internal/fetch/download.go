package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"path"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds how long a request may wait for its response to start
const DefaultTimeout = 60 * time.Second

// ErrTimeout is returned when the server does not respond in time
var ErrTimeout = errors.New("request timeout after 60s")

// ProgressFunc receives the completed percentage with two decimals
type ProgressFunc func(percent float64)

// retryLogger routes retryablehttp logging into logrus
type retryLogger struct{}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	logrus.WithField("retry", keysAndValues).Error(msg)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	logrus.WithField("retry", keysAndValues).Debug(msg)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	logrus.WithField("retry", keysAndValues).Debug(msg)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	logrus.WithField("retry", keysAndValues).Warn(msg)
}

// Options configures a Client
type Options struct {
	RetryMax int
	Timeout  time.Duration
}

// Client downloads files over HTTP(S)
type Client struct {
	http    *retryablehttp.Client
	timeout time.Duration
}

// NewClient creates a download client
func NewClient(opts Options) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opts.RetryMax
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = &retryLogger{}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{http: retryClient, timeout: timeout}
}

// Download fetches rawURL with the default client
func Download(ctx context.Context, rawURL, dest string, progress ProgressFunc) (string, error) {
	return NewClient(Options{}).Download(ctx, rawURL, dest, progress)
}

// Download streams rawURL into dest and returns the written path. An empty
// dest means the base name of the URL path in the working directory.
// Progress is only reported when the server sends a Content-Length.
func (c *Client) Download(ctx context.Context, rawURL, dest string, progress ProgressFunc) (string, error) {
	if dest == "" {
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", fmt.Errorf("invalid url %q: %w", rawURL, err)
		}
		dest = path.Base(u.Path)
		if dest == "/" || dest == "." {
			return "", fmt.Errorf("cannot derive a file name from %q", rawURL)
		}
	}

	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var timedOut atomic.Bool
	timer := time.AfterFunc(c.timeout, func() {
		timedOut.Store(true)
		cancel()
	})

	req, err := retryablehttp.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		timer.Stop()
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if !timer.Stop() && timedOut.Load() {
		if resp != nil {
			resp.Body.Close()
		}
		return "", ErrTimeout
	}
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s failed: %s", rawURL, resp.Status)
	}

	file, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dest, err)
	}

	var body io.Reader = resp.Body
	if progress != nil && resp.ContentLength > 0 {
		body = &progressReader{reader: resp.Body, total: resp.ContentLength, progress: progress}
	}

	written, err := io.Copy(file, body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("failed to download %s: %w", rawURL, err)
	}

	logrus.Infof("downloaded %s to %s (%d bytes)", rawURL, dest, written)
	return dest, nil
}

// Percent rounds done/total to a two-decimal percentage
func Percent(done, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(10000*float64(done)/float64(total)) / 100
}

type progressReader struct {
	reader   io.Reader
	total    int64
	read     int64
	progress ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.read += int64(n)
		pr.progress(Percent(pr.read, pr.total))
	}
	return n, err
}
